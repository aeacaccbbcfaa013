// Package app 桌面观察器：用 Ebitengine 绘制一局运行中的模拟，并接受建造操作
//
// 模拟本身不依赖任何引擎，这里只负责输入、绘制和速度控制。
package app

import (
	"fmt"
	"image/color"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/sim"
	"github.com/gonewx/cryodefense/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

const (
	// ScreenWidth 逻辑屏幕宽度
	ScreenWidth = 960
	// ScreenHeight 逻辑屏幕高度
	ScreenHeight = 720

	// tickRate 模拟步长（1 倍速时每帧一步）
	tickRate = 60
)

// Config 定义观察器启动配置
type Config struct {
	// Seed 随机种子
	Seed int64
	// Bundle 数据配置，nil 时使用内置默认值
	Bundle *config.Bundle
	// Settings 观察器设置，nil 时使用默认设置且不保存
	Settings *game.SettingsManager
}

// App 实现 ebiten.Game
type App struct {
	world    *sim.World
	settings *game.SettingsManager
	deathFX  *deathFX
	camera   camera
	face     text.Face
	palette  []types.BuildingType
	logger   *zap.Logger

	held     ecs.EntityID
	selected ecs.EntityID
	paused   bool
	message  string
	msgTimer float64
	accum    float64

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建观察器和它驱动的世界
func NewApp(cfg Config) (*App, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}

	fx := newDeathFX(0.6)
	world, err := sim.NewWorld(sim.Options{Seed: cfg.Seed, Config: cfg.Bundle, DeathFX: fx})
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %w", err)
	}
	fx.complete = world.CompleteDeath

	a := &App{
		world:    world,
		settings: settings,
		deathFX:  fx,
		camera:   newCamera(world.Grid().Width, world.Grid().Height),
		face:     text.NewGoXFace(basicfont.Face7x13),
		palette:  placeablePalette(world.Config().Buildings),
		logger:   logs.Named("App"),
	}
	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}
	return a, nil
}

// Update 每帧调用一次：处理输入，按倍速推进模拟
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
	}

	a.handleInput()

	frame := 1.0 / float64(ebiten.TPS())
	if a.msgTimer > 0 {
		a.msgTimer -= frame
	}
	if a.paused || a.world.GameOver() {
		return nil
	}

	// 倍速：累积模拟时间，按固定步长推进
	a.accum += frame * a.settings.GetSettings().SimSpeed
	step := 1.0 / tickRate
	for a.accum >= step {
		a.accum -= step
		a.world.Tick(step)
		a.deathFX.Update(step)
	}
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 14, G: 18, B: 26, A: 255})
	snap := a.world.Snapshot()
	a.drawTerrain(screen)
	a.drawBuildings(screen, snap)
	a.drawAliens(screen, snap)
	a.drawHUD(screen, snap)
}

// DrawFinalScreen 全屏时填充黑边并用线性滤波缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// World 返回被观察的世界（退出时用于记录本局）
func (a *App) World() *sim.World {
	return a.world
}

// Settings 返回设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

func (a *App) flash(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
	a.msgTimer = 2.5
}
