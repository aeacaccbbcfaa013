package app

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
	"github.com/gonewx/cryodefense/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colorRock      = color.RGBA{R: 90, G: 86, B: 80, A: 255}
	colorVoid      = color.RGBA{R: 4, G: 6, B: 10, A: 255}
	colorGridLine  = color.RGBA{R: 255, G: 255, B: 255, A: 18}
	colorValid     = color.RGBA{R: 80, G: 220, B: 120, A: 140}
	colorInvalid   = color.RGBA{R: 230, G: 60, B: 60, A: 140}
	colorHealthBg  = color.RGBA{R: 40, G: 0, B: 0, A: 200}
	colorHealth    = color.RGBA{R: 90, G: 230, B: 90, A: 255}
	colorHealthLow = color.RGBA{R: 230, G: 70, B: 50, A: 255}
	colorRange     = color.RGBA{R: 120, G: 180, B: 255, A: 90}
	colorPath      = color.RGBA{R: 255, G: 200, B: 80, A: 120}
	colorText      = color.RGBA{R: 220, G: 226, B: 235, A: 255}
	colorDim       = color.RGBA{R: 140, G: 148, B: 160, A: 255}
	colorWarn      = color.RGBA{R: 255, G: 110, B: 90, A: 255}
	colorSelection = color.RGBA{R: 255, G: 255, B: 255, A: 220}
)

var buildingColors = map[types.BuildingType]color.RGBA{
	types.BuildingCryoEgg:      {R: 140, G: 220, B: 255, A: 255},
	types.BuildingDrill:        {R: 200, G: 150, B: 80, A: 255},
	types.BuildingSolarPanel:   {R: 240, G: 220, B: 90, A: 255},
	types.BuildingPump:         {R: 70, G: 140, B: 230, A: 255},
	types.BuildingGasCollector: {R: 150, G: 220, B: 150, A: 255},
	types.BuildingGunTurret:    {R: 210, G: 210, B: 220, A: 255},
	types.BuildingMortarTurret: {R: 170, G: 120, B: 200, A: 255},
	types.BuildingWall:         {R: 120, G: 120, B: 130, A: 255},
}

var alienColors = map[types.AlienType]color.RGBA{
	types.AlienCrawler: {R: 230, G: 80, B: 60, A: 255},
	types.AlienSpitter: {R: 200, G: 230, B: 60, A: 255},
	types.AlienBrute:   {R: 180, G: 40, B: 140, A: 255},
}

func (a *App) drawTerrain(screen *ebiten.Image) {
	g := a.world.Grid()
	px := float32(a.camera.cellPx)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := grid.Cell{X: x, Y: y}
			sx, sy := a.camera.cellRect(c)
			var clr color.RGBA
			switch g.Terrain(c) {
			case grid.TerrainRock:
				clr = colorRock
			case grid.TerrainVoid:
				clr = colorVoid
			default:
				h, _ := g.GroundHeight(c)
				shade := uint8(40 + 30*(h+0.5))
				clr = color.RGBA{R: shade / 2, G: shade, B: shade / 2, A: 255}
			}
			vector.DrawFilledRect(screen, float32(sx), float32(sy), px, px, clr, false)
		}
	}

	if !a.settings.GetSettings().ShowGrid || a.camera.cellPx < 4 {
		return
	}
	w := float32(float64(g.Width) * a.camera.cellPx)
	h := float32(float64(g.Height) * a.camera.cellPx)
	ox, oy := float32(a.camera.originX), float32(a.camera.originY)
	for x := 0; x <= g.Width; x++ {
		fx := ox + float32(x)*px
		vector.StrokeLine(screen, fx, oy, fx, oy+h, 1, colorGridLine, false)
	}
	for y := 0; y <= g.Height; y++ {
		fy := oy + float32(y)*px
		vector.StrokeLine(screen, ox, fy, ox+w, fy, 1, colorGridLine, false)
	}
}

func (a *App) drawBuildings(screen *ebiten.Image, snap *game.Snapshot) {
	cellSize := a.world.Grid().CellSize
	showRanges := a.settings.GetSettings().ShowRanges
	px := a.camera.cellPx

	for _, b := range snap.Buildings {
		sx, sy := a.camera.cellRect(grid.Cell{X: b.X, Y: b.Y})
		size := float32(float64(b.Footprint) * px)
		clr := buildingColors[b.Type]

		switch b.Stage {
		case components.BuildingHeld.String():
			overlay := colorValid
			if !b.Valid {
				overlay = colorInvalid
			}
			vector.DrawFilledRect(screen, float32(sx), float32(sy), size, size, overlay, false)
			continue
		case components.BuildingUnderConstruction.String():
			clr.A = 110
		}
		if !b.Operational && b.Stage == components.BuildingBuilt.String() {
			clr.R, clr.G, clr.B = clr.R/2, clr.G/2, clr.B/2
		}
		vector.DrawFilledRect(screen, float32(sx)+1, float32(sy)+1, size-2, size-2, clr, false)

		if b.MaxHealth > 0 && b.Health < b.MaxHealth {
			ratio := float32(b.Health) / float32(b.MaxHealth)
			vector.DrawFilledRect(screen, float32(sx), float32(sy)-3, size, 2, colorHealthBg, false)
			barColor := utils.LerpRGBA(colorHealthLow, colorHealth, float64(ratio))
			vector.DrawFilledRect(screen, float32(sx), float32(sy)-3, size*ratio, 2, barColor, false)
		}

		if t, ok := ecs.GetComponent[*components.TurretComponent](a.world.Entities(), ecs.EntityID(b.ID)); ok {
			cx, cy := float32(sx)+size/2, float32(sy)+size/2
			if showRanges {
				r := float32(t.Stats.Range / cellSize * px)
				vector.StrokeCircle(screen, cx, cy, r, 1, colorRange, true)
			}
			dx, dy := yawVector(b.Yaw)
			vector.StrokeLine(screen, cx, cy, cx+dx*size, cy+dy*size, 2, colorSelection, true)
		}

		if ecs.EntityID(b.ID) == a.selected {
			vector.StrokeRect(screen, float32(sx), float32(sy), size, size, 2, colorSelection, false)
		}
	}
}

func (a *App) drawAliens(screen *ebiten.Image, snap *game.Snapshot) {
	cellSize := a.world.Grid().CellSize
	em := a.world.Entities()
	radius := float32(a.camera.cellPx * 0.35)
	if radius < 2 {
		radius = 2
	}
	showPaths := a.settings.GetSettings().ShowPaths

	for _, v := range snap.Aliens {
		id := ecs.EntityID(v.ID)
		x, y := a.camera.worldToScreen(v.X, v.Y, cellSize)
		clr := alienColors[v.Type]
		if v.State == components.AlienDead.String() {
			clr.A = uint8(255 * a.deathFX.Fade(id))
		}

		if showPaths {
			if p, ok := ecs.GetComponent[*components.PathComponent](em, id); ok && !p.Done() {
				prevX, prevY := float32(x), float32(y)
				for _, c := range p.Cells[p.Next:] {
					cx, cy := a.camera.cellRect(c)
					nx, ny := float32(cx+a.camera.cellPx/2), float32(cy+a.camera.cellPx/2)
					vector.StrokeLine(screen, prevX, prevY, nx, ny, 1, colorPath, false)
					prevX, prevY = nx, ny
				}
			}
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), radius, clr, true)
	}
}

func (a *App) drawHUD(screen *ebiten.Image, snap *game.Snapshot) {
	phase := "NIGHT"
	if snap.Daytime {
		phase = "DAY"
	}
	a.print(screen, fmt.Sprintf("%s %d  wave %d  t=%.0fs  x%.2g", phase, snap.Night, snap.Wave, snap.Time,
		a.settings.GetSettings().SimSpeed), mapLeft, 8, colorText)

	var res strings.Builder
	fmt.Fprintf(&res, "ore %d   ", snap.Resources[types.ResourceOre].Stock)
	for _, kind := range types.FlowResources {
		e := snap.Resources[kind]
		fmt.Fprintf(&res, "%s %d/%d   ", kind, e.Consumption, e.Supply)
	}
	a.print(screen, res.String(), mapLeft, 26, colorDim)

	x := float64(ScreenWidth - sideWidth)
	y := float64(mapTop)
	a.print(screen, "BUILD", x, y, colorText)
	for i, bt := range a.palette {
		y += 16
		stats, _ := a.world.Config().Buildings.Get(bt)
		a.print(screen, fmt.Sprintf("%d %-14s %3d", i+1, bt, stats.Cost[types.ResourceOre]), x, y, colorDim)
	}

	y += 32
	st := snap.Stats
	a.print(screen, fmt.Sprintf("spawned %d\nkilled  %d\ncleared %d\nbuilt   %d\nlost    %d",
		st.AliensSpawned, st.AliensKilled, st.WavesCleared, st.Built, st.Destroyed), x, y, colorDim)

	if a.selected != 0 {
		for _, b := range snap.Buildings {
			if ecs.EntityID(b.ID) != a.selected {
				continue
			}
			a.print(screen, fmt.Sprintf("#%d %s\n%s  %d/%d hp\nX demolish  C toggle", b.ID, b.Type, b.Stage,
				b.Health, b.MaxHealth), x, y+100, colorText)
		}
	}

	a.print(screen, "1-9 build  LMB place  RMB cancel  SPACE pause  +/- speed  G/P/R overlays",
		mapLeft, ScreenHeight-14, colorDim)

	if a.msgTimer > 0 {
		a.print(screen, a.message, mapLeft, 42, colorWarn)
	}
	if a.paused {
		a.print(screen, "PAUSED", float64(ScreenWidth-sideWidth), 8, colorWarn)
	}
	if snap.GameOver {
		a.print(screen, fmt.Sprintf("THE CRYO EGG IS LOST  (night %d)", snap.Night),
			float64(ScreenWidth/2-160), float64(ScreenHeight/2), colorWarn)
	}
}

// yawVector 朝向（度）对应的屏幕方向单位向量
func yawVector(yaw float64) (dx, dy float32) {
	rad := yaw * math.Pi / 180
	return float32(math.Cos(rad)), float32(math.Sin(rad))
}

func (a *App) print(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = 15
	text.Draw(screen, s, a.face, op)
}
