package sim

import (
	"fmt"
	"time"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/entities"
	"github.com/gonewx/cryodefense/pkg/event"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/systems"
	"github.com/gonewx/cryodefense/pkg/types"
	"go.uber.org/zap"
)

// Options 创建世界的参数
type Options struct {
	// Seed 随机种子，相同种子和相同输入得到相同的模拟
	Seed int64
	// Config 数据配置，nil 时加载内置默认值
	Config *config.Bundle
	// DeathFX 死亡特效监听者，nil 时外星生物死亡立即回收
	DeathFX systems.DeathFXListener
	// Clock 分帧预算使用的时钟，nil 时为 time.Now
	Clock func() time.Time
}

// World 一局模拟的全部状态
//
// 所有系统通过构造函数注入依赖，World 是唯一的所有者。
// World 不是并发安全的，调用方需要保证只有一个 goroutine 访问它。
type World struct {
	cfg    *config.Bundle
	em     *ecs.EntityManager
	bus    *event.Bus
	grid   *grid.Grid
	ledger *game.ResourceLedger
	rng    *game.RNG
	logger *zap.Logger

	pool       *entities.AlienPool
	selector   *systems.SpawnPointSelector
	placer     *systems.EnemyPlacer
	queue      *systems.WorkQueue
	dayNight   *systems.DayNightSystem
	director   *systems.WaveDirector
	visibility *systems.VisibilitySystem
	damage     *systems.DamageSystem
	behavior   *systems.AlienBehaviorSystem
	turrets    *systems.TurretSystem
	buildings  *systems.BuildingSystem

	egg      ecs.EntityID
	started  bool
	gameOver bool
	tick     uint64
	time     float64
	stats    game.RunStats
}

// NewWorld 生成地形、放置冷冻蛋并组装所有系统
func NewWorld(opts Options) (*World, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.LoadDefaults(); err != nil {
			return nil, fmt.Errorf("failed to load default configs: %w", err)
		}
	}
	eggStats, ok := cfg.Buildings.Get(types.BuildingCryoEgg)
	if !ok {
		return nil, fmt.Errorf("building %q missing from config: %w", types.BuildingCryoEgg, game.ErrUnknownBuilding)
	}

	m := cfg.Sim.Map
	w := &World{
		cfg:    cfg,
		em:     ecs.NewEntityManager(),
		bus:    event.NewBus(),
		grid:   grid.NewGrid(m.Width, m.Height, m.CellSize),
		ledger: game.NewResourceLedger(cfg.Sim.Economy.StartingOre),
		rng:    game.NewRNG(opts.Seed),
		logger: logs.Named("World"),
	}

	eggCell := grid.Cell{X: m.EggCell.X, Y: m.EggCell.Y}
	center := eggCell.Add(grid.Cell{X: eggStats.Footprint / 2, Y: eggStats.Footprint / 2})
	clear := eggStats.Footprint + 2
	w.grid.Generate(w.rng.Stream("terrain"), m.ObstacleDensity, m.VoidDensity, func(c grid.Cell) bool {
		return c.Chebyshev(center) <= clear
	})

	w.pool = entities.NewAlienPool(w.em, cfg.Aliens)
	w.selector = systems.NewSpawnPointSelector(
		systems.SpawnPointsInRing(w.grid, center, m.SpawnRingInner, m.SpawnRingOuter), cfg.Sim.Spawn)
	if w.selector.Total() == 0 {
		return nil, fmt.Errorf("no spawn points in ring [%v, %v] around %v", m.SpawnRingInner, m.SpawnRingOuter, center)
	}
	w.placer = systems.NewEnemyPlacer(w.grid, w.pool, cfg.Aliens, w.selector)
	w.queue = systems.NewWorkQueue(placerBudget(cfg.Sim.Placer))
	if opts.Clock != nil {
		w.queue.SetClock(opts.Clock)
	}

	w.damage = systems.NewDamageSystem(w.em, w.bus, w.pool)
	w.damage.SetDeathFXListener(opts.DeathFX)
	w.buildings = systems.NewBuildingSystem(w.em, w.bus, w.grid, w.ledger, cfg.Buildings, cfg.Sim.Economy.RefundRatio)
	w.visibility = systems.NewVisibilitySystem(w.em, w.bus, m.CellSize)
	w.dayNight = systems.NewDayNightSystem(w.bus, cfg.Sim.DayNight)
	w.director = systems.NewWaveDirector(w.em, w.bus, w.queue, w.selector, w.placer, cfg.Aliens,
		cfg.Sim.Waves, w.rng.Stream("waves"))
	w.director.OnSpawn(func(ecs.EntityID, types.AlienType) { w.stats.AliensSpawned++ })
	w.behavior = systems.NewAlienBehaviorSystem(w.em, w.grid, w.visibility, w.damage, w.Egg)
	w.turrets = systems.NewTurretSystem(w.em, w.grid, w.visibility, w.damage, w.ledger)

	egg, err := entities.NewCryoEggEntity(w.em, eggStats, eggCell, m.CellSize)
	if err != nil {
		return nil, err
	}
	if err := w.buildings.Install(egg); err != nil {
		return nil, err
	}
	w.egg = egg

	w.subscribe()
	w.logger.Info("world created",
		zap.Int64("seed", opts.Seed), zap.Int("width", m.Width), zap.Int("height", m.Height),
		zap.Int("spawnPoints", w.selector.Total()))
	return w, nil
}

// placerBudget 把配置的毫秒预算换成 WorkQueue 预算
func placerBudget(p config.PlacerConfig) systems.Budget {
	return systems.Budget{
		MaxSteps:    p.MaxStepsPerTick,
		MaxDuration: time.Duration(p.FrameBudgetMs * float64(time.Millisecond)),
	}
}

func (w *World) subscribe() {
	event.Subscribe(w.bus, func(event.AlienDied) { w.stats.AliensKilled++ })
	event.Subscribe(w.bus, func(event.WaveCleared) { w.stats.WavesCleared++ })
	event.Subscribe(w.bus, func(event.WaveStarved) { w.stats.WavesStarved++ })
	event.Subscribe(w.bus, func(event.BuildingCompleted) { w.stats.Built++ })
	event.Subscribe(w.bus, func(e event.BuildingRemoved) {
		if !e.Demolished {
			w.stats.Destroyed++
		}
		if e.ID == w.egg && !w.gameOver {
			w.gameOver = true
			w.logger.Warn("cryo egg destroyed",
				zap.Int("night", w.director.Night()), zap.Int("wave", w.director.WaveIndex()),
				zap.Float64("time", w.time))
			event.Publish(w.bus, event.GameOver{Night: w.director.Night(), Wave: w.director.WaveIndex()})
		}
	})
}

// Tick 按固定顺序推进一步模拟
func (w *World) Tick(dt float64) {
	if w.gameOver {
		return
	}
	if !w.started {
		w.started = true
		w.dayNight.Start()
	}
	w.tick++
	w.time += dt

	w.dayNight.Update(dt)
	w.director.Update(dt)
	w.queue.Run()
	w.visibility.Update()
	w.behavior.Update(dt, w.time)
	w.turrets.Update(dt)
	w.buildings.Update(dt)
	w.em.RemoveMarkedEntities()
}

// Hold 手持一座新建筑
func (w *World) Hold(bt types.BuildingType) (ecs.EntityID, error) {
	if w.gameOver {
		return 0, game.ErrGameOver
	}
	return w.buildings.Hold(bt)
}

// MoveHeld 移动手持建筑
func (w *World) MoveHeld(id ecs.EntityID, c grid.Cell) error {
	if w.gameOver {
		return game.ErrGameOver
	}
	return w.buildings.MoveHeld(id, c)
}

// Place 放置手持建筑
func (w *World) Place(id ecs.EntityID) error {
	if w.gameOver {
		return game.ErrGameOver
	}
	return w.buildings.Place(id)
}

// CancelHeld 放弃手持建筑
func (w *World) CancelHeld(id ecs.EntityID) error {
	return w.buildings.CancelHeld(id)
}

// PlaceBuilding 手持、移动、放置一步完成，失败时不留下手持实体
func (w *World) PlaceBuilding(bt types.BuildingType, c grid.Cell) (ecs.EntityID, error) {
	id, err := w.Hold(bt)
	if err != nil {
		return 0, err
	}
	if err := w.buildings.MoveHeld(id, c); err != nil {
		_ = w.buildings.CancelHeld(id)
		return 0, err
	}
	if err := w.buildings.Place(id); err != nil {
		_ = w.buildings.CancelHeld(id)
		return 0, err
	}
	return id, nil
}

// Demolish 拆除建筑
func (w *World) Demolish(id ecs.EntityID) error {
	if w.gameOver {
		return game.ErrGameOver
	}
	return w.buildings.Demolish(id)
}

// SetCollectorActive 启停采集器
func (w *World) SetCollectorActive(id ecs.EntityID, active bool) error {
	if w.gameOver {
		return game.ErrGameOver
	}
	return w.buildings.SetCollectorActive(id, active)
}

// ApplyDamage 外部伤害来源（调试命令、场景脚本），返回是否致死
func (w *World) ApplyDamage(target, attacker ecs.EntityID, amount int) bool {
	if w.gameOver {
		return false
	}
	return w.damage.Apply(target, attacker, amount)
}

// CompleteDeath 死亡特效播放完毕后回收外星生物
func (w *World) CompleteDeath(id ecs.EntityID) bool {
	return w.damage.CompleteDeath(id)
}

// ApplySimConfig 热更新模拟参数
// 地图参数只在创建世界时生效，这里忽略
func (w *World) ApplySimConfig(cfg *config.SimConfig) {
	if cfg == nil {
		return
	}
	if cfg.Map != w.cfg.Sim.Map {
		w.logger.Warn("map settings changed, restart required to apply")
	}
	w.dayNight.SetConfig(cfg.DayNight)
	w.director.SetConfig(cfg.Waves)
	w.selector.SetConfig(cfg.Spawn)
	w.queue.SetBudget(placerBudget(cfg.Placer))
	w.buildings.SetRefundRatio(cfg.Economy.RefundRatio)
	mapCfg := w.cfg.Sim.Map
	next := *cfg
	next.Map = mapCfg
	w.cfg = &config.Bundle{Sim: &next, Aliens: w.cfg.Aliens, Buildings: w.cfg.Buildings}
	w.logger.Info("sim config applied")
}

// RunRecord 生成本局记录
func (w *World) RunRecord() game.RunRecord {
	return game.RunRecord{
		Seed:          w.rng.Seed(),
		NightsReached: w.dayNight.Night(),
		Stats:         w.stats,
		GameOver:      w.gameOver,
		Duration:      w.time,
	}
}

// Bus 事件总线，外部可订阅 GameOver、WaveStarted 等事件
func (w *World) Bus() *event.Bus { return w.bus }

// Grid 地表网格
func (w *World) Grid() *grid.Grid { return w.grid }

// Ledger 资源账本
func (w *World) Ledger() *game.ResourceLedger { return w.ledger }

// Entities 实体管理器
func (w *World) Entities() *ecs.EntityManager { return w.em }

// Config 当前配置
func (w *World) Config() *config.Bundle { return w.cfg }

// Egg 冷冻蛋实体
func (w *World) Egg() ecs.EntityID { return w.egg }

// GameOver 冷冻蛋是否已被摧毁
func (w *World) GameOver() bool { return w.gameOver }

// TickCount 已推进的步数
func (w *World) TickCount() uint64 { return w.tick }

// Time 模拟时间（秒）
func (w *World) Time() float64 { return w.time }

// Night 当前夜晚编号
func (w *World) Night() int { return w.dayNight.Night() }

// IsDay 是否白天
func (w *World) IsDay() bool { return w.dayNight.IsDay() }

// Stats 累计统计
func (w *World) Stats() game.RunStats { return w.stats }

// Director 波次调度器
func (w *World) Director() *systems.WaveDirector { return w.director }

// Pool 外星生物对象池
func (w *World) Pool() *entities.AlienPool { return w.pool }
