package systems

import (
	"fmt"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/entities"
	"github.com/gonewx/cryodefense/pkg/event"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
	"go.uber.org/zap"
)

// BuildingSystem 建筑生命周期：手持、放置、建造、运行、拆除与摧毁
type BuildingSystem struct {
	em          *ecs.EntityManager
	bus         *event.Bus
	grid        *grid.Grid
	ledger      *game.ResourceLedger
	cfg         *config.BuildingConfig
	refundRatio float64
	logger      *zap.Logger
}

// NewBuildingSystem 创建建筑系统并订阅摧毁事件
func NewBuildingSystem(em *ecs.EntityManager, bus *event.Bus, g *grid.Grid, ledger *game.ResourceLedger,
	cfg *config.BuildingConfig, refundRatio float64) *BuildingSystem {
	s := &BuildingSystem{
		em:          em,
		bus:         bus,
		grid:        g,
		ledger:      ledger,
		cfg:         cfg,
		refundRatio: refundRatio,
		logger:      logs.Named("Building"),
	}
	event.Subscribe(bus, func(e event.BuildingDestroyed) { s.remove(e.ID, false) })
	return s
}

// SetRefundRatio 修改拆除返还比例（热更新）
func (s *BuildingSystem) SetRefundRatio(r float64) {
	s.refundRatio = r
}

// Hold 创建手持建筑，初始位置在 (0,0)
func (s *BuildingSystem) Hold(bt types.BuildingType) (ecs.EntityID, error) {
	stats, ok := s.cfg.Get(bt)
	if !ok || !stats.Placeable {
		return 0, fmt.Errorf("hold %q: %w", bt, game.ErrUnknownBuilding)
	}
	id, err := entities.NewBuildingEntity(s.em, bt, stats, grid.Cell{}, s.grid.CellSize)
	if err != nil {
		return 0, err
	}
	b, _ := ecs.GetComponent[*components.BuildingComponent](s.em, id)
	b.ValidPlacement = s.placementError(b, stats) == nil
	return id, nil
}

// MoveHeld 移动手持建筑并重新计算放置有效性
func (s *BuildingSystem) MoveHeld(id ecs.EntityID, cell grid.Cell) error {
	b, stats, err := s.held(id)
	if err != nil {
		return err
	}
	b.Cell = cell
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id); ok {
		pos.X, pos.Y = entities.FootprintCenter(cell, b.Footprint, s.grid.CellSize)
	}
	b.ValidPlacement = s.placementError(b, stats) == nil
	return nil
}

// CancelHeld 放弃手持建筑
func (s *BuildingSystem) CancelHeld(id ecs.EntityID) error {
	if _, _, err := s.held(id); err != nil {
		return err
	}
	s.em.DestroyEntity(id)
	return nil
}

// Place 在当前位置放置手持建筑：扣除花费、登记占用、开始建造
func (s *BuildingSystem) Place(id ecs.EntityID) error {
	b, stats, err := s.held(id)
	if err != nil {
		return err
	}
	if err := s.placementError(b, stats); err != nil {
		b.ValidPlacement = false
		return fmt.Errorf("place %s at (%d,%d): %w", b.Type, b.Cell.X, b.Cell.Y, err)
	}
	if err := s.ledger.Spend(stats.Cost); err != nil {
		return fmt.Errorf("place %s: %w", b.Type, err)
	}

	s.grid.Occupy(b.Cells(), id)
	b.Stage = components.BuildingUnderConstruction
	b.ValidPlacement = true
	b.BuildElapsed = 0
	b.HealthCarry = 0
	if h, ok := ecs.GetComponent[*components.HealthComponent](s.em, id); ok {
		h.Current = 1
		h.Max = stats.MaxHealth
	}
	s.logger.Info("building placed",
		zap.Uint64("id", uint64(id)), zap.String("type", string(b.Type)),
		zap.Int("x", b.Cell.X), zap.Int("y", b.Cell.Y), zap.Int("ore", s.ledger.Ore()))

	if b.BuildTime <= 0 {
		s.complete(id, b, stats)
	}
	return nil
}

// Install 直接以运行状态登记一座已建成的建筑（冷冻蛋）
func (s *BuildingSystem) Install(id ecs.EntityID) error {
	b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, id)
	if !ok {
		return fmt.Errorf("install %d: %w", id, game.ErrUnknownEntity)
	}
	stats, _ := s.cfg.Get(b.Type)
	cells := b.Cells()
	if !s.grid.CanOccupy(cells) {
		return fmt.Errorf("install %s at (%d,%d): %w", b.Type, b.Cell.X, b.Cell.Y, game.ErrTileOccupied)
	}
	s.grid.Occupy(cells, id)
	b.Stage = components.BuildingBuilt
	s.activate(id, b, stats)
	return nil
}

// Demolish 拆除建筑，返还部分花费
func (s *BuildingSystem) Demolish(id ecs.EntityID) error {
	b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, id)
	if !ok || b.Removed {
		return fmt.Errorf("demolish %d: %w", id, game.ErrUnknownEntity)
	}
	if b.Type == types.BuildingCryoEgg {
		return fmt.Errorf("demolish %s: %w", b.Type, game.ErrNotDemolishable)
	}
	if b.Stage == components.BuildingHeld {
		return s.CancelHeld(id)
	}
	stats, _ := s.cfg.Get(b.Type)
	refund := stats.Cost.Scale(s.refundRatio)
	s.ledger.Refund(refund)
	s.logger.Info("building demolished",
		zap.Uint64("id", uint64(id)), zap.String("type", string(b.Type)), zap.Int("refundOre", refund[types.ResourceOre]))
	s.remove(id, true)
	return nil
}

// SetCollectorActive 启停采集器
func (s *BuildingSystem) SetCollectorActive(id ecs.EntityID, active bool) error {
	b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, id)
	if !ok || b.Removed {
		return fmt.Errorf("collector %d: %w", id, game.ErrUnknownEntity)
	}
	stats, _ := s.cfg.Get(b.Type)
	if !stats.Collector {
		return fmt.Errorf("%s is not a collector: %w", b.Type, game.ErrUnknownBuilding)
	}
	if b.CollectorActive == active {
		return nil
	}
	if active && b.Stage == components.BuildingBuilt {
		if err := s.ledger.CanSustain(stats.Supply, stats.Consumption); err != nil {
			return fmt.Errorf("activate %s: %w", b.Type, err)
		}
	}
	b.CollectorActive = active
	if active {
		if b.Stage == components.BuildingBuilt {
			s.activate(id, b, stats)
		}
	} else {
		s.deactivate(b, stats)
	}
	return nil
}

// Update 推进建造进度、重试待机建筑并结算矿石产出
func (s *BuildingSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.BuildingComponent, *components.HealthComponent](s.em) {
		b, _ := ecs.GetComponent[*components.BuildingComponent](s.em, id)
		if b.Removed {
			continue
		}
		stats, _ := s.cfg.Get(b.Type)

		switch b.Stage {
		case components.BuildingUnderConstruction:
			h, _ := ecs.GetComponent[*components.HealthComponent](s.em, id)
			b.BuildElapsed += dt
			b.HealthCarry += float64(h.Max-1) * dt / b.BuildTime
			if whole := int(b.HealthCarry); whole > 0 {
				b.HealthCarry -= float64(whole)
				h.Current += whole
				if h.Current > h.Max {
					h.Current = h.Max
				}
			}
			if b.BuildElapsed >= b.BuildTime {
				s.complete(id, b, stats)
			}

		case components.BuildingBuilt:
			if !b.Operational {
				s.activate(id, b, stats)
				continue
			}
			if stats.OreRate > 0 && s.ledger.AllSatisfied(stats.Consumption) {
				b.OreCarry += stats.OreRate * dt
				if whole := int(b.OreCarry); whole > 0 {
					b.OreCarry -= float64(whole)
					s.ledger.AddOre(whole)
				}
			}
		}
	}
}

func (s *BuildingSystem) complete(id ecs.EntityID, b *components.BuildingComponent, stats config.BuildingStats) {
	b.Stage = components.BuildingBuilt
	s.logger.Info("building completed", zap.Uint64("id", uint64(id)), zap.String("type", string(b.Type)))
	event.Publish(s.bus, event.BuildingCompleted{ID: id, Type: b.Type})
	s.activate(id, b, stats)
}

// activate 供给可以维持时登记到账本并开始运行，否则保持待机，下次 Update 重试
func (s *BuildingSystem) activate(id ecs.EntityID, b *components.BuildingComponent, stats config.BuildingStats) {
	if b.Operational || (stats.Collector && !b.CollectorActive) {
		return
	}
	if err := s.ledger.CanSustain(stats.Supply, stats.Consumption); err != nil {
		return
	}
	s.ledger.AddContribution(stats.Supply, stats.Consumption)
	b.Operational = true
	s.logger.Debug("building operational", zap.Uint64("id", uint64(id)), zap.String("type", string(b.Type)))
}

func (s *BuildingSystem) deactivate(b *components.BuildingComponent, stats config.BuildingStats) {
	if !b.Operational {
		return
	}
	s.ledger.RemoveContribution(stats.Supply, stats.Consumption)
	b.Operational = false
}

// remove 建筑离场：释放占用、撤销账本登记、发布 BuildingRemoved
func (s *BuildingSystem) remove(id ecs.EntityID, demolished bool) {
	b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, id)
	if !ok || b.Removed {
		return
	}
	stats, _ := s.cfg.Get(b.Type)
	b.Removed = true
	if h, ok := ecs.GetComponent[*components.HealthComponent](s.em, id); ok {
		h.Dead = true
	}
	s.grid.Release(b.Cells(), id)
	s.deactivate(b, stats)
	event.Publish(s.bus, event.BuildingRemoved{ID: id, Type: b.Type, Demolished: demolished})
	s.em.DestroyEntity(id)
}

// held 取出手持建筑
func (s *BuildingSystem) held(id ecs.EntityID) (*components.BuildingComponent, config.BuildingStats, error) {
	b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, id)
	if !ok || b.Removed {
		return nil, config.BuildingStats{}, fmt.Errorf("building %d: %w", id, game.ErrUnknownEntity)
	}
	if b.Stage != components.BuildingHeld {
		return nil, config.BuildingStats{}, fmt.Errorf("building %d: %w", id, game.ErrNotHeld)
	}
	stats, _ := s.cfg.Get(b.Type)
	return b, stats, nil
}

// placementError 检查地形、占用、花费和供给
func (s *BuildingSystem) placementError(b *components.BuildingComponent, stats config.BuildingStats) error {
	for _, c := range b.Cells() {
		if !s.grid.InBounds(c) || s.grid.Terrain(c) != grid.TerrainGround {
			return game.ErrInvalidPlacement
		}
	}
	for _, c := range b.Cells() {
		if s.grid.IsOccupied(c) {
			return game.ErrTileOccupied
		}
	}
	if !s.ledger.CanAfford(stats.Cost) {
		return game.ErrInsufficientResources
	}
	return s.ledger.CanSustain(stats.Supply, stats.Consumption)
}

// Buildings 返回所有未移除的建筑
func (s *BuildingSystem) Buildings() []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.BuildingComponent](s.em) {
		b, _ := ecs.GetComponent[*components.BuildingComponent](s.em, id)
		if !b.Removed {
			out = append(out, id)
		}
	}
	return out
}
