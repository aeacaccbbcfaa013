package entities

import (
	"fmt"

	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
)

// NewBuildingEntity 创建手持状态的建筑实体
//
// 参数:
//   - em: 实体管理器
//   - bt: 建筑类型
//   - stats: 建筑参数
//   - cell: 初始位置（占地左上角）
//   - cellSize: 每格世界单位
func NewBuildingEntity(em *ecs.EntityManager, bt types.BuildingType, stats config.BuildingStats, cell grid.Cell, cellSize float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	id := em.CreateEntity()
	x, y := FootprintCenter(cell, stats.Footprint, cellSize)
	em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(id, &components.BuildingComponent{
		Type:      bt,
		Stage:     components.BuildingHeld,
		Cell:      cell,
		Footprint: stats.Footprint,
		BuildTime: stats.BuildTime,
		// 采集器默认开启，玩家在建造完成前关闭的话保持关闭
		CollectorActive: stats.Collector,
	})
	em.AddComponent(id, &components.HealthComponent{Current: stats.MaxHealth, Max: stats.MaxHealth})

	if t := stats.Turret; t != nil {
		em.AddComponent(id, &components.TurretComponent{Stats: *t})
		em.AddComponent(id, components.NewTargetingComponent(t.Range, t.MinRange, t.Priority))
	}
	return id, nil
}

// NewCryoEggEntity 创建已建成的冷冻蛋
// 冷冻蛋直接以 Built 状态出现，调用方负责登记占用和账本
func NewCryoEggEntity(em *ecs.EntityManager, stats config.BuildingStats, cell grid.Cell, cellSize float64) (ecs.EntityID, error) {
	id, err := NewBuildingEntity(em, types.BuildingCryoEgg, stats, cell, cellSize)
	if err != nil {
		return 0, err
	}
	b, _ := ecs.GetComponent[*components.BuildingComponent](em, id)
	b.Stage = components.BuildingBuilt
	b.ValidPlacement = true
	em.AddComponent(id, &components.CryoEggComponent{})
	return id, nil
}

// FootprintCenter 方形占地的中心世界坐标
func FootprintCenter(cell grid.Cell, footprint int, cellSize float64) (x, y float64) {
	half := float64(footprint) / 2
	return (float64(cell.X) + half) * cellSize, (float64(cell.Y) + half) * cellSize
}
