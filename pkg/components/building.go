package components

import (
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
)

// BuildingStage 建筑生命周期阶段
type BuildingStage int

const (
	BuildingHeld              BuildingStage = iota // 跟随光标，未放置
	BuildingUnderConstruction                      // 已放置，生命值爬升中
	BuildingBuilt                                  // 建造完成
)

// String 阶段名称
func (s BuildingStage) String() string {
	switch s {
	case BuildingHeld:
		return "held"
	case BuildingUnderConstruction:
		return "constructing"
	case BuildingBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// BuildingComponent 建筑组件
type BuildingComponent struct {
	Type  types.BuildingType
	Stage BuildingStage

	// Cell 占地左上角
	Cell      grid.Cell
	Footprint int

	// ValidPlacement 手持状态下当前位置是否可放置
	ValidPlacement bool

	// Operational 建造完成且正在运行（供给/消耗已计入账本）
	Operational bool

	// CollectorActive 采集器开关，只对 Collector 建筑有意义
	CollectorActive bool

	// Removed 已被摧毁或拆除，等待实体清理
	Removed bool

	BuildElapsed float64
	BuildTime    float64
	// HealthCarry 建造期间生命值增长的小数部分
	HealthCarry float64
	// OreCarry 矿石产出的小数部分
	OreCarry float64
}

// Cells 返回建筑占用的所有格
func (b *BuildingComponent) Cells() []grid.Cell {
	return b.Cell.Footprint(b.Footprint)
}
