package components

import (
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
)

// TargetingComponent 可见目标集合
// 由 VisibilitySystem 维护，取代触发器的进入/离开回调
type TargetingComponent struct {
	Visible map[ecs.EntityID]struct{}

	// Range 可见半径（格）
	Range float64
	// MinRange 最小可见距离（抛射炮塔的盲区）
	MinRange float64

	Priority config.TargetPriority
	Enabled  bool
}

// NewTargetingComponent 创建空的可见集合
func NewTargetingComponent(rng, minRange float64, priority config.TargetPriority) *TargetingComponent {
	return &TargetingComponent{
		Visible:  make(map[ecs.EntityID]struct{}),
		Range:    rng,
		MinRange: minRange,
		Priority: priority,
	}
}

// Forget 从可见集合移除实体
func (t *TargetingComponent) Forget(id ecs.EntityID) {
	delete(t.Visible, id)
}

// Clear 清空可见集合
func (t *TargetingComponent) Clear() {
	for id := range t.Visible {
		delete(t.Visible, id)
	}
}
