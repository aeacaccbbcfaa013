package systems

import (
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
)

// Candidate 可见目标及其距离
type Candidate struct {
	ID       ecs.EntityID
	Distance float64
}

// SelectTarget 从可见目标中选择一个
//
//   - 没有可见目标：返回 fallback（外星生物为冷冻蛋，炮塔为 0）
//   - 只有一个：直接选择
//   - 多个：shotBy 可见时优先选择它，否则按 priority 选最近或最远，距离相同时选 ID 较小者
func SelectTarget(candidates []Candidate, shotBy ecs.EntityID, priority config.TargetPriority, fallback ecs.EntityID) ecs.EntityID {
	switch len(candidates) {
	case 0:
		return fallback
	case 1:
		return candidates[0].ID
	}

	if shotBy != 0 {
		for _, c := range candidates {
			if c.ID == shotBy {
				return shotBy
			}
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best, priority) {
			best = c
		}
	}
	return best.ID
}

func better(c, best Candidate, priority config.TargetPriority) bool {
	if c.Distance == best.Distance {
		return c.ID < best.ID
	}
	if priority == config.PriorityFarthest {
		return c.Distance > best.Distance
	}
	return c.Distance < best.Distance
}
