package app

import (
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/utils"
)

// deathFX 死亡淡出效果：外星生物死亡后保留一小段时间再回收
type deathFX struct {
	duration float64
	pending  map[ecs.EntityID]float64
	complete func(ecs.EntityID) bool
}

func newDeathFX(duration float64) *deathFX {
	return &deathFX{duration: duration, pending: make(map[ecs.EntityID]float64)}
}

// AlienDying 实现 systems.DeathFXListener
func (f *deathFX) AlienDying(id ecs.EntityID) bool {
	f.pending[id] = f.duration
	return true
}

// Update 推进计时，到时调用 complete
func (f *deathFX) Update(dt float64) {
	for id, left := range f.pending {
		left -= dt
		if left > 0 {
			f.pending[id] = left
			continue
		}
		delete(f.pending, id)
		if f.complete != nil {
			f.complete(id)
		}
	}
}

// Fade 淡出进度 (0,1]，1 表示刚死亡；不在淡出中时返回 0
func (f *deathFX) Fade(id ecs.EntityID) float64 {
	left, ok := f.pending[id]
	if !ok || f.duration <= 0 {
		return 0
	}
	return utils.EaseInQuad(left / f.duration)
}
