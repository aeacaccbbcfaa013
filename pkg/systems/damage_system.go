package systems

import (
	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/entities"
	"github.com/gonewx/cryodefense/pkg/event"
	"go.uber.org/zap"
)

// DeathFXListener 外部死亡特效监听者
//
// AlienDying 返回 true 表示它会播放特效，并在结束后调用 World.CompleteDeath；
// 返回 false 时外星生物立即回收。
type DeathFXListener interface {
	AlienDying(id ecs.EntityID) bool
}

// DamageSystem 结算伤害与死亡
type DamageSystem struct {
	em      *ecs.EntityManager
	bus     *event.Bus
	pool    *entities.AlienPool
	deathFX DeathFXListener
	logger  *zap.Logger
}

// NewDamageSystem 创建伤害系统
func NewDamageSystem(em *ecs.EntityManager, bus *event.Bus, pool *entities.AlienPool) *DamageSystem {
	return &DamageSystem{
		em:     em,
		bus:    bus,
		pool:   pool,
		logger: logs.Named("Damage"),
	}
}

// SetDeathFXListener 设置死亡特效监听者，nil 表示立即回收
func (s *DamageSystem) SetDeathFXListener(l DeathFXListener) {
	s.deathFX = l
}

// Apply 对 target 造成 amount 点伤害，返回本次是否致死
//
// 已死亡的目标不再受伤，生命值恰好降到 0 时只会触发一次死亡。
func (s *DamageSystem) Apply(target, attacker ecs.EntityID, amount int) bool {
	h, ok := ecs.GetComponent[*components.HealthComponent](s.em, target)
	if !ok || h.Dead || amount <= 0 {
		return false
	}

	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	if attacker != 0 {
		h.LastAttacker = attacker
	}
	event.Publish(s.bus, event.EntityDamaged{Target: target, Attacker: attacker, Amount: amount, Health: h.Current})

	if h.Current > 0 {
		return false
	}
	h.Dead = true

	if alien, ok := ecs.GetComponent[*components.AlienComponent](s.em, target); ok {
		s.killAlien(target, alien, attacker)
		return true
	}
	if b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, target); ok {
		s.logger.Info("building destroyed",
			zap.Uint64("id", uint64(target)), zap.String("type", string(b.Type)), zap.Uint64("attacker", uint64(attacker)))
		event.Publish(s.bus, event.BuildingDestroyed{ID: target, Type: b.Type})
	}
	return true
}

func (s *DamageSystem) killAlien(id ecs.EntityID, alien *components.AlienComponent, killer ecs.EntityID) {
	alien.State = components.AlienDead
	alien.Target = 0
	alien.BlockedBy = 0
	if tc, ok := ecs.GetComponent[*components.TargetingComponent](s.em, id); ok {
		tc.Enabled = false
		tc.Clear()
	}
	if path, ok := ecs.GetComponent[*components.PathComponent](s.em, id); ok {
		*path = components.PathComponent{}
	}

	s.logger.Debug("alien died", zap.Uint64("id", uint64(id)), zap.String("type", string(alien.Type)), zap.Uint64("killer", uint64(killer)))
	event.Publish(s.bus, event.AlienDied{ID: id, Type: alien.Type, Killer: killer})

	if s.deathFX != nil && s.deathFX.AlienDying(id) {
		alien.AwaitingFX = true
		return
	}
	s.pool.Release(id)
}

// CompleteDeath 死亡特效结束后回收外星生物，返回是否确实在等待
func (s *DamageSystem) CompleteDeath(id ecs.EntityID) bool {
	alien, ok := ecs.GetComponent[*components.AlienComponent](s.em, id)
	if !ok || alien.State != components.AlienDead || !alien.AwaitingFX {
		return false
	}
	s.pool.Release(id)
	return true
}
