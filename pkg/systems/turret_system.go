package systems

import (
	"math"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
	"go.uber.org/zap"
)

// TurretSystem 炮塔索敌、转向与开火
//
// 只有运行中的炮塔才会工作；电力消耗超过供给时所有炮塔停火。
// 命中是即时的，伤害的攻击者记为炮塔本身。
type TurretSystem struct {
	em     *ecs.EntityManager
	grid   *grid.Grid
	vis    *VisibilitySystem
	damage *DamageSystem
	ledger *game.ResourceLedger
	logger *zap.Logger

	unpoweredLogged bool
}

// NewTurretSystem 创建炮塔系统
func NewTurretSystem(em *ecs.EntityManager, g *grid.Grid, vis *VisibilitySystem, damage *DamageSystem, ledger *game.ResourceLedger) *TurretSystem {
	return &TurretSystem{
		em:     em,
		grid:   g,
		vis:    vis,
		damage: damage,
		ledger: ledger,
		logger: logs.Named("Turret"),
	}
}

// Update 推进所有炮塔
func (s *TurretSystem) Update(dt float64) {
	powered := s.ledger.Satisfied(types.ResourcePower)
	if !powered && !s.unpoweredLogged {
		s.logger.Warn("power deficit, turrets offline",
			zap.Int("supply", s.ledger.Supply(types.ResourcePower)),
			zap.Int("consumption", s.ledger.Consumption(types.ResourcePower)))
	}
	s.unpoweredLogged = !powered

	for _, id := range ecs.GetEntitiesWith3[*components.TurretComponent, *components.BuildingComponent, *components.TargetingComponent](s.em) {
		t, _ := ecs.GetComponent[*components.TurretComponent](s.em, id)
		b, _ := ecs.GetComponent[*components.BuildingComponent](s.em, id)
		tc, _ := ecs.GetComponent[*components.TargetingComponent](s.em, id)

		if t.Cooldown > 0 {
			t.Cooldown = math.Max(0, t.Cooldown-dt)
		}
		if !b.Operational || !powered {
			t.Target = 0
			continue
		}

		var shotBy ecs.EntityID
		if h, ok := ecs.GetComponent[*components.HealthComponent](s.em, id); ok {
			shotBy = h.LastAttacker
		}
		t.Target = SelectTarget(s.vis.Candidates(id), shotBy, tc.Priority, 0)
		if t.Target == 0 {
			continue
		}
		s.aimAndFire(id, t, dt)
	}
}

func (s *TurretSystem) aimAndFire(id ecs.EntityID, t *components.TurretComponent, dt float64) {
	origin, ok := s.point(id)
	if !ok {
		return
	}
	target, ok := s.point(t.Target)
	if !ok {
		return
	}

	yaw, pitch, ok := NewAimStrategy(t.Stats).Solve(origin, target)
	if !ok {
		return
	}
	t.Yaw = rotateTowards(t.Yaw, yaw, t.Stats.TurnSpeed*dt)
	t.Pitch = pitch

	if t.Cooldown > 0 || math.Abs(angleDelta(t.Yaw, yaw)) > t.Stats.AimTolerance {
		return
	}
	t.Cooldown = 1 / t.Stats.FireRate
	t.Shots++
	s.damage.Apply(t.Target, id, t.Stats.Damage)
}

// point 实体在格坐标系下的三维位置（高度取地面）
func (s *TurretSystem) point(id ecs.EntityID) (Vec3, bool) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		return Vec3{}, false
	}
	h, _ := s.grid.GroundHeight(s.grid.CellAt(pos.X, pos.Y))
	return Vec3{X: pos.X / s.grid.CellSize, Y: pos.Y / s.grid.CellSize, Z: h}, true
}
