package sim

import (
	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/game"
)

// Snapshot 生成当前世界的只读视图
// 返回值不引用世界内部状态，可以交给其他 goroutine
func (w *World) Snapshot() *game.Snapshot {
	snap := &game.Snapshot{
		Tick:      w.tick,
		Time:      w.time,
		Seed:      w.rng.Seed(),
		Night:     w.dayNight.Night(),
		Wave:      w.director.WaveIndex(),
		Daytime:   w.dayNight.IsDay(),
		GameOver:  w.gameOver,
		Width:     w.grid.Width,
		Height:    w.grid.Height,
		Resources: w.ledger.Entries(),
		Stats:     w.stats,
	}

	for _, id := range ecs.GetEntitiesWith3[*components.AlienComponent, *components.PositionComponent, *components.HealthComponent](w.em) {
		a, _ := ecs.GetComponent[*components.AlienComponent](w.em, id)
		if !a.State.Active() && a.State != components.AlienDead {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](w.em, id)
		h, _ := ecs.GetComponent[*components.HealthComponent](w.em, id)
		snap.Aliens = append(snap.Aliens, game.AlienView{
			ID:           uint64(id),
			ActivationID: a.ActivationID.String(),
			Type:         a.Type,
			State:        a.State.String(),
			X:            pos.X,
			Y:            pos.Y,
			Health:       h.Current,
			MaxHealth:    h.Max,
			Target:       uint64(a.Target),
		})
	}

	for _, id := range w.buildings.Buildings() {
		b, _ := ecs.GetComponent[*components.BuildingComponent](w.em, id)
		view := game.BuildingView{
			ID:          uint64(id),
			Type:        b.Type,
			Stage:       b.Stage.String(),
			X:           b.Cell.X,
			Y:           b.Cell.Y,
			Footprint:   b.Footprint,
			Operational: b.Operational,
			Valid:       b.ValidPlacement,
		}
		if h, ok := ecs.GetComponent[*components.HealthComponent](w.em, id); ok {
			view.Health, view.MaxHealth = h.Current, h.Max
		}
		if t, ok := ecs.GetComponent[*components.TurretComponent](w.em, id); ok {
			view.Yaw = t.Yaw
			view.Target = uint64(t.Target)
		}
		snap.Buildings = append(snap.Buildings, view)
	}
	return snap
}
