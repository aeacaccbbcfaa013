package systems

import (
	"math"
	"sort"

	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/event"
)

// VisibilitySystem 维护每个外星生物和炮塔的可见目标集合
//
// 外星生物看见视野内已放置的建筑，炮塔看见射程环带内的存活外星生物。
// 死亡与移除事件会立即把实体从所有集合中删除，同一帧后续的目标选择不会拿到失效引用。
type VisibilitySystem struct {
	em       *ecs.EntityManager
	cellSize float64
}

// NewVisibilitySystem 创建可见性系统并订阅清理事件
func NewVisibilitySystem(em *ecs.EntityManager, bus *event.Bus, cellSize float64) *VisibilitySystem {
	s := &VisibilitySystem{em: em, cellSize: cellSize}
	event.Subscribe(bus, func(e event.AlienDied) { s.Forget(e.ID) })
	event.Subscribe(bus, func(e event.BuildingRemoved) { s.Forget(e.ID) })
	return s
}

// Update 重新计算所有可见集合
func (s *VisibilitySystem) Update() {
	buildings := s.placedBuildings()
	aliens := s.activeAliens()

	for _, id := range ecs.GetEntitiesWith3[*components.AlienComponent, *components.TargetingComponent, *components.PositionComponent](s.em) {
		alien, _ := ecs.GetComponent[*components.AlienComponent](s.em, id)
		tc, _ := ecs.GetComponent[*components.TargetingComponent](s.em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
		tc.Clear()
		if !tc.Enabled || !alien.State.Active() {
			continue
		}
		for _, bid := range buildings {
			if s.DistanceToBuilding(pos.X, pos.Y, bid) <= tc.Range {
				tc.Visible[bid] = struct{}{}
			}
		}
	}

	for _, id := range ecs.GetEntitiesWith3[*components.TurretComponent, *components.TargetingComponent, *components.BuildingComponent](s.em) {
		b, _ := ecs.GetComponent[*components.BuildingComponent](s.em, id)
		tc, _ := ecs.GetComponent[*components.TargetingComponent](s.em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
		tc.Clear()
		if !b.Operational || pos == nil {
			continue
		}
		for _, aid := range aliens {
			apos, _ := ecs.GetComponent[*components.PositionComponent](s.em, aid)
			d := s.distance(pos.X, pos.Y, apos.X, apos.Y)
			if d >= tc.MinRange && d <= tc.Range {
				tc.Visible[aid] = struct{}{}
			}
		}
	}
}

// Forget 从所有可见集合中删除 id，并清除指向 id 的攻击者记录
//
// 外星生物实体会被对象池复用，死亡后不清除的话，新激活的同 ID 个体会继承“上次攻击者”的优先级。
func (s *VisibilitySystem) Forget(id ecs.EntityID) {
	for _, eid := range ecs.GetEntitiesWith1[*components.TargetingComponent](s.em) {
		tc, _ := ecs.GetComponent[*components.TargetingComponent](s.em, eid)
		tc.Forget(id)
	}
	for _, eid := range ecs.GetEntitiesWith1[*components.HealthComponent](s.em) {
		h, _ := ecs.GetComponent[*components.HealthComponent](s.em, eid)
		if h.LastAttacker == id {
			h.LastAttacker = 0
		}
	}
}

// Candidates 返回 id 的可见目标及距离（按 ID 排序）
func (s *VisibilitySystem) Candidates(id ecs.EntityID) []Candidate {
	tc, ok := ecs.GetComponent[*components.TargetingComponent](s.em, id)
	if !ok || len(tc.Visible) == 0 {
		return nil
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		return nil
	}
	_, isAlien := ecs.GetComponent[*components.AlienComponent](s.em, id)

	out := make([]Candidate, 0, len(tc.Visible))
	for tid := range tc.Visible {
		var d float64
		if isAlien {
			d = s.DistanceToBuilding(pos.X, pos.Y, tid)
		} else {
			tpos, ok := ecs.GetComponent[*components.PositionComponent](s.em, tid)
			if !ok {
				continue
			}
			d = s.distance(pos.X, pos.Y, tpos.X, tpos.Y)
		}
		out = append(out, Candidate{ID: tid, Distance: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DistanceToBuilding 世界坐标点到建筑占地矩形的距离（格），点在矩形内时为 0
func (s *VisibilitySystem) DistanceToBuilding(x, y float64, id ecs.EntityID) float64 {
	b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, id)
	if !ok {
		return math.Inf(1)
	}
	return distanceToFootprint(x/s.cellSize, y/s.cellSize, b)
}

func distanceToFootprint(cx, cy float64, b *components.BuildingComponent) float64 {
	minX, minY := float64(b.Cell.X), float64(b.Cell.Y)
	maxX, maxY := minX+float64(b.Footprint), minY+float64(b.Footprint)
	dx := math.Max(0, math.Max(minX-cx, cx-maxX))
	dy := math.Max(0, math.Max(minY-cy, cy-maxY))
	return math.Hypot(dx, dy)
}

func (s *VisibilitySystem) distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2) / s.cellSize
}

func (s *VisibilitySystem) placedBuildings() []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith2[*components.BuildingComponent, *components.HealthComponent](s.em) {
		b, _ := ecs.GetComponent[*components.BuildingComponent](s.em, id)
		h, _ := ecs.GetComponent[*components.HealthComponent](s.em, id)
		if b.Stage != components.BuildingHeld && !h.Dead {
			out = append(out, id)
		}
	}
	return out
}

func (s *VisibilitySystem) activeAliens() []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith2[*components.AlienComponent, *components.PositionComponent](s.em) {
		alien, _ := ecs.GetComponent[*components.AlienComponent](s.em, id)
		if alien.State.Active() {
			out = append(out, id)
		}
	}
	return out
}
