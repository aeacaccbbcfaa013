package systems

import (
	"math"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/grid"
	"go.uber.org/zap"
)

// AlienBehaviorSystem 外星生物状态机
//
//	Spawned -> Moving：选择目标并寻路
//	Moving -> Attacking：进入攻击距离，停止移动，按冷却攻击
//	Attacking -> Moving：目标消失或被更优先的目标替换
//
// 死亡由 DamageSystem 处理。
type AlienBehaviorSystem struct {
	em     *ecs.EntityManager
	grid   *grid.Grid
	vis    *VisibilitySystem
	damage *DamageSystem
	logger *zap.Logger

	// egg 默认目标，返回 0 表示冷冻蛋已不存在
	egg func() ecs.EntityID
}

// NewAlienBehaviorSystem 创建行为系统
func NewAlienBehaviorSystem(em *ecs.EntityManager, g *grid.Grid, vis *VisibilitySystem, damage *DamageSystem, egg func() ecs.EntityID) *AlienBehaviorSystem {
	return &AlienBehaviorSystem{
		em:     em,
		grid:   g,
		vis:    vis,
		damage: damage,
		egg:    egg,
		logger: logs.Named("AlienBehavior"),
	}
}

// Update 推进所有场上外星生物，now 为模拟时间（秒）
func (s *AlienBehaviorSystem) Update(dt, now float64) {
	for _, id := range ecs.GetEntitiesWith3[*components.AlienComponent, *components.PositionComponent, *components.PathComponent](s.em) {
		alien, _ := ecs.GetComponent[*components.AlienComponent](s.em, id)
		if !alien.State.Active() {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
		path, _ := ecs.GetComponent[*components.PathComponent](s.em, id)

		target := s.chooseTarget(id, alien)
		if target == 0 {
			// 没有任何目标（冷冻蛋已被摧毁），原地待命
			alien.Target = 0
			alien.State = components.AlienMoving
			continue
		}
		if target != alien.Target {
			alien.Target = target
			*path = components.PathComponent{}
			if alien.State == components.AlienAttacking {
				alien.State = components.AlienMoving
			}
		}
		if alien.State == components.AlienSpawned {
			alien.State = components.AlienMoving
		}

		if s.vis.DistanceToBuilding(pos.X, pos.Y, target) <= alien.AttackRange {
			blocker := s.lineBlocker(pos.X, pos.Y, target)
			if blocker != 0 && !s.reachable(pos, path, target) {
				// 目标被建筑围住，先攻击挡在中间的建筑
				alien.BlockedBy = blocker
				alien.Target = blocker
				*path = components.PathComponent{}
				target, blocker = blocker, 0
				s.logger.Debug("alien blocked", zap.Uint64("id", uint64(id)), zap.Uint64("by", uint64(target)))
			}
			if blocker == 0 && s.vis.DistanceToBuilding(pos.X, pos.Y, target) <= alien.AttackRange {
				alien.State = components.AlienAttacking
				if alien.LastAttackTime < 0 || now-alien.LastAttackTime >= alien.AttackCooldown {
					alien.LastAttackTime = now
					s.damage.Apply(target, id, alien.Damage)
				}
				continue
			}
		}

		alien.State = components.AlienMoving
		s.move(id, alien, pos, path, target, dt)
	}
}

// chooseTarget 被挡路时优先攻击挡路建筑，否则交给 SelectTarget
func (s *AlienBehaviorSystem) chooseTarget(id ecs.EntityID, alien *components.AlienComponent) ecs.EntityID {
	if alien.BlockedBy != 0 {
		if s.buildingAlive(alien.BlockedBy) {
			return alien.BlockedBy
		}
		alien.BlockedBy = 0
	}

	var shotBy ecs.EntityID
	if h, ok := ecs.GetComponent[*components.HealthComponent](s.em, id); ok {
		shotBy = h.LastAttacker
	}
	priority := config.PriorityNearest
	if tc, ok := ecs.GetComponent[*components.TargetingComponent](s.em, id); ok && tc.Priority != "" {
		priority = tc.Priority
	}

	target := SelectTarget(s.vis.Candidates(id), shotBy, priority, s.egg())
	if target != 0 && !s.buildingAlive(target) {
		return s.egg()
	}
	return target
}

func (s *AlienBehaviorSystem) buildingAlive(id ecs.EntityID) bool {
	if !ecs.HasComponent[*components.BuildingComponent](s.em, id) {
		return false
	}
	h, ok := ecs.GetComponent[*components.HealthComponent](s.em, id)
	return ok && !h.Dead
}

// move 沿路径前进；路径被新建筑挡住时先重新寻路，仍然走不通就改为攻击挡路的建筑
func (s *AlienBehaviorSystem) move(id ecs.EntityID, alien *components.AlienComponent, pos *components.PositionComponent,
	path *components.PathComponent, target ecs.EntityID, dt float64) {
	b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, target)
	if !ok {
		return
	}
	cur := s.grid.CellAt(pos.X, pos.Y)
	goal := nearestCell(cur, b.Cells())

	if len(path.Cells) == 0 || path.Goal != goal {
		s.repath(path, cur, goal)
	}

	remaining := alien.Speed * dt * s.grid.CellSize
	for remaining > 0 {
		var wx, wy float64
		if path.Done() {
			// 没有可用路径时直线逼近目标中心
			tpos, ok := ecs.GetComponent[*components.PositionComponent](s.em, target)
			if !ok {
				return
			}
			wx, wy = tpos.X, tpos.Y
		} else {
			next := path.Cells[path.Next]
			if occupant := s.grid.Occupant(next); occupant != 0 && occupant != target {
				s.repath(path, cur, goal)
				if path.Done() || s.grid.Occupant(path.Cells[path.Next]) == occupant {
					alien.BlockedBy = occupant
					s.logger.Debug("alien blocked", zap.Uint64("id", uint64(id)), zap.Uint64("by", uint64(occupant)))
					return
				}
				continue
			}
			if next == goal {
				// 目标格被建筑占据，停在相邻格，由攻击距离判断接管
				path.Next = len(path.Cells)
				return
			}
			wx, wy = s.grid.CellCenter(next)
		}

		dx, dy := wx-pos.X, wy-pos.Y
		dist := math.Hypot(dx, dy)
		if path.Done() {
			nx, ny := pos.X, pos.Y
			if dist > 0 {
				step := math.Min(remaining, dist)
				nx += dx / dist * step
				ny += dy / dist * step
			}
			c := s.grid.CellAt(nx, ny)
			if occupant := s.grid.Occupant(c); occupant != 0 && occupant != target {
				alien.BlockedBy = occupant
				return
			}
			if occupant := s.grid.Occupant(c); occupant == target {
				return
			}
			pos.X, pos.Y = nx, ny
			return
		}
		if dist <= remaining {
			pos.X, pos.Y = wx, wy
			remaining -= dist
			cur = path.Cells[path.Next]
			path.Next++
			continue
		}
		pos.X += dx / dist * remaining
		pos.Y += dy / dist * remaining
		remaining = 0
	}
}

// lineBlocker 返回从 (x, y) 到目标占地最近点的连线上第一座其他建筑，没有则返回 0
func (s *AlienBehaviorSystem) lineBlocker(x, y float64, target ecs.EntityID) ecs.EntityID {
	b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, target)
	if !ok {
		return 0
	}
	cs := s.grid.CellSize
	minX, minY := float64(b.Cell.X)*cs, float64(b.Cell.Y)*cs
	maxX, maxY := minX+float64(b.Footprint)*cs, minY+float64(b.Footprint)*cs
	qx := math.Max(minX, math.Min(x, maxX))
	qy := math.Max(minY, math.Min(y, maxY))

	dist := math.Hypot(qx-x, qy-y)
	step := cs / 4
	for d := 0.0; d < dist; d += step {
		t := d / dist
		occupant := s.grid.Occupant(s.grid.CellAt(x+(qx-x)*t, y+(qy-y)*t))
		if occupant == target {
			return 0
		}
		if occupant != 0 {
			return occupant
		}
	}
	return 0
}

// reachable 当前格与目标相邻，或者存在通往目标的路径
func (s *AlienBehaviorSystem) reachable(pos *components.PositionComponent, path *components.PathComponent, target ecs.EntityID) bool {
	b, ok := ecs.GetComponent[*components.BuildingComponent](s.em, target)
	if !ok {
		return false
	}
	cur := s.grid.CellAt(pos.X, pos.Y)
	goal := nearestCell(cur, b.Cells())
	if cur.Chebyshev(goal) <= 1 {
		return true
	}
	if path.Goal != goal || path.Cells == nil {
		s.repath(path, cur, goal)
	}
	return path.Cells != nil
}

func (s *AlienBehaviorSystem) repath(path *components.PathComponent, cur, goal grid.Cell) {
	cells := s.grid.FindPath(cur, goal, nil)
	*path = components.PathComponent{Goal: goal, Cells: cells, Next: 1}
	if cells == nil {
		path.Next = 0
	}
}

// nearestCell 返回 cells 中距 from 最近的格
func nearestCell(from grid.Cell, cells []grid.Cell) grid.Cell {
	best := cells[0]
	bestD := from.Distance(best)
	for _, c := range cells[1:] {
		if d := from.Distance(c); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}
