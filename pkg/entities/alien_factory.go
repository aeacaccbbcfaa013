package entities

import (
	"fmt"

	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/types"
	"github.com/google/uuid"
)

// AlienPool 外星生物对象池
//
// 死亡的外星生物不会被销毁，而是重置为 Inactive 留在实体管理器中，
// 下一次生成同类型时复用。
type AlienPool struct {
	em    *ecs.EntityManager
	stats *config.AlienStatsConfig
	free  map[types.AlienType][]ecs.EntityID

	created int
	reused  int
}

// NewAlienPool 创建对象池
func NewAlienPool(em *ecs.EntityManager, stats *config.AlienStatsConfig) *AlienPool {
	return &AlienPool{
		em:    em,
		stats: stats,
		free:  make(map[types.AlienType][]ecs.EntityID),
	}
}

// Acquire 取出一个未激活的外星生物实体（池为空时新建）
func (p *AlienPool) Acquire(alienType types.AlienType) (ecs.EntityID, error) {
	if _, ok := p.stats.Get(alienType); !ok {
		return 0, fmt.Errorf("unknown alien type %q", alienType)
	}

	if ids := p.free[alienType]; len(ids) > 0 {
		id := ids[len(ids)-1]
		p.free[alienType] = ids[:len(ids)-1]
		p.reused++
		return id, nil
	}

	id := p.em.CreateEntity()
	p.em.AddComponent(id, &components.AlienComponent{Type: alienType, State: components.AlienInactive})
	p.em.AddComponent(id, &components.PositionComponent{})
	p.em.AddComponent(id, &components.HealthComponent{})
	p.em.AddComponent(id, &components.PathComponent{})
	p.created++
	return id, nil
}

// Activate 在 (x, y) 激活外星生物
//
// 每次激活都会分配新的 ActivationID，重置生命值、目标和攻击计时。
func (p *AlienPool) Activate(id ecs.EntityID, x, y float64) error {
	alien, ok := ecs.GetComponent[*components.AlienComponent](p.em, id)
	if !ok {
		return fmt.Errorf("entity %d is not an alien", id)
	}
	s, _ := p.stats.Get(alien.Type)

	alien.State = components.AlienSpawned
	alien.ActivationID = uuid.New()
	alien.Speed = s.Speed
	alien.Damage = s.Damage
	alien.AttackRange = s.AttackRange
	alien.AttackCooldown = s.AttackCooldown
	alien.Target = 0
	alien.BlockedBy = 0
	alien.LastAttackTime = -1
	alien.AwaitingFX = false

	if pos, ok := ecs.GetComponent[*components.PositionComponent](p.em, id); ok {
		pos.X, pos.Y = x, y
	}
	if h, ok := ecs.GetComponent[*components.HealthComponent](p.em, id); ok {
		*h = components.HealthComponent{Current: s.Health, Max: s.Health}
	}
	if path, ok := ecs.GetComponent[*components.PathComponent](p.em, id); ok {
		*path = components.PathComponent{}
	}

	tc := components.NewTargetingComponent(s.VisionRadius, 0, config.PriorityNearest)
	tc.Enabled = true
	p.em.AddComponent(id, tc)
	return nil
}

// Release 回收外星生物到对象池
func (p *AlienPool) Release(id ecs.EntityID) {
	alien, ok := ecs.GetComponent[*components.AlienComponent](p.em, id)
	if !ok || alien.State == components.AlienInactive {
		return
	}
	alien.State = components.AlienInactive
	alien.Target = 0
	alien.BlockedBy = 0
	alien.AwaitingFX = false
	ecs.RemoveComponent[*components.TargetingComponent](p.em, id)
	if path, ok := ecs.GetComponent[*components.PathComponent](p.em, id); ok {
		*path = components.PathComponent{}
	}
	p.free[alien.Type] = append(p.free[alien.Type], id)
}

// Return 归还 Acquire 取出但没有激活的实体
//
// Release 只回收已激活的外星生物，激活失败时用 Return 放回空闲列表。
func (p *AlienPool) Return(id ecs.EntityID) {
	alien, ok := ecs.GetComponent[*components.AlienComponent](p.em, id)
	if !ok || alien.State != components.AlienInactive {
		return
	}
	for _, free := range p.free[alien.Type] {
		if free == id {
			return
		}
	}
	p.free[alien.Type] = append(p.free[alien.Type], id)
}

// Stats 返回新建与复用的次数
func (p *AlienPool) Stats() (created, reused int) {
	return p.created, p.reused
}

// FreeCount 池中可复用的数量
func (p *AlienPool) FreeCount(alienType types.AlienType) int {
	return len(p.free[alienType])
}
