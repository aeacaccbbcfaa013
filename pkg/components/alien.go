package components

import (
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/types"
	"github.com/google/uuid"
)

// AlienState 外星生物状态
type AlienState int

const (
	AlienInactive  AlienState = iota // 在对象池中
	AlienSpawned                     // 刚激活，尚未选择目标
	AlienMoving                      // 向目标移动
	AlienAttacking                   // 在攻击距离内，按冷却攻击
	AlienDead                        // 已死亡，等待死亡特效结束或回收
)

// String 状态名称，用于日志和快照
func (s AlienState) String() string {
	switch s {
	case AlienInactive:
		return "inactive"
	case AlienSpawned:
		return "spawned"
	case AlienMoving:
		return "moving"
	case AlienAttacking:
		return "attacking"
	case AlienDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Active 是否处于场上（已激活且未死亡）
func (s AlienState) Active() bool {
	return s == AlienSpawned || s == AlienMoving || s == AlienAttacking
}

// AlienComponent 外星生物组件
type AlienComponent struct {
	Type  types.AlienType
	State AlienState

	// ActivationID 每次从对象池激活时重新生成
	ActivationID uuid.UUID

	// 属性（激活时从配置复制）
	Speed          float64
	Damage         int
	AttackRange    float64
	AttackCooldown float64

	// Target 当前攻击目标（建筑实体）
	Target ecs.EntityID
	// BlockedBy 移动被建筑挡住时，强制改为攻击该建筑
	BlockedBy ecs.EntityID

	// LastAttackTime 上次攻击的模拟时间（秒），负数表示尚未攻击
	LastAttackTime float64

	// AwaitingFX 死亡后等待外部特效回调
	AwaitingFX bool
}
