package components

import "github.com/gonewx/cryodefense/pkg/ecs"

// HealthComponent 生命值组件
// 外星生物和建筑共用
type HealthComponent struct {
	Current int
	Max     int

	// LastAttacker 最近一次造成伤害的实体，0 表示从未被攻击
	// 目标选择时优先考虑该实体（"谁打我就打谁"）
	LastAttacker ecs.EntityID

	// Dead 死亡标记，保证死亡只处理一次
	Dead bool
}
