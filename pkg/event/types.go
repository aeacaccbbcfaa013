package event

import (
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/types"
)

// AlienDied 外星生物死亡（每个实体每次激活只发布一次）
type AlienDied struct {
	ID     ecs.EntityID
	Type   types.AlienType
	Killer ecs.EntityID // 0 表示未知来源
}

// BuildingDestroyed 建筑被摧毁（不含主动拆除）
type BuildingDestroyed struct {
	ID   ecs.EntityID
	Type types.BuildingType
}

// BuildingRemoved 建筑离开场地（摧毁或拆除），用于清理所有引用
type BuildingRemoved struct {
	ID         ecs.EntityID
	Type       types.BuildingType
	Demolished bool
}

// BuildingCompleted 建筑建造完成，开始运转
type BuildingCompleted struct {
	ID   ecs.EntityID
	Type types.BuildingType
}

// EntityDamaged 实体受到伤害
type EntityDamaged struct {
	Target   ecs.EntityID
	Attacker ecs.EntityID
	Amount   int
	Health   int // 受伤后的剩余生命值
}

// WaveStarted 新一波开始
type WaveStarted struct {
	Night int
	Wave  int // 本夜第几波（从1开始）
	Size  int
}

// WaveCleared 本波外星生物全部死亡
type WaveCleared struct {
	Night int
	Wave  int
}

// WaveStarved 生成点耗尽，本波有外星生物无法生成
type WaveStarved struct {
	Night   int
	Wave    int
	Missing int
}

// Dusk 入夜
type Dusk struct {
	Night int
}

// Dawn 天亮
type Dawn struct {
	Night int // 刚结束的夜晚
}

// GameOver 冷冻蛋被摧毁
type GameOver struct {
	Night int
	Wave  int
}
