package components

import (
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
)

// TurretComponent 炮塔状态
type TurretComponent struct {
	Stats config.TurretStats

	// Cooldown 距离下次可开火的剩余时间（秒）
	Cooldown float64

	// Yaw 当前水平朝向（度），Pitch 当前仰角（度）
	Yaw   float64
	Pitch float64

	Target ecs.EntityID
	Shots  int
}
