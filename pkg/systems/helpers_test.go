package systems

import (
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/types"
)

// testAlienStats 测试用外星生物属性
func testAlienStats() *config.AlienStatsConfig {
	return &config.AlienStatsConfig{Aliens: map[types.AlienType]config.AlienStats{
		types.AlienCrawler: {
			Health: 30, Speed: 2, Damage: 4, AttackRange: 1.5, AttackCooldown: 1,
			VisionRadius: 6, SpawnMargin: 1, Weight: 3, MinNight: 1,
		},
		types.AlienBrute: {
			Health: 120, Speed: 1, Damage: 15, AttackRange: 1.8, AttackCooldown: 2,
			VisionRadius: 5, SpawnMargin: 3, Weight: 1, MinNight: 3,
		},
	}}
}

// testBuildingConfig 测试用建筑参数
func testBuildingConfig() *config.BuildingConfig {
	return &config.BuildingConfig{Buildings: map[types.BuildingType]config.BuildingStats{
		types.BuildingCryoEgg: {
			MaxHealth: 500, Footprint: 2,
			Supply: types.Resources{types.ResourcePower: 6},
		},
		types.BuildingWall: {
			MaxHealth: 100, Footprint: 1, Placeable: true, BuildTime: 2,
			Cost: types.Resources{types.ResourceOre: 10},
		},
		types.BuildingDrill: {
			MaxHealth: 60, Footprint: 1, Placeable: true, BuildTime: 1,
			Cost:        types.Resources{types.ResourceOre: 40},
			Consumption: types.Resources{types.ResourcePower: 1},
			OreRate:     2,
		},
		types.BuildingGasCollector: {
			MaxHealth: 60, Footprint: 1, Placeable: true, Collector: true,
			Cost:   types.Resources{types.ResourceOre: 20},
			Supply: types.Resources{types.ResourceGas: 3},
		},
		types.BuildingGunTurret: {
			MaxHealth: 80, Footprint: 1, Placeable: true,
			Cost:        types.Resources{types.ResourceOre: 60},
			Consumption: types.Resources{types.ResourcePower: 2},
			Turret: &config.TurretStats{
				Range: 8, Damage: 10, FireRate: 2, Priority: config.PriorityNearest,
				Aim: config.AimDirect, AimTolerance: 5,
			},
		},
		types.BuildingMortarTurret: {
			MaxHealth: 80, Footprint: 1, Placeable: true,
			Cost:        types.Resources{types.ResourceOre: 100},
			Consumption: types.Resources{types.ResourcePower: 9},
			Turret: &config.TurretStats{
				Range: 14, MinRange: 3, Damage: 30, FireRate: 0.5, Priority: config.PriorityFarthest,
				Aim: config.AimBallistic, ProjectileSpeed: 14,
			},
		},
	}}
}
