package types

// BuildingType 建筑类型ID，与 buildings.yaml 中的键对应
type BuildingType string

const (
	BuildingCryoEgg      BuildingType = "cryo_egg"      // 冷冻蛋：玩家的核心目标，外星生物的默认攻击对象
	BuildingDrill        BuildingType = "drill"         // 矿钻：开采矿石
	BuildingSolarPanel   BuildingType = "solar_panel"   // 太阳能板：提供电力
	BuildingPump         BuildingType = "pump"          // 水泵：提供水
	BuildingGasCollector BuildingType = "gas_collector" // 气体收集器：提供气体，可手动启停
	BuildingGunTurret    BuildingType = "gun_turret"    // 机枪塔：平射
	BuildingMortarTurret BuildingType = "mortar_turret" // 迫击炮塔：抛射
	BuildingWall         BuildingType = "wall"          // 墙：纯阻挡
)
