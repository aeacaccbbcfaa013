package config

import (
	"fmt"

	"github.com/gonewx/cryodefense/pkg/embedded"
	"github.com/gonewx/cryodefense/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultBuildingConfigPath 内置建筑配置文件
const DefaultBuildingConfigPath = "data/buildings.yaml"

// TargetPriority 炮塔多目标时的选择策略
type TargetPriority string

const (
	PriorityNearest  TargetPriority = "nearest"
	PriorityFarthest TargetPriority = "farthest"
)

// AimMode 炮塔瞄准方式
type AimMode string

const (
	AimDirect    AimMode = "direct"    // 平射：仰角为视线角
	AimBallistic AimMode = "ballistic" // 抛射：按弹速求解仰角
)

// TurretStats 炮塔参数
type TurretStats struct {
	Range           float64        `yaml:"range"`           // 最大射程（格）
	MinRange        float64        `yaml:"minRange"`        // 最小射程（格），抛射炮塔用
	Damage          int            `yaml:"damage"`          // 单发伤害
	FireRate        float64        `yaml:"fireRate"`        // 每秒发射次数
	Priority        TargetPriority `yaml:"priority"`        // 多目标选择策略
	Aim             AimMode        `yaml:"aim"`             // 瞄准方式
	TurnSpeed       float64        `yaml:"turnSpeed"`       // 转向速度（度/秒）
	AimTolerance    float64        `yaml:"aimTolerance"`    // 允许开火的最大偏差（度）
	MuzzleHeight    float64        `yaml:"muzzleHeight"`    // 炮口离地高度，瞄准偏移
	ProjectileSpeed float64        `yaml:"projectileSpeed"` // 抛射弹速（格/秒）
}

// BuildingStats 单个建筑类型的参数
type BuildingStats struct {
	MaxHealth   int             `yaml:"maxHealth"`
	BuildTime   float64         `yaml:"buildTime"`   // 建造耗时（秒），期间生命值线性增长
	Footprint   int             `yaml:"footprint"`   // 占地边长（格）
	Placeable   bool            `yaml:"placeable"`   // 玩家是否可以建造
	Collector   bool            `yaml:"collector"`   // 是否为可手动启停的采集器
	Cost        types.Resources `yaml:"cost"`        // 建造花费
	Supply      types.Resources `yaml:"supply"`      // 运行时提供的供给
	Consumption types.Resources `yaml:"consumption"` // 运行时消耗
	OreRate     float64         `yaml:"oreRate"`     // 每秒开采矿石
	Turret      *TurretStats    `yaml:"turret,omitempty"`
}

// BuildingConfig 建筑配置文件结构
type BuildingConfig struct {
	Buildings map[types.BuildingType]BuildingStats `yaml:"buildings"`
}

// LoadBuildingConfig 从数据文件加载建筑配置
func LoadBuildingConfig(path string) (*BuildingConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read building config %s: %w", path, err)
	}
	cfg, err := ParseBuildingConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseBuildingConfig 解析并校验建筑配置
func ParseBuildingConfig(data []byte) (*BuildingConfig, error) {
	var cfg BuildingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse building config YAML: %w", err)
	}
	if err := validateBuildingConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid building config: %w", err)
	}
	return &cfg, nil
}

// validateBuildingConfig 验证建筑配置
func validateBuildingConfig(cfg *BuildingConfig) error {
	if _, ok := cfg.Buildings[types.BuildingCryoEgg]; !ok {
		return fmt.Errorf("building %q is required", types.BuildingCryoEgg)
	}
	for bt, s := range cfg.Buildings {
		if s.MaxHealth < 1 {
			return fmt.Errorf("building %s: maxHealth must be >= 1, got %d", bt, s.MaxHealth)
		}
		if s.BuildTime < 0 {
			return fmt.Errorf("building %s: buildTime cannot be negative", bt)
		}
		if s.Footprint < 1 {
			return fmt.Errorf("building %s: footprint must be >= 1, got %d", bt, s.Footprint)
		}
		for _, res := range []types.Resources{s.Cost, s.Supply, s.Consumption} {
			for kind, v := range res {
				if v < 0 {
					return fmt.Errorf("building %s: %s amount cannot be negative", bt, kind)
				}
			}
		}
		if t := s.Turret; t != nil {
			if t.Range <= 0 || t.MinRange < 0 || t.MinRange >= t.Range {
				return fmt.Errorf("building %s: turret range must satisfy 0 <= minRange < range", bt)
			}
			if t.FireRate <= 0 {
				return fmt.Errorf("building %s: turret fireRate must be positive", bt)
			}
			switch t.Priority {
			case PriorityNearest, PriorityFarthest:
			default:
				return fmt.Errorf("building %s: unknown turret priority %q", bt, t.Priority)
			}
			switch t.Aim {
			case AimDirect:
			case AimBallistic:
				if t.ProjectileSpeed <= 0 {
					return fmt.Errorf("building %s: ballistic turret needs projectileSpeed", bt)
				}
			default:
				return fmt.Errorf("building %s: unknown aim mode %q", bt, t.Aim)
			}
		}
	}
	return nil
}

// Get 获取指定类型的建筑参数
func (c *BuildingConfig) Get(bt types.BuildingType) (BuildingStats, bool) {
	s, ok := c.Buildings[bt]
	return s, ok
}
