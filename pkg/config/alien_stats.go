package config

import (
	"fmt"
	"sort"

	"github.com/gonewx/cryodefense/pkg/embedded"
	"github.com/gonewx/cryodefense/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultAlienStatsPath 内置外星生物属性文件
const DefaultAlienStatsPath = "data/aliens.yaml"

// AlienStats 单个外星生物类型的属性
type AlienStats struct {
	Health         int     `yaml:"health"`
	Speed          float64 `yaml:"speed"`          // 格/秒
	Damage         int     `yaml:"damage"`         // 每次攻击伤害
	AttackRange    float64 `yaml:"attackRange"`    // 攻击距离（格）
	AttackCooldown float64 `yaml:"attackCooldown"` // 攻击间隔（秒）
	VisionRadius   float64 `yaml:"visionRadius"`   // 发现建筑的半径（格）
	SpawnMargin    int     `yaml:"spawnMargin"`    // 生成失败时剔除的邻域半径（格）
	Weight         int     `yaml:"weight"`         // 随机选择权重
	MinNight       int     `yaml:"minNight"`       // 最早出现的夜晚
}

// AlienStatsConfig 外星生物属性配置文件结构
type AlienStatsConfig struct {
	Aliens map[types.AlienType]AlienStats `yaml:"aliens"`
}

// LoadAlienStats 从数据文件加载外星生物属性
func LoadAlienStats(path string) (*AlienStatsConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alien stats file %s: %w", path, err)
	}
	cfg, err := ParseAlienStats(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseAlienStats 解析并校验外星生物属性
func ParseAlienStats(data []byte) (*AlienStatsConfig, error) {
	var cfg AlienStatsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse alien stats YAML: %w", err)
	}
	if err := validateAlienStats(&cfg); err != nil {
		return nil, fmt.Errorf("invalid alien stats: %w", err)
	}
	return &cfg, nil
}

// validateAlienStats 验证外星生物属性的完整性和合法性
func validateAlienStats(cfg *AlienStatsConfig) error {
	if len(cfg.Aliens) == 0 {
		return fmt.Errorf("at least one alien type is required")
	}
	for alienType, s := range cfg.Aliens {
		if alienType == "" {
			return fmt.Errorf("alien type cannot be empty")
		}
		if s.Health < 1 {
			return fmt.Errorf("alien %s: health must be >= 1, got %d", alienType, s.Health)
		}
		if s.Speed <= 0 {
			return fmt.Errorf("alien %s: speed must be positive, got %v", alienType, s.Speed)
		}
		if s.Damage < 0 {
			return fmt.Errorf("alien %s: damage cannot be negative, got %d", alienType, s.Damage)
		}
		if s.AttackRange <= 0 {
			return fmt.Errorf("alien %s: attackRange must be positive, got %v", alienType, s.AttackRange)
		}
		if s.AttackCooldown <= 0 {
			return fmt.Errorf("alien %s: attackCooldown must be positive, got %v", alienType, s.AttackCooldown)
		}
		if s.VisionRadius < 0 {
			return fmt.Errorf("alien %s: visionRadius cannot be negative, got %v", alienType, s.VisionRadius)
		}
		if s.SpawnMargin < 0 {
			return fmt.Errorf("alien %s: spawnMargin cannot be negative, got %d", alienType, s.SpawnMargin)
		}
		if s.Weight < 0 {
			return fmt.Errorf("alien %s: weight cannot be negative, got %d", alienType, s.Weight)
		}
	}
	return nil
}

// Get 获取指定类型的属性
func (c *AlienStatsConfig) Get(alienType types.AlienType) (AlienStats, bool) {
	s, ok := c.Aliens[alienType]
	return s, ok
}

// TypesForNight 返回在指定夜晚可以出现的类型（按名称排序，保证加权随机可复现）
func (c *AlienStatsConfig) TypesForNight(night int) []types.AlienType {
	out := make([]types.AlienType, 0, len(c.Aliens))
	for t, s := range c.Aliens {
		if s.Weight > 0 && s.MinNight <= night {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
