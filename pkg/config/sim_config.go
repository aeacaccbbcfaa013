package config

import (
	"fmt"

	"github.com/gonewx/cryodefense/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultSimConfigPath 内置模拟参数文件
const DefaultSimConfigPath = "data/sim.yaml"

// CellConfig 网格坐标
type CellConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// MapConfig 地图参数
type MapConfig struct {
	Width           int        `yaml:"width"`           // 网格宽（格）
	Height          int        `yaml:"height"`          // 网格高（格）
	CellSize        float64    `yaml:"cellSize"`        // 每格世界单位
	EggCell         CellConfig `yaml:"eggCell"`         // 冷冻蛋所在格（左上角）
	SpawnRingInner  float64    `yaml:"spawnRingInner"`  // 生成点环带内半径（格）
	SpawnRingOuter  float64    `yaml:"spawnRingOuter"`  // 生成点环带外半径（格）
	ObstacleDensity float64    `yaml:"obstacleDensity"` // 岩石比例（不可通行、不可建造）
	VoidDensity     float64    `yaml:"voidDensity"`     // 无地面格比例（地面探测失败）
}

// DayNightConfig 昼夜循环参数（秒）
type DayNightConfig struct {
	DayLength    float64 `yaml:"dayLength"`
	NightLength  float64 `yaml:"nightLength"`
	StartAtNight bool    `yaml:"startAtNight"` // true 表示从第1夜黄昏开始
}

// WaveConfig 波次参数
type WaveConfig struct {
	WavesPerNight        int     `yaml:"wavesPerNight"`        // 每夜最大波数
	WaveCooldown         float64 `yaml:"waveCooldown"`         // 清场后到下一波的冷却（秒）
	MaxAliensPerBuilding float64 `yaml:"maxAliensPerBuilding"` // 每座建筑对应的最大外星生物数
	MinWaveSize          int     `yaml:"minWaveSize"`          // 每波最少数量
}

// SpawnConfig 生成点分区参数
type SpawnConfig struct {
	AngleRange      float64 `yaml:"angleRange"`      // 主方向扇区宽度（度）
	MajorityPercent float64 `yaml:"majorityPercent"` // 每波中来自主方向的比例 (0,1]
	CombatMode      bool    `yaml:"combatMode"`      // 战斗阶段：忽略分区，全体随机
}

// PlacerConfig 生成放置的分帧预算
type PlacerConfig struct {
	FrameBudgetMs   float64 `yaml:"frameBudgetMs"`   // 每 tick 最多占用的毫秒数
	MaxStepsPerTick int     `yaml:"maxStepsPerTick"` // 每 tick 最多处理的步数
}

// EconomyConfig 经济参数
type EconomyConfig struct {
	StartingOre int     `yaml:"startingOre"`
	RefundRatio float64 `yaml:"refundRatio"` // 拆除返还比例 [0,1]
}

// SimConfig 模拟全局参数
type SimConfig struct {
	Map      MapConfig      `yaml:"map"`
	DayNight DayNightConfig `yaml:"dayNight"`
	Waves    WaveConfig     `yaml:"waves"`
	Spawn    SpawnConfig    `yaml:"spawn"`
	Placer   PlacerConfig   `yaml:"placer"`
	Economy  EconomyConfig  `yaml:"economy"`
}

// LoadSimConfig 从数据文件加载模拟参数
// 参数：
//
//	path - 数据路径（以 "data/" 开头，可被覆盖目录替换）
//
// 返回：
//
//	*SimConfig - 解析后的配置对象
//	error - 如果文件读取、解析或校验失败，返回错误信息
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sim config %s: %w", path, err)
	}
	cfg, err := ParseSimConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseSimConfig 解析并校验 YAML 格式的模拟参数
func ParseSimConfig(data []byte) (*SimConfig, error) {
	var cfg SimConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sim config YAML: %w", err)
	}
	if err := validateSimConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid sim config: %w", err)
	}
	return &cfg, nil
}

// validateSimConfig 验证模拟参数的合法性
func validateSimConfig(cfg *SimConfig) error {
	m := cfg.Map
	if m.Width < 8 || m.Height < 8 {
		return fmt.Errorf("map must be at least 8x8, got %dx%d", m.Width, m.Height)
	}
	if m.CellSize <= 0 {
		return fmt.Errorf("map.cellSize must be positive, got %v", m.CellSize)
	}
	if m.EggCell.X < 0 || m.EggCell.X >= m.Width || m.EggCell.Y < 0 || m.EggCell.Y >= m.Height {
		return fmt.Errorf("map.eggCell (%d,%d) outside map", m.EggCell.X, m.EggCell.Y)
	}
	if m.SpawnRingInner < 0 || m.SpawnRingOuter <= m.SpawnRingInner {
		return fmt.Errorf("spawn ring must satisfy 0 <= inner < outer, got [%v, %v]", m.SpawnRingInner, m.SpawnRingOuter)
	}
	if m.ObstacleDensity < 0 || m.ObstacleDensity >= 1 || m.VoidDensity < 0 || m.VoidDensity >= 1 {
		return fmt.Errorf("map densities must be in [0,1)")
	}

	if cfg.DayNight.DayLength <= 0 || cfg.DayNight.NightLength <= 0 {
		return fmt.Errorf("dayNight lengths must be positive")
	}

	w := cfg.Waves
	if w.WavesPerNight < 1 {
		return fmt.Errorf("waves.wavesPerNight must be >= 1, got %d", w.WavesPerNight)
	}
	if w.WaveCooldown < 0 {
		return fmt.Errorf("waves.waveCooldown cannot be negative, got %v", w.WaveCooldown)
	}
	if w.MaxAliensPerBuilding < 0 {
		return fmt.Errorf("waves.maxAliensPerBuilding cannot be negative, got %v", w.MaxAliensPerBuilding)
	}
	if w.MinWaveSize < 0 {
		return fmt.Errorf("waves.minWaveSize cannot be negative, got %d", w.MinWaveSize)
	}

	s := cfg.Spawn
	if s.AngleRange <= 0 || s.AngleRange > 360 {
		return fmt.Errorf("spawn.angleRange must be in (0,360], got %v", s.AngleRange)
	}
	if s.MajorityPercent <= 0 || s.MajorityPercent > 1 {
		return fmt.Errorf("spawn.majorityPercent must be in (0,1], got %v", s.MajorityPercent)
	}

	if cfg.Placer.FrameBudgetMs <= 0 {
		return fmt.Errorf("placer.frameBudgetMs must be positive, got %v", cfg.Placer.FrameBudgetMs)
	}
	if cfg.Placer.MaxStepsPerTick < 1 {
		return fmt.Errorf("placer.maxStepsPerTick must be >= 1, got %d", cfg.Placer.MaxStepsPerTick)
	}

	if cfg.Economy.StartingOre < 0 {
		return fmt.Errorf("economy.startingOre cannot be negative")
	}
	if cfg.Economy.RefundRatio < 0 || cfg.Economy.RefundRatio > 1 {
		return fmt.Errorf("economy.refundRatio must be in [0,1], got %v", cfg.Economy.RefundRatio)
	}
	return nil
}
