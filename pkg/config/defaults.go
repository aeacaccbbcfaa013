package config

import "fmt"

// Bundle 一次模拟所需的全部数据配置
type Bundle struct {
	Sim       *SimConfig
	Aliens    *AlienStatsConfig
	Buildings *BuildingConfig
}

// LoadDefaults 加载内置（或覆盖目录中的）全部数据配置
func LoadDefaults() (*Bundle, error) {
	sim, err := LoadSimConfig(DefaultSimConfigPath)
	if err != nil {
		return nil, err
	}
	aliens, err := LoadAlienStats(DefaultAlienStatsPath)
	if err != nil {
		return nil, err
	}
	buildings, err := LoadBuildingConfig(DefaultBuildingConfigPath)
	if err != nil {
		return nil, err
	}
	return &Bundle{Sim: sim, Aliens: aliens, Buildings: buildings}, nil
}

// MustLoadDefaults 同 LoadDefaults，失败时 panic，仅用于测试与工具
func MustLoadDefaults() *Bundle {
	b, err := LoadDefaults()
	if err != nil {
		panic(fmt.Sprintf("load default configs: %v", err))
	}
	return b
}
