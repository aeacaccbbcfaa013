package game

import "github.com/gonewx/cryodefense/pkg/types"

// AlienView 快照中的外星生物
type AlienView struct {
	ID           uint64          `json:"id" yaml:"id"`
	ActivationID string          `json:"activationId" yaml:"activationId"`
	Type         types.AlienType `json:"type" yaml:"type"`
	State        string          `json:"state" yaml:"state"`
	X            float64         `json:"x" yaml:"x"`
	Y            float64         `json:"y" yaml:"y"`
	Health       int             `json:"health" yaml:"health"`
	MaxHealth    int             `json:"maxHealth" yaml:"maxHealth"`
	Target       uint64          `json:"target" yaml:"target"`
}

// BuildingView 快照中的建筑
type BuildingView struct {
	ID          uint64             `json:"id" yaml:"id"`
	Type        types.BuildingType `json:"type" yaml:"type"`
	Stage       string             `json:"stage" yaml:"stage"`
	X           int                `json:"x" yaml:"x"`
	Y           int                `json:"y" yaml:"y"`
	Footprint   int                `json:"footprint" yaml:"footprint"`
	Health      int                `json:"health" yaml:"health"`
	MaxHealth   int                `json:"maxHealth" yaml:"maxHealth"`
	Operational bool               `json:"operational" yaml:"operational"`
	Valid       bool               `json:"valid" yaml:"valid"`
	Yaw         float64            `json:"yaw,omitempty" yaml:"yaw,omitempty"`
	Target      uint64             `json:"target,omitempty" yaml:"target,omitempty"`
}

// Snapshot 某一时刻的不可变世界视图
// 由模拟线程生成，之后可以安全地交给其他 goroutine
type Snapshot struct {
	Tick      uint64                             `json:"tick" yaml:"tick"`
	Time      float64                            `json:"time" yaml:"time"`
	Seed      int64                              `json:"seed" yaml:"seed"`
	Night     int                                `json:"night" yaml:"night"`
	Wave      int                                `json:"wave" yaml:"wave"`
	Daytime   bool                               `json:"daytime" yaml:"daytime"`
	GameOver  bool                               `json:"gameOver" yaml:"gameOver"`
	Width     int                                `json:"width" yaml:"width"`
	Height    int                                `json:"height" yaml:"height"`
	Resources map[types.ResourceKind]LedgerEntry `json:"resources" yaml:"resources"`
	Aliens    []AlienView                        `json:"aliens" yaml:"aliens"`
	Buildings []BuildingView                     `json:"buildings" yaml:"buildings"`
	Stats     RunStats                           `json:"stats" yaml:"stats"`
}

// RunStats 本局累计统计
type RunStats struct {
	AliensSpawned int `json:"aliensSpawned" yaml:"aliensSpawned"`
	AliensKilled  int `json:"aliensKilled" yaml:"aliensKilled"`
	WavesCleared  int `json:"wavesCleared" yaml:"wavesCleared"`
	WavesStarved  int `json:"wavesStarved" yaml:"wavesStarved"`
	Built         int `json:"built" yaml:"built"`
	Destroyed     int `json:"destroyed" yaml:"destroyed"`
}
