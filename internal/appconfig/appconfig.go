// Package appconfig 运行时配置（日志、模拟、服务、存档），基于 viper，支持文件热更新
//
// 数据定义（外星生物、建筑、地图）由 pkg/config 负责，这里只管进程级别的开关。
package appconfig

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix 环境变量前缀，如 CRYO_SIM_SEED=7
const EnvPrefix = "CRYO"

// SimSettings 模拟参数
type SimSettings struct {
	Seed     int64  `mapstructure:"seed"`
	TickRate int    `mapstructure:"tickRate"` // 每秒 tick 数
	MaxTicks int    `mapstructure:"maxTicks"` // 无头运行的上限，0 表示直到游戏结束
	DataDir  string `mapstructure:"dataDir"`  // 数据文件覆盖目录
}

// TickInterval 每个 tick 的时长
func (s SimSettings) TickInterval() time.Duration {
	if s.TickRate <= 0 {
		return time.Second / 20
	}
	return time.Second / time.Duration(s.TickRate)
}

// ServerSettings HTTP / WebSocket 服务参数
type ServerSettings struct {
	Addr           string        `mapstructure:"addr"`
	Mode           string        `mapstructure:"mode"`           // gin 模式：debug/release/test
	BroadcastEvery int           `mapstructure:"broadcastEvery"` // 每隔多少 tick 推送一次快照
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	AllowOrigins   []string      `mapstructure:"allowOrigins"` // WebSocket 允许的 Origin，空表示不限制
}

// SaveSettings 存档参数
type SaveSettings struct {
	AppName string `mapstructure:"appName"` // gdata 应用名
	Enabled bool   `mapstructure:"enabled"`
}

// Config 运行时配置
type Config struct {
	Logs   logs.Config    `mapstructure:"logs"`
	Sim    SimSettings    `mapstructure:"sim"`
	Server ServerSettings `mapstructure:"server"`
	Save   SaveSettings   `mapstructure:"save"`
}

// Validate 检查配置合法性
func (c Config) Validate() error {
	if c.Sim.TickRate < 1 || c.Sim.TickRate > 240 {
		return fmt.Errorf("sim.tickRate must be in [1,240], got %d", c.Sim.TickRate)
	}
	if c.Sim.MaxTicks < 0 {
		return fmt.Errorf("sim.maxTicks cannot be negative")
	}
	if c.Server.BroadcastEvery < 1 {
		return fmt.Errorf("server.broadcastEvery must be >= 1, got %d", c.Server.BroadcastEvery)
	}
	if c.Save.Enabled && c.Save.AppName == "" {
		return fmt.Errorf("save.appName is required when saving is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.maxSize", 20)
	v.SetDefault("logs.maxBackups", 3)
	v.SetDefault("logs.maxAge", 7)
	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.tickRate", 20)
	v.SetDefault("sim.maxTicks", 0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.broadcastEvery", 4)
	v.SetDefault("server.writeTimeout", "5s")
	v.SetDefault("save.appName", "cryodefense")
	v.SetDefault("save.enabled", true)
}

// Manager 持有当前配置，文件变化时重新解析并通知订阅者
type Manager struct {
	v    *viper.Viper
	path string

	mu        sync.RWMutex
	conf      Config
	listeners []func(Config)
}

// Load 读取配置文件；path 为空时只使用默认值和环境变量
func Load(path string) (*Manager, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not exist, path=%s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	m := &Manager{v: v, path: path}
	conf, err := m.decode()
	if err != nil {
		return nil, err
	}
	m.conf = conf
	return m, nil
}

func (m *Manager) decode() (Config, error) {
	var conf Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := m.v.Unmarshal(&conf, hook); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return conf, nil
}

// Config 返回当前配置的副本
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conf
}

// Path 配置文件路径
func (m *Manager) Path() string {
	return m.path
}

// OnChange 注册热更新回调，回调在 fsnotify 的 goroutine 中执行
func (m *Manager) OnChange(fn func(Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Watch 监听配置文件变化；没有配置文件时什么也不做
func (m *Manager) Watch() {
	if m.path == "" {
		return
	}
	m.v.OnConfigChange(func(e fsnotify.Event) {
		logs.Named("AppConfig").Info("config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		m.reload()
	})
	m.v.WatchConfig()
}

// reload 重新解析，失败时保留旧配置
func (m *Manager) reload() {
	conf, err := m.decode()
	if err != nil {
		logs.Named("AppConfig").Error("config reload rejected", zap.Error(err))
		return
	}
	logs.SetLevel(conf.Logs.Level)

	m.mu.Lock()
	m.conf = conf
	listeners := append([]func(Config){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(conf)
	}
}
