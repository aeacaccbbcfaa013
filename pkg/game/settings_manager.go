package game

import (
	"fmt"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 观察器设置（ebiten / 终端观察器共用）
type ViewerSettings struct {
	SimSpeed   float64 `yaml:"simSpeed"`   // 模拟倍速 0.25 ~ 8
	ShowGrid   bool    `yaml:"showGrid"`   // 是否绘制网格线
	ShowPaths  bool    `yaml:"showPaths"`  // 是否绘制外星生物路径
	ShowRanges bool    `yaml:"showRanges"` // 是否绘制炮塔射程
	Fullscreen bool    `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		SimSpeed:   1.0,
		ShowGrid:   true,
		ShowPaths:  false,
		ShowRanges: true,
		Fullscreen: false,
	}
}

// SettingsManager 设置管理器
// 负责观察器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings
	logger       *zap.Logger
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
		logger:       logs.Named("SettingsManager"),
	}

	// 加载失败不是致命错误，使用默认设置
	if err := sm.Load(); err != nil {
		sm.logger.Warn("failed to load settings, using defaults", zap.Error(err))
	}
	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.SimSpeed = clampSpeed(loaded.SimSpeed)
	sm.settings = loaded
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	sm.logger.Debug("settings saved")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetSimSpeed 设置模拟倍速
//
// 倍速会被限制在 0.25 ~ 8 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSimSpeed(speed float64) {
	sm.settings.SimSpeed = clampSpeed(speed)
}

// ToggleGrid 切换网格线显示
func (sm *SettingsManager) ToggleGrid() {
	sm.settings.ShowGrid = !sm.settings.ShowGrid
}

// TogglePaths 切换路径显示
func (sm *SettingsManager) TogglePaths() {
	sm.settings.ShowPaths = !sm.settings.ShowPaths
}

// ToggleRanges 切换射程显示
func (sm *SettingsManager) ToggleRanges() {
	sm.settings.ShowRanges = !sm.settings.ShowRanges
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// clampSpeed 将倍速限制在 0.25 ~ 8 范围内
func clampSpeed(speed float64) float64 {
	if speed < 0.25 {
		return 0.25
	}
	if speed > 8 {
		return 8
	}
	return speed
}
