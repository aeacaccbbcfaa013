package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下创建 gdata manager
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestDefaultSettings 测试默认值
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.SimSpeed != 1.0 {
		t.Errorf("SimSpeed: got %v, want 1.0", s.SimSpeed)
	}
	if !s.ShowGrid {
		t.Error("ShowGrid: got false, want true")
	}
	if s.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestSettingsNilManager 降级模式下可以正常读写内存设置
func TestSettingsNilManager(t *testing.T) {
	sm := NewSettingsManager(nil)
	sm.SetSimSpeed(2)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() with nil manager should not fail: %v", err)
	}
	if sm.GetSettings().SimSpeed != 2 {
		t.Errorf("SimSpeed: got %v, want 2", sm.GetSettings().SimSpeed)
	}
}

// TestSettingsSaveAndLoad 保存后重新加载
func TestSettingsSaveAndLoad(t *testing.T) {
	m := openTestGdata(t, "cryo_settings_test")

	sm := NewSettingsManager(m)
	sm.SetSimSpeed(4)
	sm.ToggleGrid()
	sm.TogglePaths()
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	reloaded := NewSettingsManager(m)
	got := reloaded.GetSettings()
	if got.SimSpeed != 4 {
		t.Errorf("SimSpeed: got %v, want 4", got.SimSpeed)
	}
	if got.ShowGrid {
		t.Error("ShowGrid: got true, want false")
	}
	if !got.ShowPaths {
		t.Error("ShowPaths: got false, want true")
	}
}

// TestClampSpeed 倍速边界
func TestClampSpeed(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0.25},
		{0.5, 0.5},
		{100, 8},
	}
	for _, tt := range tests {
		if got := clampSpeed(tt.in); got != tt.want {
			t.Errorf("clampSpeed(%v): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
