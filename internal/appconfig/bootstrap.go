package appconfig

import (
	"fmt"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/embedded"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

// Bootstrap 加载配置、初始化日志、设置数据覆盖目录并开始监听配置文件
//
// 各个可执行文件在 main 的开头调用一次。
func Bootstrap(path, appName string) (*Manager, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	conf := m.Config()
	if err := logs.Init(appName, conf.Logs); err != nil {
		return nil, fmt.Errorf("failed to init logs: %w", err)
	}
	if conf.Sim.DataDir != "" {
		embedded.SetOverrideDir(conf.Sim.DataDir)
	}
	m.Watch()

	logs.Named("AppConfig").Info("config loaded",
		zap.String("file", path), zap.String("level", conf.Logs.Level),
		zap.Int64("seed", conf.Sim.Seed), zap.String("dataDir", conf.Sim.DataDir))
	return m, nil
}

// OpenStorage 打开 gdata 存储；存档关闭时返回 nil（记录和设置只保存在内存中）
func OpenStorage(s SaveSettings) (*gdata.Manager, error) {
	if !s.Enabled {
		return nil, nil
	}
	m, err := gdata.Open(gdata.Config{AppName: s.AppName})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage %q: %w", s.AppName, err)
	}
	return m, nil
}
