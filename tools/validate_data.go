package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gonewx/cryodefense/pkg/config"
)

// 校验数据覆盖目录中的 YAML 配置
//
// 用法：go run ./tools [目录]，默认 pkg/embedded/data
// 目录中缺少的文件跳过（运行时回退到内置版本）。
func main() {
	dir := "pkg/embedded/data"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	checks := []struct {
		file  string
		parse func([]byte) (string, error)
	}{
		{"sim.yaml", func(data []byte) (string, error) {
			cfg, err := config.ParseSimConfig(data)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("地图 %dx%d，每夜 %d 波", cfg.Map.Width, cfg.Map.Height, cfg.Waves.WavesPerNight), nil
		}},
		{"aliens.yaml", func(data []byte) (string, error) {
			cfg, err := config.ParseAlienStats(data)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("外星生物类型: %d", len(cfg.Aliens)), nil
		}},
		{"buildings.yaml", func(data []byte) (string, error) {
			cfg, err := config.ParseBuildingConfig(data)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("建筑类型: %d", len(cfg.Buildings)), nil
		}},
	}

	failed := 0
	for _, c := range checks {
		path := filepath.Join(dir, c.file)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			fmt.Printf("⏭️  %s 不存在，使用内置版本\n", c.file)
			continue
		}
		if err != nil {
			fmt.Printf("❌ 读取文件失败: %v\n", err)
			failed++
			continue
		}
		summary, err := c.parse(data)
		if err != nil {
			fmt.Printf("❌ %s: %v\n", c.file, err)
			failed++
			continue
		}
		fmt.Printf("✅ %s 格式正确，%s\n", c.file, summary)
	}

	if failed > 0 {
		fmt.Printf("❌ 有 %d 个文件校验失败\n", failed)
		os.Exit(1)
	}
}
