// Package embedded 提供内置数据文件的统一访问接口
//
// 默认的 sim/aliens/buildings 配置随二进制一同发布（data/*.yaml）。
// 调用 SetOverrideDir 后，同名文件优先从磁盘目录读取，便于调参而无需重新编译。
package embedded

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed data/*.yaml
var dataFS embed.FS

var overrideDir string

// SetOverrideDir 设置磁盘覆盖目录，传空字符串取消覆盖
func SetOverrideDir(dir string) {
	overrideDir = dir
}

// OverrideDir 返回当前的磁盘覆盖目录
func OverrideDir() string {
	return overrideDir
}

// normalize 统一路径格式，路径必须以 "data/" 开头
func normalize(path string) (string, error) {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, "data/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}

// ReadFile 读取数据文件
// 优先读取覆盖目录中的同名文件（去掉 "data/" 前缀后拼接），不存在时回退到内置文件
func ReadFile(path string) ([]byte, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}

	if overrideDir != "" {
		diskPath := filepath.Join(overrideDir, strings.TrimPrefix(path, "data/"))
		data, err := os.ReadFile(diskPath)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read override file %s: %w", diskPath, err)
		}
	}

	return fs.ReadFile(dataFS, path)
}

// Exists 检查数据文件是否存在（内置或覆盖目录）
func Exists(path string) bool {
	_, err := ReadFile(path)
	return err == nil
}

// Glob 在内置数据中匹配文件
func Glob(pattern string) ([]string, error) {
	pattern, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, pattern)
}
