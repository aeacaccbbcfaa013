package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNamedBeforeInitIsNop(t *testing.T) {
	// 未初始化时不应 panic
	Named("Test").Info("ignored", zap.Int("n", 1))
}

func TestInitWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	if err := Init("cryotest", Config{Level: "debug", File: path}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer func() {
		mu.Lock()
		logger = zap.NewNop()
		mu.Unlock()
	}()

	Named("WaveDirector").Info("wave started", zap.Int("wave", 2))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"wave started"`) {
		t.Errorf("log file missing message: %s", line)
	}
	if !strings.Contains(line, `"logger":"cryotest.WaveDirector"`) {
		t.Errorf("log file missing logger name: %s", line)
	}
}

func TestSetLevel(t *testing.T) {
	SetLevel("warn")
	if Level() != zapcore.WarnLevel {
		t.Errorf("level: got %v, want warn", Level())
	}
	SetLevel("nonsense")
	if Level() != zapcore.InfoLevel {
		t.Errorf("invalid level should fall back to info, got %v", Level())
	}
}
