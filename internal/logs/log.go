// Package logs 封装 zap，提供控制台 + JSON 文件双路输出的结构化日志
package logs

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Level      string `mapstructure:"level"`      // debug/info/warn/error，大小写不敏感
	File       string `mapstructure:"file"`       // 日志文件路径，空表示只输出到控制台
	MaxSize    int    `mapstructure:"maxSize"`    // 单个文件最大大小（MB）
	MaxBackups int    `mapstructure:"maxBackups"` // 最多保留的旧文件个数
	MaxAge     int    `mapstructure:"maxAge"`     // 旧文件保留天数
	Compress   bool   `mapstructure:"compress"`   // 是否压缩旧文件
	Dev        bool   `mapstructure:"dev"`        // 开发模式：warn 以上附带堆栈
}

var (
	mu          sync.RWMutex
	logger      = zap.NewNop()
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init 初始化全局 logger
// 未调用 Init 之前所有日志都是 no-op，测试中无需额外处理
func Init(appName string, cfg Config) error {
	atomicLevel.SetLevel(parseLevel(cfg.Level))

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), atomicLevel)

	core := consoleCore
	if cfg.File != "" {
		var fileWriter io.Writer = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		// 文件只写 JSON，避免把颜色转义写进日志
		core = zapcore.NewTee(
			consoleCore,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(fileWriter), atomicLevel),
		)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	l := zap.New(core, opts...).Named(appName)

	mu.Lock()
	_ = logger.Sync()
	logger = l
	mu.Unlock()
	return nil
}

// SetLevel 动态调整日志级别（配置热更新时调用）
func SetLevel(level string) {
	atomicLevel.SetLevel(parseLevel(level))
}

// Level 返回当前日志级别
func Level() zapcore.Level {
	return atomicLevel.Level()
}

func parseLevel(level string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// L 返回全局 logger
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Named 返回带系统名的子 logger，如 logs.Named("WaveDirector")
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync 刷盘
func Sync() {
	_ = L().Sync()
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }
