package systems

import (
	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/event"
	"go.uber.org/zap"
)

// DayNightSystem 昼夜循环
//
// 白天与夜晚按固定时长交替；入夜时夜晚计数加一并发布 Dusk，天亮时发布 Dawn。
type DayNightSystem struct {
	bus    *event.Bus
	cfg    config.DayNightConfig
	logger *zap.Logger

	started bool
	night   int
	daytime bool
	elapsed float64 // 当前阶段已经过的时间
}

// NewDayNightSystem 创建昼夜系统
func NewDayNightSystem(bus *event.Bus, cfg config.DayNightConfig) *DayNightSystem {
	return &DayNightSystem{
		bus:     bus,
		cfg:     cfg,
		logger:  logs.Named("DayNight"),
		daytime: true,
	}
}

// Start 开始循环；StartAtNight 时立即进入第一夜
func (s *DayNightSystem) Start() {
	if s.started {
		return
	}
	s.started = true
	if s.cfg.StartAtNight {
		s.dusk()
	}
}

// Update 推进时间，一次可能跨越多个阶段
func (s *DayNightSystem) Update(dt float64) {
	if !s.started {
		s.Start()
	}
	s.elapsed += dt
	for {
		length := s.cfg.DayLength
		if !s.daytime {
			length = s.cfg.NightLength
		}
		if s.elapsed < length {
			return
		}
		s.elapsed -= length
		if s.daytime {
			s.dusk()
		} else {
			s.dawn()
		}
	}
}

func (s *DayNightSystem) dusk() {
	s.daytime = false
	s.night++
	s.logger.Info("dusk", zap.Int("night", s.night))
	event.Publish(s.bus, event.Dusk{Night: s.night})
}

func (s *DayNightSystem) dawn() {
	s.daytime = true
	s.logger.Info("dawn", zap.Int("night", s.night))
	event.Publish(s.bus, event.Dawn{Night: s.night})
}

// IsDay 是否白天
func (s *DayNightSystem) IsDay() bool {
	return s.daytime
}

// Night 当前（或最近一个）夜晚的编号，尚未入夜时为 0
func (s *DayNightSystem) Night() int {
	return s.night
}

// Remaining 当前阶段剩余时间
func (s *DayNightSystem) Remaining() float64 {
	if s.daytime {
		return s.cfg.DayLength - s.elapsed
	}
	return s.cfg.NightLength - s.elapsed
}

// SetConfig 替换时长配置，从下一次 Update 起生效
func (s *DayNightSystem) SetConfig(cfg config.DayNightConfig) {
	s.cfg = cfg
}
