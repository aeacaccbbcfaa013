package systems

import (
	"math"
	"math/rand"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/event"
	"github.com/gonewx/cryodefense/pkg/types"
	"go.uber.org/zap"
)

// CalculateWaveSize 计算一波的外星生物数量
//
// round(buildingCount * maxPerBuilding * multiplier)，
// multiplier 在本夜第 1 波到第 wavesPerNight 波之间从 0.5 线性增长到 1.0，
// 每夜只有一波时为 1.0。
func CalculateWaveSize(buildingCount int, maxPerBuilding float64, waveIndex, wavesPerNight int) int {
	return int(math.Round(float64(buildingCount) * maxPerBuilding * WaveMultiplier(waveIndex, wavesPerNight)))
}

// WaveMultiplier 第 waveIndex 波（从 1 开始）的规模系数
func WaveMultiplier(waveIndex, wavesPerNight int) float64 {
	if wavesPerNight <= 1 {
		return 1.0
	}
	if waveIndex < 1 {
		waveIndex = 1
	}
	if waveIndex > wavesPerNight {
		waveIndex = wavesPerNight
	}
	return 0.5 + 0.5*float64(waveIndex-1)/float64(wavesPerNight-1)
}

// WaveConditions 判断是否开始新一波所需的状态
type WaveConditions struct {
	Daytime           bool
	AliensAlive       int
	CooldownRemaining float64
	WaveIndex         int // 本夜已开始的波数
	WavesPerNight     int
	JobRunning        bool
}

// ShouldStartWave 夜晚、场上无外星生物、冷却结束、未达每夜上限且没有进行中的生成任务
func ShouldStartWave(c WaveConditions) bool {
	return !c.Daytime &&
		c.AliensAlive == 0 &&
		c.CooldownRemaining <= 0 &&
		c.WaveIndex < c.WavesPerNight &&
		!c.JobRunning
}

// WaveDirector 波次调度
type WaveDirector struct {
	em       *ecs.EntityManager
	bus      *event.Bus
	queue    *WorkQueue
	selector *SpawnPointSelector
	placer   *EnemyPlacer
	aliens   *config.AlienStatsConfig
	cfg      config.WaveConfig
	rng      *rand.Rand
	logger   *zap.Logger

	night      int
	daytime    bool
	waveIndex  int
	waveActive bool
	cooldown   float64
	job        *SpawnJob

	// onSpawn 每放置一个外星生物时通知（统计用）
	onSpawn func(id ecs.EntityID, alienType types.AlienType)
}

// NewWaveDirector 创建波次调度器并订阅昼夜事件
func NewWaveDirector(em *ecs.EntityManager, bus *event.Bus, queue *WorkQueue, selector *SpawnPointSelector,
	placer *EnemyPlacer, aliens *config.AlienStatsConfig, cfg config.WaveConfig, rng *rand.Rand) *WaveDirector {
	d := &WaveDirector{
		em:       em,
		bus:      bus,
		queue:    queue,
		selector: selector,
		placer:   placer,
		aliens:   aliens,
		cfg:      cfg,
		rng:      rng,
		logger:   logs.Named("WaveDirector"),
		daytime:  true,
	}
	event.Subscribe(bus, d.onDusk)
	event.Subscribe(bus, d.onDawn)
	return d
}

// SetConfig 替换波次参数（热更新）
func (d *WaveDirector) SetConfig(cfg config.WaveConfig) {
	d.cfg = cfg
}

// OnSpawn 设置放置回调
func (d *WaveDirector) OnSpawn(fn func(id ecs.EntityID, alienType types.AlienType)) {
	d.onSpawn = fn
}

func (d *WaveDirector) onDusk(e event.Dusk) {
	d.night = e.Night
	d.daytime = false
	d.waveIndex = 0
	d.cooldown = 0
}

func (d *WaveDirector) onDawn(e event.Dawn) {
	d.daytime = true
	d.waveIndex = 0
	if d.job != nil {
		d.queue.Cancel(d.job)
		d.logger.Info("dawn interrupted spawning",
			zap.Int("night", d.night), zap.Int("spawned", d.job.Spawned()))
		d.job = nil
	}
}

// Update 推进冷却、处理生成任务结束与清场，并在条件满足时开始新一波
func (d *WaveDirector) Update(dt float64) {
	if d.job != nil && d.job.Done() {
		d.finishJob()
	}

	alive := d.AliensAlive()
	if d.waveActive && d.job == nil && alive == 0 {
		d.waveActive = false
		d.cooldown = d.cfg.WaveCooldown
		d.logger.Info("wave cleared", zap.Int("night", d.night), zap.Int("wave", d.waveIndex))
		event.Publish(d.bus, event.WaveCleared{Night: d.night, Wave: d.waveIndex})
	}

	if d.cooldown > 0 {
		d.cooldown -= dt
	}

	if ShouldStartWave(d.Conditions(alive)) {
		d.startWave()
	}
}

// Conditions 当前的开波条件
func (d *WaveDirector) Conditions(alive int) WaveConditions {
	return WaveConditions{
		Daytime:           d.daytime,
		AliensAlive:       alive,
		CooldownRemaining: d.cooldown,
		WaveIndex:         d.waveIndex,
		WavesPerNight:     d.cfg.WavesPerNight,
		JobRunning:        d.job != nil,
	}
}

func (d *WaveDirector) startWave() {
	d.waveIndex++
	buildings := d.BuildingCount()
	size := CalculateWaveSize(buildings, d.cfg.MaxAliensPerBuilding, d.waveIndex, d.cfg.WavesPerNight)
	if size < d.cfg.MinWaveSize {
		size = d.cfg.MinWaveSize
	}

	base := d.rng.Float64() * 360
	d.selector.Reset()
	d.selector.Partition(base, size)

	d.job = d.placer.NewSpawnJob(SpawnRequest{
		Night:   d.night,
		Wave:    d.waveIndex,
		Size:    size,
		Types:   d.aliens.TypesForNight(d.night),
		RNG:     d.rng,
		OnSpawn: d.onSpawn,
	})
	d.queue.Enqueue(d.job)
	d.waveActive = true

	d.logger.Info("wave started",
		zap.Int("night", d.night),
		zap.Int("wave", d.waveIndex),
		zap.Int("size", size),
		zap.Int("buildings", buildings),
		zap.Float64("baseAngle", base),
		zap.Int("majority", len(d.selector.majority)),
		zap.Int("minority", len(d.selector.minority)))
	event.Publish(d.bus, event.WaveStarted{Night: d.night, Wave: d.waveIndex, Size: size})
}

// finishJob 生成任务结束；候选点耗尽时发出警告并发布 WaveStarved，本波按已生成的数量继续
func (d *WaveDirector) finishJob() {
	job := d.job
	d.job = nil
	if missing := job.Missing(); missing > 0 {
		d.logger.Warn("spawn points exhausted, wave starved",
			zap.Int("night", d.night),
			zap.Int("wave", d.waveIndex),
			zap.Int("spawned", job.Spawned()),
			zap.Int("missing", missing),
			zap.Int("rejected", job.Rejected()))
		event.Publish(d.bus, event.WaveStarved{Night: d.night, Wave: d.waveIndex, Missing: missing})
	}
}

// AliensAlive 场上（已激活未死亡）的外星生物数量
func (d *WaveDirector) AliensAlive() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.AlienComponent](d.em) {
		alien, _ := ecs.GetComponent[*components.AlienComponent](d.em, id)
		if alien.State.Active() {
			n++
		}
	}
	return n
}

// BuildingCount 已放置的建筑数量（含冷冻蛋，不含手持中的建筑）
func (d *WaveDirector) BuildingCount() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.BuildingComponent](d.em) {
		b, _ := ecs.GetComponent[*components.BuildingComponent](d.em, id)
		if b.Stage != components.BuildingHeld {
			n++
		}
	}
	return n
}

// Night 当前夜晚编号
func (d *WaveDirector) Night() int { return d.night }

// WaveIndex 本夜已开始的波数
func (d *WaveDirector) WaveIndex() int { return d.waveIndex }

// WaveActive 本波是否仍在进行（生成中或仍有存活）
func (d *WaveDirector) WaveActive() bool { return d.waveActive }

// Spawning 是否有进行中的生成任务
func (d *WaveDirector) Spawning() bool { return d.job != nil }

// Cooldown 距离允许开下一波的剩余时间
func (d *WaveDirector) Cooldown() float64 { return d.cooldown }
