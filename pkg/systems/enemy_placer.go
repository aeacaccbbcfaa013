package systems

import (
	"fmt"
	"math/rand"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/entities"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
	"go.uber.org/zap"
)

// Surface 放置外星生物所需的地表查询
// *grid.Grid 实现了该接口
type Surface interface {
	grid.OccupancyQuery
	grid.GroundSampler
	grid.NavQuery
	CellCenter(c grid.Cell) (x, y float64)
}

// EnemyPlacer 验证候选点并从对象池放置外星生物
type EnemyPlacer struct {
	surface  Surface
	pool     *entities.AlienPool
	stats    *config.AlienStatsConfig
	selector *SpawnPointSelector
	logger   *zap.Logger
}

// NewEnemyPlacer 创建放置器
func NewEnemyPlacer(surface Surface, pool *entities.AlienPool, stats *config.AlienStatsConfig, selector *SpawnPointSelector) *EnemyPlacer {
	return &EnemyPlacer{
		surface:  surface,
		pool:     pool,
		stats:    stats,
		selector: selector,
		logger:   logs.Named("EnemyPlacer"),
	}
}

// Validate 候选格必须未被占用、有地面、可通行
func (p *EnemyPlacer) Validate(c grid.Cell) bool {
	if p.surface.IsOccupied(c) {
		return false
	}
	if _, ok := p.surface.GroundHeight(c); !ok {
		return false
	}
	return p.surface.IsNavigable(c)
}

// Place 从对象池取出外星生物并在格中心激活
func (p *EnemyPlacer) Place(alienType types.AlienType, c grid.Cell) (ecs.EntityID, error) {
	id, err := p.pool.Acquire(alienType)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire %s: %w", alienType, err)
	}
	x, y := p.surface.CellCenter(c)
	if err := p.pool.Activate(id, x, y); err != nil {
		p.pool.Return(id)
		return 0, fmt.Errorf("failed to activate %s: %w", alienType, err)
	}
	return id, nil
}

// Margin 验证失败时剔除的邻域半径
func (p *EnemyPlacer) Margin(alienType types.AlienType) int {
	s, _ := p.stats.Get(alienType)
	return s.SpawnMargin
}

// SpawnRequest 一波生成请求
type SpawnRequest struct {
	Night int
	Wave  int
	Size  int
	Types []types.AlienType // 可出现的类型，按权重抽取
	RNG   *rand.Rand

	// OnSpawn 每成功放置一个外星生物时调用
	OnSpawn func(id ecs.EntityID, alienType types.AlienType)
}

// SpawnJob 分帧执行的一波生成任务
//
// 每一步处理一个候选点：验证失败时剔除邻域并以同一序号重试，
// 候选点耗尽时记录缺额并结束。
type SpawnJob struct {
	placer *EnemyPlacer
	req    SpawnRequest

	weights     []int
	totalWeight int

	pending  types.AlienType
	spawned  int
	rejected int
	missing  int
	done     bool
}

// NewSpawnJob 创建生成任务
func (p *EnemyPlacer) NewSpawnJob(req SpawnRequest) *SpawnJob {
	j := &SpawnJob{placer: p, req: req}
	for _, t := range req.Types {
		s, _ := p.stats.Get(t)
		j.weights = append(j.weights, s.Weight)
		j.totalWeight += s.Weight
	}
	return j
}

// Step 实现 Job
func (j *SpawnJob) Step() bool {
	if j.done {
		return true
	}
	if j.spawned >= j.req.Size {
		j.done = true
		return true
	}
	if j.totalWeight <= 0 {
		j.placer.logger.Warn("no alien types available for night", zap.Int("night", j.req.Night))
		j.finish()
		return true
	}
	if j.pending == "" {
		j.pending = j.pickType()
	}

	point, ok := j.placer.selector.Next(j.req.RNG)
	if !ok {
		j.finish()
		return true
	}

	if !j.placer.Validate(point.Cell) {
		margin := j.placer.Margin(j.pending)
		removed := j.placer.selector.RemoveNeighborhood(point.Cell, margin)
		j.rejected++
		j.placer.logger.Debug("spawn point rejected",
			zap.Int("x", point.Cell.X), zap.Int("y", point.Cell.Y),
			zap.Int("margin", margin), zap.Int("removed", removed))
		return false
	}

	id, err := j.placer.Place(j.pending, point.Cell)
	if err != nil {
		j.placer.logger.Error("failed to place alien", zap.Error(err))
		j.finish()
		return true
	}
	j.placer.selector.Take(point)
	if j.req.OnSpawn != nil {
		j.req.OnSpawn(id, j.pending)
	}
	j.pending = ""
	j.spawned++
	if j.spawned >= j.req.Size {
		j.done = true
	}
	return j.done
}

func (j *SpawnJob) finish() {
	j.missing = j.req.Size - j.spawned
	j.done = true
}

func (j *SpawnJob) pickType() types.AlienType {
	r := j.req.RNG.Intn(j.totalWeight)
	for i, w := range j.weights {
		if r < w {
			return j.req.Types[i]
		}
		r -= w
	}
	return j.req.Types[len(j.req.Types)-1]
}

// Done 任务是否结束
func (j *SpawnJob) Done() bool { return j.done }

// Spawned 已放置数量
func (j *SpawnJob) Spawned() int { return j.spawned }

// Rejected 验证失败次数
func (j *SpawnJob) Rejected() int { return j.rejected }

// Missing 候选点耗尽时未能放置的数量
func (j *SpawnJob) Missing() int { return j.missing }

// Request 返回生成请求
func (j *SpawnJob) Request() SpawnRequest { return j.req }
