package server

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/sim"
	"go.uber.org/zap"
)

// ErrRunnerStopped 运行器已退出，命令无法执行
var ErrRunnerStopped = errors.New("runner stopped")

// Command 在模拟 goroutine 中执行的操作
type Command func(w *sim.World) (any, error)

type request struct {
	cmd   Command
	reply chan response
}

type response struct {
	value any
	err   error
}

// Runner 独占 World 的 goroutine：按固定间隔 tick，串行执行外部命令，发布只读快照
type Runner struct {
	world          *sim.World
	interval       time.Duration
	broadcastEvery int
	requests       chan request
	done           chan struct{}
	latest         atomic.Pointer[game.Snapshot]
	onSnapshot     func(*game.Snapshot)
	onGameOver     func(game.RunRecord)
	reported       bool
	logger         *zap.Logger
}

// NewRunner 创建运行器；world 之后只能通过 Do 访问
func NewRunner(world *sim.World, interval time.Duration, broadcastEvery int) *Runner {
	if broadcastEvery < 1 {
		broadcastEvery = 1
	}
	r := &Runner{
		world:          world,
		interval:       interval,
		broadcastEvery: broadcastEvery,
		requests:       make(chan request),
		done:           make(chan struct{}),
		logger:         logs.Named("Runner"),
	}
	r.latest.Store(world.Snapshot())
	return r
}

// OnSnapshot 每 broadcastEvery 个 tick 以及每条命令之后回调（在运行器 goroutine 中）
func (r *Runner) OnSnapshot(fn func(*game.Snapshot)) {
	r.onSnapshot = fn
}

// OnGameOver 游戏结束时回调一次
func (r *Runner) OnGameOver(fn func(game.RunRecord)) {
	r.onGameOver = fn
}

// Run 阻塞运行直到 ctx 取消
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	dt := r.interval.Seconds()
	r.logger.Info("runner started", zap.Duration("interval", r.interval), zap.Int("broadcastEvery", r.broadcastEvery))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped", zap.Uint64("tick", r.world.TickCount()))
			return ctx.Err()

		case req := <-r.requests:
			v, err := req.cmd(r.world)
			req.reply <- response{value: v, err: err}
			r.publish()

		case <-ticker.C:
			if r.world.GameOver() {
				r.reportGameOver()
				continue
			}
			r.world.Tick(dt)
			if r.world.TickCount()%uint64(r.broadcastEvery) == 0 || r.world.GameOver() {
				r.publish()
			}
		}
	}
}

func (r *Runner) publish() {
	snap := r.world.Snapshot()
	r.latest.Store(snap)
	if r.onSnapshot != nil {
		r.onSnapshot(snap)
	}
}

func (r *Runner) reportGameOver() {
	if r.reported {
		return
	}
	r.reported = true
	rec := r.world.RunRecord()
	r.logger.Info("run finished", zap.Int("nights", rec.NightsReached), zap.Int("killed", rec.Stats.AliensKilled))
	if r.onGameOver != nil {
		r.onGameOver(rec)
	}
}

// Do 把命令交给运行器执行并等待结果
func (r *Runner) Do(ctx context.Context, cmd Command) (any, error) {
	req := request{cmd: cmd, reply: make(chan response, 1)}
	select {
	case r.requests <- req:
	case <-r.done:
		return nil, ErrRunnerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp.value, resp.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot 最近一次发布的快照，可在任意 goroutine 调用
func (r *Runner) Snapshot() *game.Snapshot {
	return r.latest.Load()
}
