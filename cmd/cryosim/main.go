// cryosim 无界面批量运行模拟，输出每局结果并写入历史记录
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gonewx/cryodefense/internal/appconfig"
	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/sim"
	"github.com/gonewx/cryodefense/pkg/types"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "运行时配置文件（YAML）")
	seed       = flag.Int64("seed", 0, "起始种子，0 表示使用配置中的值")
	runs       = flag.Int("runs", 1, "运行局数，第 i 局种子为 seed+i")
	maxTicks   = flag.Uint64("ticks", 0, "每局最大 tick 数，0 表示使用配置中的值")
	turrets    = flag.Int("turrets", 0, "开局在冷冻蛋周围放置的机枪塔数量（最多 8）")
	snapshot   = flag.String("snapshot", "", "非空时以此名称保存每局最终快照（追加局号）")
)

// batch 一次批量运行的参数
type batch struct {
	Seed     int64
	Runs     int
	MaxTicks uint64
	TickRate int
	Turrets  int
	Snapshot string
	Bundle   *config.Bundle
}

// turretSlots 冷冻蛋四周的炮塔预设位（相对蛋左上角的偏移）
func turretSlots(eggFootprint int) []grid.Cell {
	d := eggFootprint + 1
	return []grid.Cell{
		{X: -2, Y: -2}, {X: d, Y: d}, {X: d, Y: -2}, {X: -2, Y: d},
		{X: -2, Y: 0}, {X: d, Y: 0}, {X: 0, Y: -2}, {X: 0, Y: d},
	}
}

// opening 开局布置炮塔，返回成功放置的数量
func opening(w *sim.World, n int) int {
	eggStats, _ := w.Config().Buildings.Get(types.BuildingCryoEgg)
	egg := w.Config().Sim.Map.EggCell
	origin := grid.Cell{X: egg.X, Y: egg.Y}

	placed := 0
	for _, off := range turretSlots(eggStats.Footprint) {
		if placed >= n {
			break
		}
		if _, err := w.PlaceBuilding(types.BuildingGunTurret, origin.Add(off)); err == nil {
			placed++
		}
	}
	return placed
}

// frozenClock 批量运行时分帧只受步数限制，同一种子的结果可复现
func frozenClock() time.Time { return time.Time{} }

// simulate 依次运行 b.Runs 局，每局结束后写入记录管理器
func simulate(b batch, records *game.RecordManager, out io.Writer) ([]game.RunRecord, error) {
	logger := logs.Named("cryosim")
	dt := 1.0 / float64(b.TickRate)

	results := make([]game.RunRecord, 0, b.Runs)
	for i := 0; i < b.Runs; i++ {
		w, err := sim.NewWorld(sim.Options{Seed: b.Seed + int64(i), Config: b.Bundle, Clock: frozenClock})
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i, err)
		}
		if b.Turrets > 0 {
			got := opening(w, b.Turrets)
			logger.Debug("opening placed", zap.Int("run", i), zap.Int("turrets", got))
		}

		for !w.GameOver() && (b.MaxTicks == 0 || w.TickCount() < b.MaxTicks) {
			w.Tick(dt)
		}

		rec := w.RunRecord()
		results = append(results, rec)
		if err := records.AddRun(rec); err != nil {
			logger.Warn("failed to save run", zap.Int("run", i), zap.Error(err))
		}
		if b.Snapshot != "" {
			name := fmt.Sprintf("%s-%d", b.Snapshot, i)
			if err := records.SaveSnapshot(name, w.Snapshot()); err != nil {
				logger.Warn("failed to save snapshot", zap.String("name", name), zap.Error(err))
			}
		}

		status := "survived"
		if rec.GameOver {
			status = "egg lost"
		}
		fmt.Fprintf(out, "run %d seed %d: %s, night %d, %.0fs, spawned %d, killed %d, built %d, destroyed %d\n",
			i, rec.Seed, status, rec.NightsReached, rec.Duration,
			rec.Stats.AliensSpawned, rec.Stats.AliensKilled, rec.Stats.Built, rec.Stats.Destroyed)
	}
	return results, nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cm, err := appconfig.Bootstrap(*configPath, "sim")
	if err != nil {
		return err
	}
	defer logs.Sync()
	conf := cm.Config()

	bundle, err := config.LoadDefaults()
	if err != nil {
		return err
	}
	b := batch{
		Seed:     conf.Sim.Seed,
		Runs:     *runs,
		MaxTicks: uint64(conf.Sim.MaxTicks),
		TickRate: conf.Sim.TickRate,
		Turrets:  min(*turrets, 8),
		Snapshot: *snapshot,
		Bundle:   bundle,
	}
	if *seed != 0 {
		b.Seed = *seed
	}
	if *maxTicks != 0 {
		b.MaxTicks = *maxTicks
	}
	if b.Runs < 1 {
		return fmt.Errorf("runs must be >= 1, got %d", b.Runs)
	}

	store, err := appconfig.OpenStorage(conf.Save)
	if err != nil {
		return err
	}
	records := game.NewRecordManager(store)
	if _, err := simulate(b, records, os.Stdout); err != nil {
		return err
	}
	fmt.Printf("best night so far: %d\n", records.Book().BestNight)
	return nil
}
