// cryoserver 运行一局权威模拟，通过 HTTP 接收命令、通过 WebSocket 推送快照
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gonewx/cryodefense/internal/appconfig"
	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/internal/server"
	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/embedded"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/sim"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "运行时配置文件（YAML）")
	seed       = flag.Int64("seed", 0, "随机种子，0 表示使用配置中的值")
)

const shutdownTimeout = 5 * time.Second

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cm, err := appconfig.Bootstrap(*configPath, "server")
	if err != nil {
		return err
	}
	defer logs.Sync()
	logger := logs.Named("cryoserver")
	conf := cm.Config()

	runSeed := conf.Sim.Seed
	if *seed != 0 {
		runSeed = *seed
	}
	world, err := sim.NewWorld(sim.Options{Seed: runSeed})
	if err != nil {
		return err
	}

	store, err := appconfig.OpenStorage(conf.Save)
	if err != nil {
		return err
	}
	records := game.NewRecordManager(store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := server.NewRunner(world, conf.Sim.TickInterval(), conf.Server.BroadcastEvery)
	hub := server.NewHub(conf.Server.AllowOrigins, conf.Server.WriteTimeout)
	runner.OnSnapshot(hub.Broadcast)
	runner.OnGameOver(func(rec game.RunRecord) {
		if err := records.AddRun(rec); err != nil {
			logger.Warn("failed to save run", zap.Error(err))
		}
	})

	// 数据目录或配置文件变化时重新加载模拟参数（地图尺寸除外）
	cm.OnChange(func(c appconfig.Config) {
		if c.Sim.DataDir != "" {
			embedded.SetOverrideDir(c.Sim.DataDir)
		}
		simCfg, err := config.LoadSimConfig(config.DefaultSimConfigPath)
		if err != nil {
			logger.Warn("sim config reload rejected", zap.Error(err))
			return
		}
		_, err = runner.Do(ctx, func(w *sim.World) (any, error) {
			w.ApplySimConfig(simCfg)
			return nil, nil
		})
		if err != nil {
			logger.Warn("failed to apply sim config", zap.Error(err))
		}
	})

	srv := server.New(conf.Server, runner, hub)

	runnerDone := make(chan error, 1)
	go func() { runnerDone <- runner.Run(ctx) }()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			stop()
			<-runnerDone
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	<-runnerDone

	rec := world.RunRecord()
	if !rec.GameOver {
		if err := records.AddRun(rec); err != nil {
			logger.Warn("failed to save run", zap.Error(err))
		}
	}
	logger.Info("bye", zap.Int("nights", rec.NightsReached), zap.Int("best", records.Book().BestNight))
	return nil
}
