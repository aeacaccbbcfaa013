package main

import (
	"errors"
	"flag"
	"log"

	"github.com/gonewx/cryodefense/internal/appconfig"
	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/app"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "运行时配置文件（YAML），为空使用默认值")
	seed       = flag.Int64("seed", 0, "随机种子，0 表示使用配置中的值")
)

func main() {
	flag.Parse()

	cm, err := appconfig.Bootstrap(*configPath, "viewer")
	if err != nil {
		log.Fatal(err)
	}
	defer logs.Sync()
	conf := cm.Config()
	logger := logs.Named("Main")

	store, err := appconfig.OpenStorage(conf.Save)
	if err != nil {
		logger.Warn("storage unavailable, settings will not persist", zap.Error(err))
	}
	settings := game.NewSettingsManager(store)
	records := game.NewRecordManager(store)

	runSeed := conf.Sim.Seed
	if *seed != 0 {
		runSeed = *seed
	}
	a, err := app.NewApp(app.Config{Seed: runSeed, Settings: settings})
	if err != nil {
		logger.Fatal("failed to start viewer", zap.Error(err))
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Cryo Egg Defense")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game loop exited", zap.Error(err))
	}

	if err := settings.Save(); err != nil {
		logger.Warn("failed to save settings", zap.Error(err))
	}
	rec := a.World().RunRecord()
	if err := records.AddRun(rec); err != nil {
		logger.Warn("failed to save run record", zap.Error(err))
	}
	logger.Info("run recorded", zap.Int("nights", rec.NightsReached), zap.Int("bestNight", records.Book().BestNight))
}
