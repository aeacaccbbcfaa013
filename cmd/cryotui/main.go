// cryotui 在终端里观察并操作一局模拟
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/cryodefense/internal/appconfig"
	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/sim"
	"github.com/gonewx/cryodefense/pkg/types"
)

var (
	configPath = flag.String("config", "", "运行时配置文件（YAML）")
	seed       = flag.Int64("seed", 0, "随机种子，0 表示使用配置中的值")
)

type tui struct {
	screen  tcell.Screen
	world   *sim.World
	palette []types.BuildingType
	cursor  grid.Cell
	paused  bool
	speed   int
	status  string
}

func newTUI(screen tcell.Screen, world *sim.World) *tui {
	var palette []types.BuildingType
	for bt, s := range world.Config().Buildings.Buildings {
		if s.Placeable {
			palette = append(palette, bt)
		}
	}
	sort.Slice(palette, func(i, j int) bool { return palette[i] < palette[j] })
	if len(palette) > 9 {
		palette = palette[:9]
	}
	egg := world.Config().Sim.Map.EggCell
	return &tui{
		screen:  screen,
		world:   world,
		palette: palette,
		cursor:  grid.Cell{X: egg.X, Y: egg.Y},
		speed:   1,
	}
}

// handleKey 处理按键，返回 false 表示退出
func (t *tui) handleKey(ev *tcell.EventKey) bool {
	g := t.world.Grid()
	move := func(dx, dy int) {
		next := t.cursor.Add(grid.Cell{X: dx, Y: dy})
		if g.InBounds(next) {
			t.cursor = next
		}
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		move(0, -1)
	case tcell.KeyDown:
		move(0, 1)
	case tcell.KeyLeft:
		move(-1, 0)
	case tcell.KeyRight:
		move(1, 0)
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 'q':
			return false
		case r == ' ':
			t.paused = !t.paused
		case r == '+' || r == '=':
			t.speed = min(t.speed*2, 8)
		case r == '-':
			t.speed = max(t.speed/2, 1)
		case r == 'h':
			move(-1, 0)
		case r == 'j':
			move(0, 1)
		case r == 'k':
			move(0, -1)
		case r == 'l':
			move(1, 0)
		case r == 'x':
			t.demolishAtCursor()
		case r >= '1' && r <= '9':
			t.placeAtCursor(int(r - '1'))
		}
	}
	return true
}

func (t *tui) placeAtCursor(i int) {
	if i >= len(t.palette) {
		return
	}
	bt := t.palette[i]
	if _, err := t.world.PlaceBuilding(bt, t.cursor); err != nil {
		t.status = fmt.Sprintf("%s: %v", bt, err)
		return
	}
	t.status = fmt.Sprintf("placed %s at %d,%d", bt, t.cursor.X, t.cursor.Y)
}

func (t *tui) demolishAtCursor() {
	id := t.world.Grid().Occupant(t.cursor)
	if id == 0 {
		t.status = "nothing to demolish"
		return
	}
	if err := t.world.Demolish(id); err != nil {
		t.status = err.Error()
		return
	}
	t.status = "demolished"
}

func (t *tui) run(tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	dt := tick.Seconds()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !t.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
			t.draw()

		case <-ticker.C:
			if !t.paused {
				for i := 0; i < t.speed; i++ {
					t.world.Tick(dt)
				}
			}
			t.draw()
		}
	}
}

func (t *tui) draw() {
	draw(t.screen, t.world.Grid(), t.world.Snapshot(), t.cursor, t.palette, t.status)
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cm, err := appconfig.Bootstrap(*configPath, "tui")
	if err != nil {
		return err
	}
	defer logs.Sync()
	// 控制台日志会破坏终端画面，运行期间只保留错误
	logs.SetLevel("error")
	conf := cm.Config()

	runSeed := conf.Sim.Seed
	if *seed != 0 {
		runSeed = *seed
	}
	world, err := sim.NewWorld(sim.Options{Seed: runSeed})
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	t := newTUI(screen, world)
	t.run(conf.Sim.TickInterval())
	screen.Fini()

	rec := world.RunRecord()
	store, err := appconfig.OpenStorage(conf.Save)
	if err != nil {
		return err
	}
	records := game.NewRecordManager(store)
	if err := records.AddRun(rec); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	fmt.Printf("seed %d: reached night %d, killed %d aliens (best night %d)\n",
		rec.Seed, rec.NightsReached, rec.Stats.AliensKilled, records.Book().BestNight)
	return nil
}
