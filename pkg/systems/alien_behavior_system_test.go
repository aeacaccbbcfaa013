package systems

import (
	"testing"

	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/entities"
	"github.com/gonewx/cryodefense/pkg/event"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
)

type behaviorFixture struct {
	em       *ecs.EntityManager
	bus      *event.Bus
	grid     *grid.Grid
	pool     *entities.AlienPool
	vis      *VisibilitySystem
	damage   *DamageSystem
	behavior *AlienBehaviorSystem
	egg      ecs.EntityID
	now      float64
}

func newBehaviorFixture(t *testing.T) *behaviorFixture {
	t.Helper()
	f := &behaviorFixture{
		em:   ecs.NewEntityManager(),
		bus:  event.NewBus(),
		grid: grid.NewGrid(24, 24, 1),
	}
	f.pool = entities.NewAlienPool(f.em, testAlienStats())
	f.vis = NewVisibilitySystem(f.em, f.bus, 1)
	f.damage = NewDamageSystem(f.em, f.bus, f.pool)
	f.behavior = NewAlienBehaviorSystem(f.em, f.grid, f.vis, f.damage, func() ecs.EntityID { return f.egg })

	cfg := testBuildingConfig()
	stats, _ := cfg.Get(types.BuildingCryoEgg)
	egg, err := entities.NewCryoEggEntity(f.em, stats, grid.Cell{X: 12, Y: 12}, 1)
	if err != nil {
		t.Fatalf("NewCryoEggEntity failed: %v", err)
	}
	f.egg = egg
	b, _ := ecs.GetComponent[*components.BuildingComponent](f.em, egg)
	f.grid.Occupy(b.Cells(), egg)
	return f
}

// addBuilt 放置一座已建成的建筑
func (f *behaviorFixture) addBuilt(t *testing.T, bt types.BuildingType, cell grid.Cell) ecs.EntityID {
	t.Helper()
	stats, _ := testBuildingConfig().Get(bt)
	id, err := entities.NewBuildingEntity(f.em, bt, stats, cell, 1)
	if err != nil {
		t.Fatalf("NewBuildingEntity failed: %v", err)
	}
	b, _ := ecs.GetComponent[*components.BuildingComponent](f.em, id)
	b.Stage = components.BuildingBuilt
	b.Operational = true
	f.grid.Occupy(b.Cells(), id)
	return id
}

func (f *behaviorFixture) spawn(t *testing.T, cell grid.Cell) ecs.EntityID {
	t.Helper()
	id, _ := f.pool.Acquire(types.AlienCrawler)
	x, y := f.grid.CellCenter(cell)
	if err := f.pool.Activate(id, x, y); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	return id
}

func (f *behaviorFixture) tick(dt float64) {
	f.now += dt
	f.vis.Update()
	f.behavior.Update(dt, f.now)
}

func TestAlienBehavior_WalksToEggAndAttacks(t *testing.T) {
	f := newBehaviorFixture(t)
	id := f.spawn(t, grid.Cell{X: 2, Y: 12})
	alien, _ := ecs.GetComponent[*components.AlienComponent](f.em, id)

	f.tick(0.1)
	if alien.State != components.AlienMoving {
		t.Fatalf("after first tick: state %v, want moving", alien.State)
	}
	if alien.Target != f.egg {
		t.Fatalf("default target: got %d, want egg %d", alien.Target, f.egg)
	}

	for i := 0; i < 200 && alien.State != components.AlienAttacking; i++ {
		f.tick(0.1)
	}
	if alien.State != components.AlienAttacking {
		t.Fatal("alien never reached attack range")
	}

	h, _ := ecs.GetComponent[*components.HealthComponent](f.em, f.egg)
	before := h.Current
	// 冷却 1 秒，1.2 秒内再攻击一到两次
	for i := 0; i < 12; i++ {
		f.tick(0.1)
	}
	hits := (before - h.Current) / 4
	if hits < 1 || hits > 2 {
		t.Errorf("hits in 1.2s with cooldown 1s: got %d", hits)
	}
	if h.LastAttacker != id {
		t.Errorf("egg LastAttacker: got %d, want %d", h.LastAttacker, id)
	}
}

func TestAlienBehavior_PrefersShooter(t *testing.T) {
	f := newBehaviorFixture(t)
	near := f.addBuilt(t, types.BuildingWall, grid.Cell{X: 5, Y: 5})
	turret := f.addBuilt(t, types.BuildingGunTurret, grid.Cell{X: 8, Y: 5})
	id := f.spawn(t, grid.Cell{X: 4, Y: 5})
	alien, _ := ecs.GetComponent[*components.AlienComponent](f.em, id)

	f.tick(0.1)
	if alien.Target != near {
		t.Fatalf("nearest target: got %d, want wall %d", alien.Target, near)
	}

	h, _ := ecs.GetComponent[*components.HealthComponent](f.em, id)
	h.LastAttacker = turret
	f.tick(0.1)
	if alien.Target != turret {
		t.Errorf("shooter should take priority: got %d, want turret %d", alien.Target, turret)
	}
	if alien.State == components.AlienAttacking {
		t.Error("switching target out of range should return to moving")
	}
}

func TestAlienBehavior_RetargetsWhenTargetDies(t *testing.T) {
	f := newBehaviorFixture(t)
	wall := f.addBuilt(t, types.BuildingWall, grid.Cell{X: 5, Y: 5})
	id := f.spawn(t, grid.Cell{X: 4, Y: 5})
	alien, _ := ecs.GetComponent[*components.AlienComponent](f.em, id)

	f.tick(0.1)
	if alien.Target != wall || alien.State != components.AlienAttacking {
		t.Fatalf("expected attacking wall, got target %d state %v", alien.Target, alien.State)
	}

	f.damage.Apply(wall, 0, 1000)
	f.grid.Release([]grid.Cell{{X: 5, Y: 5}}, wall)
	event.Publish(f.bus, event.BuildingRemoved{ID: wall, Type: types.BuildingWall})
	f.tick(0.1)
	if alien.Target != f.egg {
		t.Errorf("after wall destroyed: target %d, want egg %d", alien.Target, f.egg)
	}
	if alien.State != components.AlienMoving {
		t.Errorf("state: got %v, want moving", alien.State)
	}
}

func TestAlienBehavior_AttacksBlockingWall(t *testing.T) {
	f := newBehaviorFixture(t)
	// 用墙把冷冻蛋完全围住
	var walls []ecs.EntityID
	for _, c := range (grid.Cell{X: 11, Y: 11}).Footprint(4) {
		if f.grid.IsOccupied(c) {
			continue
		}
		walls = append(walls, f.addBuilt(t, types.BuildingWall, c))
	}
	id := f.spawn(t, grid.Cell{X: 2, Y: 12})
	alien, _ := ecs.GetComponent[*components.AlienComponent](f.em, id)
	// 视野外才会以冷冻蛋为目标
	tc, _ := ecs.GetComponent[*components.TargetingComponent](f.em, id)
	tc.Range = 0

	for i := 0; i < 300 && alien.State != components.AlienAttacking; i++ {
		f.tick(0.1)
	}
	if alien.State != components.AlienAttacking {
		t.Fatal("alien should end up attacking something")
	}
	isWall := false
	for _, w := range walls {
		if alien.Target == w {
			isWall = true
		}
	}
	if !isWall {
		t.Errorf("enclosed egg: alien should attack a wall, got target %d", alien.Target)
	}
}

func TestAlienBehavior_NoTargetAfterEggGone(t *testing.T) {
	f := newBehaviorFixture(t)
	id := f.spawn(t, grid.Cell{X: 2, Y: 2})
	egg := f.egg
	f.egg = 0
	f.damage.Apply(egg, 0, 10000)
	f.tick(0.1)
	alien, _ := ecs.GetComponent[*components.AlienComponent](f.em, id)
	if alien.Target != 0 {
		t.Errorf("target after egg gone: got %d, want 0", alien.Target)
	}
}
