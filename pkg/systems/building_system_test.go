package systems

import (
	"errors"
	"testing"

	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/entities"
	"github.com/gonewx/cryodefense/pkg/event"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
)

type buildingFixture struct {
	em     *ecs.EntityManager
	bus    *event.Bus
	grid   *grid.Grid
	ledger *game.ResourceLedger
	sys    *BuildingSystem
	egg    ecs.EntityID
}

func newBuildingFixture(t *testing.T, ore int) *buildingFixture {
	t.Helper()
	f := &buildingFixture{
		em:     ecs.NewEntityManager(),
		bus:    event.NewBus(),
		grid:   grid.NewGrid(16, 16, 1),
		ledger: game.NewResourceLedger(ore),
	}
	cfg := testBuildingConfig()
	f.sys = NewBuildingSystem(f.em, f.bus, f.grid, f.ledger, cfg, 0.5)

	stats, _ := cfg.Get(types.BuildingCryoEgg)
	egg, err := entities.NewCryoEggEntity(f.em, stats, grid.Cell{X: 7, Y: 7}, 1)
	if err != nil {
		t.Fatalf("NewCryoEggEntity failed: %v", err)
	}
	if err := f.sys.Install(egg); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	f.egg = egg
	return f
}

func (f *buildingFixture) build(t *testing.T, bt types.BuildingType, cell grid.Cell) ecs.EntityID {
	t.Helper()
	id, err := f.sys.Hold(bt)
	if err != nil {
		t.Fatalf("Hold(%s) failed: %v", bt, err)
	}
	if err := f.sys.MoveHeld(id, cell); err != nil {
		t.Fatalf("MoveHeld failed: %v", err)
	}
	if err := f.sys.Place(id); err != nil {
		t.Fatalf("Place(%s) failed: %v", bt, err)
	}
	return id
}

func (f *buildingFixture) building(id ecs.EntityID) *components.BuildingComponent {
	b, _ := ecs.GetComponent[*components.BuildingComponent](f.em, id)
	return b
}

func TestBuildingSystem_InstallEgg(t *testing.T) {
	f := newBuildingFixture(t, 100)
	if !f.building(f.egg).Operational {
		t.Error("egg should be operational after install")
	}
	if got := f.ledger.Supply(types.ResourcePower); got != 6 {
		t.Errorf("power supply: got %d, want 6", got)
	}
	if f.grid.Occupant(grid.Cell{X: 8, Y: 8}) != f.egg {
		t.Error("egg footprint should be occupied")
	}
}

func TestBuildingSystem_HoldUnknown(t *testing.T) {
	f := newBuildingFixture(t, 100)
	if _, err := f.sys.Hold(types.BuildingCryoEgg); !errors.Is(err, game.ErrUnknownBuilding) {
		t.Errorf("egg is not placeable: got %v", err)
	}
	if _, err := f.sys.Hold("hangar"); !errors.Is(err, game.ErrUnknownBuilding) {
		t.Errorf("unknown type: got %v", err)
	}
}

func TestBuildingSystem_MoveHeldValidity(t *testing.T) {
	f := newBuildingFixture(t, 100)
	f.grid.SetTerrain(grid.Cell{X: 2, Y: 2}, grid.TerrainRock)

	id, _ := f.sys.Hold(types.BuildingWall)
	cases := []struct {
		cell  grid.Cell
		valid bool
	}{
		{grid.Cell{X: 1, Y: 1}, true},
		{grid.Cell{X: 2, Y: 2}, false}, // 岩石
		{grid.Cell{X: 7, Y: 7}, false}, // 冷冻蛋
		{grid.Cell{X: -1, Y: 0}, false},
	}
	for _, c := range cases {
		if err := f.sys.MoveHeld(id, c.cell); err != nil {
			t.Fatalf("MoveHeld(%v) failed: %v", c.cell, err)
		}
		if got := f.building(id).ValidPlacement; got != c.valid {
			t.Errorf("cell %v: valid=%v, want %v", c.cell, got, c.valid)
		}
	}

	pos, _ := ecs.GetComponent[*components.PositionComponent](f.em, id)
	if pos.X != -0.5 || pos.Y != 0.5 {
		t.Errorf("position should follow held cell: got (%v, %v)", pos.X, pos.Y)
	}
}

func TestBuildingSystem_PlaceErrors(t *testing.T) {
	f := newBuildingFixture(t, 50)

	id, _ := f.sys.Hold(types.BuildingWall)
	_ = f.sys.MoveHeld(id, grid.Cell{X: 8, Y: 7})
	if err := f.sys.Place(id); !errors.Is(err, game.ErrTileOccupied) {
		t.Errorf("place on egg: got %v", err)
	}

	turret, _ := f.sys.Hold(types.BuildingGunTurret)
	_ = f.sys.MoveHeld(turret, grid.Cell{X: 1, Y: 1})
	if err := f.sys.Place(turret); !errors.Is(err, game.ErrInsufficientResources) {
		t.Errorf("place unaffordable turret: got %v", err)
	}
	if f.ledger.Ore() != 50 {
		t.Errorf("failed placement must not spend ore: got %d", f.ledger.Ore())
	}
	if f.grid.IsOccupied(grid.Cell{X: 1, Y: 1}) {
		t.Error("failed placement must not occupy cells")
	}

	placed := f.build(t, types.BuildingWall, grid.Cell{X: 1, Y: 1})
	if err := f.sys.Place(placed); !errors.Is(err, game.ErrNotHeld) {
		t.Errorf("place twice: got %v", err)
	}
}

func TestBuildingSystem_ConstructionRamp(t *testing.T) {
	f := newBuildingFixture(t, 100)
	var completed []ecs.EntityID
	event.Subscribe(f.bus, func(e event.BuildingCompleted) { completed = append(completed, e.ID) })

	id := f.build(t, types.BuildingWall, grid.Cell{X: 1, Y: 1})
	if f.ledger.Ore() != 90 {
		t.Errorf("ore after placement: got %d, want 90", f.ledger.Ore())
	}
	h, _ := ecs.GetComponent[*components.HealthComponent](f.em, id)
	if h.Current != 1 {
		t.Errorf("health at start of construction: got %d, want 1", h.Current)
	}
	if f.grid.Occupant(grid.Cell{X: 1, Y: 1}) != id {
		t.Error("placed wall should occupy its cell")
	}

	f.sys.Update(1)
	if h.Current < 49 || h.Current > 51 {
		t.Errorf("health at half build time: got %d, want ~50", h.Current)
	}
	if f.building(id).Stage != components.BuildingUnderConstruction {
		t.Error("wall should still be under construction")
	}

	f.sys.Update(1)
	if f.building(id).Stage != components.BuildingBuilt {
		t.Fatalf("stage: got %v, want built", f.building(id).Stage)
	}
	if h.Current != 100 {
		t.Errorf("health after construction: got %d, want 100", h.Current)
	}
	if len(completed) != 1 || completed[0] != id {
		t.Errorf("BuildingCompleted events: %v", completed)
	}
}

func TestBuildingSystem_InstantBuild(t *testing.T) {
	f := newBuildingFixture(t, 100)
	id := f.build(t, types.BuildingGasCollector, grid.Cell{X: 1, Y: 1})
	b := f.building(id)
	if b.Stage != components.BuildingBuilt || !b.Operational || !b.CollectorActive {
		t.Fatalf("collector with zero build time should be running: %+v", b)
	}
	if got := f.ledger.Supply(types.ResourceGas); got != 3 {
		t.Errorf("gas supply: got %d, want 3", got)
	}
}

func TestBuildingSystem_CollectorToggle(t *testing.T) {
	f := newBuildingFixture(t, 100)
	id := f.build(t, types.BuildingGasCollector, grid.Cell{X: 1, Y: 1})

	if err := f.sys.SetCollectorActive(id, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if f.building(id).Operational || f.ledger.Supply(types.ResourceGas) != 0 {
		t.Error("disabled collector should stop contributing")
	}
	if err := f.sys.SetCollectorActive(id, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !f.building(id).Operational || f.ledger.Supply(types.ResourceGas) != 3 {
		t.Error("enabled collector should contribute again")
	}

	wall := f.build(t, types.BuildingWall, grid.Cell{X: 3, Y: 3})
	if err := f.sys.SetCollectorActive(wall, false); err == nil {
		t.Error("toggling a non-collector should fail")
	}
}

func TestBuildingSystem_CollectorOffDuringConstruction(t *testing.T) {
	f := newBuildingFixture(t, 100)
	cfg := testBuildingConfig()
	stats := cfg.Buildings[types.BuildingGasCollector]
	stats.BuildTime = 2
	cfg.Buildings[types.BuildingGasCollector] = stats
	f.sys = NewBuildingSystem(f.em, f.bus, f.grid, f.ledger, cfg, 0.5)

	held, err := f.sys.Hold(types.BuildingGasCollector)
	if err != nil {
		t.Fatalf("Hold failed: %v", err)
	}
	if !f.building(held).CollectorActive {
		t.Fatal("new collector should default to active")
	}
	// 拿在手上时关闭
	if err := f.sys.SetCollectorActive(held, false); err != nil {
		t.Fatalf("disable while held: %v", err)
	}
	_ = f.sys.MoveHeld(held, grid.Cell{X: 1, Y: 1})
	if err := f.sys.Place(held); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	// 建造期间关闭
	building := f.build(t, types.BuildingGasCollector, grid.Cell{X: 3, Y: 1})
	if err := f.sys.SetCollectorActive(building, false); err != nil {
		t.Fatalf("disable during construction: %v", err)
	}

	for i := 0; i < 30; i++ {
		f.sys.Update(0.1)
	}
	for _, id := range []ecs.EntityID{held, building} {
		b := f.building(id)
		if b.Stage != components.BuildingBuilt {
			t.Fatalf("collector %d should be built, stage %v", id, b.Stage)
		}
		if b.CollectorActive || b.Operational {
			t.Errorf("collector %d switched off before completion should stay off: active=%v operational=%v",
				id, b.CollectorActive, b.Operational)
		}
	}
	if got := f.ledger.Supply(types.ResourceGas); got != 0 {
		t.Errorf("gas supply: got %d, want 0", got)
	}

	if err := f.sys.SetCollectorActive(building, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if got := f.ledger.Supply(types.ResourceGas); got != 3 {
		t.Errorf("gas supply after enabling one: got %d, want 3", got)
	}
}

func TestBuildingSystem_PowerGate(t *testing.T) {
	f := newBuildingFixture(t, 500)

	// 冷冻蛋供电 6，迫击炮需要 9
	mortar, _ := f.sys.Hold(types.BuildingMortarTurret)
	_ = f.sys.MoveHeld(mortar, grid.Cell{X: 1, Y: 1})
	if f.building(mortar).ValidPlacement {
		t.Error("mortar should be invalid without enough power")
	}
	if err := f.sys.Place(mortar); !errors.Is(err, game.ErrInsufficientResources) {
		t.Errorf("place unpowered mortar: got %v", err)
	}

	gun := f.build(t, types.BuildingGunTurret, grid.Cell{X: 3, Y: 3})
	if !f.building(gun).Operational {
		t.Fatal("gun turret should be operational")
	}
	if got := f.ledger.Balance(types.ResourcePower); got != 4 {
		t.Errorf("power balance: got %d, want 4", got)
	}
}

func TestBuildingSystem_DrillProducesOre(t *testing.T) {
	f := newBuildingFixture(t, 100)
	id := f.build(t, types.BuildingDrill, grid.Cell{X: 1, Y: 1})
	f.sys.Update(1)
	if !f.building(id).Operational {
		t.Fatal("drill should be operational after its build time")
	}
	before := f.ledger.Ore()
	for i := 0; i < 10; i++ {
		f.sys.Update(0.25)
	}
	if got := f.ledger.Ore() - before; got != 5 {
		t.Errorf("ore produced in 2.5s: got %d, want 5", got)
	}
}

func TestBuildingSystem_Demolish(t *testing.T) {
	f := newBuildingFixture(t, 100)
	var removed []event.BuildingRemoved
	event.Subscribe(f.bus, func(e event.BuildingRemoved) { removed = append(removed, e) })

	id := f.build(t, types.BuildingGunTurret, grid.Cell{X: 1, Y: 1})
	if err := f.sys.Demolish(id); err != nil {
		t.Fatalf("Demolish failed: %v", err)
	}
	if f.ledger.Ore() != 70 {
		t.Errorf("ore after refund: got %d, want 70", f.ledger.Ore())
	}
	if f.ledger.Consumption(types.ResourcePower) != 0 {
		t.Error("demolished turret should release its power consumption")
	}
	if f.grid.IsOccupied(grid.Cell{X: 1, Y: 1}) {
		t.Error("demolished turret should release its cell")
	}
	if len(removed) != 1 || !removed[0].Demolished {
		t.Errorf("BuildingRemoved events: %+v", removed)
	}
	if err := f.sys.Demolish(id); !errors.Is(err, game.ErrUnknownEntity) {
		t.Errorf("demolish twice: got %v", err)
	}
	if err := f.sys.Demolish(f.egg); !errors.Is(err, game.ErrNotDemolishable) {
		t.Errorf("demolish egg: got %v", err)
	}
}

func TestBuildingSystem_DestroyedReleasesResources(t *testing.T) {
	f := newBuildingFixture(t, 100)
	var removed []event.BuildingRemoved
	event.Subscribe(f.bus, func(e event.BuildingRemoved) { removed = append(removed, e) })

	id := f.build(t, types.BuildingGunTurret, grid.Cell{X: 1, Y: 1})
	event.Publish(f.bus, event.BuildingDestroyed{ID: id, Type: types.BuildingGunTurret})

	if f.grid.IsOccupied(grid.Cell{X: 1, Y: 1}) {
		t.Error("destroyed turret should release its cell")
	}
	if f.ledger.Consumption(types.ResourcePower) != 0 {
		t.Error("destroyed turret should release its power consumption")
	}
	if f.ledger.Ore() != 40 {
		t.Errorf("destruction must not refund: got %d", f.ledger.Ore())
	}
	if len(removed) != 1 || removed[0].Demolished {
		t.Errorf("BuildingRemoved events: %+v", removed)
	}
	if len(f.sys.Buildings()) != 1 {
		t.Errorf("only the egg should remain: %v", f.sys.Buildings())
	}
}

func TestBuildingSystem_CancelHeld(t *testing.T) {
	f := newBuildingFixture(t, 100)
	id, _ := f.sys.Hold(types.BuildingWall)
	if err := f.sys.CancelHeld(id); err != nil {
		t.Fatalf("CancelHeld failed: %v", err)
	}
	f.em.RemoveMarkedEntities()
	if f.em.EntityExists(id) {
		t.Error("cancelled building should be destroyed")
	}
	if f.ledger.Ore() != 100 {
		t.Errorf("cancel must not touch ore: got %d", f.ledger.Ore())
	}
}
