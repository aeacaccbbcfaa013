package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/sim"
	"github.com/gonewx/cryodefense/pkg/types"
)

func loadBundle(t *testing.T) *config.Bundle {
	t.Helper()
	b, err := config.LoadDefaults()
	if err != nil {
		t.Fatalf("LoadDefaults failed: %v", err)
	}
	return b
}

func TestSimulateBatch(t *testing.T) {
	records := game.NewRecordManager(nil)
	var out bytes.Buffer

	results, err := simulate(batch{
		Seed:     10,
		Runs:     3,
		MaxTicks: 200,
		TickRate: 20,
		Snapshot: "final",
		Bundle:   loadBundle(t),
	}, records, &out)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, rec := range results {
		if rec.Seed != int64(10+i) {
			t.Errorf("run %d: seed %d, want %d", i, rec.Seed, 10+i)
		}
		if rec.Duration <= 0 {
			t.Errorf("run %d: duration should be positive", i)
		}
	}
	if got := len(records.Book().Runs); got != 3 {
		t.Errorf("records: got %d runs, want 3", got)
	}
	if names := records.SnapshotNames(); len(names) != 3 || names[0] != "final-0" {
		t.Errorf("snapshot names: got %v", names)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 3 {
		t.Errorf("summary: got %d lines, want 3:\n%s", lines, out.String())
	}
}

func TestSimulateDeterministic(t *testing.T) {
	b := batch{Seed: 5, Runs: 1, MaxTicks: 400, TickRate: 20, Bundle: loadBundle(t)}
	first, err := simulate(b, game.NewRecordManager(nil), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	second, err := simulate(b, game.NewRecordManager(nil), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if first[0] != second[0] {
		t.Errorf("same seed produced different runs:\n%+v\n%+v", first[0], second[0])
	}
}

func TestOpeningPlacesTurrets(t *testing.T) {
	w, err := sim.NewWorld(sim.Options{Seed: 3, Config: loadBundle(t)})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	if got := opening(w, 2); got != 2 {
		t.Fatalf("opening placed %d turrets, want 2", got)
	}

	turrets := 0
	for _, b := range w.Snapshot().Buildings {
		if b.Type == types.BuildingGunTurret {
			turrets++
		}
	}
	if turrets != 2 {
		t.Errorf("snapshot has %d turrets, want 2", turrets)
	}
}
