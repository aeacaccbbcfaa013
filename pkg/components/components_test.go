package components

import (
	"testing"

	"github.com/gonewx/cryodefense/pkg/grid"
)

func TestAlienStateActive(t *testing.T) {
	tests := []struct {
		state AlienState
		want  bool
	}{
		{AlienInactive, false},
		{AlienSpawned, true},
		{AlienMoving, true},
		{AlienAttacking, true},
		{AlienDead, false},
	}
	for _, tt := range tests {
		if got := tt.state.Active(); got != tt.want {
			t.Errorf("%s.Active(): got %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestBuildingCells(t *testing.T) {
	b := &BuildingComponent{Cell: grid.Cell{X: 3, Y: 4}, Footprint: 2}
	cells := b.Cells()
	if len(cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(cells))
	}
	if cells[3] != (grid.Cell{X: 4, Y: 5}) {
		t.Errorf("last cell: got %v, want {4 5}", cells[3])
	}
}

func TestTargetingForgetAndClear(t *testing.T) {
	tc := NewTargetingComponent(5, 0, "nearest")
	tc.Visible[1] = struct{}{}
	tc.Visible[2] = struct{}{}
	tc.Forget(1)
	if _, ok := tc.Visible[1]; ok {
		t.Error("entity 1 should be forgotten")
	}
	tc.Clear()
	if len(tc.Visible) != 0 {
		t.Errorf("got %d visible after Clear, want 0", len(tc.Visible))
	}
}
