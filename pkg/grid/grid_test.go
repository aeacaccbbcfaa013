package grid

import (
	"math"
	"math/rand"
	"testing"
)

func TestOccupyAndRelease(t *testing.T) {
	g := NewGrid(10, 10, 1)
	cells := Cell{2, 2}.Footprint(2)

	if !g.CanOccupy(cells) {
		t.Fatal("empty grid should accept footprint")
	}
	g.Occupy(cells, 7)
	for _, c := range cells {
		if g.Occupant(c) != 7 {
			t.Errorf("cell %v: got occupant %d, want 7", c, g.Occupant(c))
		}
		if g.IsNavigable(c) {
			t.Errorf("occupied cell %v should not be navigable", c)
		}
	}
	if g.CanOccupy(Cell{3, 3}.Footprint(1)) {
		t.Error("overlapping footprint should be rejected")
	}

	// 其他实体不能释放不属于自己的格
	g.Release(cells, 8)
	if !g.IsOccupied(Cell{2, 2}) {
		t.Error("release by other entity should be ignored")
	}
	g.Release(cells, 7)
	if g.IsOccupied(Cell{2, 2}) {
		t.Error("cell should be free after release")
	}
}

func TestCanOccupyOutOfBounds(t *testing.T) {
	g := NewGrid(10, 10, 1)
	if g.CanOccupy(Cell{9, 9}.Footprint(2)) {
		t.Error("footprint crossing the edge should be rejected")
	}
}

func TestGroundHeight(t *testing.T) {
	g := NewGrid(4, 4, 1)
	g.SetTerrain(Cell{1, 1}, TerrainVoid)
	g.SetTerrain(Cell{2, 2}, TerrainRock)

	if _, ok := g.GroundHeight(Cell{1, 1}); ok {
		t.Error("void cell should have no ground")
	}
	if _, ok := g.GroundHeight(Cell{2, 2}); !ok {
		t.Error("rock cell still has ground")
	}
	if g.IsNavigable(Cell{2, 2}) {
		t.Error("rock cell should not be navigable")
	}
	if _, ok := g.GroundHeight(Cell{-1, 0}); ok {
		t.Error("out of bounds should have no ground")
	}
}

func TestGenerateKeepsClearArea(t *testing.T) {
	g := NewGrid(32, 32, 1)
	center := Cell{16, 16}
	g.Generate(rand.New(rand.NewSource(1)), 0.5, 0.3, func(c Cell) bool {
		return c.Chebyshev(center) <= 3
	})
	for _, c := range center.Neighborhood(3) {
		if g.Terrain(c) != TerrainGround {
			t.Fatalf("cell %v inside clear area is %v", c, g.Terrain(c))
		}
	}
}

func TestCellCoordinates(t *testing.T) {
	g := NewGrid(10, 10, 2)
	x, y := g.CellCenter(Cell{3, 4})
	if x != 7 || y != 9 {
		t.Errorf("CellCenter: got (%v, %v), want (7, 9)", x, y)
	}
	if c := g.CellAt(x, y); c != (Cell{3, 4}) {
		t.Errorf("CellAt: got %v, want {3 4}", c)
	}
}

func TestNeighborhood(t *testing.T) {
	cells := Cell{5, 5}.Neighborhood(2)
	if len(cells) != 25 {
		t.Fatalf("got %d cells, want 25", len(cells))
	}
	for _, c := range cells {
		if c.Chebyshev(Cell{5, 5}) > 2 {
			t.Errorf("cell %v outside radius", c)
		}
	}
	if (Cell{0, 0}).Neighborhood(-1) != nil {
		t.Error("negative radius should return nil")
	}
}

func TestFindPathStraight(t *testing.T) {
	g := NewGrid(10, 10, 1)
	path := g.FindPath(Cell{0, 0}, Cell{5, 0}, nil)
	if len(path) != 6 {
		t.Fatalf("path length: got %d, want 6: %v", len(path), path)
	}
	if path[0] != (Cell{0, 0}) || path[5] != (Cell{5, 0}) {
		t.Errorf("endpoints: got %v .. %v", path[0], path[5])
	}
	if cost := PathCost(path); cost != 5 {
		t.Errorf("PathCost: got %v, want 5", cost)
	}
}

func TestFindPathAroundWall(t *testing.T) {
	g := NewGrid(10, 10, 1)
	for y := 0; y < 9; y++ {
		g.SetTerrain(Cell{5, y}, TerrainRock)
	}
	path := g.FindPath(Cell{0, 0}, Cell{9, 0}, nil)
	if path == nil {
		t.Fatal("expected a path around the wall")
	}
	for _, c := range path {
		if c.X == 5 && c.Y < 9 {
			t.Fatalf("path crosses wall at %v", c)
		}
	}
}

func TestFindPathIntoOccupiedGoal(t *testing.T) {
	g := NewGrid(10, 10, 1)
	g.Occupy([]Cell{{5, 5}}, 3)
	path := g.FindPath(Cell{0, 5}, Cell{5, 5}, nil)
	if path == nil || path[len(path)-1] != (Cell{5, 5}) {
		t.Fatalf("path should end at the occupied goal: %v", path)
	}
}

func TestFindPathBlocked(t *testing.T) {
	g := NewGrid(10, 10, 1)
	for y := 0; y < 10; y++ {
		g.SetTerrain(Cell{5, y}, TerrainRock)
	}
	if path := g.FindPath(Cell{0, 0}, Cell{9, 9}, nil); path != nil {
		t.Errorf("expected nil path, got %v", path)
	}
}

func TestFindPathExtraCost(t *testing.T) {
	g := NewGrid(10, 3, 1)
	// 中间一行代价无穷，迫使路径走上下两行
	extra := func(c Cell) float64 {
		if c.Y == 1 && c.X > 0 && c.X < 9 {
			return math.Inf(1)
		}
		return 0
	}
	path := g.FindPath(Cell{0, 1}, Cell{9, 1}, extra)
	if path == nil {
		t.Fatal("expected path")
	}
	for _, c := range path[1 : len(path)-1] {
		if c.Y == 1 && c.X > 0 && c.X < 9 {
			t.Fatalf("path enters forbidden cell %v", c)
		}
	}
}
