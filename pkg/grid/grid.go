package grid

import (
	"math"
	"math/rand"

	"github.com/gonewx/cryodefense/pkg/ecs"
)

// Terrain 地形类型
type Terrain uint8

const (
	TerrainGround Terrain = iota // 普通地面：可通行、可建造
	TerrainRock                  // 岩石：不可通行、不可建造
	TerrainVoid                  // 深坑/水面：没有地面，地面探测失败
)

// OccupancyQuery 占用查询
type OccupancyQuery interface {
	IsOccupied(c Cell) bool
}

// GroundSampler 地面探测，取代向下射线
type GroundSampler interface {
	GroundHeight(c Cell) (float64, bool)
}

// NavQuery 可通行查询，取代 NavMesh 采样
type NavQuery interface {
	IsNavigable(c Cell) bool
}

// Grid 地表网格
type Grid struct {
	Width, Height int
	CellSize      float64

	terrain  []Terrain
	heights  []float64
	occupant []ecs.EntityID
}

// NewGrid 创建全平地网格
func NewGrid(width, height int, cellSize float64) *Grid {
	n := width * height
	return &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		terrain:  make([]Terrain, n),
		heights:  make([]float64, n),
		occupant: make([]ecs.EntityID, n),
	}
}

// Generate 用随机数生成地形
// keepClear 返回 true 的格子保持为平地（如冷冻蛋周围）
func (g *Grid) Generate(rng *rand.Rand, obstacleDensity, voidDensity float64, keepClear func(Cell) bool) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Cell{X: x, Y: y}
			i := g.index(c)
			// 缓坡：低频正弦叠加少量噪声
			g.heights[i] = 0.5*math.Sin(float64(x)*0.15)*math.Cos(float64(y)*0.12) + rng.Float64()*0.1
			if keepClear != nil && keepClear(c) {
				g.terrain[i] = TerrainGround
				continue
			}
			r := rng.Float64()
			switch {
			case r < obstacleDensity:
				g.terrain[i] = TerrainRock
			case r < obstacleDensity+voidDensity:
				g.terrain[i] = TerrainVoid
			default:
				g.terrain[i] = TerrainGround
			}
		}
	}
}

// InBounds 是否在网格内
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.Width + c.X
}

// Terrain 获取地形，越界视为虚空
func (g *Grid) Terrain(c Cell) Terrain {
	if !g.InBounds(c) {
		return TerrainVoid
	}
	return g.terrain[g.index(c)]
}

// SetTerrain 设置地形
func (g *Grid) SetTerrain(c Cell, t Terrain) {
	if g.InBounds(c) {
		g.terrain[g.index(c)] = t
	}
}

// GroundHeight 实现 GroundSampler
func (g *Grid) GroundHeight(c Cell) (float64, bool) {
	if g.Terrain(c) == TerrainVoid {
		return 0, false
	}
	return g.heights[g.index(c)], true
}

// IsNavigable 实现 NavQuery：平地且未被建筑占用
func (g *Grid) IsNavigable(c Cell) bool {
	return g.Terrain(c) == TerrainGround && !g.IsOccupied(c)
}

// IsBuildable 是否可以建造（平地且空闲）
func (g *Grid) IsBuildable(c Cell) bool {
	return g.Terrain(c) == TerrainGround && !g.IsOccupied(c)
}

// IsOccupied 实现 OccupancyQuery
func (g *Grid) IsOccupied(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.occupant[g.index(c)] != 0
}

// Occupant 返回占用该格的实体，0 表示空闲
func (g *Grid) Occupant(c Cell) ecs.EntityID {
	if !g.InBounds(c) {
		return 0
	}
	return g.occupant[g.index(c)]
}

// CanOccupy 检查一组格子是否全部可建造
func (g *Grid) CanOccupy(cells []Cell) bool {
	for _, c := range cells {
		if !g.InBounds(c) || !g.IsBuildable(c) {
			return false
		}
	}
	return true
}

// Occupy 登记占用，调用前应先用 CanOccupy 检查
func (g *Grid) Occupy(cells []Cell, id ecs.EntityID) {
	for _, c := range cells {
		if g.InBounds(c) {
			g.occupant[g.index(c)] = id
		}
	}
}

// Release 释放 id 占用的格子（只释放属于该实体的格）
func (g *Grid) Release(cells []Cell, id ecs.EntityID) {
	for _, c := range cells {
		if g.InBounds(c) && g.occupant[g.index(c)] == id {
			g.occupant[g.index(c)] = 0
		}
	}
}

// CellCenter 格中心的世界坐标
func (g *Grid) CellCenter(c Cell) (x, y float64) {
	return (float64(c.X) + 0.5) * g.CellSize, (float64(c.Y) + 0.5) * g.CellSize
}

// CellAt 世界坐标所在的格
func (g *Grid) CellAt(x, y float64) Cell {
	return Cell{X: int(math.Floor(x / g.CellSize)), Y: int(math.Floor(y / g.CellSize))}
}
