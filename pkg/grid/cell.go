// Package grid 提供地表网格：地形、占用登记、地面探测与寻路
//
// 该包取代引擎中的物理射线、NavMesh 采样与碰撞占用查询，
// 所有坐标以格为单位，世界坐标 = (格 + 0.5) * CellSize。
package grid

import "math"

// Cell 网格坐标
type Cell struct {
	X, Y int
}

// Add 坐标相加
func (c Cell) Add(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y}
}

// Chebyshev 切比雪夫距离（8 邻接下的步数）
func (c Cell) Chebyshev(o Cell) int {
	dx := abs(c.X - o.X)
	dy := abs(c.Y - o.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Distance 欧氏距离（格）
func (c Cell) Distance(o Cell) float64 {
	return math.Hypot(float64(c.X-o.X), float64(c.Y-o.Y))
}

// Neighborhood 返回以 c 为中心、切比雪夫半径 r 内的所有格（含中心）
func (c Cell) Neighborhood(r int) []Cell {
	if r < 0 {
		return nil
	}
	out := make([]Cell, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			out = append(out, Cell{X: c.X + dx, Y: c.Y + dy})
		}
	}
	return out
}

// Footprint 返回以 c 为左上角、边长 size 的方形占地
func (c Cell) Footprint(size int) []Cell {
	out := make([]Cell, 0, size*size)
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			out = append(out, Cell{X: c.X + dx, Y: c.Y + dy})
		}
	}
	return out
}

// neighbors8 8 邻接方向（先正交后对角）
var neighbors8 = []Cell{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
