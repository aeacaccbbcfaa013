package components

// PositionComponent 世界坐标，格 (x, y) 的中心为 ((x+0.5)*CellSize, (y+0.5)*CellSize)
type PositionComponent struct {
	X float64
	Y float64
}
