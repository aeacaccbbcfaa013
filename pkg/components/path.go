package components

import "github.com/gonewx/cryodefense/pkg/grid"

// PathComponent 寻路结果
type PathComponent struct {
	Cells []grid.Cell
	// Next 下一个要走向的路径点下标
	Next int
	// Goal 路径终点，目标改变时重新寻路
	Goal grid.Cell
}

// Done 路径是否已走完
func (p *PathComponent) Done() bool {
	return p.Next >= len(p.Cells)
}
