package app

import (
	"math"
	"sort"

	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
)

const (
	mapLeft   = 16
	mapTop    = 56
	sideWidth = 220
)

// camera 网格坐标与屏幕坐标的换算
type camera struct {
	originX, originY float64
	cellPx           float64
	width, height    int
}

func newCamera(width, height int) camera {
	availW := float64(ScreenWidth - mapLeft*2 - sideWidth)
	availH := float64(ScreenHeight - mapTop - mapLeft)
	px := math.Floor(math.Min(availW/float64(width), availH/float64(height)))
	if px < 1 {
		px = 1
	}
	return camera{originX: mapLeft, originY: mapTop, cellPx: px, width: width, height: height}
}

// cellRect 格子左上角屏幕坐标
func (c camera) cellRect(cell grid.Cell) (x, y float64) {
	return c.originX + float64(cell.X)*c.cellPx, c.originY + float64(cell.Y)*c.cellPx
}

// worldToScreen 世界坐标（格单位乘以 cellSize）转屏幕坐标
func (c camera) worldToScreen(wx, wy, cellSize float64) (x, y float64) {
	return c.originX + wx/cellSize*c.cellPx, c.originY + wy/cellSize*c.cellPx
}

// cellAt 屏幕坐标所在的格子，不在地图内返回 false
func (c camera) cellAt(sx, sy int) (grid.Cell, bool) {
	fx := (float64(sx) - c.originX) / c.cellPx
	fy := (float64(sy) - c.originY) / c.cellPx
	if fx < 0 || fy < 0 {
		return grid.Cell{}, false
	}
	cell := grid.Cell{X: int(fx), Y: int(fy)}
	if cell.X >= c.width || cell.Y >= c.height {
		return grid.Cell{}, false
	}
	return cell, true
}

// placeablePalette 可建造的建筑，按名称排序对应数字键 1..9
func placeablePalette(cfg *config.BuildingConfig) []types.BuildingType {
	var out []types.BuildingType
	for bt, s := range cfg.Buildings {
		if s.Placeable {
			out = append(out, bt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	if len(out) > 9 {
		out = out[:9]
	}
	return out
}
