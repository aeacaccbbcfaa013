package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/types"
)

const sidebarWidth = 26

var buildingGlyphs = map[types.BuildingType]rune{
	types.BuildingCryoEgg:      '@',
	types.BuildingDrill:        'D',
	types.BuildingSolarPanel:   'S',
	types.BuildingPump:         'P',
	types.BuildingGasCollector: 'G',
	types.BuildingGunTurret:    'T',
	types.BuildingMortarTurret: 'M',
	types.BuildingWall:         '#',
}

var alienGlyphs = map[types.AlienType]rune{
	types.AlienCrawler: 'c',
	types.AlienSpitter: 's',
	types.AlienBrute:   'B',
}

var (
	styleGround = tcell.StyleDefault.Foreground(tcell.ColorDarkOliveGreen)
	styleRock   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleVoid   = tcell.StyleDefault.Foreground(tcell.ColorBlack)
	styleBuild  = tcell.StyleDefault.Foreground(tcell.ColorLightCyan).Bold(true)
	styleAlien  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleCursor = tcell.StyleDefault.Reverse(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleWarn   = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
)

// viewport 以光标为中心、不超出地图的可见窗口左上角
func viewport(cursor grid.Cell, gridW, gridH, viewW, viewH int) (x0, y0 int) {
	clamp := func(v, size, view int) int {
		if view >= size {
			return 0
		}
		v -= view / 2
		if v < 0 {
			return 0
		}
		if v > size-view {
			return size - view
		}
		return v
	}
	return clamp(cursor.X, gridW, viewW), clamp(cursor.Y, gridH, viewH)
}

// terrainGlyph 地形字符
func terrainGlyph(t grid.Terrain) (rune, tcell.Style) {
	switch t {
	case grid.TerrainRock:
		return '^', styleRock
	case grid.TerrainVoid:
		return ' ', styleVoid
	default:
		return '.', styleGround
	}
}

// draw 绘制一帧：地图窗口 + 右侧信息栏
func draw(s tcell.Screen, g *grid.Grid, snap *game.Snapshot, cursor grid.Cell, palette []types.BuildingType, status string) {
	s.Clear()
	w, h := s.Size()
	viewW, viewH := w-sidebarWidth, h-1
	if viewW < 1 || viewH < 1 {
		s.Show()
		return
	}
	x0, y0 := viewport(cursor, g.Width, g.Height, viewW, viewH)

	put := func(c grid.Cell, r rune, st tcell.Style) {
		sx, sy := c.X-x0, c.Y-y0
		if sx < 0 || sy < 0 || sx >= viewW || sy >= viewH {
			return
		}
		s.SetContent(sx, sy, r, nil, st)
	}

	for y := y0; y < y0+viewH && y < g.Height; y++ {
		for x := x0; x < x0+viewW && x < g.Width; x++ {
			c := grid.Cell{X: x, Y: y}
			r, st := terrainGlyph(g.Terrain(c))
			put(c, r, st)
		}
	}

	for _, b := range snap.Buildings {
		r := buildingGlyphs[b.Type]
		st := styleBuild
		if !b.Operational {
			st = st.Dim(true)
		}
		for _, c := range (grid.Cell{X: b.X, Y: b.Y}).Footprint(b.Footprint) {
			put(c, r, st)
		}
	}
	for _, a := range snap.Aliens {
		if a.State == "dead" {
			continue
		}
		put(g.CellAt(a.X, a.Y), alienGlyphs[a.Type], styleAlien)
	}

	// 光标
	if mainc, _, st, _ := s.GetContent(cursor.X-x0, cursor.Y-y0); mainc != 0 {
		put(cursor, mainc, st.Reverse(true))
	} else {
		put(cursor, ' ', styleCursor)
	}

	phase := "night"
	if snap.Daytime {
		phase = "day"
	}
	lines := []string{
		fmt.Sprintf("%s %d  wave %d", phase, snap.Night, snap.Wave),
		fmt.Sprintf("t=%.0fs tick=%d", snap.Time, snap.Tick),
		fmt.Sprintf("ore %d", snap.Resources[types.ResourceOre].Stock),
	}
	for _, kind := range types.FlowResources {
		e := snap.Resources[kind]
		lines = append(lines, fmt.Sprintf("%-5s %d/%d", kind, e.Consumption, e.Supply))
	}
	lines = append(lines, "", fmt.Sprintf("killed %d  lost %d", snap.Stats.AliensKilled, snap.Stats.Destroyed), "")
	for i, bt := range palette {
		lines = append(lines, fmt.Sprintf("%d %c %s", i+1, buildingGlyphs[bt], bt))
	}
	lines = append(lines, "", "arrows move  x demolish", "space pause  q quit")
	for i, line := range lines {
		drawText(s, viewW+1, i, line, styleText)
	}

	if snap.GameOver {
		status = "THE CRYO EGG IS LOST"
	}
	drawText(s, 0, h-1, status, styleWarn)
	s.Show()
}

func drawText(s tcell.Screen, x, y int, str string, st tcell.Style) {
	for i, r := range str {
		s.SetContent(x+i, y, r, nil, st)
	}
}
