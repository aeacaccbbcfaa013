package app

import (
	"github.com/gonewx/cryodefense/pkg/components"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

var paletteKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

func (a *App) handleInput() {
	s := a.settings
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		a.paused = !a.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		s.ToggleGrid()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		s.TogglePaths()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.ToggleRanges()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		s.SetSimSpeed(s.GetSettings().SimSpeed * 2)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		s.SetSimSpeed(s.GetSettings().SimSpeed / 2)
	}

	if a.world.GameOver() {
		return
	}

	for i, key := range paletteKeys {
		if i >= len(a.palette) || !inpututil.IsKeyJustPressed(key) {
			continue
		}
		a.cancelHeld()
		id, err := a.world.Hold(a.palette[i])
		if err != nil {
			a.flash("%v", err)
			break
		}
		a.held = id
		a.selected = 0
	}

	mx, my := ebiten.CursorPosition()
	cell, onMap := a.camera.cellAt(mx, my)
	if a.held != 0 && onMap {
		_ = a.world.MoveHeld(a.held, cell)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && onMap {
		if a.held != 0 {
			if err := a.world.Place(a.held); err != nil {
				a.flash("cannot place: %v", err)
			} else {
				a.held = 0
			}
		} else {
			a.selected = a.world.Grid().Occupant(cell)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.cancelHeld()
		a.selected = 0
	}

	if a.selected != 0 && (inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyX)) {
		if err := a.world.Demolish(a.selected); err != nil {
			a.flash("cannot demolish: %v", err)
		} else {
			a.logger.Debug("demolished from viewer", zap.Uint64("id", uint64(a.selected)))
			a.selected = 0
		}
	}

	if a.selected != 0 && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		b, ok := ecs.GetComponent[*components.BuildingComponent](a.world.Entities(), a.selected)
		if ok {
			if err := a.world.SetCollectorActive(a.selected, !b.CollectorActive); err != nil {
				a.flash("%v", err)
			}
		}
	}
}

func (a *App) cancelHeld() {
	if a.held == 0 {
		return
	}
	_ = a.world.CancelHeld(a.held)
	a.held = 0
}
