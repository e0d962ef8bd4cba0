package view

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// tierKeys maps 1-6 to unit tiers.
var tierKeys = [...]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
}

// answerKeys maps A/B/C to choice ids.
var answerKeys = map[ebiten.Key]string{
	ebiten.KeyA: "A",
	ebiten.KeyB: "B",
	ebiten.KeyC: "C",
}

// handleInput processes edge-triggered key presses.
func (g *Game) handleInput() {
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		g.press(k)
	}
}

// press applies a single key press. C copies the report only while no
// question is open; otherwise it answers.
func (g *Game) press(k ebiten.Key) {
	s := g.sess
	g.note = ""
	if s.Pending() != nil {
		if id, ok := answerKeys[k]; ok {
			s.Answer(id)
			g.pullEvents()
			return
		}
		if k == ebiten.KeyEscape {
			s.Cancel()
			return
		}
	}
	for i, tk := range tierKeys {
		if k == tk {
			s.Ask(i + 1)
			return
		}
	}
	switch k {
	case ebiten.KeyTab:
		s.CycleLane()
	case ebiten.KeyP, ebiten.KeySpace:
		if s.Match().State().Ended {
			g.events.Clear()
		}
		s.TogglePause()
	case ebiten.KeyR:
		g.events.Clear()
		s.Reset()
	case ebiten.KeyC:
		g.copyReport()
	case ebiten.KeyD:
		s.ToggleDirector()
	case ebiten.KeyF:
		g.events.CycleFilter()
	}
}
