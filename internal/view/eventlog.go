package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Lane-Clash/internal/game"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 11
)

// EventFilter selects which match log categories the panel shows.
type EventFilter int

const (
	FilterAll EventFilter = iota
	FilterCombat
	FilterQuiz
	FilterMatch
	filterCount
)

func (f EventFilter) String() string {
	switch f {
	case FilterCombat:
		return "combat"
	case FilterQuiz:
		return "quiz"
	case FilterMatch:
		return "match"
	default:
		return "all"
	}
}

// Shows reports whether entries of a SimLog category pass the filter.
func (f EventFilter) Shows(category string) bool {
	switch f {
	case FilterCombat:
		switch category {
		case "spawn", "death", "despawn", "base", "target":
			return true
		}
		return false
	case FilterQuiz:
		return category == "quiz"
	case FilterMatch:
		return category == "match"
	default:
		return true
	}
}

// EventEntry is one panel line. Consecutive identical events from the same
// label fold into a single entry with Repeat > 1.
type EventEntry struct {
	Tick     int
	Label    string // "A3", "E7" or "--"
	Side     string
	Category string
	Key      string
	Value    string
	Repeat   int
}

func (e EventEntry) text() string {
	s := fmt.Sprintf("%5d [%s] %s %s %s", e.Tick, e.Label, e.Category, e.Key, e.Value)
	if e.Repeat > 1 {
		s += fmt.Sprintf(" x%d", e.Repeat)
	}
	return s
}

// EventLog keeps the newest match events for the side panel. The SimLog
// holds the full history.
type EventLog struct {
	entries []EventEntry
	filter  EventFilter
}

// NewEventLog returns an empty panel showing every category.
func NewEventLog() *EventLog {
	return &EventLog{entries: make([]EventEntry, 0, logMaxEntries)}
}

// Add records a match log entry, folding it into the previous line when it
// repeats the same label, category and key.
func (el *EventLog) Add(e game.SimLogEntry) {
	if n := len(el.entries); n > 0 {
		last := &el.entries[n-1]
		if last.Label == e.Unit && last.Category == e.Category && last.Key == e.Key {
			last.Tick = e.Tick
			last.Value = e.Value
			last.Repeat++
			return
		}
	}
	if len(el.entries) == logMaxEntries {
		copy(el.entries, el.entries[1:])
		el.entries = el.entries[:logMaxEntries-1]
	}
	el.entries = append(el.entries, EventEntry{
		Tick:     e.Tick,
		Label:    e.Unit,
		Side:     e.Side,
		Category: e.Category,
		Key:      e.Key,
		Value:    e.Value,
		Repeat:   1,
	})
}

// Filter is the active category filter.
func (el *EventLog) Filter() EventFilter { return el.filter }

// CycleFilter steps to the next category filter, wrapping.
func (el *EventLog) CycleFilter() {
	el.filter = (el.filter + 1) % filterCount
}

// Recent returns the entries passing the filter, oldest first.
func (el *EventLog) Recent() []EventEntry {
	out := make([]EventEntry, 0, len(el.entries))
	for _, e := range el.entries {
		if el.filter.Shows(e.Category) {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every entry; the filter is kept.
func (el *EventLog) Clear() {
	el.entries = el.entries[:0]
}

// Draw renders the panel at panelX, newest entries at the bottom.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 26, B: 36, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS ["+el.filter.String()+"]  F filter", panelX+8, 2)

	entries := el.Recent()
	if maxVisible := (panelH - 24) / logLineHeight; len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 20
	for _, e := range entries {
		vector.FillRect(screen, float32(panelX+2), float32(y), 3, float32(logLineHeight-2), categoryColor(e), false)
		vector.FillRect(screen, float32(panelX+7), float32(y+3), 3, 5, sideColor(e.Side), false)
		ebitenutil.DebugPrintAt(screen, e.text(), panelX+14, y)
		y += logLineHeight
	}
}

// categoryColor tags a line by what happened: losses red, sieges amber,
// quiz results green or red, lifecycle grey.
func categoryColor(e EventEntry) color.RGBA {
	switch e.Category {
	case "death", "despawn":
		return color.RGBA{R: 200, G: 60, B: 60, A: 255}
	case "base":
		return color.RGBA{R: 230, G: 160, B: 40, A: 255}
	case "spawn":
		return color.RGBA{R: 90, G: 170, B: 230, A: 255}
	case "quiz":
		if e.Key == "correct" {
			return color.RGBA{R: 80, G: 200, B: 100, A: 255}
		}
		return color.RGBA{R: 200, G: 90, B: 90, A: 255}
	default:
		return color.RGBA{R: 120, G: 120, B: 120, A: 255}
	}
}

func sideColor(side string) color.RGBA {
	switch side {
	case "ally":
		return color.RGBA{R: 70, G: 130, B: 220, A: 255}
	case "enemy":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	default:
		return color.RGBA{R: 160, G: 160, B: 160, A: 255}
	}
}
