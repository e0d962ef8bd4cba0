package view

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Lane-Clash/internal/config"
	"github.com/Garsondee/Lane-Clash/internal/game"
	"github.com/Garsondee/Lane-Clash/internal/quiz"
	"github.com/Garsondee/Lane-Clash/internal/session"
)

// newTestGame builds a host with a fixed clock and a recording clipboard.
func newTestGame(t *testing.T, director bool) (*Game, *string) {
	t.Helper()
	cfg := config.Default()
	cfg.Director.Enabled = director
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := session.New(cfg, quiz.NewSource(nil, 1), session.WithClock(func() time.Time { return now }))
	g := New(sess)
	var copied string
	g.copyText = func(s string) error {
		copied = s
		return nil
	}
	return g, &copied
}

func TestPress_AnswerFlowDeploysInSelectedLane(t *testing.T) {
	g, _ := newTestGame(t, false)
	g.press(ebiten.KeyP)
	g.press(ebiten.KeyTab)
	g.press(ebiten.Key3)
	if a := g.sess.Pending(); a == nil || a.Item.Tier != 3 {
		t.Fatalf("no tier-3 question: %+v", a)
	}
	g.press(ebiten.KeyB) // generated items always answer B

	s := g.sess.Match().State()
	if len(s.Units) != 1 || s.Units[0].Lane != 1 || s.Units[0].Tier != 3 {
		t.Fatalf("units = %+v", s.Units)
	}
	if len(g.events.Recent()) == 0 {
		t.Error("spawn not mirrored into the event panel")
	}
}

func TestPress_CAnswersWhileQuestionOpen(t *testing.T) {
	g, copied := newTestGame(t, false)
	g.press(ebiten.KeyP)
	g.press(ebiten.Key1)
	g.press(ebiten.KeyC)
	if *copied != "" {
		t.Fatal("C copied the report while a question was open")
	}
	if g.sess.Pending() != nil {
		t.Fatal("C did not answer")
	}
	if g.sess.Status() != "wrong" {
		t.Errorf("status = %q", g.sess.Status())
	}
}

func TestPress_EscapeCancels(t *testing.T) {
	g, _ := newTestGame(t, false)
	g.press(ebiten.KeyP)
	g.press(ebiten.Key2)
	g.press(ebiten.KeyEscape)
	if g.sess.Pending() != nil {
		t.Fatal("escape left the question open")
	}
}

func TestPress_CopyReport(t *testing.T) {
	g, copied := newTestGame(t, false)
	g.press(ebiten.KeyP)
	g.press(ebiten.Key1)
	g.press(ebiten.KeyB)
	for i := 0; i < 30; i++ {
		g.tick()
	}

	g.press(ebiten.KeyC)
	if !strings.Contains(*copied, "outcome: leading_ally_ahead_on_score") {
		t.Fatalf("copied report:\n%s", *copied)
	}
	if g.statusLine() != "report copied" {
		t.Errorf("status = %q", g.statusLine())
	}

	g.copyText = func(string) error { return errors.New("no clipboard") }
	g.press(ebiten.KeyC)
	if !strings.Contains(g.statusLine(), "no clipboard") {
		t.Errorf("status = %q", g.statusLine())
	}

	g.press(ebiten.KeyTab)
	if g.statusLine() == "clipboard: no clipboard" {
		t.Error("host note outlived the next key press")
	}
}

func TestPress_ResetClearsPanel(t *testing.T) {
	g, _ := newTestGame(t, true)
	g.press(ebiten.KeyP)
	g.tick()
	if len(g.sess.Match().State().UnitsOf(game.SideEnemy)) == 0 {
		t.Fatal("director did not spawn")
	}

	g.press(ebiten.KeyR)
	g.tick()
	for _, e := range g.events.Recent() {
		if e.Tick > 1 {
			t.Fatalf("stale entry after reset: %+v", e)
		}
	}
	if !g.sess.Match().Running() {
		t.Error("reset match not running")
	}
}

func TestPress_DirectorToggle(t *testing.T) {
	g, _ := newTestGame(t, false)
	g.press(ebiten.KeyD)
	if !g.sess.Directing() {
		t.Fatal("D did not enable the director")
	}
	g.press(ebiten.KeyP)
	g.tick()
	if got := len(g.sess.Match().State().UnitsOf(game.SideEnemy)); got != 3 {
		t.Fatalf("enemy units = %d, want one per lane", got)
	}
}

func TestWindowSize(t *testing.T) {
	g, _ := newTestGame(t, false)
	w, h := g.WindowSize()
	if w != borderWidth*2+800+logPanelWidth || h != borderWidth+400+hudHeight {
		t.Fatalf("window = %dx%d", w, h)
	}
	if lw, lh := g.Layout(0, 0); lw != w || lh != h {
		t.Fatalf("layout = %dx%d", lw, lh)
	}
}

func TestEventLog_KeepsNewest(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < logMaxEntries+5; i++ {
		el.Add(game.SimLogEntry{Tick: i, Unit: fmt.Sprintf("A%d", i), Side: "ally", Category: "spawn", Key: "melee"})
	}
	got := el.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Tick != 5 || got[len(got)-1].Tick != logMaxEntries+4 {
		t.Fatalf("order: first=%d last=%d", got[0].Tick, got[len(got)-1].Tick)
	}
	el.Clear()
	if len(el.Recent()) != 0 {
		t.Fatal("clear kept entries")
	}
}

func TestEventLog_FoldsRepeats(t *testing.T) {
	el := NewEventLog()
	el.Add(game.SimLogEntry{Tick: 10, Unit: "--", Side: "ally", Category: "quiz", Key: "wrong", Value: "q1 tier=2"})
	el.Add(game.SimLogEntry{Tick: 20, Unit: "--", Side: "ally", Category: "quiz", Key: "wrong", Value: "q2 tier=2"})
	el.Add(game.SimLogEntry{Tick: 30, Unit: "--", Side: "ally", Category: "quiz", Key: "correct", Value: "q3 tier=2"})

	got := el.Recent()
	if len(got) != 2 {
		t.Fatalf("entries = %+v", got)
	}
	if got[0].Repeat != 2 || got[0].Tick != 20 || got[0].Value != "q2 tier=2" {
		t.Errorf("folded entry = %+v", got[0])
	}
	if !strings.HasSuffix(got[0].text(), " x2") {
		t.Errorf("text = %q", got[0].text())
	}
	if got[1].Repeat != 1 || strings.Contains(got[1].text(), " x") {
		t.Errorf("single entry = %+v", got[1])
	}
}

func TestEventLog_FilterByCategory(t *testing.T) {
	g, _ := newTestGame(t, false)
	g.press(ebiten.KeyP)
	g.press(ebiten.Key1)
	g.press(ebiten.KeyB)
	g.press(ebiten.Key1)
	g.press(ebiten.KeyA)

	count := func() map[string]int {
		n := map[string]int{}
		for _, e := range g.events.Recent() {
			n[e.Category]++
		}
		return n
	}
	all := count()
	if all["match"] == 0 || all["quiz"] == 0 || all["spawn"] == 0 {
		t.Fatalf("unfiltered panel = %v", all)
	}

	want := []struct {
		filter EventFilter
		only   string
	}{
		{FilterCombat, "spawn"},
		{FilterQuiz, "quiz"},
		{FilterMatch, "match"},
	}
	for _, w := range want {
		g.press(ebiten.KeyF)
		if g.events.Filter() != w.filter {
			t.Fatalf("filter = %s, want %s", g.events.Filter(), w.filter)
		}
		got := count()
		if len(got) != 1 || got[w.only] == 0 {
			t.Errorf("%s filter shows %v", w.filter, got)
		}
	}
	g.press(ebiten.KeyF)
	if g.events.Filter() != FilterAll {
		t.Errorf("filter did not wrap: %s", g.events.Filter())
	}
}
