package termview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Lane-Clash/internal/config"
	"github.com/Garsondee/Lane-Clash/internal/game"
	"github.com/Garsondee/Lane-Clash/internal/quiz"
	"github.com/Garsondee/Lane-Clash/internal/session"
)

func newTestHost(t *testing.T) (*Host, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	cfg := config.Default()
	cfg.Director.Enabled = false
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := session.New(cfg, quiz.NewSource(nil, 1), session.WithClock(func() time.Time { return now }))
	h := New(screen, sess, cfg.Match.TickRate)
	h.copyText = func(string) error { return nil }
	return h, screen
}

func cellRune(scr tcell.Screen, x, y int) rune {
	r, _, _, _ := scr.GetContent(x, y)
	return r
}

func rowText(scr tcell.Screen, y int) string {
	w, _ := scr.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		sb.WriteRune(cellRune(scr, x, y))
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestGrid_CellClampsToInterior(t *testing.T) {
	g := Grid{Left: 0, Top: 1, Cols: 80, Rows: 21}

	c, r := g.Cell(0, 0, 800, 400)
	assert.Equal(t, 1, c)
	assert.Equal(t, 1, r)

	c, r = g.Cell(800, 400, 800, 400)
	assert.Equal(t, 78, c, "right edge must not overwrite the enemy base column")
	assert.Equal(t, 21, r)

	c, r = g.Cell(400, 200, 800, 400)
	assert.Equal(t, 40, c)
	assert.Equal(t, 11, r)

	c, _ = g.Cell(-50, 0, 800, 400)
	assert.Equal(t, 1, c)
}

func TestDraw_HeaderArenaAndFooter(t *testing.T) {
	h, scr := newTestHost(t)
	h.Draw()

	assert.True(t, strings.HasPrefix(rowText(scr, 0), "PAUSED"), rowText(scr, 0))
	assert.Equal(t, "P to start", rowText(scr, 22))
	assert.Equal(t, legend, rowText(scr, 23))

	// Full bases on both ends.
	for r := 1; r <= 21; r++ {
		assert.Equal(t, tcell.RuneBlock, cellRune(scr, 0, r))
		assert.Equal(t, tcell.RuneBlock, cellRune(scr, 79, r))
	}
	st := h.Session().Match().State()
	y0, _ := st.LaneBand(1, 400)
	_, sep := arenaGrid(80, 24).Cell(0, y0, 800, 400)
	assert.Equal(t, tcell.RuneHLine, cellRune(scr, 40, sep))
	assert.Equal(t, '·', cellRune(scr, 40, 2))
}

func TestDraw_UnitGlyphAndDamagedBase(t *testing.T) {
	h, scr := newTestHost(t)
	s := h.Session()
	s.TogglePause()
	s.Ask(4)
	u, ok := s.Answer("B")
	require.True(t, ok)
	h.Draw()

	g := arenaGrid(80, 24)
	c, r := g.Cell(u.X, u.Y, 800, 400)
	assert.Equal(t, '4', cellRune(scr, c, r))
	assert.Equal(t, "tier 4 deployed in lane 1", rowText(scr, 22))

	s.Match().End()
	h.Draw()
	assert.True(t, strings.HasPrefix(rowText(scr, 0), "ENDED"), rowText(scr, 0))
}

func TestDraw_HealerGlyph(t *testing.T) {
	assert.Equal(t, '+', unitGlyph(game.Unit{Role: game.RoleHealer, Tier: 6}))
	assert.Equal(t, '3', unitGlyph(game.Unit{Tier: 3}))
}

func TestDrawBase_Proportional(t *testing.T) {
	scr := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, scr.Init())
	defer scr.Fini()
	scr.SetSize(10, 12)

	g := Grid{Top: 1, Cols: 10, Rows: 10}
	drawBase(scr, g, 0, 0.3, styleAlly)
	filled := 0
	for r := 1; r <= 10; r++ {
		if cellRune(scr, 0, r) == tcell.RuneBlock {
			filled++
		}
	}
	assert.Equal(t, 3, filled)
	assert.Equal(t, tcell.RuneBlock, cellRune(scr, 0, 10), "base fills from the bottom")
	assert.Equal(t, tcell.RuneBoard, cellRune(scr, 0, 1))
}

func TestPress_KeyMapping(t *testing.T) {
	h, _ := newTestHost(t)
	s := h.Session()

	assert.True(t, h.press(tcell.KeyRune, 'p'))
	assert.True(t, s.Match().Running())

	h.press(tcell.KeyTab, 0)
	assert.Equal(t, 1, s.Lane())

	h.press(tcell.KeyRune, '2')
	require.NotNil(t, s.Pending())
	h.press(tcell.KeyRune, 'b')
	assert.Nil(t, s.Pending())
	assert.Len(t, s.Match().State().UnitsOf(game.SideAlly), 1)

	h.press(tcell.KeyRune, '3')
	h.press(tcell.KeyEscape, 0)
	assert.Nil(t, s.Pending())

	h.press(tcell.KeyRune, 'd')
	assert.True(t, s.Directing())

	assert.False(t, h.press(tcell.KeyRune, 'q'))
	assert.False(t, h.press(tcell.KeyCtrlC, 0))
}

func TestPress_CopyReport(t *testing.T) {
	h, _ := newTestHost(t)
	var copied string
	h.copyText = func(s string) error {
		copied = s
		return nil
	}
	h.press(tcell.KeyRune, 'c')
	assert.Contains(t, copied, "outcome: leading_level_on_score")
	assert.Equal(t, "report copied", h.note)

	h.copyText = func(string) error { return errors.New("no display") }
	h.press(tcell.KeyRune, 'c')
	assert.Equal(t, "clipboard: no display", h.note)
}

func TestRun_StopsOnCancel(t *testing.T) {
	h, _ := newTestHost(t)
	h.Session().TogglePause()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := h.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, h.Session().Match().Tick())
}

func TestPoll_ExitsWhenRunStopsWithFullBuffer(t *testing.T) {
	h, scr := newTestHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tcell.Event) // nobody reads
	done := make(chan struct{})
	go func() {
		h.poll(ctx, events)
		close(done)
	}()

	require.NoError(t, scr.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)))
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poll blocked on a send after cancel")
	}
	_, open := <-events
	assert.False(t, open, "events left open")
}

func TestRun_QuitReturnsNil(t *testing.T) {
	h, scr := newTestHost(t)
	require.NoError(t, scr.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.NoError(t, h.Run(context.Background()))
}
