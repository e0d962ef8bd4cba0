// Package termview runs a session in a terminal with tcell.
package termview

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Lane-Clash/internal/session"
)

const legend = "1-6 ask  a/b/c answer  Tab lane  p pause  r reset  c copy  d director  q quit"

// Host owns the screen and feeds key presses into a session.
type Host struct {
	screen   tcell.Screen
	sess     *session.Session
	period   time.Duration
	note     string
	copyText func(string) error
}

// New wraps an initialised screen. tps is the simulation tick rate.
func New(screen tcell.Screen, sess *session.Session, tps int) *Host {
	if tps <= 0 {
		tps = 60
	}
	return &Host{
		screen:   screen,
		sess:     sess,
		period:   time.Second / time.Duration(tps),
		copyText: clipboard.WriteAll,
	}
}

// Session exposes the hosted session.
func (h *Host) Session() *session.Session { return h.sess }

// Run ticks and redraws until the player quits or ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.period)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan tcell.Event, 64)
	go h.poll(ctx, events)

	h.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !h.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			h.sess.Tick()
			h.Draw()
		}
	}
}

// poll forwards screen events until the screen finalizes or ctx ends.
func (h *Host) poll(ctx context.Context, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// handleEvent returns false when the host should stop.
func (h *Host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		return h.press(ev.Key(), ev.Rune())
	}
	return true
}

// press applies one key. Letters answer while a question is open and act
// as commands otherwise.
func (h *Host) press(key tcell.Key, r rune) bool {
	s := h.sess
	h.note = ""
	switch key {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		s.Cancel()
		return true
	case tcell.KeyTab:
		s.CycleLane()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	if s.Pending() != nil {
		switch r {
		case 'a', 'A', 'b', 'B', 'c', 'C':
			s.Answer(string(unicode.ToUpper(r)))
			return true
		}
	}
	switch {
	case r >= '1' && r <= '6':
		s.Ask(int(r - '0'))
	case r == 'p' || r == ' ':
		s.TogglePause()
	case r == 'r':
		s.Reset()
	case r == 'd':
		s.ToggleDirector()
	case r == 'c':
		if err := h.copyText(s.Report()); err != nil {
			h.note = fmt.Sprintf("clipboard: %v", err)
		} else {
			h.note = "report copied"
		}
	case r == 'q':
		return false
	}
	return true
}

// Draw renders the whole frame and shows it.
func (h *Host) Draw() {
	scr := h.screen
	scr.Clear()
	cols, rows := scr.Size()
	st := h.sess.Match().State()
	w, ht := h.sess.Arena()

	drawText(scr, 0, 0, styleHeader, h.sess.HUDLine())
	drawArena(scr, arenaGrid(cols, rows), &st, h.sess.Match(), h.sess.Lane(), w, ht)

	if q := h.sess.QuestionLine(); q != "" {
		drawText(scr, 0, rows-2, styleQuestion, q)
	} else {
		msg := h.note
		if msg == "" {
			msg = h.sess.Status()
		}
		drawText(scr, 0, rows-2, styleDefault, msg)
	}
	drawText(scr, 0, rows-1, styleLog, legend)
	scr.Show()
}
