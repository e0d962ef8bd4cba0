// Package view is the windowed ebiten host around a session.
package view

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Lane-Clash/internal/session"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

// hudHeight is the strip under the arena used for score, bases and the question.
const hudHeight = 96

// Game implements ebiten.Game for one session.
type Game struct {
	sess   *session.Session
	events *EventLog
	face   *text.GoXFace

	width, height int
	arenaW        float64
	arenaH        float64

	logSeen  int
	note     string
	copyText func(string) error
}

// New wraps a session in a window host.
func New(sess *session.Session) *Game {
	g := &Game{
		sess:     sess,
		events:   NewEventLog(),
		face:     text.NewGoXFace(basicfont.Face7x13),
		copyText: clipboard.WriteAll,
	}
	g.arenaW, g.arenaH = sess.Arena()
	g.width = borderWidth + int(g.arenaW) + borderWidth + logPanelWidth
	g.height = borderWidth + int(g.arenaH) + hudHeight
	return g
}

// Session exposes the hosted session.
func (g *Game) Session() *session.Session { return g.sess }

// Update advances input and the session by one fixed tick.
func (g *Game) Update() error {
	g.handleInput()
	g.tick()
	return nil
}

func (g *Game) tick() {
	g.sess.Tick()
	g.pullEvents()
}

// pullEvents mirrors new SimLog entries into the event panel.
func (g *Game) pullEvents() {
	log := g.sess.Match().Log()
	for _, e := range log.Since(g.logSeen) {
		g.events.Add(e)
	}
	g.logSeen = log.Len()
}

// copyReport puts the session report on the system clipboard.
func (g *Game) copyReport() {
	if err := g.copyText(g.sess.Report()); err != nil {
		g.note = fmt.Sprintf("clipboard: %v", err)
		return
	}
	g.note = "report copied"
}

// statusLine prefers a host note over the session status until the next
// session action.
func (g *Game) statusLine() string {
	if g.note != "" {
		return g.note
	}
	return g.sess.Status()
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// WindowSize returns the window dimensions the host lays out.
func (g *Game) WindowSize() (int, int) {
	return g.width, g.height
}

var _ ebiten.Game = (*Game)(nil)
