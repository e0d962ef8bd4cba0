// Package session drives one interactive match: the player answers questions
// to deploy allies while a director spawns the enemy side. Both the window
// and the terminal hosts sit on top of it.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/Garsondee/Lane-Clash/internal/config"
	"github.com/Garsondee/Lane-Clash/internal/game"
	"github.com/Garsondee/Lane-Clash/internal/quiz"
)

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now for question expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithVerboseLog records target acquisition in the match log.
func WithVerboseLog(v bool) Option {
	return func(s *Session) { s.verbose = v }
}

// Session is the host-independent controller around a game.Match.
type Session struct {
	cfg      *config.Config
	match    *game.Match
	director *game.Director
	quiz     *quiz.Source

	dt     float64
	arenaW float64
	arenaH float64

	lane      int
	pending   *quiz.Assigned
	status    string
	directing bool
	started   bool
	verbose   bool
	now       func() time.Time
}

// New builds a session from a validated config and a question source. The
// match is not ticked until TogglePause starts it.
func New(cfg *config.Config, src *quiz.Source, opts ...Option) *Session {
	s := &Session{
		cfg:       cfg,
		quiz:      src,
		dt:        cfg.TickDT(),
		arenaW:    cfg.Match.ArenaWidth,
		arenaH:    cfg.Match.ArenaHeight,
		directing: cfg.Director.Enabled,
		now:       time.Now,
		status:    "P to start",
	}
	for _, o := range opts {
		o(s)
	}
	s.match = game.NewMatch(cfg.Match.LaneCount,
		game.WithBalance(cfg.GameBalance()),
		game.WithMatchSeed(cfg.Match.Seed),
		game.WithArenaSize(s.arenaW, s.arenaH),
		game.WithLog(game.NewSimLog(s.verbose)),
	)
	s.director = game.NewDirector(game.SideEnemy, cfg.DirectorMode(), cfg.Match.Seed+1)
	return s
}

// Match exposes the hosted match.
func (s *Session) Match() *game.Match { return s.match }

// Arena returns the simulated arena size.
func (s *Session) Arena() (w, h float64) { return s.arenaW, s.arenaH }

// Lane is the zero-based lane the next ally deploys into.
func (s *Session) Lane() int { return s.lane }

// Pending returns the open question, or nil.
func (s *Session) Pending() *quiz.Assigned { return s.pending }

// Status is a one-line message for the HUD.
func (s *Session) Status() string { return s.status }

// Directing reports whether the enemy director is active.
func (s *Session) Directing() bool { return s.directing }

// Now returns the session clock.
func (s *Session) Now() time.Time { return s.now() }

// Tick expires a stale question, lets the director act and advances the
// match by one fixed step. Before the first start it does nothing. While
// paused the match clock holds but units already on the field play on.
func (s *Session) Tick() {
	if !s.started {
		return
	}
	if s.pending != nil && s.pending.Expired(s.now()) {
		s.logQuiz("timeout", s.pending)
		s.status = "too slow"
		s.pending = nil
	}
	if s.directing {
		s.director.Update(s.match, s.dt)
	}
	s.match.Advance(s.dt, s.arenaW, s.arenaH)
}

// TogglePause starts a never-started match, resets an ended one and flips
// pause otherwise.
func (s *Session) TogglePause() {
	st := s.match.State()
	switch {
	case st.Ended:
		s.Reset()
	case !s.started:
		s.match.Start(s.cfg.Match.MaxSec)
		s.started = true
		s.status = "fight"
	default:
		s.match.SetPaused(!st.Paused)
		if st.Paused {
			s.status = "resumed"
		} else {
			s.status = "paused"
		}
	}
}

// Reset begins a fresh running match with the same settings.
func (s *Session) Reset() {
	s.match.Reset(s.cfg.Match.MaxSec)
	s.started = true
	s.director.Reset()
	s.pending = nil
	s.status = "reset"
}

// CycleLane moves the ally spawn lane down, wrapping.
func (s *Session) CycleLane() {
	st := s.match.State()
	s.lane = (s.lane + 1) % st.Lanes()
}

// ToggleDirector switches the enemy director on or off.
func (s *Session) ToggleDirector() {
	s.directing = !s.directing
	if s.directing {
		s.status = "director on (" + s.director.Mode.String() + ")"
	} else {
		s.status = "director off"
	}
}

// Ask opens a question for tier. It does nothing while another question is
// open or the match is not running.
func (s *Session) Ask(tier int) bool {
	if s.pending != nil || !s.match.Running() {
		return false
	}
	a := s.quiz.Next(tier, s.now())
	s.pending = &a
	s.status = ""
	return true
}

// Answer resolves the open question. A correct, timely answer spawns an ally
// of the question's tier in the selected lane.
func (s *Session) Answer(choiceID string) (game.Unit, bool) {
	a := s.pending
	if a == nil {
		return game.Unit{}, false
	}
	s.pending = nil
	switch {
	case a.Expired(s.now()):
		s.logQuiz("timeout", a)
		s.status = "too slow"
		return game.Unit{}, false
	case !a.Check(choiceID):
		s.logQuiz("wrong", a)
		s.status = "wrong"
		return game.Unit{}, false
	}
	s.logQuiz("correct", a)
	u, ok := s.match.Spawn(a.Item.Tier, s.lane, game.SideAlly)
	if ok {
		s.status = fmt.Sprintf("tier %d deployed in lane %d", u.Tier, u.Lane+1)
	}
	return u, ok
}

// Cancel drops the open question without an answer.
func (s *Session) Cancel() {
	if s.pending != nil {
		s.logQuiz("cancel", s.pending)
	}
	s.pending = nil
}

func (s *Session) logQuiz(key string, a *quiz.Assigned) {
	s.match.Log().Add(s.match.Tick(), "--", game.SideAlly.String(), "quiz", key,
		fmt.Sprintf("%s tier=%d", a.Item.ID, a.Item.Tier), float64(a.Item.Tier))
}

// Report renders the outcome and summary as plain text.
func (s *Session) Report() string {
	st := s.match.State()
	r := game.DetermineOutcome(st)
	log := s.match.Log()
	var sb strings.Builder
	fmt.Fprintf(&sb, "match %s\n", s.match.ID())
	fmt.Fprintf(&sb, "outcome: %s (winner=%s, decided=%v)\n", r.Description, r.Winner, r.Decided)
	fmt.Fprintf(&sb, "quiz: correct=%d wrong=%d timeout=%d\n",
		log.CountCategory("quiz", "correct"), log.CountCategory("quiz", "wrong"), log.CountCategory("quiz", "timeout"))
	sb.WriteString(log.Summary(s.match.Tick(), st))
	return sb.String()
}

// HUDLine is the compact state line shared by both hosts.
func (s *Session) HUDLine() string {
	st := s.match.State()
	state := "RUNNING"
	switch {
	case st.Ended:
		state = "ENDED winner=" + st.Winner.String()
	case st.Paused:
		state = "PAUSED"
	}
	return fmt.Sprintf("%s  t=%.0f/%.0fs  score %.0f : %.0f  bases %.0f : %.0f  lane %d/%d",
		state, st.TimeSec, st.MaxSec, st.ScoreAlly, st.ScoreEnemy, st.BaseAlly, st.BaseEnemy, s.lane+1, st.Lanes())
}

// QuestionLine renders the open question with its choices and time left.
func (s *Session) QuestionLine() string {
	a := s.pending
	if a == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[tier %d, %.0fs] %s ", a.Item.Tier, a.Remaining(s.now()).Seconds(), a.Item.Text)
	for _, c := range a.Item.Choices {
		fmt.Fprintf(&sb, " %s) %s", c.ID, c.Text)
	}
	return sb.String()
}
