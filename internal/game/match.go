package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Spawn placement and host defaults.
const (
	// spawnOffset is how far inside its own base a unit appears.
	spawnOffset = 60.0
	// spawnJitter is the share of lane height used for random y placement.
	spawnJitter = 0.4

	// DefaultArenaWidth/Height are used for spawns before the host reports a size.
	DefaultArenaWidth  = 800.0
	DefaultArenaHeight = 400.0

	// FeedbackEpsilon separates "no change" from damage or heal for visual feedback.
	FeedbackEpsilon = 0.1
)

// Feedback is the per-unit visual hint derived from the last tick.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackHurt
	FeedbackHealed
)

// Match is the controller around a MatchState. It is single-writer: the host
// loop calls Advance once per frame and reads State between frames.
type Match struct {
	id      string
	balance *Balance
	state   MatchState
	rng     *rand.Rand

	nextID   UnitID
	spawnSeq int
	tick     int

	arenaW float64
	arenaH float64

	feedback map[UnitID]Feedback
	log      *SimLog
}

// MatchOption configures a Match at construction.
type MatchOption func(*Match)

// WithBalance replaces the default balance tables.
func WithBalance(b *Balance) MatchOption {
	return func(m *Match) {
		if b != nil {
			m.balance = b
		}
	}
}

// WithMatchSeed seeds the spawn jitter RNG.
func WithMatchSeed(seed int64) MatchOption {
	return func(m *Match) {
		m.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay jitter
	}
}

// WithLog routes match events into an existing SimLog.
func WithLog(l *SimLog) MatchOption {
	return func(m *Match) {
		if l != nil {
			m.log = l
		}
	}
}

// WithArenaSize sets the arena used for spawns until Advance reports one.
func WithArenaSize(w, h float64) MatchOption {
	return func(m *Match) {
		m.arenaW, m.arenaH = w, h
	}
}

// NewMatch creates a not-yet-started match with laneCount lanes.
func NewMatch(laneCount int, opts ...MatchOption) *Match {
	m := &Match{
		id:       uuid.NewString(),
		balance:  DefaultBalance(),
		rng:      rand.New(rand.NewSource(1)), // #nosec G404 -- gameplay jitter
		nextID:   1,
		arenaW:   DefaultArenaWidth,
		arenaH:   DefaultArenaHeight,
		feedback: make(map[UnitID]Feedback),
		log:      NewSimLog(false),
	}
	for _, o := range opts {
		o(m)
	}
	m.state = NewMatchState(laneCount, m.balance.MatchSec)
	m.state.BaseAlly = m.balance.BaseHP
	m.state.BaseEnemy = m.balance.BaseHP
	return m
}

// ID is the match's unique identity.
func (m *Match) ID() string { return m.id }

// Balance returns the balance tables in use.
func (m *Match) Balance() *Balance { return m.balance }

// Log returns the match event log.
func (m *Match) Log() *SimLog { return m.log }

// Tick returns the number of ticks advanced since the last reset.
func (m *Match) Tick() int { return m.tick }

// State returns a copy of the current state. Callers may keep it; it is not
// updated by later ticks.
func (m *Match) State() MatchState { return m.state.Clone() }

// Running reports whether the match is started, unpaused and not ended.
func (m *Match) Running() bool { return !m.state.Paused && !m.state.Ended }

// Arena returns the arena dimensions last reported by the host.
func (m *Match) Arena() (w, h float64) { return m.arenaW, m.arenaH }

// Feedback returns the visual hint for a unit from the last tick.
func (m *Match) Feedback(id UnitID) Feedback { return m.feedback[id] }

// SetLaneCount changes the lane count; existing units are re-clamped into range.
func (m *Match) SetLaneCount(n int) {
	m.state.LaneCount = max(1, n)
	for i := range m.state.Units {
		m.state.Units[i].Lane = m.state.ClampLane(m.state.Units[i].Lane)
	}
}

// SetPaused toggles the cooperative pause flag. Ended matches stay paused.
func (m *Match) SetPaused(p bool) {
	if m.state.Ended {
		return
	}
	m.state.Paused = p
}

func (m *Match) limit(maxSec float64) float64 {
	if maxSec > 0 {
		return maxSec
	}
	return m.balance.MatchSec
}

// Start resets the clock, pause, end and winner flags; scores, bases and
// units are kept. maxSec <= 0 selects the default match length.
func (m *Match) Start(maxSec float64) {
	m.state.Paused = false
	m.state.Ended = false
	m.state.Winner = WinnerNone
	m.state.TimeSec = 0
	m.state.MaxSec = m.limit(maxSec)
	m.log.Add(m.tick, "--", "--", "match", "start", fmt.Sprintf("limit=%.0fs", m.state.MaxSec), m.state.MaxSec)
}

// Reset starts a full new match: bases refilled, scores zeroed, entities cleared.
func (m *Match) Reset(maxSec float64) {
	m.state = NewMatchState(m.state.LaneCount, m.limit(maxSec))
	m.state.BaseAlly = m.balance.BaseHP
	m.state.BaseEnemy = m.balance.BaseHP
	m.state.Paused = false
	m.tick = 0
	m.feedback = make(map[UnitID]Feedback)
	m.log.Add(m.tick, "--", "--", "match", "reset", fmt.Sprintf("limit=%.0fs lanes=%d", m.state.MaxSec, m.state.Lanes()), m.state.MaxSec)
}

// End force-terminates the match. If no winner was decided, it is derived from
// base HP; with both bases standing the result stays undecided.
func (m *Match) End() {
	if m.state.Winner == WinnerNone {
		m.state.Winner = baseWinner(m.state.BaseAlly, m.state.BaseEnemy)
	}
	wasEnded := m.state.Ended
	finish(&m.state)
	if !wasEnded {
		m.log.Add(m.tick, "--", "--", "match", "end", "forced winner="+m.state.Winner.String(), 0)
	}
}

// Spawn materialises a unit of the given tier in a lane just inside its own
// base and credits the spawning side's score immediately. Ended matches
// accept no spawns.
func (m *Match) Spawn(tier, lane int, side Side) (Unit, bool) {
	if m.state.Ended {
		return Unit{}, false
	}
	tpl := m.balance.Resolve(tier)
	s := &m.state
	laneIdx := s.ClampLane(lane)

	y0, y1 := laneBand(laneIdx, s.Lanes(), m.arenaH)
	y := (y0+y1)/2 + (m.rng.Float64()-0.5)*(y1-y0)*spawnJitter
	top := y0 + laneMargin + tpl.Radius
	bottom := y1 - laneMargin - tpl.Radius
	if bottom > top {
		y = math.Min(math.Max(y, top), bottom)
	}

	x := spawnOffset
	if side == SideEnemy {
		x = m.arenaW - spawnOffset
	}

	u := Unit{
		ID:           m.nextID,
		Seq:          m.spawnSeq,
		Side:         side,
		Lane:         laneIdx,
		Tier:         tpl.Tier,
		Role:         tpl.Role,
		X:            x,
		Y:            y,
		MoveSpeed:    tpl.MoveSpeed,
		Speed:        side.forward() * tpl.MoveSpeed,
		Moving:       true,
		Radius:       tpl.Radius,
		Range:        tpl.AttackRange,
		Radar:        tpl.Radar,
		HP:           tpl.MaxHP,
		MaxHP:        tpl.MaxHP,
		AttackPerSec: tpl.AttackPerSec,
		HealPerSec:   tpl.HealPerSec,
		HealRange:    tpl.HealRange,
	}
	m.nextID++
	m.spawnSeq++

	score := m.balance.ScoreForTier(tpl.Tier)
	if side == SideAlly {
		s.ScoreAlly += score
	} else {
		s.ScoreEnemy += score
	}
	s.Units = append(s.Units, u)

	m.log.Add(m.tick, unitLabel(u), side.String(), "spawn", tpl.Role.String(),
		fmt.Sprintf("tier=%d lane=%d at (%.0f,%.0f)", tpl.Tier, laneIdx, x, y), score)
	return u, true
}

// Advance runs one simulation tick on a w×h arena and replaces the state.
// Advancing an ended match is a no-op; a paused match keeps its clock still
// while the field plays on.
func (m *Match) Advance(dt, w, h float64) {
	if w > 0 && h > 0 {
		m.arenaW, m.arenaH = w, h
	}
	if m.state.Ended {
		return
	}
	prev := m.state
	next, ev := StepEvents(prev, dt, m.arenaW, m.arenaH)
	m.tick++
	m.recordTick(prev, next, ev)
	m.state = next
}

// recordTick diffs two consecutive states into feedback flags and log events.
func (m *Match) recordTick(prev, next MatchState, ev TickEvents) {
	clear(m.feedback)
	before := make(map[UnitID]Unit, len(prev.Units))
	for _, u := range prev.Units {
		before[u.ID] = u
	}

	for _, id := range ev.Despawned {
		p := before[id]
		m.log.Add(m.tick, unitLabel(p), p.Side.String(), "despawn", "out_of_bounds",
			fmt.Sprintf("at (%.0f,%.0f)", p.X, p.Y), 0)
	}
	for _, id := range ev.Killed {
		p := before[id]
		m.log.Add(m.tick, unitLabel(p), p.Side.String(), "death", "killed",
			fmt.Sprintf("tier=%d lane=%d", p.Tier, p.Lane), float64(p.Tier))
	}

	for _, n := range next.Units {
		p, ok := before[n.ID]
		if !ok {
			continue
		}
		label := unitLabel(n)
		switch d := n.HP - p.HP; {
		case d < -FeedbackEpsilon:
			m.feedback[n.ID] = FeedbackHurt
		case d > FeedbackEpsilon:
			m.feedback[n.ID] = FeedbackHealed
		}
		if n.TargetID != p.TargetID && n.TargetID != NoUnit {
			m.log.AddVerbose(m.tick, label, n.Side.String(), "target", "acquire",
				fmt.Sprintf("u%d", n.TargetID), float64(n.TargetID))
		}
		if n.AttackingBase && !p.AttackingBase {
			m.log.Add(m.tick, label, n.Side.String(), "base", "siege",
				fmt.Sprintf("lane=%d", n.Lane), 0)
		}
	}

	if next.Ended {
		m.log.Add(m.tick, "--", "--", "match", "end",
			fmt.Sprintf("winner=%s ally=%.0f enemy=%.0f score=%.0f:%.0f t=%.1fs",
				next.Winner, next.BaseAlly, next.BaseEnemy, next.ScoreAlly, next.ScoreEnemy, next.TimeSec), 0)
	}
}

// unitLabel is the short log label of a unit, e.g. "A12" or "E3".
func unitLabel(u Unit) string {
	if u.Side == SideAlly {
		return fmt.Sprintf("A%d", u.ID)
	}
	return fmt.Sprintf("E%d", u.ID)
}
