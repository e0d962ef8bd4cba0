package game

import "fmt"

// harnessDT is the fixed tick length of the headless harness (60 TPS).
const harnessDT = 1.0 / 60.0

// TestSim is a headless simulation harness used exclusively by tests and the
// headless reporter. It mirrors the host loop (directors, then one Advance per
// tick) with no Ebiten dependency and deterministic seeding.
type TestSim struct {
	Width  float64
	Height float64
	Lanes  int
	Seed   int64
	Limit  float64
	SimLog *SimLog
	Match  *Match

	balance *Balance

	directors []*Director
	placed    []placedUnit
	reporter  *MatchReporter
	perf      map[UnitID]*PerfTracker
}

type placedUnit struct {
	side       Side
	tier, lane int
	x, y       float64
	at         bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // arena, lanes, seed, verbose: applied first
	simOptUnit                       // units and directors: applied once the match exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithArena sets the arena dimensions in pixels.
func WithArena(w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Width = w
		ts.Height = h
	}}
}

// WithSimBalance replaces the default balance tables.
func WithSimBalance(b *Balance) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.balance = b
	}}
}

// WithLanes sets the lane count.
func WithLanes(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Lanes = n
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Seed = seed
	}}
}

// WithTimeLimit sets the match length in seconds.
func WithTimeLimit(sec float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Limit = sec
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithUnit spawns a unit the normal way (own base, jittered y).
func WithUnit(side Side, tier, lane int) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.placed = append(ts.placed, placedUnit{side: side, tier: tier, lane: lane})
	}}
}

// WithUnitAt spawns a unit and moves it to (x,y) before the first tick.
func WithUnitAt(side Side, tier, lane int, x, y float64) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.placed = append(ts.placed, placedUnit{side: side, tier: tier, lane: lane, x: x, y: y, at: true})
	}}
}

// WithDirector attaches a spawn director for one side.
func WithDirector(side Side, mode DirectorMode) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		seed := ts.Seed*31 + int64(side) + 1
		ts.directors = append(ts.directors, NewDirector(side, mode, seed))
	}}
}

// NewTestSim constructs a started TestSim from the given options in ordered passes:
//  1. Infrastructure (arena, lanes, seed, limit, verbose)
//  2. Build the Match
//  3. Units and directors
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Width:  DefaultArenaWidth,
		Height: DefaultArenaHeight,
		Lanes:  1,
		Seed:   1,
		SimLog: NewSimLog(false),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.Match = NewMatch(ts.Lanes,
		WithBalance(ts.balance),
		WithMatchSeed(ts.Seed),
		WithLog(ts.SimLog),
		WithArenaSize(ts.Width, ts.Height),
	)
	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(ts)
		}
	}
	for _, p := range ts.placed {
		u, ok := ts.Match.Spawn(p.tier, p.lane, p.side)
		if !ok || !p.at {
			continue
		}
		ts.Place(u.ID, p.x, p.y)
	}
	ts.Match.Start(ts.Limit)
	return ts
}

// Place teleports a live unit. It exists for scenario setup only.
func (ts *TestSim) Place(id UnitID, x, y float64) {
	for i := range ts.Match.state.Units {
		if ts.Match.state.Units[i].ID == id {
			ts.Match.state.Units[i].X = x
			ts.Match.state.Units[i].Y = y
			return
		}
	}
}

// Report enables per-second collection into a MatchReporter and returns it.
func (ts *TestSim) Report(windowTicks int) *MatchReporter {
	if ts.reporter == nil {
		ts.reporter = NewMatchReporter(windowTicks)
	}
	return ts.reporter
}

// TrackPerformance enables per-unit performance trackers from the next tick.
func (ts *TestSim) TrackPerformance() {
	if ts.perf == nil {
		ts.perf = make(map[UnitID]*PerfTracker)
	}
}

// UnitGrades finalizes trackers of living units as survivors and grades every
// tracked unit.
func (ts *TestSim) UnitGrades() []UnitGrade {
	for _, u := range ts.Match.state.Units {
		if pt, ok := ts.perf[u.ID]; ok {
			pt.Finalize(true)
		}
	}
	return GradePerformance(ts.perf)
}

// updatePerformance feeds one tick of unit state into the trackers. Units
// missing from the state are closed as lost, except on the ending tick, which
// clears the field without killing anyone.
func (ts *TestSim) updatePerformance() {
	live := make(map[UnitID]bool, len(ts.Match.state.Units))
	for i := range ts.Match.state.Units {
		u := &ts.Match.state.Units[i]
		live[u.ID] = true
		pt, ok := ts.perf[u.ID]
		if !ok {
			pt = NewPerfTracker(u)
			ts.perf[u.ID] = pt
		}
		pt.Update(u, ts.Width)
	}
	for id, pt := range ts.perf {
		if !live[id] {
			pt.Finalize(ts.Match.state.Ended)
		}
	}
}

// State returns a copy of the current match state.
func (ts *TestSim) State() MatchState {
	return ts.Match.State()
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Match.Tick()
}

// RunTicks advances the simulation n ticks, logging events to SimLog.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.Match.Tick()
		}
	}
	return -1
}

// RunToEnd advances until the match ends or maxTicks elapse.
func (ts *TestSim) RunToEnd(maxTicks int) int {
	return ts.RunUntil(func(s *TestSim) bool { return s.Match.state.Ended }, maxTicks)
}

// runOneTick mirrors the host Update for the headless harness.
func (ts *TestSim) runOneTick() {
	for _, d := range ts.directors {
		d.Update(ts.Match, harnessDT)
	}
	ts.Match.Advance(harnessDT, ts.Width, ts.Height)
	if ts.perf != nil {
		ts.updatePerformance()
	}

	if ts.reporter != nil && ts.Match.Tick()%60 == 0 {
		ts.reporter.Collect(ts.Match.Tick(), ts.Match.state, ts.Width)
	}
	if ts.SimLog.verbose {
		for _, u := range ts.Match.state.Units {
			ts.SimLog.AddVerbose(ts.Match.Tick(), unitLabel(u), u.Side.String(), "move", "position",
				fmt.Sprintf("(%.1f,%.1f) hp=%.1f", u.X, u.Y, u.HP), u.HP)
		}
	}
}

// SimSnapshot is a lightweight state summary at a tick.
type SimSnapshot struct {
	Tick  int
	Units []UnitSnapshot
}

// UnitSnapshot is a lightweight copy of a unit's state at a tick.
type UnitSnapshot struct {
	ID     UnitID
	Label  string
	Side   Side
	X, Y   float64
	HP     float64
	Moving bool
	Target UnitID
}

// Snapshot returns the current state of all units.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Tick: ts.Match.Tick()}
	for _, u := range ts.Match.state.Units {
		snap.Units = append(snap.Units, UnitSnapshot{
			ID:     u.ID,
			Label:  unitLabel(u),
			Side:   u.Side,
			X:      u.X,
			Y:      u.Y,
			HP:     u.HP,
			Moving: u.Moving,
			Target: u.TargetID,
		})
	}
	return snap
}
