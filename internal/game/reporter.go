package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// --- Snapshot types ---

// LaneReport captures one lane at one point in time.
type LaneReport struct {
	Lane         int
	AllyAlive    int
	EnemyAlive   int
	AllySieging  int
	EnemySieging int
	AllyHP       float64 // summed unit HP
	EnemyHP      float64
	// Front is the x of the most advanced ally unit minus the most advanced
	// enemy unit's distance from the right edge; positive means ally pressure.
	Front float64
}

// MatchReport is a snapshot of the match at one tick.
type MatchReport struct {
	Tick        int
	TimeSec     float64
	BaseAlly    float64
	BaseEnemy   float64
	ScoreAlly   float64
	ScoreEnemy  float64
	Projectiles int
	Lanes       []LaneReport
}

// AllyAlive sums ally units across lanes.
func (r MatchReport) AllyAlive() int {
	n := 0
	for _, l := range r.Lanes {
		n += l.AllyAlive
	}
	return n
}

// EnemyAlive sums enemy units across lanes.
func (r MatchReport) EnemyAlive() int {
	n := 0
	for _, l := range r.Lanes {
		n += l.EnemyAlive
	}
	return n
}

// --- Reporter ---

// MatchReporter collects periodic reports and summarises sliding windows.
type MatchReporter struct {
	history     []MatchReport
	windowTicks int
}

// NewMatchReporter creates a reporter with the given window size.
func NewMatchReporter(windowTicks int) *MatchReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &MatchReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from a state on an arena of width w.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *MatchReporter) Collect(tick int, s MatchState, w float64) {
	report := MatchReport{
		Tick:        tick,
		TimeSec:     s.TimeSec,
		BaseAlly:    s.BaseAlly,
		BaseEnemy:   s.BaseEnemy,
		ScoreAlly:   s.ScoreAlly,
		ScoreEnemy:  s.ScoreEnemy,
		Projectiles: len(s.Projectiles),
		Lanes:       make([]LaneReport, s.Lanes()),
	}
	allyLead := make([]float64, s.Lanes())
	enemyLead := make([]float64, s.Lanes())
	for i := range report.Lanes {
		report.Lanes[i].Lane = i
	}
	for _, u := range s.Units {
		l := s.ClampLane(u.Lane)
		lr := &report.Lanes[l]
		if u.Side == SideAlly {
			lr.AllyAlive++
			lr.AllyHP += u.HP
			if u.AttackingBase {
				lr.AllySieging++
			}
			allyLead[l] = max(allyLead[l], u.X)
		} else {
			lr.EnemyAlive++
			lr.EnemyHP += u.HP
			if u.AttackingBase {
				lr.EnemySieging++
			}
			enemyLead[l] = max(enemyLead[l], w-u.X)
		}
	}
	for i := range report.Lanes {
		report.Lanes[i].Front = allyLead[i] - enemyLead[i]
	}

	r.history = append(r.history, report)

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / 60 * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent report, or nil.
func (r *MatchReporter) Latest() *MatchReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all retained reports, oldest first.
func (r *MatchReporter) History() []MatchReport {
	return r.history
}

// WindowReport aggregates reports inside the sliding window.
type WindowReport struct {
	FromTick, ToTick int
	Samples          int

	AvgAllyAlive  float64
	AvgEnemyAlive float64
	PeakAlly      int
	PeakEnemy     int

	AllyBaseLoss  float64
	EnemyBaseLoss float64
	ScoreGained   [2]float64 // ally, enemy
}

// WindowSummary aggregates the reports within the last windowTicks.
func (r *MatchReporter) WindowSummary() *WindowReport {
	latest := r.Latest()
	if latest == nil {
		return nil
	}
	from := latest.Tick - r.windowTicks
	var in []MatchReport
	for _, rep := range r.history {
		if rep.Tick > from {
			in = append(in, rep)
		}
	}
	first := in[0]
	wr := &WindowReport{
		FromTick: first.Tick,
		ToTick:   latest.Tick,
		Samples:  len(in),
	}
	for _, rep := range in {
		a, e := rep.AllyAlive(), rep.EnemyAlive()
		wr.AvgAllyAlive += float64(a)
		wr.AvgEnemyAlive += float64(e)
		wr.PeakAlly = max(wr.PeakAlly, a)
		wr.PeakEnemy = max(wr.PeakEnemy, e)
	}
	wr.AvgAllyAlive /= float64(len(in))
	wr.AvgEnemyAlive /= float64(len(in))
	wr.AllyBaseLoss = first.BaseAlly - latest.BaseAlly
	wr.EnemyBaseLoss = first.BaseEnemy - latest.BaseEnemy
	wr.ScoreGained = [2]float64{latest.ScoreAlly - first.ScoreAlly, latest.ScoreEnemy - first.ScoreEnemy}
	return wr
}

// Format renders the window summary as text.
func (wr *WindowReport) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Window T=%d..%d (%d samples) ===\n", wr.FromTick, wr.ToTick, wr.Samples)
	fmt.Fprintf(&sb, "alive avg: ally=%.1f enemy=%.1f  peak: ally=%d enemy=%d\n",
		wr.AvgAllyAlive, wr.AvgEnemyAlive, wr.PeakAlly, wr.PeakEnemy)
	fmt.Fprintf(&sb, "base loss: ally=%.1f enemy=%.1f  score gained: ally=%.0f enemy=%.0f\n",
		wr.AllyBaseLoss, wr.EnemyBaseLoss, wr.ScoreGained[0], wr.ScoreGained[1])
	return sb.String()
}

// FormatLatest renders the most recent report as text.
func (r *MatchReporter) FormatLatest() string {
	rep := r.Latest()
	if rep == nil {
		return "(no reports)"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Report T=%d (%.1fs) ===\n", rep.Tick, rep.TimeSec)
	fmt.Fprintf(&sb, "bases: ally=%.1f enemy=%.1f  score: %.0f:%.0f  arrows=%d\n",
		rep.BaseAlly, rep.BaseEnemy, rep.ScoreAlly, rep.ScoreEnemy, rep.Projectiles)
	for _, l := range rep.Lanes {
		fmt.Fprintf(&sb, "  lane %d: ally=%d(%d sieging, %.0fhp) enemy=%d(%d sieging, %.0fhp) front=%+.0f\n",
			l.Lane, l.AllyAlive, l.AllySieging, l.AllyHP, l.EnemyAlive, l.EnemySieging, l.EnemyHP, l.Front)
	}
	return sb.String()
}
