package game

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Performance grading thresholds.
const (
	perfMinCombatTicks = 30
	perfMinLifeTicks   = 60
	perfEarlyDeathTick = 300
	perfLowHPFrac      = 0.25
)

// ---------------------------------------------------------------------------
// PerfTracker — per-unit, per-tick accumulator
// ---------------------------------------------------------------------------

// PerfTracker accumulates per-tick performance metrics for one unit.
type PerfTracker struct {
	Label string
	Side  Side
	ID    UnitID
	Tier  int
	Role  Role
	Lane  int
	MaxHP float64

	// Lifecycle.
	TicksAlive int
	Survived   bool
	done       bool

	// Situation time (ticks).
	TicksEngaged  int
	TicksSieging  int
	TicksMarching int
	TicksHealing  int
	TicksLowHP    int

	// Accumulators.
	DamageTaken     float64
	HealingReceived float64
	Advance         float64 // deepest push toward the enemy base, 0..1
	lastHP          float64
}

// NewPerfTracker creates a tracker seeded from the unit's spawn state.
func NewPerfTracker(u *Unit) *PerfTracker {
	return &PerfTracker{
		Label:  unitLabel(*u),
		Side:   u.Side,
		ID:     u.ID,
		Tier:   u.Tier,
		Role:   u.Role,
		Lane:   u.Lane,
		MaxHP:  u.MaxHP,
		lastHP: u.HP,
	}
}

// Update accumulates one tick of data from the unit's current state.
func (pt *PerfTracker) Update(u *Unit, arenaW float64) {
	if pt.done {
		return
	}
	pt.TicksAlive++

	switch d := u.HP - pt.lastHP; {
	case d < 0:
		pt.DamageTaken -= d
	case d > 0:
		pt.HealingReceived += d
	}
	pt.lastHP = u.HP

	switch {
	case u.AttackingBase:
		pt.TicksSieging++
	case u.TargetID != NoUnit:
		pt.TicksEngaged++
	case u.Moving:
		pt.TicksMarching++
	}
	if u.HealTargetID != NoUnit {
		pt.TicksHealing++
	}
	if u.MaxHP > 0 && u.HP < u.MaxHP*perfLowHPFrac {
		pt.TicksLowHP++
	}

	if arenaW > 0 {
		depth := u.X / arenaW
		if u.Side == SideEnemy {
			depth = 1 - depth
		}
		pt.Advance = math.Max(pt.Advance, math.Min(1, math.Max(0, depth)))
	}
}

// Finalize closes the tracker. Later updates are ignored.
func (pt *PerfTracker) Finalize(survived bool) {
	if pt.done {
		return
	}
	pt.Survived = survived
	pt.done = true
}

// ---------------------------------------------------------------------------
// UnitGrade — computed performance result
// ---------------------------------------------------------------------------

// UnitGrade is the computed performance grade for one unit.
type UnitGrade struct {
	Label    string
	Side     Side
	ID       UnitID
	Tier     int
	Role     Role
	Lane     int
	Survived bool

	Score float64
	Grade string

	DamageTaken     float64
	HealingReceived float64
	CombatTimePct   float64
	Advance         float64

	// Sub-scores; -1 means not enough data to grade.
	CombatScore     float64
	PressureScore   float64
	SupportScore    float64
	DurabilityScore float64

	GoodTraits []string
	BadTraits  []string
}

// ---------------------------------------------------------------------------
// Grading logic
// ---------------------------------------------------------------------------

// GradePerformance computes grades from accumulated tracker data, ally first
// then by id.
func GradePerformance(trackers map[UnitID]*PerfTracker) []UnitGrade {
	grades := make([]UnitGrade, 0, len(trackers))
	for _, pt := range trackers {
		grades = append(grades, computeGrade(pt))
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].Side != grades[j].Side {
			return grades[i].Side < grades[j].Side
		}
		return grades[i].ID < grades[j].ID
	})
	return grades
}

func computeGrade(pt *PerfTracker) UnitGrade {
	g := UnitGrade{
		Label:           pt.Label,
		Side:            pt.Side,
		ID:              pt.ID,
		Tier:            pt.Tier,
		Role:            pt.Role,
		Lane:            pt.Lane,
		Survived:        pt.Survived,
		DamageTaken:     pt.DamageTaken,
		HealingReceived: pt.HealingReceived,
		Advance:         pt.Advance,
		CombatScore:     -1,
		PressureScore:   -1,
		SupportScore:    -1,
		DurabilityScore: -1,
	}
	fighting := pt.TicksEngaged + pt.TicksSieging
	if pt.TicksAlive > 0 {
		g.CombatTimePct = perfFrac(fighting, pt.TicksAlive) * 100
	}

	// --- Combat: time spent on a target, minus time spent nearly dead ---
	if fighting >= perfMinCombatTicks {
		s := 50.0
		s += 30.0 * perfFrac(fighting, pt.TicksAlive)
		s -= 20.0 * perfFrac(pt.TicksLowHP, pt.TicksAlive)
		g.CombatScore = perfClamp(s)
	}

	// --- Pressure: depth of the push and base damage time ---
	if pt.TicksAlive >= perfMinLifeTicks {
		s := 30.0
		s += 50.0 * pt.Advance
		s += 20.0 * perfFrac(pt.TicksSieging, pt.TicksAlive)
		g.PressureScore = perfClamp(s)
	}

	// --- Support: healers only ---
	if pt.Role == RoleHealer && pt.TicksAlive >= perfMinLifeTicks {
		s := 40.0
		s += 60.0 * perfFrac(pt.TicksHealing, pt.TicksAlive)
		g.SupportScore = perfClamp(s)
	}

	// --- Durability: damage soaked relative to max HP, survival ---
	if pt.TicksAlive >= perfMinLifeTicks && pt.MaxHP > 0 {
		s := 40.0
		s += 30.0 * math.Min(1, pt.DamageTaken/(pt.MaxHP*2))
		if pt.Survived {
			s += 30.0
		}
		g.DurabilityScore = perfClamp(s)
	}

	// --- Overall weighted average ---
	type scoredWeight struct {
		score  float64
		weight float64
	}
	var items []scoredWeight
	if g.CombatScore >= 0 {
		items = append(items, scoredWeight{g.CombatScore, 0.35})
	}
	if g.PressureScore >= 0 {
		items = append(items, scoredWeight{g.PressureScore, 0.30})
	}
	if g.SupportScore >= 0 {
		items = append(items, scoredWeight{g.SupportScore, 0.20})
	}
	if g.DurabilityScore >= 0 {
		items = append(items, scoredWeight{g.DurabilityScore, 0.15})
	}

	if len(items) > 0 {
		totalW := 0.0
		totalS := 0.0
		for _, it := range items {
			totalW += it.weight
			totalS += it.score * it.weight
		}
		g.Score = totalS / totalW
	} else {
		g.Score = 40.0
	}
	if pt.Survived {
		g.Score = math.Min(100, g.Score+5)
	}

	g.Grade = PerfLetterGrade(g.Score)
	g.GoodTraits, g.BadTraits = perfDetectTraits(pt)
	return g
}

// ---------------------------------------------------------------------------
// Trait detection
// ---------------------------------------------------------------------------

func perfDetectTraits(pt *PerfTracker) (good, bad []string) {
	fighting := pt.TicksEngaged + pt.TicksSieging

	if pt.TicksSieging > 0 {
		good = append(good, "breached_base")
	}
	if pt.Advance >= 0.75 {
		good = append(good, "deep_push")
	}
	if pt.TicksAlive >= perfMinLifeTicks && perfFrac(pt.TicksEngaged, pt.TicksAlive) > 0.5 {
		good = append(good, "front_holder")
	}
	if pt.Role == RoleHealer && perfFrac(pt.TicksHealing, pt.TicksAlive) > 0.4 {
		good = append(good, "medic")
	}
	if pt.Survived && pt.DamageTaken > pt.MaxHP {
		good = append(good, "tank")
	}

	if !pt.Survived && pt.TicksAlive < perfEarlyDeathTick {
		bad = append(bad, "died_early")
	}
	if pt.TicksAlive >= perfMinLifeTicks && fighting == 0 && pt.Role != RoleHealer {
		bad = append(bad, "never_engaged")
	}
	if perfFrac(pt.TicksLowHP, pt.TicksAlive) > 0.3 {
		bad = append(bad, "bled_out")
	}
	if pt.Role == RoleHealer && pt.TicksAlive >= 2*perfMinLifeTicks && perfFrac(pt.TicksHealing, pt.TicksAlive) < 0.1 {
		bad = append(bad, "idle_healer")
	}
	return good, bad
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

// FormatGrades returns a human-readable performance report.
func FormatGrades(grades []UnitGrade) string {
	var sb strings.Builder
	sb.WriteString("\n=== Unit Performance Grades ===\n")

	currentSide := Side(-1)
	for _, g := range grades {
		if g.Side != currentSide {
			currentSide = g.Side
			fmt.Fprintf(&sb, "\n--- %s ---\n", strings.ToUpper(g.Side.String()))
		}

		status := "survived"
		if !g.Survived {
			status = "KIA"
		}
		fmt.Fprintf(&sb, "  %-3s  %-4s  t%d %-6s lane=%d [%s]  dmg=%.0f  healed=%.0f  combat=%.0f%%  push=%.0f%%\n",
			g.Grade, g.Label, g.Tier, g.Role, g.Lane, status, g.DamageTaken, g.HealingReceived, g.CombatTimePct, g.Advance*100)
		if len(g.GoodTraits) > 0 {
			fmt.Fprintf(&sb, "       Good: %s\n", strings.Join(g.GoodTraits, ", "))
		}
		if len(g.BadTraits) > 0 {
			fmt.Fprintf(&sb, "       Bad:  %s\n", strings.Join(g.BadTraits, ", "))
		}
	}
	return sb.String()
}

// FormatGradesSummary returns a compact side-level summary.
func FormatGradesSummary(grades []UnitGrade) string {
	type sideAgg struct {
		n, survived int
		scoreSum    float64
		good, bad   map[string]int
	}
	aggs := map[Side]*sideAgg{}
	for _, g := range grades {
		a, ok := aggs[g.Side]
		if !ok {
			a = &sideAgg{good: map[string]int{}, bad: map[string]int{}}
			aggs[g.Side] = a
		}
		a.n++
		a.scoreSum += g.Score
		if g.Survived {
			a.survived++
		}
		for _, t := range g.GoodTraits {
			a.good[t]++
		}
		for _, t := range g.BadTraits {
			a.bad[t]++
		}
	}

	var sb strings.Builder
	for _, side := range []Side{SideAlly, SideEnemy} {
		a, ok := aggs[side]
		if !ok {
			continue
		}
		avgScore := a.scoreSum / float64(a.n)
		fmt.Fprintf(&sb, "%-5s units=%d  avg=%.1f (%s)  survival=%.0f%%\n",
			side, a.n, avgScore, PerfLetterGrade(avgScore), perfFrac(a.survived, a.n)*100)
		if top := perfTopTraits(a.good, 3); top != "" {
			fmt.Fprintf(&sb, "      top good: %s\n", top)
		}
		if top := perfTopTraits(a.bad, 3); top != "" {
			fmt.Fprintf(&sb, "      top bad:  %s\n", top)
		}
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func perfFrac(num, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

func perfClamp(s float64) float64 {
	return math.Min(100, math.Max(0, s))
}

// PerfLetterGrade maps a 0-100 score to a letter grade.
func PerfLetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}

func perfTopTraits(counts map[string]int, n int) string {
	type kv struct {
		trait string
		count int
	}
	list := make([]kv, 0, len(counts))
	for t, c := range counts {
		list = append(list, kv{t, c})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].trait < list[j].trait
	})
	if len(list) > n {
		list = list[:n]
	}
	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, fmt.Sprintf("%s(%d)", e.trait, e.count))
	}
	return strings.Join(parts, ", ")
}
