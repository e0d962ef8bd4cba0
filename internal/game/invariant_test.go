package game

import (
	"reflect"
	"testing"
)

// --- Invariant helpers ---

// checkHPBounded verifies every live unit has 0 < HP <= MaxHP and both bases
// stay inside [0, BaseHP].
func checkHPBounded(t *testing.T, s MatchState) {
	t.Helper()
	for _, u := range s.Units {
		if u.HP <= 0 || u.HP > u.MaxHP {
			t.Errorf("unit %s has out-of-bounds hp %.3f (max %.1f)", unitLabel(u), u.HP, u.MaxHP)
		}
	}
	if s.BaseAlly < 0 || s.BaseAlly > BaseHP {
		t.Errorf("ally base out of bounds: %.3f", s.BaseAlly)
	}
	if s.BaseEnemy < 0 || s.BaseEnemy > BaseHP {
		t.Errorf("enemy base out of bounds: %.3f", s.BaseEnemy)
	}
}

// checkLaneConfined verifies every unit sits inside its own lane band.
func checkLaneConfined(t *testing.T, s MatchState, arenaH float64) {
	t.Helper()
	for _, u := range s.Units {
		y0, y1 := s.LaneBand(u.Lane, arenaH)
		if u.Y < y0 || u.Y > y1 {
			t.Errorf("unit %s at y=%.2f escaped lane %d [%.1f, %.1f]", unitLabel(u), u.Y, u.Lane, y0, y1)
		}
	}
}

// checkEndedEmpty verifies an ended state holds no entities and stays paused.
func checkEndedEmpty(t *testing.T, s MatchState) {
	t.Helper()
	if !s.Ended {
		return
	}
	if len(s.Units) != 0 || len(s.Projectiles) != 0 {
		t.Errorf("ended state still holds %d units, %d projectiles", len(s.Units), len(s.Projectiles))
	}
	if !s.Paused {
		t.Error("ended state is not paused")
	}
	if s.Winner == WinnerNone {
		t.Error("ended state has no winner")
	}
}

// runChecked runs n ticks and applies every per-tick invariant.
func runChecked(t *testing.T, ts *TestSim, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		ts.RunTicks(1)
		s := ts.State()
		checkHPBounded(t, s)
		checkLaneConfined(t, s, ts.Height)
		checkEndedEmpty(t, s)
		if t.Failed() {
			t.Fatalf("invariant broken at T=%d", ts.CurrentTick())
		}
	}
}

// --- Invariant test scenarios ---

func TestInvariant_HPBounded_DirectorsLongRun(t *testing.T) {
	ts := NewTestSim(
		WithArena(800, 400),
		WithLanes(3),
		WithSeed(7),
		WithDirector(SideAlly, DirectorAI1),
		WithDirector(SideEnemy, DirectorAI2),
	)
	runChecked(t, ts, 60*60)
}

func TestInvariant_LaneConfined_NarrowLanes(t *testing.T) {
	ts := NewTestSim(
		WithArena(600, 240),
		WithLanes(4),
		WithSeed(3),
		WithDirector(SideAlly, DirectorAI2),
		WithDirector(SideEnemy, DirectorAI2),
	)
	runChecked(t, ts, 30*60)
}

func TestInvariant_EndedIsAbsorbing(t *testing.T) {
	ts := NewTestSim(
		WithArena(400, 200),
		WithSeed(11),
		WithTimeLimit(2),
		WithDirector(SideAlly, DirectorAI1),
		WithDirector(SideEnemy, DirectorAI1),
	)
	if got := ts.RunToEnd(10 * 60); got < 0 {
		t.Fatal("match did not end within its time limit")
	}
	ended := ts.State()
	checkEndedEmpty(t, ended)

	for i := 0; i < 5; i++ {
		next := Step(ended, 1.0/60, 400, 200)
		if !reflect.DeepEqual(next, ended) {
			t.Fatalf("step %d changed an ended state:\nbefore %+v\nafter  %+v", i, ended, next)
		}
		ended = next
	}

	tick := ts.CurrentTick()
	ts.RunTicks(30)
	if ts.CurrentTick() != tick {
		t.Errorf("ended match kept ticking: %d -> %d", tick, ts.CurrentTick())
	}
	if _, ok := ts.Match.Spawn(3, 0, SideAlly); ok {
		t.Error("spawn accepted on an ended match")
	}
}

func TestInvariant_StepDoesNotMutateInput(t *testing.T) {
	ts := NewTestSim(
		WithArena(800, 400),
		WithLanes(2),
		WithSeed(5),
		WithDirector(SideAlly, DirectorAI2),
		WithDirector(SideEnemy, DirectorAI2),
	)
	ts.RunTicks(5 * 60)
	prev := ts.State()
	keep := prev.Clone()
	_ = Step(prev, 1.0/60, 800, 400)
	if !reflect.DeepEqual(prev, keep) {
		t.Fatal("Step mutated its input state")
	}
}

func TestInvariant_Deterministic_SameSeed(t *testing.T) {
	build := func() *TestSim {
		return NewTestSim(
			WithArena(800, 400),
			WithLanes(3),
			WithSeed(1234),
			WithDirector(SideAlly, DirectorAI1),
			WithDirector(SideEnemy, DirectorAI2),
		)
	}
	a, b := build(), build()
	a.RunTicks(20 * 60)
	b.RunTicks(20 * 60)
	if !reflect.DeepEqual(a.State(), b.State()) {
		t.Fatal("identical seeds produced different states")
	}
	if a.SimLog.Format() != b.SimLog.Format() {
		t.Fatal("identical seeds produced different logs")
	}
}

func TestInvariant_TargetsResolveOrClear(t *testing.T) {
	ts := NewTestSim(
		WithArena(800, 400),
		WithLanes(2),
		WithSeed(21),
		WithDirector(SideAlly, DirectorAI2),
		WithDirector(SideEnemy, DirectorAI1),
	)
	for i := 0; i < 40*60; i++ {
		ts.RunTicks(1)
		s := ts.State()
		for _, u := range s.Units {
			if u.HealTargetID != NoUnit {
				h, ok := s.Unit(u.HealTargetID)
				if ok && h.Side != u.Side {
					t.Fatalf("T=%d: %s heals an opponent", ts.CurrentTick(), unitLabel(u))
				}
			}
			if u.TargetID == NoUnit {
				continue
			}
			if v, ok := s.Unit(u.TargetID); ok && v.Side == u.Side {
				t.Fatalf("T=%d: %s targets its own side", ts.CurrentTick(), unitLabel(u))
			}
		}
	}
}
