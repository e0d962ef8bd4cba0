package game

import "testing"

func TestMatch_NewIsNotStarted(t *testing.T) {
	m := NewMatch(2)
	s := m.State()
	if !s.Paused || s.Ended || m.Running() {
		t.Fatalf("new match: paused=%v ended=%v running=%v", s.Paused, s.Ended, m.Running())
	}
	if s.BaseAlly != BaseHP || s.BaseEnemy != BaseHP || s.MaxSec != MatchSec {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if m.ID() == "" || m.ID() == NewMatch(2).ID() {
		t.Errorf("match ids not unique: %q", m.ID())
	}

}

func TestMatch_PausedAdvanceHoldsClock(t *testing.T) {
	m := NewMatch(1)
	m.Spawn(1, 0, SideAlly)
	before, _ := m.State().Unit(1)

	m.Advance(testDT, 400, 200)
	after, _ := m.State().Unit(1)
	if m.State().TimeSec != 0 {
		t.Errorf("paused clock advanced: t=%.3f", m.State().TimeSec)
	}
	if m.Tick() != 1 || after.X <= before.X {
		t.Errorf("paused field froze: tick=%d x %.2f -> %.2f", m.Tick(), before.X, after.X)
	}

	m.End()
	m.Advance(testDT, 400, 200)
	if m.Tick() != 1 {
		t.Error("ended match advanced")
	}
}

func TestMatch_StartKeepsUnitsAndScore(t *testing.T) {
	m := NewMatch(1)
	m.Spawn(2, 0, SideAlly)
	m.Start(30)
	s := m.State()
	if !m.Running() || s.MaxSec != 30 || s.TimeSec != 0 {
		t.Fatalf("start: running=%v max=%.0f t=%.1f", m.Running(), s.MaxSec, s.TimeSec)
	}
	if len(s.Units) != 1 || s.ScoreAlly != 20 {
		t.Errorf("start dropped pre-start spawns: units=%d score=%.0f", len(s.Units), s.ScoreAlly)
	}
}

func TestMatch_ResetClearsEverything(t *testing.T) {
	m := NewMatch(2)
	m.Start(0)
	m.Spawn(4, 1, SideEnemy)
	for i := 0; i < 30; i++ {
		m.Advance(testDT, 400, 200)
	}
	m.End()
	m.Reset(45)
	s := m.State()
	if s.Ended || s.Paused || s.Winner != WinnerNone {
		t.Errorf("reset flags: ended=%v paused=%v winner=%s", s.Ended, s.Paused, s.Winner)
	}
	if len(s.Units) != 0 || s.ScoreEnemy != 0 || s.TimeSec != 0 || s.MaxSec != 45 {
		t.Errorf("reset state: %+v", s)
	}
	if s.LaneCount != 2 || m.Tick() != 0 {
		t.Errorf("reset lanes=%d tick=%d", s.LaneCount, m.Tick())
	}
}

func TestMatch_EndForcedUndecided(t *testing.T) {
	m := NewMatch(1)
	m.Start(0)
	m.Spawn(1, 0, SideAlly)
	m.End()
	s := m.State()
	if !s.Ended || !s.Paused || len(s.Units) != 0 {
		t.Fatalf("End left ended=%v paused=%v units=%d", s.Ended, s.Paused, len(s.Units))
	}
	if s.Winner != WinnerNone {
		t.Errorf("forced end with standing bases picked %s", s.Winner)
	}
	m.SetPaused(false)
	if !m.State().Paused {
		t.Error("ended match was unpaused")
	}
	if r := DetermineOutcome(s); r.Description != "forced_end_undecided" {
		t.Errorf("outcome = %q", r.Description)
	}
}

func TestMatch_SpawnPlacement(t *testing.T) {
	m := NewMatch(2, WithArenaSize(600, 300), WithMatchSeed(3))
	a, ok := m.Spawn(1, 1, SideAlly)
	if !ok {
		t.Fatal("spawn refused")
	}
	e, _ := m.Spawn(1, 7, SideEnemy)
	if a.X != spawnOffset || e.X != 600-spawnOffset {
		t.Errorf("spawn x: ally=%.0f enemy=%.0f", a.X, e.X)
	}
	if e.Lane != 1 {
		t.Errorf("lane 7 not clamped: %d", e.Lane)
	}
	y0, y1 := 150.0, 300.0
	for _, u := range []Unit{a, e} {
		if u.Y < y0+laneMargin+u.Radius || u.Y > y1-laneMargin-u.Radius {
			t.Errorf("%s spawned at y=%.1f outside lane interior", unitLabel(u), u.Y)
		}
		if u.HP != u.MaxHP || !u.Moving {
			t.Errorf("%s not spawned fresh: %+v", unitLabel(u), u)
		}
	}
	if a.ID == e.ID || e.Seq != a.Seq+1 {
		t.Errorf("ids/seq not sequential: %+v %+v", a, e)
	}
	if a.Speed <= 0 || e.Speed >= 0 {
		t.Errorf("initial speed signs: ally=%.1f enemy=%.1f", a.Speed, e.Speed)
	}
}

func TestMatch_FeedbackFlags(t *testing.T) {
	m := NewMatch(1, WithArenaSize(400, 200))
	m.Start(0)
	m.Spawn(5, 0, SideAlly)
	e, _ := m.Spawn(1, 0, SideEnemy)
	for i := 0; i < 120 && m.Feedback(e.ID) != FeedbackHurt; i++ {
		m.Advance(testDT, 0, 0)
	}
	if m.Feedback(e.ID) != FeedbackHurt {
		t.Fatal("enemy never flagged as hurt")
	}
}

func TestMatch_StateIsACopy(t *testing.T) {
	m := NewMatch(1)
	m.Spawn(1, 0, SideAlly)
	s := m.State()
	s.Units[0].HP = -5
	if m.State().Units[0].HP < 0 {
		t.Fatal("State exposed the live unit slice")
	}
}

func TestMatch_LogsSpawnAndDeath(t *testing.T) {
	log := NewSimLog(true)
	m := NewMatch(1, WithLog(log), WithArenaSize(400, 200))
	m.Start(0)
	m.Spawn(6, 0, SideAlly)
	e, _ := m.Spawn(1, 0, SideEnemy)
	for i := 0; i < 60*30 && m.Running(); i++ {
		m.Advance(testDT, 0, 0)
		if _, ok := m.State().Unit(e.ID); !ok {
			break
		}
	}
	if log.CountCategory("spawn", "") != 2 {
		t.Errorf("spawn entries = %d", log.CountCategory("spawn", ""))
	}
	if log.CountSide("death", SideEnemy) != 1 {
		t.Errorf("enemy deaths logged = %d\n%s", log.CountSide("death", SideEnemy), log.Format())
	}
	if len(log.Filter("target", "acquire")) == 0 {
		t.Error("verbose log recorded no target acquisition")
	}
}
