package game

import "math"

// Simulation tuning.
const (
	// baseMargin is the inward offset of each base from its arena edge, and the
	// out-of-bounds margin for units and projectiles.
	baseMargin = 24.0
	// laneMargin keeps units off the lane border.
	laneMargin = 8.0

	scanInterval = 0.25 // s between radar scans while targetless
	fireInterval = 0.8  // s between arrows for ranged units

	knockbackPerSec = 40.0
	// collWidthFactor narrows the horizontal collision extent for tighter packing.
	collWidthFactor = 0.5
	// vertChaseRatio damps vertical pursuit speed.
	vertChaseRatio = 0.35
	// minPursuitSpeed floors marching and chasing speed.
	minPursuitSpeed = 40.0
	// vertChaseDeadband ignores tiny vertical offsets while chasing.
	vertChaseDeadband = 2.0

	projectileSpeed = 420.0
)

// tickFrame is the per-call scratch space of Step. Pending maps are applied
// exactly once at the end of the tick.
type tickFrame struct {
	dt      float64
	w, h    float64
	lanes   int
	laneH   float64
	index   map[UnitID]int
	dmg     map[UnitID]float64
	heal    map[UnitID]float64
	knock   map[UnitID]float64
	shots   []Projectile
	nextPID int

	events TickEvents
}

// TickEvents lists the units a tick removed, by cause.
type TickEvents struct {
	Killed    []UnitID
	Despawned []UnitID
}

// Step advances prev by dt seconds on an arena of w×h pixels and returns the
// next state. prev is never mutated; an ended state is returned unchanged.
// Pause freezes only the clock: units still move, fight and heal.
func Step(prev MatchState, dt, w, h float64) MatchState {
	next, _ := StepEvents(prev, dt, w, h)
	return next
}

// StepEvents is Step that also reports which units the tick removed.
func StepEvents(prev MatchState, dt, w, h float64) (MatchState, TickEvents) {
	if prev.Ended {
		return prev, TickEvents{}
	}

	s := prev.Clone()

	// 1. CLOCK
	if !s.Paused {
		s.TimeSec += dt
	}
	if s.TimeSec >= s.MaxSec {
		s.TimeSec = s.MaxSec
		s.Winner = scoreWinner(s.ScoreAlly, s.ScoreEnemy)
		finish(&s)
		return s, TickEvents{}
	}

	f := &tickFrame{
		dt:      dt,
		w:       w,
		h:       h,
		lanes:   s.Lanes(),
		dmg:     make(map[UnitID]float64),
		heal:    make(map[UnitID]float64),
		knock:   make(map[UnitID]float64),
		nextPID: max(1, s.NextProjectileID),
	}
	f.laneH = h / float64(f.lanes)

	// 2. MOVE toward the enemy base; drop strays.
	s.Units = f.march(s.Units)

	// 3. LANE PARTITION
	f.index = make(map[UnitID]int, len(s.Units))
	for i := range s.Units {
		f.index[s.Units[i].ID] = i
	}
	byLane := f.partition(s.Units)

	for _, lane := range byLane {
		if len(lane) == 0 {
			continue
		}
		// 4. COLLISION
		f.collide(s.Units, lane)
		// 5. TARGETING + COMBAT
		f.engage(s.Units, lane)
		// 6. HEALERS
		f.healers(s.Units, lane)
	}

	// 7. LANE CLAMP
	for i := range s.Units {
		f.clampToLane(&s.Units[i])
	}

	// 8. RESOLVE damage, heal, knockback, deaths and base damage.
	s.Units = f.resolve(&s, s.Units)

	// 9. PROJECTILES
	s.Projectiles = f.advanceProjectiles(append(s.Projectiles, f.shots...))
	s.NextProjectileID = f.nextPID

	// 10. TERMINATION
	if win := baseWinner(s.BaseAlly, s.BaseEnemy); win != WinnerNone {
		s.Winner = win
		finish(&s)
	}
	return s, f.events
}

// finish moves a state into the absorbing Ended state.
func finish(s *MatchState) {
	s.Ended = true
	s.Paused = true
	s.Units = nil
	s.Projectiles = nil
}

func (f *tickFrame) laneIndex(lane int) int {
	return min(max(lane, 0), f.lanes-1)
}

func (f *tickFrame) laneCenter(lane int) float64 {
	y0, y1 := laneBand(f.laneIndex(lane), f.lanes, f.h)
	return (y0 + y1) * 0.5
}

// enemyBaseX is the x of the base a side marches on.
func (f *tickFrame) enemyBaseX(side Side) float64 {
	if side == SideAlly {
		return f.w - baseMargin
	}
	return baseMargin
}

func (f *tickFrame) inBounds(x, y float64) bool {
	return x > -baseMargin && x < f.w+baseMargin && y > -baseMargin && y < f.h+baseMargin
}

// march moves targetless, non-sieging units toward the enemy base along the
// straight line to their lane centre, flagging base attack once in range.
func (f *tickFrame) march(units []Unit) []Unit {
	kept := units[:0]
	for _, u := range units {
		if !u.AttackingBase && u.TargetID == NoUnit && u.HealTargetID == NoUnit {
			dx := f.enemyBaseX(u.Side) - u.X
			dy := f.laneCenter(u.Lane) - u.Y
			dist := math.Hypot(dx, dy)
			if dist > u.Range {
				speed := math.Max(minPursuitSpeed, u.MoveSpeed)
				if dist > 1e-4 {
					ux, uy := dx/dist, dy/dist
					u.X += speed * f.dt * ux
					u.Y += speed * f.dt * uy
					u.Speed = speed * ux
				}
				u.Moving = true
			} else {
				u.Moving = false
				u.Speed = 0
				u.AttackingBase = true
			}
		}
		if !f.inBounds(u.X, u.Y) {
			f.events.Despawned = append(f.events.Despawned, u.ID)
			continue
		}
		kept = append(kept, u)
	}
	return kept
}

// partition buckets unit indices by lane, preserving slice order.
func (f *tickFrame) partition(units []Unit) [][]int {
	byLane := make([][]int, f.lanes)
	for i := range units {
		l := f.laneIndex(units[i].Lane)
		byLane[l] = append(byLane[l], i)
	}
	return byLane
}

// clampToLane keeps a unit inside its lane's interior band.
func (f *tickFrame) clampToLane(u *Unit) {
	if f.laneH <= 0 {
		return
	}
	y0, y1 := laneBand(f.laneIndex(u.Lane), f.lanes, f.h)
	top := y0 + laneMargin + u.Radius
	bottom := y1 - laneMargin - u.Radius
	if bottom <= top {
		u.Y = (y0 + y1) * 0.5
		return
	}
	u.Y = min(max(u.Y, top), bottom)
}

// resolve applies the pending maps once, drops the dead and lets surviving
// sieging units without a unit target hit the opposing base.
func (f *tickFrame) resolve(s *MatchState, units []Unit) []Unit {
	kept := units[:0]
	for _, u := range units {
		u.X += f.knock[u.ID]
		u.HP = min(max(u.HP-f.dmg[u.ID]+f.heal[u.ID], 0), u.MaxHP)
		if u.HP <= 0 {
			f.events.Killed = append(f.events.Killed, u.ID)
			continue
		}
		if u.AttackingBase && u.TargetID == NoUnit {
			hit := u.AttackPerSec * f.dt
			if u.Side == SideAlly {
				s.BaseEnemy = math.Max(0, s.BaseEnemy-hit)
			} else {
				s.BaseAlly = math.Max(0, s.BaseAlly-hit)
			}
		}
		kept = append(kept, u)
	}
	return kept
}
