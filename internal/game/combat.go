package game

import "math"

// --- Collision ---

// collide resolves every unordered pair in a lane with an anisotropic box test.
// Opposing units halt on contact; same-side overlaps push apart along the
// shallower axis, displacing only the units that are moving.
func (f *tickFrame) collide(units []Unit, lane []int) {
	for a := 0; a < len(lane); a++ {
		u := &units[lane[a]]
		for b := a + 1; b < len(lane); b++ {
			v := &units[lane[b]]

			dx := v.X - u.X
			dy := v.Y - u.Y
			halfW := (u.Radius + v.Radius) * collWidthFactor
			halfH := u.Radius + v.Radius
			overlapX := halfW - math.Abs(dx)
			overlapY := halfH - math.Abs(dy)
			if overlapX <= 0 || overlapY <= 0 {
				continue
			}

			if u.Side != v.Side {
				u.Moving = false
				v.Moving = false
				continue
			}

			if !u.Moving && !v.Moving {
				continue
			}
			if overlapX < overlapY {
				pushApart(&u.X, &v.X, dx, overlapX, u.Moving, v.Moving)
			} else {
				pushApart(&u.Y, &v.Y, dy, overlapY, u.Moving, v.Moving)
			}
		}
	}
}

// pushApart separates two coordinates by overlap along one axis. d is v-u.
func pushApart(u, v *float64, d, overlap float64, moveU, moveV bool) {
	dir := 1.0
	if d < 0 {
		dir = -1
	}
	switch {
	case moveU && moveV:
		*u -= dir * overlap * 0.5
		*v += dir * overlap * 0.5
	case moveU:
		*u -= dir * overlap
	case moveV:
		*v += dir * overlap
	}
}

// --- Targeting and combat ---

// engage runs radar scans, target validation, pursuit and in-range attacks for
// every unit of one lane. Damage and knockback only accumulate here.
func (f *tickFrame) engage(units []Unit, lane []int) {
	for _, i := range lane {
		u := &units[i]
		u.ScanCD = math.Max(0, u.ScanCD-f.dt)
		u.FireCD = math.Max(0, u.FireCD-f.dt)

		if u.TargetID == NoUnit && u.ScanCD <= 0 {
			u.TargetID = f.scanNearest(units, lane, u)
			u.ScanCD = scanInterval
		}
		if u.TargetID == NoUnit {
			continue
		}

		ti, ok := f.index[u.TargetID]
		if !ok || units[ti].Side == u.Side {
			u.TargetID = NoUnit
			continue
		}
		t := &units[ti]
		dx := t.X - u.X
		dy := t.Y - u.Y
		dist := math.Hypot(dx, dy)

		switch {
		case dist > u.Radar:
			u.TargetID = NoUnit
		case dist > u.Range:
			if u.AttackingBase {
				// Sieging units hold their post.
				u.TargetID = NoUnit
				continue
			}
			f.pursue(u, dx, dy)
		default:
			u.Moving = false
			u.Speed = 0
			f.dmg[t.ID] += u.AttackPerSec * f.dt
			f.knock[t.ID] += -t.Side.forward() * knockbackPerSec * f.dt
			if u.Role == RoleRanged && u.FireCD <= 0 {
				f.fire(u, t.X, t.Y, dist)
				u.FireCD = fireInterval
			}
		}
	}
}

// scanNearest returns the closest enemy within radar; ties keep the first seen.
func (f *tickFrame) scanNearest(units []Unit, lane []int, u *Unit) UnitID {
	radar2 := u.Radar * u.Radar
	best := NoUnit
	bestDist2 := math.Inf(1)
	for _, j := range lane {
		v := &units[j]
		if v.Side == u.Side {
			continue
		}
		dx := v.X - u.X
		dy := v.Y - u.Y
		d2 := dx*dx + dy*dy
		if d2 <= radar2 && d2 < bestDist2 {
			bestDist2 = d2
			best = v.ID
		}
	}
	return best
}

// pursue closes on a target: full horizontal speed, damped vertical speed.
func (f *tickFrame) pursue(u *Unit, dx, dy float64) {
	speed := math.Max(minPursuitSpeed, u.MoveSpeed)
	dirX, dirY := 1.0, 1.0
	if dx < 0 {
		dirX = -1
	}
	if dy < 0 {
		dirY = -1
	}
	u.Moving = true
	u.Speed = dirX * speed
	u.X += u.Speed * f.dt
	if math.Abs(dy) > vertChaseDeadband {
		u.Y += dirY * speed * vertChaseRatio * f.dt
	}
}

// fire emits an arrow aimed at the target's current position.
func (f *tickFrame) fire(u *Unit, tx, ty, dist float64) {
	p := Projectile{
		ID:   f.nextPID,
		Side: u.Side,
		Kind: ProjectileArrow,
		X:    u.X,
		Y:    u.Y,
	}
	if dist > 1e-4 {
		p.VX = (tx - u.X) / dist * projectileSpeed
		p.VY = (ty - u.Y) / dist * projectileSpeed
		p.MaxLife = dist / projectileSpeed
	}
	f.nextPID++
	f.shots = append(f.shots, p)
}

// --- Healers ---

// healers lets each healer of a lane mend the same-side unit in heal range with
// the greatest missing-HP ratio.
func (f *tickFrame) healers(units []Unit, lane []int) {
	for _, i := range lane {
		h := &units[i]
		if h.Role != RoleHealer {
			continue
		}
		h.HealTargetID = NoUnit
		if h.HealPerSec <= 0 {
			continue
		}
		range2 := h.HealRange * h.HealRange
		best := NoUnit
		bestRatio := 0.0
		for _, j := range lane {
			v := &units[j]
			if v.ID == h.ID || v.Side != h.Side || v.MaxHP <= 0 || v.HP >= v.MaxHP {
				continue
			}
			dx := v.X - h.X
			dy := v.Y - h.Y
			if dx*dx+dy*dy > range2 {
				continue
			}
			ratio := (v.MaxHP - v.HP) / v.MaxHP
			if ratio > bestRatio {
				bestRatio = ratio
				best = v.ID
			}
		}
		if best == NoUnit {
			continue
		}
		h.HealTargetID = best
		h.Moving = false
		h.Speed = 0
		f.heal[best] += h.HealPerSec * f.dt
	}
}

// --- Projectiles ---

// advanceProjectiles moves arrows along their velocity and drops the spent.
func (f *tickFrame) advanceProjectiles(ps []Projectile) []Projectile {
	kept := ps[:0]
	for _, p := range ps {
		p.X += p.VX * f.dt
		p.Y += p.VY * f.dt
		p.Life += f.dt
		if p.Expired() || !f.inBounds(p.X, p.Y) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
