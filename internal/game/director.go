package game

import (
	"math"
	"math/rand"
)

// Director spawn pacing.
const (
	directorRampSec     = 180.0
	directorStartGapSec = 3.2
	directorEndGapSec   = 1.6
	directorMinGapSec   = 1.0
	directorMultiLane   = 0.9 // gap multiplier with two or more lanes
	directorTierRamp    = 0.85
)

// DirectorMode selects the tier band a director draws from.
type DirectorMode int

const (
	DirectorAI1 DirectorMode = iota // tiers 1..5
	DirectorAI2                     // tiers 2..6
)

func (m DirectorMode) String() string {
	if m == DirectorAI2 {
		return "ai2"
	}
	return "ai1"
}

// ParseDirectorMode maps "ai1"/"ai2" to a mode; unknown names fall back to ai1.
func ParseDirectorMode(s string) DirectorMode {
	if s == "ai2" {
		return DirectorAI2
	}
	return DirectorAI1
}

// tierBand returns the inclusive tier range for the mode.
func (m DirectorMode) tierBand() (lo, hi int) {
	if m == DirectorAI2 {
		return 2, 6
	}
	return 1, 5
}

// Director is a time-ramped scheduler that spawns units for one side in every
// lane. It only acts while its match is running.
type Director struct {
	Side Side
	Mode DirectorMode

	cooldown []float64 // per lane, seconds
	rng      *rand.Rand
}

// NewDirector creates a director for side, seeded for reproducible runs.
func NewDirector(side Side, mode DirectorMode, seed int64) *Director {
	return &Director{
		Side: side,
		Mode: mode,
		rng:  rand.New(rand.NewSource(seed)), // #nosec G404 -- gameplay pacing
	}
}

// SpawnGap returns the seconds between spawns per lane at match time t.
func SpawnGap(t float64, lanes int) float64 {
	p := math.Min(1, t/directorRampSec)
	gap := directorStartGapSec - (directorStartGapSec-directorEndGapSec)*p
	if lanes >= 2 {
		gap *= directorMultiLane
	}
	return math.Max(directorMinGapSec, gap)
}

// PickTier returns the tier to spawn at match time t; roll in [0,1) bumps the
// time-biased tier by one half of the time.
func (m DirectorMode) PickTier(t, roll float64) int {
	lo, hi := m.tierBand()
	p := math.Min(1, t/directorRampSec)
	bias := lo + int(math.Floor(float64(hi-lo)*p*directorTierRamp))
	if roll >= 0.5 {
		bias++
	}
	return min(max(bias, lo), hi)
}

// Reset clears lane cooldowns so the next Update spawns immediately.
func (d *Director) Reset() {
	d.cooldown = nil
}

// Update ticks lane cooldowns by dt and spawns where one has elapsed.
// It returns the units spawned this call.
func (d *Director) Update(m *Match, dt float64) []Unit {
	if !m.Running() {
		return nil
	}
	s := &m.state
	lanes := s.Lanes()
	if len(d.cooldown) != lanes {
		d.cooldown = make([]float64, lanes)
	}

	var out []Unit
	for lane := 0; lane < lanes; lane++ {
		d.cooldown[lane] -= dt
		if d.cooldown[lane] > 0 {
			continue
		}
		tier := d.Mode.PickTier(s.TimeSec, d.rng.Float64())
		if u, ok := m.Spawn(tier, lane, d.Side); ok {
			out = append(out, u)
		}
		d.cooldown[lane] = SpawnGap(s.TimeSec, lanes)
	}
	return out
}
