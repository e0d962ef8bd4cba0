package game

// Winner is the decided result of a match.
type Winner int

const (
	WinnerNone Winner = iota
	WinnerAlly
	WinnerEnemy
	WinnerDraw
)

func (w Winner) String() string {
	switch w {
	case WinnerAlly:
		return "ally"
	case WinnerEnemy:
		return "enemy"
	case WinnerDraw:
		return "draw"
	default:
		return "none"
	}
}

// MatchState is the aggregate the simulation steps. It exclusively owns every
// live unit and projectile.
type MatchState struct {
	Paused     bool
	TimeSec    float64
	MaxSec     float64
	LaneCount  int
	BaseAlly   float64
	BaseEnemy  float64
	ScoreAlly  float64
	ScoreEnemy float64
	Ended      bool
	Winner     Winner

	Units       []Unit
	Projectiles []Projectile

	// NextProjectileID is the id handed to the next projectile Step emits.
	NextProjectileID int
}

// NewMatchState returns a not-yet-started match with full bases.
func NewMatchState(laneCount int, maxSec float64) MatchState {
	if maxSec <= 0 {
		maxSec = MatchSec
	}
	return MatchState{
		Paused:           true,
		MaxSec:           maxSec,
		LaneCount:        max(1, laneCount),
		BaseAlly:         BaseHP,
		BaseEnemy:        BaseHP,
		NextProjectileID: 1,
	}
}

// Clone deep-copies the entity sets.
func (s MatchState) Clone() MatchState {
	c := s
	c.Units = append([]Unit(nil), s.Units...)
	c.Projectiles = append([]Projectile(nil), s.Projectiles...)
	return c
}

// Lanes returns the lane count, at least 1.
func (s MatchState) Lanes() int {
	return max(1, s.LaneCount)
}

// ClampLane clamps a lane index into [0, Lanes()-1].
func (s MatchState) ClampLane(lane int) int {
	return min(max(lane, 0), s.Lanes()-1)
}

// Unit returns the live unit with the given id.
func (s MatchState) Unit(id UnitID) (Unit, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// UnitsOf returns the live units belonging to one side.
func (s MatchState) UnitsOf(side Side) []Unit {
	var out []Unit
	for _, u := range s.Units {
		if u.Side == side {
			out = append(out, u)
		}
	}
	return out
}

// laneBand returns the top and bottom y of a lane for the given arena height.
func laneBand(lane, laneCount int, arenaH float64) (y0, y1 float64) {
	laneH := arenaH / float64(max(1, laneCount))
	return laneH * float64(lane), laneH * float64(lane+1)
}

// LaneBand exposes the lane band for renderers and tests.
func (s MatchState) LaneBand(lane int, arenaH float64) (y0, y1 float64) {
	return laneBand(s.ClampLane(lane), s.Lanes(), arenaH)
}

// scoreWinner decides a time-expiry result: higher score wins, equal draws.
func scoreWinner(scoreAlly, scoreEnemy float64) Winner {
	switch {
	case scoreAlly > scoreEnemy:
		return WinnerAlly
	case scoreEnemy > scoreAlly:
		return WinnerEnemy
	default:
		return WinnerDraw
	}
}

// baseWinner decides a result from base HP; WinnerNone if both bases stand.
func baseWinner(baseAlly, baseEnemy float64) Winner {
	switch {
	case baseAlly <= 0 && baseEnemy <= 0:
		return WinnerDraw
	case baseEnemy <= 0:
		return WinnerAlly
	case baseAlly <= 0:
		return WinnerEnemy
	default:
		return WinnerNone
	}
}
