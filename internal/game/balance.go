package game

// Match-wide constants.
const (
	// BaseHP is the starting (and maximum) hit points of each base.
	BaseHP = 200.0
	// MatchSec is the default match length in seconds.
	MatchSec = 180.0

	MinTier = 1
	MaxTier = 6

	// healerTier is the tier forced to the healer role.
	healerTier = 6

	defaultRadar  = 1200.0
	defaultRadius = 14.0

	// healRangeFactor widens a healer's reach relative to its attack range.
	healRangeFactor = 1.2
	// rangedMinRange is the attack range from which a unit fights at distance.
	rangedMinRange = 100.0
)

// Balance holds the per-tier lookup tables. Index 0 is tier 1.
type Balance struct {
	ScoreByTier     [MaxTier]float64
	DamageByTier    [MaxTier]float64
	RangeByTier     [MaxTier]float64
	MoveSpeedByTier [MaxTier]float64
	BaseHP          float64
	MatchSec        float64
	Radar           float64
	Radius          float64
}

// DefaultBalance returns the reference balance tables.
func DefaultBalance() *Balance {
	return &Balance{
		ScoreByTier:     [MaxTier]float64{10, 20, 35, 55, 80, 110},
		DamageByTier:    [MaxTier]float64{10, 12, 16, 22, 30, 40},
		RangeByTier:     [MaxTier]float64{50, 70, 110, 140, 170, 220},
		MoveSpeedByTier: [MaxTier]float64{108, 126, 144, 162, 180, 198},
		BaseHP:          BaseHP,
		MatchSec:        MatchSec,
		Radar:           defaultRadar,
		Radius:          defaultRadius,
	}
}

var defaultBalance = DefaultBalance()

// ClampTier clamps a difficulty tier into [MinTier, MaxTier].
func ClampTier(tier int) int {
	if tier < MinTier {
		return MinTier
	}
	if tier > MaxTier {
		return MaxTier
	}
	return tier
}

// ScoreForTier returns the score credited for spawning a unit of the given tier.
func (b *Balance) ScoreForTier(tier int) float64 {
	return b.ScoreByTier[ClampTier(tier)-1]
}

// ScoreForTier uses the default balance tables.
func ScoreForTier(tier int) float64 {
	return defaultBalance.ScoreForTier(tier)
}
