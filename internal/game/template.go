package game

// Role is the combat archetype assigned to a tier.
type Role int

const (
	RoleMelee Role = iota
	RoleRanged
	RoleHealer
)

func (r Role) String() string {
	switch r {
	case RoleMelee:
		return "melee"
	case RoleRanged:
		return "ranged"
	case RoleHealer:
		return "healer"
	default:
		return "unknown"
	}
}

// UnitTemplate is the immutable stat block a tier expands into.
type UnitTemplate struct {
	Role         Role
	Tier         int
	MaxHP        float64
	AttackPerSec float64
	MoveSpeed    float64 // px/s
	AttackRange  float64
	Radar        float64 // detection radius
	Radius       float64 // collision radius

	// Healer only; zero otherwise.
	HealPerSec float64
	HealRange  float64
}

// Resolve expands a tier into its template. Out-of-range tiers are clamped.
func (b *Balance) Resolve(tier int) UnitTemplate {
	d := ClampTier(tier)
	idx := d - 1

	t := UnitTemplate{
		Tier:         d,
		MaxHP:        60 + float64(d)*30,
		AttackPerSec: b.DamageByTier[idx],
		MoveSpeed:    b.MoveSpeedByTier[idx],
		AttackRange:  b.RangeByTier[idx],
		Radar:        b.Radar,
		Radius:       b.Radius,
	}

	switch {
	case d == healerTier:
		t.Role = RoleHealer
		t.HealPerSec = b.DamageByTier[idx]
		t.HealRange = t.AttackRange * healRangeFactor
		t.AttackPerSec = b.DamageByTier[0]
	case t.AttackRange >= rangedMinRange:
		t.Role = RoleRanged
	default:
		t.Role = RoleMelee
	}
	return t
}

// Resolve expands a tier using the default balance tables.
func Resolve(tier int) UnitTemplate {
	return defaultBalance.Resolve(tier)
}
