package game

// Side is the owner of a unit, projectile or base.
type Side int

const (
	SideAlly Side = iota
	SideEnemy
)

func (s Side) String() string {
	if s == SideAlly {
		return "ally"
	}
	return "enemy"
}

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	if s == SideAlly {
		return SideEnemy
	}
	return SideAlly
}

// forward is the lane-forward x direction for the side.
func (s Side) forward() float64 {
	if s == SideAlly {
		return 1
	}
	return -1
}

// UnitID identifies a unit for the lifetime of a match. NoUnit means "no target".
type UnitID int

const NoUnit UnitID = 0

// Unit is a live combatant. Target references are plain ids re-resolved every tick.
type Unit struct {
	ID   UnitID
	Seq  int // spawn sequence, stable z-order
	Side Side
	Lane int
	Tier int
	Role Role

	X, Y      float64
	MoveSpeed float64 // configured px/s
	Speed     float64 // signed x speed; sign encodes lane-forward direction
	Moving    bool

	Radius float64
	Range  float64
	Radar  float64

	HP           float64
	MaxHP        float64
	AttackPerSec float64
	HealPerSec   float64
	HealRange    float64

	TargetID     UnitID
	HealTargetID UnitID
	ScanCD       float64
	FireCD       float64

	AttackingBase bool
}

// Alive reports whether the unit still has hit points.
func (u *Unit) Alive() bool {
	return u.HP > 0
}

// ProjectileKind is the visual kind of a projectile.
type ProjectileKind int

const ProjectileArrow ProjectileKind = iota

func (k ProjectileKind) String() string {
	if k == ProjectileArrow {
		return "arrow"
	}
	return "unknown"
}

// Projectile is a purely visual shot; damage is resolved analytically.
type Projectile struct {
	ID      int
	Side    Side
	Kind    ProjectileKind
	X, Y    float64
	VX, VY  float64
	Life    float64
	MaxLife float64
}

// Expired reports whether the projectile outlived its flight time.
func (p *Projectile) Expired() bool {
	return p.Life > p.MaxLife
}
