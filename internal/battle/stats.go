package battle

import "math"

// Rand returns a uniform float in [0,1)
type Rand func() float64

// Stats is a combatant's derived snapshot, computed once at battle start
type Stats struct {
	Name      string
	Level     int
	MaxHP     int
	CurrentHP int
	Attack    int
	Defense   int
}

// NewStats derives combat stats for a combatant of the given level.
// condition scales attack and defense; opponents fight at condition 1.
func NewStats(name string, level int, condition float64) Stats {
	if level < 1 {
		level = 1
	}
	condition = math.Max(0, math.Min(1, condition))
	hp := 50 + 10*level
	return Stats{
		Name:      name,
		Level:     level,
		MaxHP:     hp,
		CurrentHP: hp,
		Attack:    int(math.Floor(float64(10+5*level) * condition)),
		Defense:   int(math.Floor(float64(5+3*level) * condition)),
	}
}

// HPFraction returns current HP as a fraction of max
func (s Stats) HPFraction() float64 {
	if s.MaxHP <= 0 {
		return 0
	}
	return float64(s.CurrentHP) / float64(s.MaxHP)
}

// Alive reports whether the combatant can still fight
func (s Stats) Alive() bool {
	return s.CurrentHP > 0
}

func (s *Stats) takeDamage(damage int) {
	s.CurrentHP = max(0, s.CurrentHP-damage)
}

// CalculateDamage applies the damage formula: attack minus half defense,
// halved again against a defending target, then scaled by a uniform
// variance. Never less than 1.
func CalculateDamage(attack, defense float64, defending bool, rng Rand, cfg Config) int {
	base := math.Max(1, attack-defense/2)
	if defending {
		base *= cfg.DefendMultiplier
	}
	variance := 1 - cfg.Variance + rng()*2*cfg.Variance
	return int(math.Floor(math.Max(1, base*variance)))
}
