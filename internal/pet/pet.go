package pet

import (
	"math"
	"time"

	"vpet/internal/notify"
)

// Rand returns a uniform float in [0,1). Engines never reach for a global source.
type Rand func() float64

// Appearance is rolled once at hatch and never changes afterwards
type Appearance struct {
	EyeShape   string `json:"eyeShape" yaml:"eye_shape"`
	EyeColor   string `json:"eyeColor" yaml:"eye_color"`
	MouthShape string `json:"mouthShape" yaml:"mouth_shape"`
	BodyColor  string `json:"bodyColor" yaml:"body_color"`
	BodySize   string `json:"bodySize" yaml:"body_size"`
}

// BattleRecord is one finished battle, kept most-recent-first
type BattleRecord struct {
	Timestamp    time.Time
	Won          bool
	Outcome      string
	OpponentName string
	PetLevel     int
}

// StatsSnapshot is a periodic sample of the vitals for the history chart
type StatsSnapshot struct {
	Timestamp time.Time
	Health    float64
	Hunger    float64
	Happiness float64
	Energy    float64
	Level     float64
}

// ActionResult reports whether an action applied and what to tell the player.
// A blocked action leaves the pet untouched.
type ActionResult struct {
	OK      bool
	Message string
	Kind    notify.Kind
}

func ok(message string) ActionResult {
	return ActionResult{OK: true, Message: message, Kind: notify.Success}
}

func blocked(message string, kind notify.Kind) ActionResult {
	return ActionResult{OK: false, Message: message, Kind: kind}
}

// Pet represents the virtual pet's state
type Pet struct {
	Name  string
	Stage Stage
	Level float64
	Wins  int

	// Vitals, always within [0,100]
	Health      float64
	Hunger      float64 // 100 = fully fed
	Happiness   float64
	Energy      float64
	Cleanliness float64
	Discipline  float64
	Warmth      float64

	// Age in days, derived from BirthTime minus TotalHibernationTime
	Age                  float64
	BirthTime            time.Time
	LastUpdateTime       time.Time
	TotalHibernationTime time.Duration

	IsSleeping       bool
	IsSick           bool
	SicknessDuration int

	HasHatched     bool
	IsIncubating   bool
	IncubationTime time.Duration
	Appearance     *Appearance

	PersonalityTraits map[string]float64
	BattleHistory     []BattleRecord
	StatsHistory      []StatsSnapshot
}

// New creates a fresh egg born at now
func New(now time.Time) *Pet {
	return &Pet{
		Name:              EggName,
		Stage:             StageEgg,
		Level:             MinLevel,
		Health:            MaxStat,
		Hunger:            MaxStat,
		Happiness:         MaxStat,
		Energy:            MaxStat,
		Cleanliness:       MaxStat,
		Discipline:        MaxStat,
		BirthTime:         now,
		LastUpdateTime:    now,
		PersonalityTraits: defaultTraits(),
	}
}

// Reset reinitializes every field to a fresh egg
func (p *Pet) Reset(now time.Time) {
	*p = *New(now)
}

func defaultTraits() map[string]float64 {
	return map[string]float64{
		TraitBrave:       DefaultTraitValue,
		TraitFriendly:    DefaultTraitValue,
		TraitEnergetic:   DefaultTraitValue,
		TraitDisciplined: DefaultTraitValue,
	}
}

// Clamp bounds v to the vital range. NaN collapses to the minimum.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinStat
	}
	return math.Max(MinStat, math.Min(MaxStat, v))
}

// IsEgg reports whether the pet is still an unhatched egg
func (p *Pet) IsEgg() bool {
	return p.Stage == StageEgg && !p.HasHatched
}

// AverageVital is the mean of health, hunger, happiness and energy
func (p *Pet) AverageVital() float64 {
	return (p.Health + p.Hunger + p.Happiness + p.Energy) / 4
}

// Condition scales combat stats: the average vital as a fraction in [0,1]
func (p *Pet) Condition() float64 {
	return p.AverageVital() / MaxStat
}

// WholeLevel is the level shown to players and used in combat
func (p *Pet) WholeLevel() int {
	return int(math.Floor(p.Level))
}

// Validate re-establishes every range invariant after loading or mutation
func (p *Pet) Validate() {
	p.Health = Clamp(p.Health)
	p.Hunger = Clamp(p.Hunger)
	p.Happiness = Clamp(p.Happiness)
	p.Energy = Clamp(p.Energy)
	p.Cleanliness = Clamp(p.Cleanliness)
	p.Discipline = Clamp(p.Discipline)
	p.Warmth = Clamp(p.Warmth)

	if math.IsNaN(p.Level) || p.Level < MinLevel {
		p.Level = MinLevel
	}
	if p.Wins < 0 {
		p.Wins = 0
	}
	if math.IsNaN(p.Age) || p.Age < 0 {
		p.Age = 0
	}
	if p.SicknessDuration < 0 {
		p.SicknessDuration = 0
	}
	if p.IncubationTime < 0 {
		p.IncubationTime = 0
	}
	if p.TotalHibernationTime < 0 {
		p.TotalHibernationTime = 0
	}
	if !p.Stage.Valid() {
		p.Stage = StageEgg
	}
	if p.Stage != StageEgg {
		p.HasHatched = true
		p.IsIncubating = false
	}

	if p.PersonalityTraits == nil {
		p.PersonalityTraits = defaultTraits()
	}
	for name, def := range defaultTraits() {
		v, exists := p.PersonalityTraits[name]
		if !exists {
			v = def
		}
		p.PersonalityTraits[name] = Clamp(v)
	}
}

// modifyStats applies deltas to the vitals, clamping each
func (p *Pet) modifyStats(health, hunger, happiness, energy float64) {
	p.Health = Clamp(p.Health + health)
	p.Hunger = Clamp(p.Hunger + hunger)
	p.Happiness = Clamp(p.Happiness + happiness)
	p.Energy = Clamp(p.Energy + energy)
}
