package pet

import (
	"time"

	"github.com/samber/oops"
)

// DecayConfig holds per-minute decay rates and the long-absence curve
type DecayConfig struct {
	Hunger      float64 `mapstructure:"hunger"`
	Happiness   float64 `mapstructure:"happiness"`
	Energy      float64 `mapstructure:"energy"`
	Cleanliness float64 `mapstructure:"cleanliness"`
	Discipline  float64 `mapstructure:"discipline"`

	// Health loss per minute while hunger is below LowHungerThreshold
	LowHungerHealth    float64 `mapstructure:"low_hunger_health"`
	LowHungerThreshold float64 `mapstructure:"low_hunger_threshold"`

	// Sleeping pets decay at SleepFactor of the normal rate and regain energy
	SleepFactor            float64 `mapstructure:"sleep_factor"`
	SleepEnergyRestore     float64 `mapstructure:"sleep_energy_restore"`
	SleepEnergyRestoreLong float64 `mapstructure:"sleep_energy_restore_long"`
	LongSleepMinutes       float64 `mapstructure:"long_sleep_minutes"`

	// multiplier = max(floor, 1 - ln(minutes/start) * coefficient) beyond start
	SmoothingStartMinutes float64 `mapstructure:"smoothing_start_minutes"`
	SmoothingCoefficient  float64 `mapstructure:"smoothing_coefficient"`
	SmoothingFloor        float64 `mapstructure:"smoothing_floor"`
}

// EvolutionConfig holds the cumulative age (in days) needed to reach each stage
type EvolutionConfig struct {
	Baby       float64 `mapstructure:"baby"`
	Child      float64 `mapstructure:"child"`
	Teen       float64 `mapstructure:"teen"`
	Adult      float64 `mapstructure:"adult"`
	LevelBonus float64 `mapstructure:"level_bonus"`
}

// IncubationConfig holds egg warmth rates
type IncubationConfig struct {
	WarmthRisePerSecond  float64 `mapstructure:"warmth_rise_per_second"`
	WarmthDecayPerMinute float64 `mapstructure:"warmth_decay_per_minute"`
	IncubationWarmth     float64 `mapstructure:"incubation_warmth"`
	HatchWarmth          float64 `mapstructure:"hatch_warmth"`
}

// ActionConfig holds the deltas and gates of player actions
type ActionConfig struct {
	FeedHunger    float64 `mapstructure:"feed_hunger"`
	FeedHappiness float64 `mapstructure:"feed_happiness"`
	FeedHealth    float64 `mapstructure:"feed_health"`
	FullHunger    float64 `mapstructure:"full_hunger"`

	PlayHappiness float64 `mapstructure:"play_happiness"`
	PlayEnergy    float64 `mapstructure:"play_energy"`
	PlayHunger    float64 `mapstructure:"play_hunger"`
	PlayMinEnergy float64 `mapstructure:"play_min_energy"`

	TrainLevel      float64 `mapstructure:"train_level"`
	TrainDiscipline float64 `mapstructure:"train_discipline"`
	TrainEnergy     float64 `mapstructure:"train_energy"`
	TrainHunger     float64 `mapstructure:"train_hunger"`
	TrainHappiness  float64 `mapstructure:"train_happiness"`
	TrainMinEnergy  float64 `mapstructure:"train_min_energy"`

	CleanHappiness float64 `mapstructure:"clean_happiness"`
}

// SicknessConfig holds illness onset and recovery tuning
type SicknessConfig struct {
	CriticalAverage float64 `mapstructure:"critical_average"`
	CriticalChance  float64 `mapstructure:"critical_chance"`
	LowAverage      float64 `mapstructure:"low_average"`
	LowChance       float64 `mapstructure:"low_chance"`
	DirtyThreshold  float64 `mapstructure:"dirty_threshold"`
	DirtyChance     float64 `mapstructure:"dirty_chance"`
	RecoveryAverage float64 `mapstructure:"recovery_average"`
	RecoveryTicks   int     `mapstructure:"recovery_ticks"`
	MedicineHealth  float64 `mapstructure:"medicine_health"`
	NeglectAverage  float64 `mapstructure:"neglect_average"`
}

// AftermathConfig holds the stat effects of finishing a battle
type AftermathConfig struct {
	MinEnergy     float64 `mapstructure:"min_energy"`
	EnergyCost    float64 `mapstructure:"energy_cost"`
	WinLevel      float64 `mapstructure:"win_level"`
	WinHappiness  float64 `mapstructure:"win_happiness"`
	LossHappiness float64 `mapstructure:"loss_happiness"`
	LossHealth    float64 `mapstructure:"loss_health"`
}

// HistoryConfig holds retention limits for battle and stats history
type HistoryConfig struct {
	MaxBattles       int           `mapstructure:"max_battles"`
	MaxSnapshots     int           `mapstructure:"max_snapshots"`
	SnapshotWindow   time.Duration `mapstructure:"snapshot_window"`
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval"`
}

// Config is the complete rule table for the pet engines
type Config struct {
	Decay      DecayConfig      `mapstructure:"decay"`
	Evolution  EvolutionConfig  `mapstructure:"evolution"`
	Incubation IncubationConfig `mapstructure:"incubation"`
	Actions    ActionConfig     `mapstructure:"actions"`
	Sickness   SicknessConfig   `mapstructure:"sickness"`
	Aftermath  AftermathConfig  `mapstructure:"aftermath"`
	History    HistoryConfig    `mapstructure:"history"`
	Milestones MilestoneConfig  `mapstructure:"milestones"`
}

// DefaultConfig returns the standard rule table
func DefaultConfig() Config {
	return Config{
		Decay: DecayConfig{
			Hunger:                 0.5,
			Happiness:              0.3,
			Energy:                 0.2,
			Cleanliness:            0.4,
			Discipline:             0.1,
			LowHungerHealth:        0.5,
			LowHungerThreshold:     LowStatThreshold,
			SleepFactor:            0.5,
			SleepEnergyRestore:     1.0,
			SleepEnergyRestoreLong: 0.5,
			LongSleepMinutes:       120,
			SmoothingStartMinutes:  60,
			SmoothingCoefficient:   0.35,
			SmoothingFloor:         0.2,
		},
		Evolution: EvolutionConfig{
			Baby:       0.01, // ~15 minutes
			Child:      0.05, // ~1 hour
			Teen:       0.1,  // ~2.4 hours
			Adult:      0.2,  // ~5 hours
			LevelBonus: 1,
		},
		Incubation: IncubationConfig{
			WarmthRisePerSecond:  0.33,
			WarmthDecayPerMinute: 1.5,
			IncubationWarmth:     60,
			HatchWarmth:          MaxStat,
		},
		Actions: ActionConfig{
			FeedHunger:      30,
			FeedHappiness:   5,
			FeedHealth:      5,
			FullHunger:      90,
			PlayHappiness:   20,
			PlayEnergy:      15,
			PlayHunger:      10,
			PlayMinEnergy:   20,
			TrainLevel:      0.1,
			TrainDiscipline: 5,
			TrainEnergy:     25,
			TrainHunger:     20,
			TrainHappiness:  5,
			TrainMinEnergy:  30,
			CleanHappiness:  5,
		},
		Sickness: SicknessConfig{
			CriticalAverage: 20,
			CriticalChance:  0.3,
			LowAverage:      30,
			LowChance:       0.1,
			DirtyThreshold:  30,
			DirtyChance:     0.15,
			RecoveryAverage: 70,
			RecoveryTicks:   10,
			MedicineHealth:  20,
			NeglectAverage:  20,
		},
		Aftermath: AftermathConfig{
			MinEnergy:     30,
			EnergyCost:    30,
			WinLevel:      0.5,
			WinHappiness:  10,
			LossHappiness: 10,
			LossHealth:    10,
		},
		History: HistoryConfig{
			MaxBattles:       10,
			MaxSnapshots:     144,
			SnapshotWindow:   24 * time.Hour,
			SnapshotInterval: 10 * time.Minute,
		},
		Milestones: defaultMilestoneConfig(),
	}
}

// Threshold returns the age in days at which a pet leaves stage s
func (c EvolutionConfig) Threshold(s Stage) (float64, bool) {
	switch s {
	case StageEgg:
		return c.Baby, true
	case StageBaby:
		return c.Child, true
	case StageChild:
		return c.Teen, true
	case StageTeen:
		return c.Adult, true
	default:
		return 0, false
	}
}

// Validate rejects rule tables that would break the engine invariants
func (c Config) Validate() error {
	errorf := func(format string, args ...any) error {
		return oops.Code("INVALID_PET_CONFIG").In("pet").Errorf(format, args...)
	}

	d := c.Decay
	for name, v := range map[string]float64{
		"hunger": d.Hunger, "happiness": d.Happiness, "energy": d.Energy,
		"cleanliness": d.Cleanliness, "discipline": d.Discipline,
		"low_hunger_health": d.LowHungerHealth,
	} {
		if v < 0 {
			return errorf("decay rate %s must not be negative: %v", name, v)
		}
	}
	if d.SleepFactor < 0 || d.SleepFactor > 1 {
		return errorf("sleep factor must be within [0,1]: %v", d.SleepFactor)
	}
	if d.SmoothingStartMinutes <= 0 {
		return errorf("smoothing start must be positive: %v", d.SmoothingStartMinutes)
	}
	if d.SmoothingFloor <= 0 || d.SmoothingFloor > 1 {
		return errorf("smoothing floor must be within (0,1]: %v", d.SmoothingFloor)
	}

	e := c.Evolution
	if !(0 <= e.Baby && e.Baby < e.Child && e.Child < e.Teen && e.Teen < e.Adult) {
		return errorf("evolution thresholds must be increasing: %v/%v/%v/%v", e.Baby, e.Child, e.Teen, e.Adult)
	}
	if e.LevelBonus < 0 {
		return errorf("evolution level bonus must not be negative: %v", e.LevelBonus)
	}

	if c.Incubation.HatchWarmth <= 0 || c.Incubation.HatchWarmth > MaxStat {
		return errorf("hatch warmth must be within (0,%d]: %v", MaxStat, c.Incubation.HatchWarmth)
	}

	s := c.Sickness
	for name, v := range map[string]float64{
		"critical_chance": s.CriticalChance, "low_chance": s.LowChance, "dirty_chance": s.DirtyChance,
	} {
		if v < 0 || v > 1 {
			return errorf("sickness %s must be a probability: %v", name, v)
		}
	}

	h := c.History
	if h.MaxBattles < 1 || h.MaxSnapshots < 1 {
		return errorf("history caps must be at least 1: battles=%d snapshots=%d", h.MaxBattles, h.MaxSnapshots)
	}
	if h.SnapshotWindow <= 0 || h.SnapshotInterval <= 0 {
		return errorf("history window and interval must be positive")
	}

	m := c.Milestones
	for name, thresholds := range map[string][]int{
		"feed": m.Feed, "play": m.Play, "train": m.Train, "clean": m.Clean,
		"battle": m.Battle, "level": m.Level,
	} {
		for _, n := range thresholds {
			if n < 1 {
				return errorf("milestone %s thresholds must be at least 1: %d", name, n)
			}
		}
	}
	for _, stage := range m.Evolution {
		if s := Stage(stage); !s.Valid() || s == StageEgg {
			return errorf("milestone evolution stage %q is not a hatched stage", stage)
		}
	}
	return nil
}
