package battle

import (
	"time"

	"github.com/samber/oops"
)

// Config holds the combat tuning table
type Config struct {
	SpecialMultiplier float64       `mapstructure:"special_multiplier"`
	DefendMultiplier  float64       `mapstructure:"defend_multiplier"`
	Variance          float64       `mapstructure:"variance"`
	TurnDelay         time.Duration `mapstructure:"turn_delay"`

	// Opponent AI weights, chosen by the opponent's HP fraction
	LowHPThreshold      float64 `mapstructure:"low_hp_threshold"`
	HighHPThreshold     float64 `mapstructure:"high_hp_threshold"`
	LowHPDefendChance   float64 `mapstructure:"low_hp_defend_chance"`
	HighHPSpecialChance float64 `mapstructure:"high_hp_special_chance"`
	AttackChance        float64 `mapstructure:"attack_chance"`
	DefendChance        float64 `mapstructure:"defend_chance"`

	LevelVariance int      `mapstructure:"level_variance"`
	OpponentNames []string `mapstructure:"opponent_names"`
}

// DefaultConfig returns the standard combat table
func DefaultConfig() Config {
	return Config{
		SpecialMultiplier:   1.5,
		DefendMultiplier:    0.5,
		Variance:            0.2,
		TurnDelay:           time.Second,
		LowHPThreshold:      0.3,
		HighHPThreshold:     0.7,
		LowHPDefendChance:   0.5,
		HighHPSpecialChance: 0.3,
		AttackChance:        0.7,
		DefendChance:        0.2,
		LevelVariance:       1,
		OpponentNames: []string{
			"Wild Digimon",
			"Rival Pet",
			"Shadow Beast",
			"Digital Monster",
			"Pixel Creature",
			"Cyber Pet",
			"Tech Beast",
			"Byte Buddy",
			"Data Dragon",
			"Code Companion",
		},
	}
}

// Validate rejects tables that could stall or break a battle
func (c Config) Validate() error {
	errorf := func(format string, args ...any) error {
		return oops.Code("INVALID_BATTLE_CONFIG").In("battle").Errorf(format, args...)
	}
	switch {
	case c.SpecialMultiplier < 1:
		return errorf("special multiplier must be at least 1: %v", c.SpecialMultiplier)
	case c.DefendMultiplier <= 0 || c.DefendMultiplier > 1:
		return errorf("defend multiplier must be within (0,1]: %v", c.DefendMultiplier)
	case c.Variance < 0 || c.Variance >= 1:
		return errorf("variance must be within [0,1): %v", c.Variance)
	case c.TurnDelay < 0:
		return errorf("turn delay must not be negative: %v", c.TurnDelay)
	case c.LowHPThreshold >= c.HighHPThreshold:
		return errorf("low HP threshold %v must be below high HP threshold %v", c.LowHPThreshold, c.HighHPThreshold)
	case c.AttackChance+c.DefendChance > 1 || c.AttackChance < 0 || c.DefendChance < 0:
		return errorf("attack and defend chances must be non-negative and sum to at most 1")
	case c.LowHPDefendChance < 0 || c.LowHPDefendChance > 1 || c.HighHPSpecialChance < 0 || c.HighHPSpecialChance > 1:
		return errorf("AI chances must be probabilities")
	case c.LevelVariance < 0:
		return errorf("level variance must not be negative: %d", c.LevelVariance)
	case len(c.OpponentNames) == 0:
		return errorf("at least one opponent name is required")
	}
	return nil
}
