package battle

// ChooseAction picks the opponent's next action from its HP fraction.
// Hurt opponents turtle up, healthy ones go for specials.
func ChooseAction(hpFraction float64, rng Rand, cfg Config) Action {
	roll := rng()
	switch {
	case hpFraction < cfg.LowHPThreshold:
		if roll < cfg.LowHPDefendChance {
			return ActionDefend
		}
		return ActionAttack
	case hpFraction > cfg.HighHPThreshold:
		if roll < cfg.HighHPSpecialChance {
			return ActionSpecial
		}
		return ActionAttack
	default:
		switch {
		case roll < cfg.AttackChance:
			return ActionAttack
		case roll < cfg.AttackChance+cfg.DefendChance:
			return ActionDefend
		default:
			return ActionSpecial
		}
	}
}

// GenerateOpponent builds a procedural opponent within LevelVariance of the
// player's level. Opponents always fight at full condition.
func GenerateOpponent(playerLevel int, rng Rand, cfg Config) Stats {
	spread := 2*cfg.LevelVariance + 1
	offset := min(int(rng()*float64(spread)), spread-1) - cfg.LevelVariance
	level := max(1, playerLevel+offset)

	names := cfg.OpponentNames
	if len(names) == 0 {
		names = DefaultConfig().OpponentNames
	}
	idx := min(int(rng()*float64(len(names))), len(names)-1)

	return NewStats(names[idx], level, 1)
}
