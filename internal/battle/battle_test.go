package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRand(v float64) Rand {
	return func() float64 { return v }
}

// seqRand replays values in order, repeating the last one
func seqRand(values ...float64) Rand {
	i := 0
	return func() float64 {
		v := values[min(i, len(values)-1)]
		i++
		return v
	}
}

func TestNewStats(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		condition float64
		want      Stats
	}{
		{"level 1 full condition", 1, 1, Stats{Level: 1, MaxHP: 60, CurrentHP: 60, Attack: 15, Defense: 8}},
		{"level 3 half condition", 3, 0.5, Stats{Level: 3, MaxHP: 80, CurrentHP: 80, Attack: 12, Defense: 7}},
		{"level floors at 1", 0, 1, Stats{Level: 1, MaxHP: 60, CurrentHP: 60, Attack: 15, Defense: 8}},
		{"condition clamps", 2, 3, Stats{Level: 2, MaxHP: 70, CurrentHP: 70, Attack: 20, Defense: 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewStats("", tt.level, tt.condition)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateDamage(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("variance bounds", func(t *testing.T) {
		assert.Equal(t, 72, CalculateDamage(100, 20, false, fixedRand(0), cfg))
		assert.Equal(t, 90, CalculateDamage(100, 20, false, fixedRand(0.5), cfg))
		assert.Equal(t, 107, CalculateDamage(100, 20, false, fixedRand(0.999), cfg))
	})

	t.Run("always within range", func(t *testing.T) {
		for r := 0.0; r < 1; r += 0.01 {
			d := CalculateDamage(100, 20, false, fixedRand(r), cfg)
			require.GreaterOrEqual(t, d, 72)
			require.LessOrEqual(t, d, 108)
		}
	})

	t.Run("defending halves", func(t *testing.T) {
		assert.Equal(t, 45, CalculateDamage(100, 20, true, fixedRand(0.5), cfg))
	})

	t.Run("damage floor", func(t *testing.T) {
		for _, defending := range []bool{false, true} {
			for r := 0.0; r < 1; r += 0.1 {
				assert.Equal(t, 1, CalculateDamage(1, 1000, defending, fixedRand(r), cfg))
			}
		}
	})
}

func TestChooseAction(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		hp   float64
		roll float64
		want Action
	}{
		{"critical defends", 0.2, 0.4, ActionDefend},
		{"critical attacks", 0.2, 0.6, ActionAttack},
		{"healthy specials", 0.9, 0.2, ActionSpecial},
		{"healthy attacks", 0.9, 0.5, ActionAttack},
		{"hurt attacks", 0.5, 0.69, ActionAttack},
		{"hurt defends", 0.5, 0.8, ActionDefend},
		{"hurt specials", 0.5, 0.95, ActionSpecial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseAction(tt.hp, fixedRand(tt.roll), cfg))
		})
	}
}

func TestGenerateOpponent(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name      string
		level     int
		rolls     []float64
		wantLevel int
		wantName  string
	}{
		{"one below", 5, []float64{0, 0}, 4, "Wild Digimon"},
		{"same level", 5, []float64{0.5, 0.15}, 5, "Rival Pet"},
		{"one above", 5, []float64{0.99, 0.99}, 6, "Code Companion"},
		{"never below 1", 1, []float64{0, 0}, 1, "Wild Digimon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateOpponent(tt.level, seqRand(tt.rolls...), cfg)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, NewStats(tt.wantName, tt.wantLevel, 1), got)
		})
	}
}

func TestSubmitAndResolve(t *testing.T) {
	cfg := DefaultConfig()
	player := NewStats("Pixel", 1, 1)
	opponent := NewStats("Rival Pet", 1, 1)

	b := StartWith(player, opponent, fixedRand(0.5), cfg)
	require.True(t, b.Active())
	assert.Equal(t, SidePlayer, b.Turn())

	// 15 attack vs 8 defense: 15 - 4 = 11
	result := b.Submit(ActionAttack)
	require.True(t, result.Accepted)
	assert.True(t, result.OpponentPending)
	assert.Equal(t, []string{"Your pet attacks for 11 damage!"}, result.Messages)
	assert.Equal(t, 49, b.Opponent.CurrentHP)
	assert.Equal(t, SideOpponent, b.Turn())

	// acting out of turn is ignored
	ignored := b.Submit(ActionAttack)
	assert.False(t, ignored.Accepted)
	assert.Equal(t, 49, b.Opponent.CurrentHP)

	// opponent at 81% HP with roll 0.5 attacks
	reply := b.ResolveOpponentTurn()
	require.True(t, reply.Accepted)
	assert.Equal(t, []string{"Opponent attacks for 11 damage!"}, reply.Messages)
	assert.Equal(t, 49, b.Player.CurrentHP)
	assert.Equal(t, SidePlayer, b.Turn())

	// nothing pending any more
	assert.False(t, b.ResolveOpponentTurn().Accepted)
	assert.Len(t, b.Log(), 2)
}

func TestDefendAndSpecial(t *testing.T) {
	cfg := DefaultConfig()
	b := StartWith(NewStats("Pixel", 1, 1), NewStats("Rival Pet", 1, 1), fixedRand(0.5), cfg)

	result := b.Submit(ActionDefend)
	require.True(t, result.Accepted)
	assert.True(t, b.PlayerDefending())
	assert.Equal(t, []string{"Your pet takes a defensive stance!"}, result.Messages)

	// opponent's attack is halved and consumes the guard: floor(11 * 0.5) = 5
	b.ResolveOpponentTurn()
	assert.Equal(t, 55, b.Player.CurrentHP)
	assert.False(t, b.PlayerDefending())

	// special: 15 * 1.5 = 22.5 - 4 = 18.5 -> 18
	result = b.Submit(ActionSpecial)
	assert.Equal(t, "Your pet uses a special attack for 18 damage!", result.Messages[0])
	assert.Equal(t, 42, b.Opponent.CurrentHP)
}

func TestExchange(t *testing.T) {
	cfg := DefaultConfig()
	b := StartWith(NewStats("Pixel", 1, 1), NewStats("Rival Pet", 1, 1), fixedRand(0.5), cfg)

	result := b.Exchange(ActionAttack)

	assert.True(t, result.Accepted)
	assert.False(t, result.OpponentPending)
	assert.Len(t, result.Messages, 2)
	assert.Equal(t, SidePlayer, b.Turn())
}

func TestBattleEnds(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("win stops the opponent acting", func(t *testing.T) {
		b := StartWith(NewStats("Pixel", 10, 1), NewStats("Rival Pet", 1, 1), fixedRand(0.5), cfg)
		b.Opponent.CurrentHP = 1

		result := b.Submit(ActionAttack)

		assert.True(t, result.Ended)
		assert.False(t, result.OpponentPending)
		assert.Equal(t, OutcomeWin, result.Outcome)
		assert.Contains(t, result.Messages, "🏆 Victory! Your pet won the battle!")
		assert.True(t, b.PlayerWon())
		assert.False(t, b.ResolveOpponentTurn().Accepted)
		assert.False(t, b.Submit(ActionAttack).Accepted)
	})

	t.Run("loss", func(t *testing.T) {
		b := StartWith(NewStats("Pixel", 1, 1), NewStats("Rival Pet", 10, 1), fixedRand(0.5), cfg)
		b.Player.CurrentHP = 1

		result := b.Exchange(ActionDefend)

		assert.True(t, result.Ended)
		assert.Equal(t, OutcomeLose, b.Outcome())
		assert.False(t, b.PlayerWon())
		assert.Zero(t, b.Player.CurrentHP)
	})

	t.Run("double knockout is a draw", func(t *testing.T) {
		b := StartWith(NewStats("Pixel", 1, 1), NewStats("Rival Pet", 1, 1), fixedRand(0.5), cfg)
		b.Player.CurrentHP = 0
		b.Opponent.CurrentHP = 1

		result := b.Submit(ActionAttack)

		assert.Equal(t, OutcomeDraw, result.Outcome)
		assert.Contains(t, result.Messages, "🤝 The battle ended in a draw!")
		assert.False(t, b.PlayerWon())
	})

	t.Run("abandon", func(t *testing.T) {
		b := StartWith(NewStats("Pixel", 1, 1), NewStats("Rival Pet", 1, 1), fixedRand(0.5), cfg)
		b.Submit(ActionAttack)
		b.Abandon()

		assert.False(t, b.Active())
		assert.Equal(t, OutcomeNone, b.Outcome())
		assert.False(t, b.ResolveOpponentTurn().Accepted)
	})
}

func TestBattleTerminates(t *testing.T) {
	cfg := DefaultConfig()
	rolls := []float64{0.1, 0.9, 0.4, 0.6, 0.25, 0.75, 0.05, 0.95}

	for level := 1; level <= 20; level += 3 {
		i := 0
		rng := func() float64 {
			v := rolls[i%len(rolls)]
			i++
			return v
		}
		b := New(NewStats("Pixel", level, 0.8), rng, cfg)

		turns := 0
		for b.Active() && turns < 1000 {
			b.Exchange(ActionAttack)
			turns++
		}

		require.False(t, b.Active(), "level %d did not finish", level)
		assert.NotEqual(t, OutcomeNone, b.Outcome())
		assert.Equal(t, b.Player.CurrentHP > 0, b.PlayerWon())
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Variance = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.OpponentNames = nil
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.AttackChance = 0.9
	assert.Error(t, cfg.Validate())
}
