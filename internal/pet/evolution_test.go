package pet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAge(t *testing.T) {
	t.Run("age in days", func(t *testing.T) {
		p := hatchedPet()
		reset := p.UpdateAge(testNow.Add(36 * time.Hour))
		assert.False(t, reset)
		assert.InDelta(t, 1.5, p.Age, 1e-9)
	})

	t.Run("hibernation time excluded", func(t *testing.T) {
		p := hatchedPet()
		p.TotalHibernationTime = 12 * time.Hour
		p.UpdateAge(testNow.Add(24 * time.Hour))
		assert.InDelta(t, 0.5, p.Age, 1e-9)
	})

	t.Run("hibernation longer than lifetime is discarded", func(t *testing.T) {
		p := hatchedPet()
		p.TotalHibernationTime = 48 * time.Hour
		reset := p.UpdateAge(testNow.Add(24 * time.Hour))
		assert.True(t, reset)
		assert.Zero(t, p.TotalHibernationTime)
		assert.InDelta(t, 1, p.Age, 1e-9)
	})

	t.Run("clock before birth never goes negative", func(t *testing.T) {
		p := hatchedPet()
		p.UpdateAge(testNow.Add(-time.Hour))
		assert.Zero(t, p.Age)
	})
}

func TestCheckEvolution(t *testing.T) {
	cfg := DefaultConfig().Evolution

	tests := []struct {
		name      string
		stage     Stage
		age       float64
		wantStage Stage
		evolved   bool
	}{
		{"egg past threshold", StageEgg, 0.011, StageBaby, true},
		{"baby too young", StageBaby, 0.04, StageBaby, false},
		{"baby at threshold", StageBaby, 0.05, StageChild, true},
		{"child to teen", StageChild, 0.1, StageTeen, true},
		{"teen to adult", StageTeen, 0.25, StageAdult, true},
		{"adult is terminal", StageAdult, 10, StageAdult, false},
		{"one stage per call", StageBaby, 5, StageChild, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(testNow)
			p.Stage = tt.stage
			p.Age = tt.age
			p.Level = 1

			evo, evolved := p.CheckEvolution(cfg)

			assert.Equal(t, tt.evolved, evolved)
			assert.Equal(t, tt.wantStage, p.Stage)
			if tt.evolved {
				assert.Equal(t, float64(2), p.Level)
				assert.Equal(t, tt.stage, evo.From)
				assert.Equal(t, tt.wantStage, evo.To)
			} else {
				assert.Equal(t, float64(1), p.Level)
			}
		})
	}
}

func TestEvolutionNeverRegresses(t *testing.T) {
	cfg := DefaultConfig().Evolution
	p := hatchedPet()

	idx := p.Stage.Index()
	for age := 0.0; age < 1; age += 0.013 {
		p.Age = age
		p.CheckEvolution(cfg)
		require.GreaterOrEqual(t, p.Stage.Index(), idx)
		idx = p.Stage.Index()
	}
	assert.Equal(t, StageAdult, p.Stage)
}

func TestEvolutionProgress(t *testing.T) {
	cfg := DefaultConfig().Evolution

	t.Run("halfway through baby", func(t *testing.T) {
		p := hatchedPet()
		p.Age = 0.03

		progress, found := p.EvolutionProgress(cfg)

		require.True(t, found)
		assert.Equal(t, StageChild, progress.Next)
		assert.InDelta(t, 50, progress.Percent, 1e-9)
		assert.InDelta(t, 28.8, progress.MinutesRemaining, 1e-9)
	})

	t.Run("egg starts from zero", func(t *testing.T) {
		p := New(testNow)
		p.Age = 0.005

		progress, found := p.EvolutionProgress(cfg)

		require.True(t, found)
		assert.Equal(t, StageBaby, progress.Next)
		assert.InDelta(t, 50, progress.Percent, 1e-9)
	})

	t.Run("percent is clamped", func(t *testing.T) {
		p := hatchedPet()
		p.Age = 0

		progress, _ := p.EvolutionProgress(cfg)
		assert.Zero(t, progress.Percent)

		p.Age = 0.9
		progress, _ = p.EvolutionProgress(cfg)
		assert.Equal(t, float64(100), progress.Percent)
		assert.Zero(t, progress.MinutesRemaining)
	})

	t.Run("adult has no progress", func(t *testing.T) {
		p := hatchedPet()
		p.Stage = StageAdult
		_, found := p.EvolutionProgress(cfg)
		assert.False(t, found)
	})
}
