package pet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTick(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("short tick has no time-away summary", func(t *testing.T) {
		p := hatchedPet()
		result := p.Tick(testNow.Add(10*time.Second), fixedRand(0.99), cfg)

		assert.Nil(t, result.TimeAway)
		assert.Equal(t, testNow.Add(10*time.Second), p.LastUpdateTime)
		assert.True(t, result.Snapshot)
	})

	t.Run("long absence produces a summary", func(t *testing.T) {
		p := hatchedPet()
		p.Hunger = 45

		result := p.Tick(testNow.Add(10*time.Minute), fixedRand(0.99), cfg)

		require.NotNil(t, result.TimeAway)
		assert.Equal(t, 10, result.TimeAway.Minutes)
		assert.Equal(t, float64(45), result.TimeAway.Before.Hunger)
		assert.InDelta(t, 40, result.TimeAway.After.Hunger, 1e-9)
		assert.True(t, result.TimeAway.NeedsAttention)
		assert.Contains(t, result.TimeAway.Describe(), "10 minutes")
	})

	t.Run("well kept pet needs no attention", func(t *testing.T) {
		p := hatchedPet()
		result := p.Tick(testNow.Add(6*time.Minute), fixedRand(0.99), cfg)

		require.NotNil(t, result.TimeAway)
		assert.False(t, result.TimeAway.NeedsAttention)
	})

	t.Run("ages and evolves", func(t *testing.T) {
		p := hatchedPet()
		result := p.Tick(testNow.Add(2*time.Hour), fixedRand(0.99), cfg)

		require.NotNil(t, result.Evolution)
		assert.Equal(t, StageChild, p.Stage)
		assert.InDelta(t, 2.0/24, p.Age, 1e-9)
	})

	t.Run("neglect erodes friendliness", func(t *testing.T) {
		p := hatchedPet()
		p.Health, p.Hunger, p.Happiness, p.Energy = 10, 10, 10, 10

		result := p.Tick(testNow.Add(10*time.Second), fixedRand(0.99), cfg)

		assert.True(t, result.Neglected)
		assert.Equal(t, float64(48), p.PersonalityTraits[TraitFriendly])
	})

	t.Run("unhatched egg only warms", func(t *testing.T) {
		p := New(testNow)
		p.IsIncubating = true

		result := p.Tick(testNow.Add(time.Hour), fixedRand(0), cfg)

		assert.Equal(t, float64(100), p.Warmth)
		assert.Equal(t, StageEgg, p.Stage)
		assert.Zero(t, p.Age)
		assert.Nil(t, result.TimeAway)
		assert.Empty(t, p.StatsHistory)
		assert.Equal(t, testNow.Add(time.Hour), p.LastUpdateTime)
	})

	t.Run("clock going backwards is ignored", func(t *testing.T) {
		p := hatchedPet()
		p.LastUpdateTime = testNow.Add(time.Hour)

		result := p.Tick(testNow, fixedRand(0.99), cfg)

		assert.Zero(t, result.Elapsed)
		assert.Equal(t, float64(100), p.Hunger)
	})
}

func TestFreeze(t *testing.T) {
	p := hatchedPet()
	p.Hunger = 60

	p.Freeze(testNow.Add(5 * 24 * time.Hour))

	assert.Equal(t, float64(60), p.Hunger)
	assert.Equal(t, testNow.Add(5*24*time.Hour), p.LastUpdateTime)
	assert.Zero(t, p.Age)
}
