package pet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSicknessChance(t *testing.T) {
	cfg := DefaultConfig().Sickness

	tests := []struct {
		name        string
		avg         float64
		cleanliness float64
		want        float64
	}{
		{"healthy and clean", 80, 100, 0},
		{"low vitals", 25, 100, 0.1},
		{"critical vitals", 10, 100, 0.3},
		{"healthy but dirty", 80, 10, 0.15},
		{"critical and dirty", 10, 10, 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := hatchedPet()
			p.Health, p.Hunger, p.Happiness, p.Energy = tt.avg, tt.avg, tt.avg, tt.avg
			p.Cleanliness = tt.cleanliness
			assert.InDelta(t, tt.want, p.SicknessChance(cfg), 1e-9)
		})
	}
}

func TestCheckSickness(t *testing.T) {
	cfg := DefaultConfig().Sickness

	t.Run("falls ill when roll is under chance", func(t *testing.T) {
		p := hatchedPet()
		p.Health, p.Hunger, p.Happiness, p.Energy = 10, 10, 10, 10

		change := p.CheckSickness(fixedRand(0.29), cfg)

		assert.Equal(t, SicknessOnset, change)
		assert.True(t, p.IsSick)
		assert.Zero(t, p.SicknessDuration)
	})

	t.Run("stays healthy when roll is over chance", func(t *testing.T) {
		p := hatchedPet()
		p.Health, p.Hunger, p.Happiness, p.Energy = 10, 10, 10, 10

		assert.Equal(t, SicknessUnchanged, p.CheckSickness(fixedRand(0.3), cfg))
		assert.False(t, p.IsSick)
	})

	t.Run("healthy pet never falls ill", func(t *testing.T) {
		p := hatchedPet()
		assert.Equal(t, SicknessUnchanged, p.CheckSickness(fixedRand(0), cfg))
		assert.False(t, p.IsSick)
	})

	t.Run("sick pet counts ticks before recovering", func(t *testing.T) {
		p := hatchedPet()
		p.IsSick = true
		p.SicknessDuration = 5

		assert.Equal(t, SicknessUnchanged, p.CheckSickness(fixedRand(0), cfg))
		assert.True(t, p.IsSick)
		assert.Equal(t, 6, p.SicknessDuration)
	})

	t.Run("recovers with good vitals after enough ticks", func(t *testing.T) {
		p := hatchedPet()
		p.IsSick = true
		p.SicknessDuration = 10

		assert.Equal(t, SicknessRecovered, p.CheckSickness(fixedRand(0), cfg))
		assert.False(t, p.IsSick)
		assert.Zero(t, p.SicknessDuration)
	})

	t.Run("poor vitals block recovery", func(t *testing.T) {
		p := hatchedPet()
		p.IsSick = true
		p.SicknessDuration = 50
		p.Health, p.Hunger, p.Happiness, p.Energy = 70, 70, 70, 70

		assert.Equal(t, SicknessUnchanged, p.CheckSickness(fixedRand(0), cfg))
		assert.True(t, p.IsSick)
	})
}

func TestGiveMedicine(t *testing.T) {
	cfg := DefaultConfig().Sickness

	t.Run("cures a sick pet", func(t *testing.T) {
		p := hatchedPet()
		p.IsSick = true
		p.SicknessDuration = 3
		p.Health = 50

		result := p.GiveMedicine(cfg)

		assert.True(t, result.OK)
		assert.False(t, p.IsSick)
		assert.Zero(t, p.SicknessDuration)
		assert.Equal(t, float64(70), p.Health)
	})

	t.Run("refused when not sick", func(t *testing.T) {
		p := hatchedPet()
		p.Health = 50

		assert.False(t, p.GiveMedicine(cfg).OK)
		assert.Equal(t, float64(50), p.Health)
	})
}
