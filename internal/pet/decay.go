package pet

import (
	"math"
	"time"
)

// Multiplier returns the long-absence smoothing factor for an elapsed span.
// Spans up to SmoothingStartMinutes decay at full rate; longer ones decay
// logarithmically slower, never below SmoothingFloor.
func (c DecayConfig) Multiplier(minutes float64) float64 {
	if minutes <= c.SmoothingStartMinutes {
		return 1
	}
	return math.Max(c.SmoothingFloor, 1-math.Log(minutes/c.SmoothingStartMinutes)*c.SmoothingCoefficient)
}

// ApplyDecay ages the vitals by elapsed wall-clock time.
// An unhatched egg only gains or loses warmth.
func (p *Pet) ApplyDecay(elapsed time.Duration, cfg Config) {
	if elapsed <= 0 {
		return
	}
	if p.IsEgg() {
		p.applyWarmth(elapsed, cfg.Incubation)
		return
	}

	d := cfg.Decay
	minutes := elapsed.Minutes()
	smoothing := d.Multiplier(minutes)
	factor := smoothing

	if p.IsSleeping {
		restore := d.SleepEnergyRestore
		if minutes > d.LongSleepMinutes {
			restore = d.SleepEnergyRestoreLong
		}
		p.Energy = Clamp(p.Energy + minutes*restore)
		factor *= d.SleepFactor
	} else {
		p.Energy = Clamp(p.Energy - minutes*d.Energy*factor)
	}

	p.Hunger = Clamp(p.Hunger - minutes*d.Hunger*factor)
	p.Happiness = Clamp(p.Happiness - minutes*d.Happiness*factor)
	p.Cleanliness = Clamp(p.Cleanliness - minutes*d.Cleanliness*factor)
	p.Discipline = Clamp(p.Discipline - minutes*d.Discipline*factor)

	if p.Hunger < d.LowHungerThreshold {
		p.Health = Clamp(p.Health - minutes*d.LowHungerHealth*smoothing)
	}
}

func (p *Pet) applyWarmth(elapsed time.Duration, cfg IncubationConfig) {
	if p.IsIncubating {
		p.Warmth = Clamp(p.Warmth + elapsed.Seconds()*cfg.WarmthRisePerSecond)
	} else {
		p.Warmth = Clamp(p.Warmth - elapsed.Minutes()*cfg.WarmthDecayPerMinute)
	}
	if p.Warmth >= cfg.IncubationWarmth {
		p.IncubationTime += elapsed
	}
}
