package pet

import "time"

// Vitals is a copy of the four care stats at a point in time
type Vitals struct {
	Health    float64
	Hunger    float64
	Happiness float64
	Energy    float64
}

// TimeAway summarizes what happened while the player was gone
type TimeAway struct {
	Minutes        int
	Before         Vitals
	After          Vitals
	NeedsAttention bool
}

// TickResult lists everything a tick changed that the caller may announce
type TickResult struct {
	Elapsed          time.Duration
	TimeAway         *TimeAway
	Evolution        *Evolution
	Sickness         SicknessChange
	Neglected        bool
	Snapshot         bool
	HibernationReset bool
}

func (p *Pet) vitals() Vitals {
	return Vitals{Health: p.Health, Hunger: p.Hunger, Happiness: p.Happiness, Energy: p.Energy}
}

// Freeze advances only the update clock, so hibernation costs nothing
func (p *Pet) Freeze(now time.Time) {
	p.LastUpdateTime = now
}

// Tick applies all time-driven rules for the span since the last update, in
// order: decay, age, evolution, sickness, neglect, stats history.
// An unhatched egg only tracks warmth.
func (p *Pet) Tick(now time.Time, rng Rand, cfg Config) TickResult {
	elapsed := now.Sub(p.LastUpdateTime)
	if elapsed < 0 {
		elapsed = 0
	}
	result := TickResult{Elapsed: elapsed}
	before := p.vitals()

	p.ApplyDecay(elapsed, cfg)
	p.LastUpdateTime = now

	if p.IsEgg() {
		return result
	}

	result.HibernationReset = p.UpdateAge(now)
	if evo, evolved := p.CheckEvolution(cfg.Evolution); evolved {
		result.Evolution = &evo
	}
	result.Sickness = p.CheckSickness(rng, cfg.Sickness)
	if p.AverageVital() < cfg.Sickness.NeglectAverage {
		p.UpdatePersonality(ActivityNeglect)
		result.Neglected = true
	}
	result.Snapshot = p.RecordStatsSnapshot(now, cfg.History)

	if elapsed > TimeAwayThreshold {
		after := p.vitals()
		result.TimeAway = &TimeAway{
			Minutes: int(elapsed.Minutes()),
			Before:  before,
			After:   after,
			NeedsAttention: after.Health < AttentionThreshold ||
				after.Hunger < AttentionThreshold ||
				after.Happiness < AttentionThreshold,
		}
	}
	return result
}
