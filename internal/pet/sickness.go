package pet

import "vpet/internal/notify"

// SicknessChange is the outcome of one sickness roll
type SicknessChange int

const (
	SicknessUnchanged SicknessChange = iota
	SicknessOnset
	SicknessRecovered
)

// SicknessChance returns the onset probability for the current vitals
func (p *Pet) SicknessChance(cfg SicknessConfig) float64 {
	avg := p.AverageVital()
	var chance float64
	switch {
	case avg < cfg.CriticalAverage:
		chance = cfg.CriticalChance
	case avg < cfg.LowAverage:
		chance = cfg.LowChance
	}
	if p.Cleanliness < cfg.DirtyThreshold {
		chance += cfg.DirtyChance
	}
	return chance
}

// CheckSickness runs once per tick. A healthy pet may fall ill; a sick pet
// counts the tick and recovers once its vitals are good and enough ticks passed.
func (p *Pet) CheckSickness(rng Rand, cfg SicknessConfig) SicknessChange {
	if !p.IsSick {
		if rng() < p.SicknessChance(cfg) {
			p.IsSick = true
			p.SicknessDuration = 0
			return SicknessOnset
		}
		return SicknessUnchanged
	}

	p.SicknessDuration++
	if p.AverageVital() > cfg.RecoveryAverage && p.SicknessDuration > cfg.RecoveryTicks {
		p.IsSick = false
		p.SicknessDuration = 0
		return SicknessRecovered
	}
	return SicknessUnchanged
}

// GiveMedicine cures sickness. Fails when the pet is not sick.
func (p *Pet) GiveMedicine(cfg SicknessConfig) ActionResult {
	if !p.IsSick {
		return blocked("ℹ️ Your pet is not sick!", notify.Info)
	}
	p.IsSick = false
	p.SicknessDuration = 0
	p.Health = Clamp(p.Health + cfg.MedicineHealth)
	return ok("💊 Medicine administered! Your pet is recovering.")
}
