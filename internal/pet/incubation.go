package pet

import (
	"fmt"
	"math"
	"time"

	"vpet/internal/notify"
)

// Warm toggles the incubator. Only unhatched eggs can be warmed.
func (p *Pet) Warm() ActionResult {
	if !p.IsEgg() {
		return blocked("Only eggs can be incubated!", notify.Warning)
	}
	p.IsIncubating = !p.IsIncubating
	if p.IsIncubating {
		return ok("🔥 Started incubating! Warmth will increase gradually.")
	}
	return ActionResult{OK: true, Message: "❄️ Stopped incubating. Warmth will start to decay.", Kind: notify.Info}
}

// CanHatch reports whether the egg is warm enough to hatch
func (p *Pet) CanHatch(cfg IncubationConfig) bool {
	return p.IsEgg() && p.Warmth >= cfg.HatchWarmth
}

// Hatch turns a fully warmed egg into a baby with a freshly rolled appearance.
// Birth time restarts at now.
func (p *Pet) Hatch(now time.Time, rng Rand, cfg IncubationConfig) ActionResult {
	if !p.IsEgg() {
		return blocked("Your pet has already hatched!", notify.Info)
	}
	if !p.CanHatch(cfg) {
		remaining := int(math.Ceil(cfg.HatchWarmth - p.Warmth))
		return blocked(fmt.Sprintf("🌡️ Keep incubating! Warmth needs to reach %.0f%% (%d%% remaining)", cfg.HatchWarmth, remaining), notify.Warning)
	}

	p.IsIncubating = false
	p.IsSleeping = false
	p.HasHatched = true
	p.Stage = StageBaby
	p.BirthTime = now
	p.LastUpdateTime = now
	p.Age = 0
	p.Health = MaxStat
	p.Hunger = MaxStat
	p.Happiness = MaxStat
	p.Energy = MaxStat
	p.Cleanliness = MaxStat
	p.Discipline = MaxStat

	appearance := RandomAppearance(rng)
	p.Appearance = &appearance

	return ok("🎉 Your egg hatched into a baby pet!")
}

// RandomAppearance rolls each cosmetic feature independently
func RandomAppearance(rng Rand) Appearance {
	return Appearance{
		EyeShape:   pick(EyeShapes, rng),
		EyeColor:   pick(EyeColors, rng),
		MouthShape: pick(MouthShapes, rng),
		BodyColor:  pick(BodyColors, rng),
		BodySize:   pick(BodySizes, rng),
	}
}

func pick(options []string, rng Rand) string {
	index := int(rng() * float64(len(options)))
	if index >= len(options) {
		index = len(options) - 1
	}
	if index < 0 {
		index = 0
	}
	return options[index]
}
