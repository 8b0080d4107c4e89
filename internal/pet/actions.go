package pet

import "vpet/internal/notify"

const msgSleeping = "💤 Your pet is sleeping!"

// Feed restores hunger. Refused while asleep or nearly full.
func (p *Pet) Feed(cfg ActionConfig) ActionResult {
	if p.IsSleeping {
		return blocked(msgSleeping, notify.Warning)
	}
	if p.Hunger >= cfg.FullHunger {
		return blocked("🍖 Your pet is not hungry!", notify.Info)
	}
	p.modifyStats(cfg.FeedHealth, cfg.FeedHunger, cfg.FeedHappiness, 0)
	return ok("🍖 Fed your pet!")
}

// Play trades energy and hunger for happiness
func (p *Pet) Play(cfg ActionConfig) ActionResult {
	if p.IsSleeping {
		return blocked(msgSleeping, notify.Warning)
	}
	if p.Energy < cfg.PlayMinEnergy {
		return blocked("😴 Your pet is too tired to play!", notify.Warning)
	}
	p.modifyStats(0, -cfg.PlayHunger, cfg.PlayHappiness, -cfg.PlayEnergy)
	p.UpdatePersonality(ActivityPlay)
	return ok("🎮 Played with your pet!")
}

// Train raises level and discipline at a cost to energy, hunger and mood
func (p *Pet) Train(cfg ActionConfig) ActionResult {
	if p.IsSleeping {
		return blocked(msgSleeping, notify.Warning)
	}
	if p.Energy < cfg.TrainMinEnergy {
		return blocked("😴 Your pet is too tired to train!", notify.Warning)
	}
	p.Level += cfg.TrainLevel
	p.Discipline = Clamp(p.Discipline + cfg.TrainDiscipline)
	p.modifyStats(0, -cfg.TrainHunger, -cfg.TrainHappiness, -cfg.TrainEnergy)
	p.UpdatePersonality(ActivityTrain)
	return ok("💪 Your pet trained hard!")
}

// Clean always succeeds
func (p *Pet) Clean(cfg ActionConfig) ActionResult {
	p.Cleanliness = MaxStat
	p.Happiness = Clamp(p.Happiness + cfg.CleanHappiness)
	return ok("🧹 Your pet is clean and happy!")
}

// Sleep toggles sleeping and always succeeds
func (p *Pet) Sleep() ActionResult {
	p.IsSleeping = !p.IsSleeping
	if p.IsSleeping {
		return ActionResult{OK: true, Message: "💤 Your pet is now sleeping...", Kind: notify.Info}
	}
	return ActionResult{OK: true, Message: "☀️ Your pet woke up!", Kind: notify.Info}
}

// WakeUp ends sleep. Waking an awake pet is a successful no-op.
func (p *Pet) WakeUp() ActionResult {
	if !p.IsSleeping {
		return ActionResult{OK: true, Message: "Your pet is already awake", Kind: notify.Info}
	}
	p.IsSleeping = false
	return ActionResult{OK: true, Message: "☀️ Your pet woke up!", Kind: notify.Info}
}
