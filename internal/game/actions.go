package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vpet/internal/hibernation"
	"vpet/internal/notify"
	"vpet/internal/pet"
	"vpet/internal/validate"
)

const (
	msgHibernating = "❄️ Your pet is hibernating! Wake it up first."
	msgEgg         = "🥚 Your egg needs to hatch first!"
	msgInBattle    = "⚔️ Finish the battle first!"
)

func refuse(message string) pet.ActionResult {
	return pet.ActionResult{Message: message, Kind: notify.Warning}
}

// act runs a pet action behind the shared gates, announces the result and
// saves when the pet changed
func (g *Game) act(ctx context.Context, name string, careAction bool, fn func(p *pet.Pet) pet.ActionResult) pet.ActionResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	var result pet.ActionResult
	switch {
	case g.gate.ShouldFreeze():
		result = refuse(msgHibernating)
	case careAction && g.pet.IsEgg():
		result = refuse(msgEgg)
	default:
		result = fn(g.pet)
	}

	g.logger.Debug("action", zap.String("action", name), zap.Bool("ok", result.OK))
	g.sink.Notify(result.Message, result.Kind)
	if result.OK {
		switch name {
		case pet.MilestoneFeed, pet.MilestonePlay, pet.MilestoneTrain, pet.MilestoneClean:
			g.celebrate(name)
			g.celebrate(pet.MilestoneLevel)
		case "hatch":
			g.celebrate(pet.MilestoneEvolution)
		}
		g.save(ctx)
	}
	return result
}

func (g *Game) Feed(ctx context.Context) pet.ActionResult {
	return g.act(ctx, "feed", true, func(p *pet.Pet) pet.ActionResult {
		return p.Feed(g.cfg.Pet.Actions)
	})
}

func (g *Game) Play(ctx context.Context) pet.ActionResult {
	return g.act(ctx, "play", true, func(p *pet.Pet) pet.ActionResult {
		return p.Play(g.cfg.Pet.Actions)
	})
}

func (g *Game) Train(ctx context.Context) pet.ActionResult {
	return g.act(ctx, "train", true, func(p *pet.Pet) pet.ActionResult {
		return p.Train(g.cfg.Pet.Actions)
	})
}

func (g *Game) Clean(ctx context.Context) pet.ActionResult {
	return g.act(ctx, "clean", false, func(p *pet.Pet) pet.ActionResult {
		return p.Clean(g.cfg.Pet.Actions)
	})
}

// Sleep toggles sleep; it refuses while a battle is running
func (g *Game) Sleep(ctx context.Context) pet.ActionResult {
	return g.act(ctx, "sleep", false, func(p *pet.Pet) pet.ActionResult {
		if g.battle != nil && g.battle.Active() {
			return refuse(msgInBattle)
		}
		return p.Sleep()
	})
}

func (g *Game) GiveMedicine(ctx context.Context) pet.ActionResult {
	return g.act(ctx, "medicine", true, func(p *pet.Pet) pet.ActionResult {
		return p.GiveMedicine(g.cfg.Pet.Sickness)
	})
}

// Warm toggles the incubator
func (g *Game) Warm(ctx context.Context) pet.ActionResult {
	return g.act(ctx, "warm", false, func(p *pet.Pet) pet.ActionResult {
		return p.Warm()
	})
}

// Hatch hatches a fully warmed egg
func (g *Game) Hatch(ctx context.Context) pet.ActionResult {
	return g.act(ctx, "hatch", false, func(p *pet.Pet) pet.ActionResult {
		result := p.Hatch(g.clock(), g.rng, g.cfg.Pet.Incubation)
		if result.OK && p.Name == pet.EggName {
			p.Name = pet.DefaultPetName
		}
		return result
	})
}

// Rename validates and applies a new name
func (g *Game) Rename(ctx context.Context, raw string) validate.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := validate.Name(raw)
	if !result.Valid {
		g.sink.Notify("❌ "+result.Error, notify.Error)
		return result
	}
	g.pet.Name = result.Sanitized
	g.sink.Notify("✏️ Your pet is now called "+result.Sanitized, notify.Success)
	g.save(ctx)
	return result
}

// StartHibernation freezes the pet for the given number of days
func (g *Game) StartHibernation(ctx context.Context, days int) hibernation.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.battle != nil && g.battle.Active() {
		result := hibernation.Result{Message: "❌ " + msgInBattle}
		g.sink.Notify(result.Message, notify.Warning)
		return result
	}

	now := g.clock()
	result := g.gate.Start(days, g.vitals(), now)
	if !result.OK {
		g.sink.Notify(result.Message, notify.Warning)
		return result
	}
	g.pet.Freeze(now)
	g.sink.Notify(result.Message, notify.Info)
	g.save(ctx)
	return result
}

// WakeFromHibernation ends hibernation at the player's request
func (g *Game) WakeFromHibernation(ctx context.Context) hibernation.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := g.wake(false, g.clock())
	if !result.OK {
		g.sink.Notify(result.Message, notify.Warning)
		return result
	}
	g.sink.Notify(result.Message, notify.Success)
	g.save(ctx)
	return result
}

// wake ends hibernation and excludes the time slept from the pet's age
func (g *Game) wake(auto bool, now time.Time) hibernation.Result {
	result, slept := g.gate.WakeUp(auto, now)
	if result.OK {
		g.pet.TotalHibernationTime += slept
		g.pet.Freeze(now)
	}
	return result
}
