package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vpet/internal/battle"
	"vpet/internal/notify"
	"vpet/internal/pet"
	"vpet/internal/relay"
)

// OpponentFeed supplies remote opponents. *relay.Client satisfies it.
type OpponentFeed interface {
	RequestBattle(ctx context.Context, card pet.Card) (relay.Match, error)
	SendAction(ctx context.Context, action string) error
	Leave(ctx context.Context) error
}

// Battle returns the current battle, finished or not, or nil
func (g *Game) Battle() *battle.Battle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.battle
}

// canBattle checks every precondition for starting a battle
func (g *Game) canBattle() pet.ActionResult {
	if g.gate.ShouldFreeze() {
		return refuse(msgHibernating)
	}
	return g.pet.CanBattle(g.cfg.Pet.Aftermath)
}

func (g *Game) playerStats() battle.Stats {
	return battle.NewStats(g.pet.Name, g.pet.WholeLevel(), g.pet.Condition())
}

// StartBattle starts a battle against a generated opponent, discarding
// any battle already in progress
func (g *Game) StartBattle(ctx context.Context) (*battle.Battle, pet.ActionResult) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if check := g.canBattle(); !check.OK {
		g.sink.Notify(check.Message, check.Kind)
		return nil, check
	}
	g.discardBattle(ctx)

	b := battle.New(g.playerStats(), g.rng, g.cfg.Battle)
	g.install(b, nil)
	result := pet.ActionResult{
		OK:      true,
		Message: fmt.Sprintf("⚔️ A wild %s (Lv %d) appeared!", b.Opponent.Name, b.Opponent.Level),
		Kind:    notify.Info,
	}
	g.sink.Notify(result.Message, result.Kind)
	return b, result
}

// StartOnlineBattle asks feed for a remote opponent and starts a battle
// against it. The wait for a match happens without holding the game lock.
// Remote opponents act through the local AI from the opponent's card.
func (g *Game) StartOnlineBattle(ctx context.Context, feed OpponentFeed) (*battle.Battle, pet.ActionResult, error) {
	g.mu.Lock()
	check := g.canBattle()
	card := g.pet.Card()
	g.mu.Unlock()

	if !check.OK {
		g.sink.Notify(check.Message, check.Kind)
		return nil, check, nil
	}

	match, err := feed.RequestBattle(ctx, card)
	if err != nil {
		g.logger.Warn("online battle request failed", zap.Error(err))
		result := pet.ActionResult{Message: "❌ Could not find an online opponent", Kind: notify.Error}
		g.sink.Notify(result.Message, result.Kind)
		return nil, result, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// the pet may have changed while we waited
	if check := g.canBattle(); !check.OK {
		_ = feed.Leave(ctx)
		g.sink.Notify(check.Message, check.Kind)
		return nil, check, nil
	}
	g.discardBattle(ctx)

	opponent := battle.NewStats(match.Opponent.Name, match.Opponent.WholeLevel(), match.Opponent.Condition())
	b := battle.StartWith(g.playerStats(), opponent, g.rng, g.cfg.Battle)
	g.install(b, feed)
	g.logger.Info("online battle started",
		zap.String("battle_id", b.ID.String()),
		zap.String("relay_battle_id", match.BattleID))

	result := pet.ActionResult{
		OK:      true,
		Message: fmt.Sprintf("🌐 Matched with %s (Lv %d)!", opponent.Name, opponent.Level),
		Kind:    notify.Info,
	}
	g.sink.Notify(result.Message, result.Kind)
	return b, result, nil
}

func (g *Game) install(b *battle.Battle, feed OpponentFeed) {
	g.battle = b
	g.feed = feed
	g.settled = false
	g.logger.Info("battle started",
		zap.String("battle_id", b.ID.String()),
		zap.String("opponent", b.Opponent.Name),
		zap.Int("opponent_level", b.Opponent.Level),
		zap.Bool("online", feed != nil))
}

// BattleAction submits the player's move. When the result says the
// opponent is pending, call ResolveOpponentTurn after the turn delay.
func (g *Game) BattleAction(ctx context.Context, action battle.Action) battle.TurnResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.battle == nil {
		return battle.TurnResult{}
	}
	result := g.battle.Submit(action)
	if !result.Accepted {
		return result
	}
	if g.feed != nil {
		if err := g.feed.SendAction(ctx, string(action)); err != nil {
			g.logger.Warn("forwarding battle action", zap.Error(err))
		}
	}
	if result.Ended {
		g.settle(ctx)
	}
	return result
}

// ResolveOpponentTurn runs the opponent's pending move in battle id. It is a
// no-op when that battle is no longer current or not waiting on the
// opponent, so late timers are harmless.
func (g *Game) ResolveOpponentTurn(ctx context.Context, id uuid.UUID) battle.TurnResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.battle == nil || g.battle.ID != id {
		return battle.TurnResult{}
	}
	result := g.battle.ResolveOpponentTurn()
	if result.Ended {
		g.settle(ctx)
	}
	return result
}

// EndBattle closes the battle screen. A battle still in progress is
// abandoned without consequences for the pet.
func (g *Game) EndBattle(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.discardBattle(ctx)
}

func (g *Game) discardBattle(ctx context.Context) {
	if g.battle == nil {
		return
	}
	if g.battle.Active() {
		g.battle.Abandon()
		g.logger.Info("battle abandoned", zap.String("battle_id", g.battle.ID.String()))
	}
	g.leaveFeed(ctx)
	g.battle = nil
	g.settled = false
}

func (g *Game) leaveFeed(ctx context.Context) {
	if g.feed == nil {
		return
	}
	if err := g.feed.Leave(ctx); err != nil {
		g.logger.Warn("leaving relay battle", zap.Error(err))
	}
	g.feed = nil
}

// settle applies the aftermath of a finished battle exactly once
func (g *Game) settle(ctx context.Context) {
	if g.settled || g.battle == nil || g.battle.Active() {
		return
	}
	g.settled = true

	var outcome string
	switch g.battle.Outcome() {
	case battle.OutcomeWin:
		outcome = pet.OutcomeWin
	case battle.OutcomeLose:
		outcome = pet.OutcomeLose
	default:
		outcome = pet.OutcomeDraw
	}

	result := g.pet.ApplyBattleResult(outcome, g.battle.Opponent.Name, g.clock(), g.cfg.Pet)
	g.logger.Info("battle finished",
		zap.String("battle_id", g.battle.ID.String()),
		zap.String("outcome", outcome),
		zap.Int("wins", g.pet.Wins))
	g.sink.Notify(result.Message, result.Kind)
	g.celebrate(pet.MilestoneBattle)
	g.celebrate(pet.MilestoneLevel)
	g.leaveFeed(ctx)
	g.save(ctx)
}
