// Package game ties the pet, battle and hibernation engines to storage,
// notifications and the wall clock. Every public method is safe to call
// from the UI loop and from background commands.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"vpet/internal/battle"
	"vpet/internal/config"
	"vpet/internal/hibernation"
	"vpet/internal/logger"
	"vpet/internal/notify"
	"vpet/internal/pet"
	"vpet/internal/store"
)

// Clock returns the current time
type Clock func() time.Time

// Option customizes a Game
type Option func(*Game)

// WithClock replaces the wall clock
func WithClock(clock Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithRand replaces the random source shared by every engine
func WithRand(rng func() float64) Option {
	return func(g *Game) { g.rng = rng }
}

// Game owns one pet, at most one battle and the hibernation gate
type Game struct {
	mu sync.Mutex

	pet        *pet.Pet
	milestones *pet.Milestones
	gate       *hibernation.Gate
	battle *battle.Battle
	// aftermath has been applied to the current battle
	settled bool
	feed    OpponentFeed

	store  store.Store
	sink   notify.Sink
	base   *zap.Logger
	logger *zap.Logger
	cfg    config.Config
	clock  Clock
	rng    func() float64
}

// New creates a game holding a fresh egg. Call Load to restore saved state.
func New(cfg config.Config, s store.Store, sink notify.Sink, log *zap.Logger, opts ...Option) *Game {
	g := &Game{
		store:  s,
		sink:   sink,
		base:   log,
		logger: logger.WithComponent(log, "game"),
		cfg:    cfg,
		clock:  time.Now,
	}
	if g.sink == nil {
		g.sink = notify.Nop
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		seed := cfg.Game.Seed
		if seed == 0 {
			seed = g.clock().UnixNano()
		}
		g.rng = rand.New(rand.NewSource(seed)).Float64
	}
	g.pet = pet.New(g.clock())
	g.milestones = pet.NewMilestones()
	g.gate = hibernation.NewGate(cfg.Hibernation, g.base)
	return g
}

// Pet returns the live pet. Callers must not mutate it.
func (g *Game) Pet() *pet.Pet {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pet
}

// Gate returns the hibernation gate. Callers must not mutate it.
func (g *Game) Gate() *hibernation.Gate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gate
}

// Config returns the active configuration
func (g *Game) Config() config.Config { return g.cfg }

// Now returns the game clock's current time
func (g *Game) Now() time.Time { return g.clock() }

// Hibernating reports whether simulated time is frozen
func (g *Game) Hibernating() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gate.ShouldFreeze()
}

// Load restores the pet and the gate from the store and catches the pet up
// on the time it was away. Missing or unreadable state starts a fresh egg.
// The returned summary is nil when the player was not away long.
func (g *Game) Load(ctx context.Context) (*pet.TimeAway, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.clock()

	raw, found, err := g.store.Load(ctx, pet.StorageKey)
	if err != nil {
		return nil, err
	}
	if found {
		p, err := pet.Decode([]byte(raw), now)
		if err != nil {
			g.logger.Warn("discarding unreadable pet data", zap.Error(err))
			p = pet.New(now)
		}
		g.pet = p
	} else {
		g.pet = pet.New(now)
	}

	raw, found, err = g.store.Load(ctx, hibernation.StorageKey)
	if err != nil {
		return nil, err
	}
	if found {
		if err := g.gate.Restore([]byte(raw), now); err != nil {
			g.logger.Warn("discarding unreadable hibernation state", zap.Error(err))
			g.gate = hibernation.NewGate(g.cfg.Hibernation, g.base)
		}
	}

	raw, found, err = g.store.Load(ctx, pet.MilestonesKey)
	if err != nil {
		return nil, err
	}
	if found {
		m, err := pet.DecodeMilestones([]byte(raw))
		if err != nil {
			g.logger.Warn("discarding unreadable milestones", zap.Error(err))
			m = pet.NewMilestones()
		}
		g.milestones = m
	}

	g.logger.Info("game loaded",
		zap.String("name", g.pet.Name),
		zap.String("stage", string(g.pet.Stage)),
		zap.Bool("hibernating", g.gate.ShouldFreeze()))

	result, ran := g.tick(ctx, now)
	if !ran {
		return nil, nil
	}
	return result.TimeAway, nil
}

// Tick advances the simulation to the current time and saves
func (g *Game) Tick(ctx context.Context) pet.TickResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	result, _ := g.tick(ctx, g.clock())
	return result
}

// tick reports whether the pet simulation ran, false while frozen
func (g *Game) tick(ctx context.Context, now time.Time) (pet.TickResult, bool) {
	start := g.gate.State().StartTime
	if res, slept, woke := g.gate.CheckAutoWake(now); woke {
		g.pet.TotalHibernationTime += slept
		// simulated time resumes at the scheduled end, not at the check
		g.pet.Freeze(start.Add(slept))
		g.sink.Notify(res.Message, notify.Success)
	}

	if g.gate.ShouldFreeze() {
		if g.gate.NeedsEmergencyWakeUp(g.vitals()) {
			g.wake(true, now)
			g.sink.Notify("⚠️ Emergency wake-up! Your pet needs care.", notify.Warning)
		} else {
			g.pet.Freeze(now)
			g.save(ctx)
			return pet.TickResult{}, false
		}
	}

	result := g.pet.Tick(now, g.rng, g.cfg.Pet)
	g.announce(result)
	g.save(ctx)
	return result, true
}

func (g *Game) announce(r pet.TickResult) {
	if r.Evolution != nil {
		g.logger.Info("pet evolved",
			zap.String("from", string(r.Evolution.From)),
			zap.String("to", string(r.Evolution.To)),
			zap.Float64("level", r.Evolution.LevelAfter))
		g.sink.Notify(fmt.Sprintf("✨ Your pet evolved into a %s!", r.Evolution.To.Title()), notify.Success)
		g.celebrate(pet.MilestoneEvolution)
		g.celebrate(pet.MilestoneLevel)
	}
	switch r.Sickness {
	case pet.SicknessOnset:
		g.sink.Notify("🤒 Your pet got sick! Give it medicine.", notify.Warning)
	case pet.SicknessRecovered:
		g.sink.Notify("💪 Your pet recovered from its illness!", notify.Success)
	}
	if r.HibernationReset {
		g.logger.Warn("hibernation time exceeded lifetime and was reset")
	}
	if r.Neglected {
		g.logger.Debug("pet neglected", zap.Float64("average_vital", g.pet.AverageVital()))
	}
}

func (g *Game) vitals() hibernation.Vitals {
	return hibernation.Vitals{
		Hunger:      g.pet.Hunger,
		Health:      g.pet.Health,
		Happiness:   g.pet.Happiness,
		Cleanliness: g.pet.Cleanliness,
	}
}

// Save writes the pet and gate state
func (g *Game) Save(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.persist(ctx)
}

// save persists and only logs failures; play continues in memory
func (g *Game) save(ctx context.Context) {
	if err := g.persist(ctx); err != nil {
		g.logger.Error("saving game state", zap.Error(err))
	}
}

// persist writes both keys. A quota failure prunes the histories and
// retries once.
func (g *Game) persist(ctx context.Context) error {
	data, err := pet.Encode(g.pet)
	if err != nil {
		return err
	}
	err = g.store.Save(ctx, pet.StorageKey, string(data))
	if errors.Is(err, store.ErrQuotaExceeded) {
		g.logger.Warn("store quota exceeded, pruning history",
			zap.Int("battles", len(g.pet.BattleHistory)),
			zap.Int("snapshots", len(g.pet.StatsHistory)))
		g.pet.PruneHistory(g.clock(), g.cfg.Pet.History)
		if data, err = pet.Encode(g.pet); err != nil {
			return err
		}
		err = g.store.Save(ctx, pet.StorageKey, string(data))
	}
	if err != nil {
		return err
	}

	data, err = g.gate.Encode()
	if err != nil {
		return err
	}
	if err := g.store.Save(ctx, hibernation.StorageKey, string(data)); err != nil {
		return err
	}

	data, err = pet.EncodeMilestones(g.milestones)
	if err != nil {
		return err
	}
	return g.store.Save(ctx, pet.MilestonesKey, string(data))
}

// celebrate records a milestone event and announces what it unlocks
func (g *Game) celebrate(event string) {
	for _, a := range g.milestones.Check(event, g.pet, g.cfg.Pet.Milestones) {
		g.logger.Info("achievement unlocked", zap.String("event", event), zap.String("title", a.Title))
		g.sink.Notify(a.Announcement(), notify.Success)
	}
}

// Reset replaces the pet with a fresh egg and clears hibernation.
// Achievements are kept.
func (g *Game) Reset(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.discardBattle(ctx)
	g.pet.Reset(g.clock())
	g.gate = hibernation.NewGate(g.cfg.Hibernation, g.base)
	g.logger.Info("pet reset")
	g.sink.Notify("🥚 A new egg appeared!", notify.Info)
	g.save(ctx)
}
