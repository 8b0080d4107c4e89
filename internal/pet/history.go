package pet

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"vpet/internal/notify"
)

// Activity names that drift personality traits
const (
	ActivityPlay    = "play"
	ActivityTrain   = "train"
	ActivityBattle  = "battle"
	ActivityNeglect = "neglect"
)

// UpdatePersonality nudges traits for an activity. Unknown activities are ignored.
func (p *Pet) UpdatePersonality(activity string) {
	if p.PersonalityTraits == nil {
		p.PersonalityTraits = defaultTraits()
	}
	bump := func(trait string, delta float64) {
		p.PersonalityTraits[trait] = Clamp(p.PersonalityTraits[trait] + delta)
	}

	switch activity {
	case ActivityPlay:
		bump(TraitFriendly, 1)
		bump(TraitEnergetic, 1)
	case ActivityTrain:
		bump(TraitDisciplined, 1)
	case ActivityBattle:
		bump(TraitBrave, 1)
	case ActivityNeglect:
		bump(TraitFriendly, -2)
	}
}

// PersonalityDescription lists the strong traits, or "Balanced"
func (p *Pet) PersonalityDescription() string {
	var strong []string
	for _, trait := range []string{TraitBrave, TraitFriendly, TraitEnergetic, TraitDisciplined} {
		if p.PersonalityTraits[trait] > StrongTraitValue {
			strong = append(strong, strings.ToUpper(trait[:1])+trait[1:])
		}
	}
	if len(strong) == 0 {
		return "Balanced"
	}
	return strings.Join(strong, ", ")
}

// CanBattle reports whether the pet is fit to fight, with a reason when not
func (p *Pet) CanBattle(cfg AftermathConfig) ActionResult {
	switch {
	case p.IsEgg():
		return blocked("🥚 Your egg needs to hatch before it can battle!", notify.Warning)
	case p.IsSleeping:
		return blocked(msgSleeping, notify.Warning)
	case p.Energy < cfg.MinEnergy:
		return blocked("😴 Your pet is too tired to battle!", notify.Warning)
	}
	return ActionResult{OK: true}
}

// ApplyBattleResult folds a finished battle into the pet's stats and history
func (p *Pet) ApplyBattleResult(outcome, opponentName string, now time.Time, cfg Config) ActionResult {
	a := cfg.Aftermath
	var result ActionResult
	switch outcome {
	case OutcomeWin:
		p.Wins++
		p.Level += a.WinLevel
		p.Happiness = Clamp(p.Happiness + a.WinHappiness)
		result = ok("🏆 Victory! Your pet gained experience!")
	case OutcomeLose:
		p.Happiness = Clamp(p.Happiness - a.LossHappiness)
		p.Health = Clamp(p.Health - a.LossHealth)
		result = ActionResult{OK: true, Message: "💔 Defeat! Your pet needs care.", Kind: notify.Error}
	default:
		outcome = OutcomeDraw
		result = ActionResult{OK: true, Message: "🤝 The battle ended in a draw!", Kind: notify.Info}
	}

	p.Energy = Clamp(p.Energy - a.EnergyCost)
	p.RecordBattle(BattleRecord{
		Timestamp:    now,
		Won:          outcome == OutcomeWin,
		Outcome:      outcome,
		OpponentName: opponentName,
		PetLevel:     p.WholeLevel(),
	}, cfg.History)
	p.UpdatePersonality(ActivityBattle)
	return result
}

// RecordBattle prepends a record and trims to the retention cap
func (p *Pet) RecordBattle(record BattleRecord, cfg HistoryConfig) {
	p.BattleHistory = append([]BattleRecord{record}, p.BattleHistory...)
	if len(p.BattleHistory) > cfg.MaxBattles {
		p.BattleHistory = p.BattleHistory[:cfg.MaxBattles]
	}
}

// RecordStatsSnapshot samples the vitals when at least SnapshotInterval has
// passed since the last sample. It reports whether a sample was taken.
func (p *Pet) RecordStatsSnapshot(now time.Time, cfg HistoryConfig) bool {
	if last, found := lo.Last(p.StatsHistory); found && now.Sub(last.Timestamp) < cfg.SnapshotInterval {
		return false
	}
	p.StatsHistory = append(p.StatsHistory, StatsSnapshot{
		Timestamp: now,
		Health:    p.Health,
		Hunger:    p.Hunger,
		Happiness: p.Happiness,
		Energy:    p.Energy,
		Level:     p.Level,
	})
	p.PruneStatsHistory(now, cfg)
	return true
}

// PruneStatsHistory drops samples older than the window and keeps at most
// MaxSnapshots of the newest
func (p *Pet) PruneStatsHistory(now time.Time, cfg HistoryConfig) {
	cutoff := now.Add(-cfg.SnapshotWindow)
	p.StatsHistory = lo.Filter(p.StatsHistory, func(s StatsSnapshot, _ int) bool {
		return !s.Timestamp.Before(cutoff)
	})
	if len(p.StatsHistory) > cfg.MaxSnapshots {
		p.StatsHistory = p.StatsHistory[len(p.StatsHistory)-cfg.MaxSnapshots:]
	}
}

// PruneHistory enforces every retention rule. Called before retrying a
// save that ran out of room.
func (p *Pet) PruneHistory(now time.Time, cfg HistoryConfig) {
	if len(p.BattleHistory) > cfg.MaxBattles {
		p.BattleHistory = p.BattleHistory[:cfg.MaxBattles]
	}
	p.PruneStatsHistory(now, cfg)
}

// WinRate returns the share of recorded battles that were won
func (p *Pet) WinRate() float64 {
	if len(p.BattleHistory) == 0 {
		return 0
	}
	won := lo.CountBy(p.BattleHistory, func(r BattleRecord) bool { return r.Won })
	return float64(won) / float64(len(p.BattleHistory))
}
