package pet

import (
	"math"
	"time"
)

// Evolution describes a single stage transition
type Evolution struct {
	From       Stage
	To         Stage
	LevelAfter float64
}

// Progress describes how far the pet is toward its next stage
type Progress struct {
	Next             Stage
	Percent          float64
	MinutesRemaining float64
}

// UpdateAge recomputes Age from the birth time, excluding hibernation.
// It reports true when a corrupt hibernation total had to be discarded.
func (p *Pet) UpdateAge(now time.Time) bool {
	lifetime := now.Sub(p.BirthTime)
	reset := false
	if p.TotalHibernationTime > 0 && p.TotalHibernationTime > lifetime {
		p.TotalHibernationTime = 0
		reset = true
	}

	awake := lifetime - p.TotalHibernationTime
	if awake < 0 {
		awake = 0
	}
	p.Age = float64(awake) / float64(Day)
	return reset
}

// CheckEvolution advances at most one stage when Age has crossed the
// threshold for the current stage
func (p *Pet) CheckEvolution(cfg EvolutionConfig) (Evolution, bool) {
	next, hasNext := p.Stage.Next()
	if !hasNext {
		return Evolution{}, false
	}
	threshold, _ := cfg.Threshold(p.Stage)
	if p.Age < threshold {
		return Evolution{}, false
	}

	from := p.Stage
	p.Stage = next
	if from == StageEgg {
		p.HasHatched = true
		p.IsIncubating = false
	}
	p.Level += cfg.LevelBonus
	return Evolution{From: from, To: next, LevelAfter: p.Level}, true
}

// EvolutionProgress returns progress toward the next stage.
// The second result is false for adults.
func (p *Pet) EvolutionProgress(cfg EvolutionConfig) (Progress, bool) {
	next, hasNext := p.Stage.Next()
	if !hasNext {
		return Progress{}, false
	}
	threshold, _ := cfg.Threshold(p.Stage)

	var previous float64
	if idx := p.Stage.Index(); idx > 0 {
		previous, _ = cfg.Threshold(stageOrder[idx-1])
	}

	percent := 100.0
	if span := threshold - previous; span > 0 {
		percent = (p.Age - previous) / span * 100
	}

	return Progress{
		Next:             next,
		Percent:          math.Max(0, math.Min(100, percent)),
		MinutesRemaining: math.Max(0, (threshold-p.Age)*24*60),
	}, true
}
