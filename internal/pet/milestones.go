package pet

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/spf13/cast"
)

// MilestonesKey is the store key holding achievement progress
const MilestonesKey = "vpet_first_actions"

// Milestone events. The care actions double as counters.
const (
	MilestoneFeed      = "feed"
	MilestonePlay      = "play"
	MilestoneTrain     = "train"
	MilestoneClean     = "clean"
	MilestoneBattle    = "battle"
	MilestoneLevel     = "level"
	MilestoneEvolution = "evolution"
)

// Achievement is one unlocked milestone
type Achievement struct {
	Title   string
	Message string
	Emoji   string
}

// Announcement renders the achievement as one notification line
func (a Achievement) Announcement() string {
	return fmt.Sprintf("%s %s %s", a.Emoji, a.Title, a.Message)
}

// MilestoneConfig lists the thresholds that unlock achievements
type MilestoneConfig struct {
	Feed  []int `mapstructure:"feed"`
	Play  []int `mapstructure:"play"`
	Train []int `mapstructure:"train"`
	Clean []int `mapstructure:"clean"`
	// Battle thresholds count wins
	Battle    []int    `mapstructure:"battle"`
	Level     []int    `mapstructure:"level"`
	Evolution []string `mapstructure:"evolution"`
}

func defaultMilestoneConfig() MilestoneConfig {
	return MilestoneConfig{
		Feed:      []int{10, 50, 100},
		Play:      []int{10, 50, 100},
		Train:     []int{10, 50, 100},
		Clean:     []int{10, 50},
		Battle:    []int{1, 5, 10, 25, 50},
		Level:     []int{5, 10, 20, 50, 100},
		Evolution: []string{string(StageBaby), string(StageChild), string(StageTeen), string(StageAdult)},
	}
}

func (c MilestoneConfig) counts(event string) []int {
	switch event {
	case MilestoneFeed:
		return c.Feed
	case MilestonePlay:
		return c.Play
	case MilestoneTrain:
		return c.Train
	case MilestoneClean:
		return c.Clean
	}
	return nil
}

var firstTimes = map[string]Achievement{
	MilestoneFeed:   {Title: "First Meal!", Message: "You fed your pet for the first time!", Emoji: "🍖"},
	MilestonePlay:   {Title: "Play Time!", Message: "You played with your pet for the first time!", Emoji: "🎮"},
	MilestoneTrain:  {Title: "Training Begins!", Message: "Your pet started training!", Emoji: "💪"},
	MilestoneBattle: {Title: "First Battle!", Message: "Your pet entered their first battle!", Emoji: "⚔️"},
	MilestoneClean:  {Title: "Squeaky Clean!", Message: "You cleaned your pet for the first time!", Emoji: "🧹"},
}

var countVerbs = map[string][2]string{
	MilestoneFeed:  {"Fed", "fed your pet"},
	MilestonePlay:  {"Played", "played with your pet"},
	MilestoneTrain: {"Trained", "trained your pet"},
	MilestoneClean: {"Cleaned", "cleaned your pet"},
}

// Milestones is the player's achievement progress. It outlives any single
// pet, so a reset keeps it.
type Milestones struct {
	FirstActions map[string]bool `json:"firstActions"`
	Counts       map[string]int  `json:"counts"`
	Unlocked     map[string]bool `json:"unlocked"`
}

func NewMilestones() *Milestones {
	return &Milestones{
		FirstActions: map[string]bool{},
		Counts:       map[string]int{},
		Unlocked:     map[string]bool{},
	}
}

// unlock marks key as awarded and reports whether it was new
func (m *Milestones) unlock(key string) bool {
	if m.Unlocked[key] {
		return false
	}
	m.Unlocked[key] = true
	return true
}

// reached unlocks every threshold at or below value not yet awarded
func (m *Milestones) reached(event string, thresholds []int, value int) []int {
	return lo.Filter(thresholds, func(n int, _ int) bool {
		return n <= value && m.unlock(fmt.Sprintf("%s:%d", event, n))
	})
}

// Check records event against p and returns the achievements it unlocks.
// Each achievement is returned at most once.
func (m *Milestones) Check(event string, p *Pet, cfg MilestoneConfig) []Achievement {
	var out []Achievement
	if a, ok := firstTimes[event]; ok && !m.FirstActions[event] {
		m.FirstActions[event] = true
		out = append(out, a)
	}

	switch event {
	case MilestoneFeed, MilestonePlay, MilestoneTrain, MilestoneClean:
		m.Counts[event]++
		verb := countVerbs[event]
		for _, n := range m.reached(event, cfg.counts(event), m.Counts[event]) {
			out = append(out, Achievement{
				Title:   fmt.Sprintf("%s %d times!", verb[0], n),
				Message: fmt.Sprintf("You've %s %d times!", verb[1], n),
				Emoji:   "🏆",
			})
		}
	case MilestoneBattle:
		for _, n := range m.reached(event, cfg.Battle, p.Wins) {
			out = append(out, Achievement{
				Title:   fmt.Sprintf("Battle Master %d!", n),
				Message: fmt.Sprintf("Your pet has won %d battles!", n),
				Emoji:   "🏆",
			})
		}
	case MilestoneLevel:
		for _, n := range m.reached(event, cfg.Level, p.WholeLevel()) {
			out = append(out, Achievement{
				Title:   fmt.Sprintf("Level %d Reached!", n),
				Message: fmt.Sprintf("Your pet has reached level %d!", n),
				Emoji:   "⭐",
			})
		}
	case MilestoneEvolution:
		stage := string(p.Stage)
		if lo.Contains(cfg.Evolution, stage) && m.unlock(event+":"+stage) {
			out = append(out, Achievement{
				Title:   fmt.Sprintf("Evolved to %s!", p.Stage.Title()),
				Message: fmt.Sprintf("Your pet has evolved to the %s stage!", stage),
				Emoji:   "🎉",
			})
		}
	}
	return out
}

// EncodeMilestones serializes progress for the store
func EncodeMilestones(m *Milestones) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMilestones restores progress. It also accepts the older flat
// {"feed": true} form that only tracked first actions.
func DecodeMilestones(data []byte) (*Milestones, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, oops.Code("INVALID_MILESTONES").In("pet").Errorf("milestones are not a JSON object")
	}

	m := NewMilestones()
	_, hasFirst := raw["firstActions"]
	_, hasCounts := raw["counts"]
	_, hasUnlocked := raw["unlocked"]
	if !hasFirst && !hasCounts && !hasUnlocked {
		for action, seen := range raw {
			if cast.ToBool(seen) {
				m.FirstActions[action] = true
			}
		}
		return m, nil
	}

	for action, seen := range cast.ToStringMapBool(raw["firstActions"]) {
		if seen {
			m.FirstActions[action] = true
		}
	}
	for event, n := range cast.ToStringMapInt(raw["counts"]) {
		m.Counts[event] = max(n, 0)
	}
	for key, done := range cast.ToStringMapBool(raw["unlocked"]) {
		if done {
			m.Unlocked[key] = true
		}
	}
	return m, nil
}
