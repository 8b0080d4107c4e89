package pet

import "time"

// Game constants
const (
	DefaultPetName   = "My Pet"
	EggName          = "???"
	MaxStat          = 100
	MinStat          = 0
	MinLevel         = 1
	LowStatThreshold = 30
	Day              = 24 * time.Hour

	// Time away shorter than this produces no summary
	TimeAwayThreshold = 5 * time.Minute
	// Summary flags the pet when any of health/hunger/happiness is below this
	AttentionThreshold = 50

	// Personality traits (0-100 scale)
	TraitBrave        = "brave"
	TraitFriendly     = "friendly"
	TraitEnergetic    = "energetic"
	TraitDisciplined  = "disciplined"
	DefaultTraitValue = 50
	StrongTraitValue  = 70

	// Status emojis
	StatusEmojiHappy       = "😸"
	StatusEmojiEgg         = "🥚"
	StatusEmojiIncubating  = "🔥"
	StatusEmojiSleeping    = "😴"
	StatusEmojiHungry      = "🙀"
	StatusEmojiSad         = "😿"
	StatusEmojiSick        = "🤢"
	StatusEmojiTired       = "😾"
	StatusEmojiDirty       = "💩"
	StatusEmojiHibernating = "❄️"
)

// Stage is a life-cycle phase. Stages only ever move forward.
type Stage string

const (
	StageEgg   Stage = "egg"
	StageBaby  Stage = "baby"
	StageChild Stage = "child"
	StageTeen  Stage = "teen"
	StageAdult Stage = "adult"
)

var stageOrder = []Stage{StageEgg, StageBaby, StageChild, StageTeen, StageAdult}

// Valid reports whether s is a known stage
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Index returns the position of s in the life cycle, or -1
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the stage after s. Adult is terminal.
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i == len(stageOrder)-1 {
		return "", false
	}
	return stageOrder[i+1], true
}

// Title returns the display name for the stage
func (s Stage) Title() string {
	switch s {
	case StageEgg:
		return "Egg"
	case StageBaby:
		return "Baby"
	case StageChild:
		return "Child"
	case StageTeen:
		return "Teen"
	case StageAdult:
		return "Adult"
	default:
		return "Unknown"
	}
}

// Emoji returns the emoji for the stage
func (s Stage) Emoji() string {
	switch s {
	case StageEgg:
		return "🥚"
	case StageBaby:
		return "🐣"
	case StageChild:
		return "🐥"
	case StageTeen:
		return "🐤"
	case StageAdult:
		return "🐔"
	default:
		return "❓"
	}
}

// Battle outcomes recorded in history
const (
	OutcomeWin  = "win"
	OutcomeLose = "lose"
	OutcomeDraw = "draw"
)

// Appearance options rolled at hatch
var (
	EyeShapes   = []string{"round", "oval", "star", "heart"}
	EyeColors   = []string{"black", "blue", "green", "brown", "purple"}
	MouthShapes = []string{"happy", "neutral", "sad", "surprised"}
	BodyColors  = []string{"default", "golden", "crimson", "azure", "emerald", "violet"}
	BodySizes   = []string{"normal", "small", "large"}
)
