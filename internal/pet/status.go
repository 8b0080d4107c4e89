package pet

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// GetStatus returns the status emoji(s) for the pet
func GetStatus(p *Pet, hibernating bool) string {
	if hibernating {
		return StatusEmojiHibernating
	}
	if p.IsEgg() {
		if p.IsIncubating {
			return StatusEmojiEgg + StatusEmojiIncubating
		}
		return StatusEmojiEgg
	}

	// Icon 1: Activity (what pet is DOING)
	activity := StatusEmojiHappy
	if p.IsSleeping {
		activity = StatusEmojiSleeping
	}

	// Icon 2: Feeling (most critical need)
	emoji, _ := feeling(p)
	return activity + emoji
}

// GetStatusWithLabel returns status with a text label for the UI
func GetStatusWithLabel(p *Pet, hibernating bool) string {
	status := GetStatus(p, hibernating)

	switch {
	case hibernating:
		return status + " Hibernating"
	case p.IsEgg() && p.IsIncubating:
		return status + " Incubating"
	case p.IsEgg():
		return status + " Waiting to hatch"
	}

	_, label := feeling(p)
	if p.IsSleeping {
		if label == "" {
			return status + " Sleeping"
		}
		return status + " Sleeping (" + label + ")"
	}
	if label == "" {
		label = "Happy"
	}
	return status + " " + label
}

// feeling returns the most pressing need, or empty strings when content
func feeling(p *Pet) (string, string) {
	if p.IsSick {
		return StatusEmojiSick, "Sick"
	}

	lowestStat := p.Hunger
	emoji, label := StatusEmojiHungry, "Hungry"
	if p.Energy < lowestStat {
		lowestStat = p.Energy
		emoji, label = StatusEmojiTired, "Tired"
	}
	if p.Happiness < lowestStat {
		lowestStat = p.Happiness
		emoji, label = StatusEmojiSad, "Sad"
	}

	switch {
	case lowestStat < LowStatThreshold:
		return emoji, label
	case p.Cleanliness < LowStatThreshold:
		return StatusEmojiDirty, "Dirty"
	}
	return "", ""
}

// AgeDisplay renders the age in its largest non-zero unit
func (p *Pet) AgeDisplay() string {
	if p.Age >= 1 {
		return plural(int(math.Floor(p.Age)), "day")
	}
	hours := p.Age * 24
	if hours >= 1 {
		return plural(int(math.Floor(hours)), "hour")
	}
	minutes := int(math.Floor(hours * 60))
	if minutes < 1 {
		return "< 1 minute"
	}
	return plural(minutes, "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Ago renders how long ago the battle happened
func (r BattleRecord) Ago(now time.Time) string {
	return humanize.RelTime(r.Timestamp, now, "ago", "from now")
}

// Summary renders the record for the history list
func (r BattleRecord) Summary(now time.Time) string {
	var icon string
	switch r.Outcome {
	case OutcomeWin:
		icon = "🏆"
	case OutcomeLose:
		icon = "💔"
	default:
		icon = "🤝"
	}
	return fmt.Sprintf("%s vs %s (Lv %d) %s", icon, r.OpponentName, r.PetLevel, r.Ago(now))
}

// Describe renders the time-away summary shown on start-up
func (t TimeAway) Describe() string {
	start := time.Time{}
	away := strings.TrimSpace(humanize.RelTime(start, start.Add(time.Duration(t.Minutes)*time.Minute), "", ""))
	msg := fmt.Sprintf("You were away for %s.", away)
	if t.NeedsAttention {
		msg += " Your pet needs attention!"
	}
	return msg
}
