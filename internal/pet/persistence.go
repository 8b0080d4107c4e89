package pet

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cast"
)

// StorageKey is the store key holding the pet snapshot
const StorageKey = "vpet_data"

const maxNameLength = 50

// Snapshot is the persisted form of a pet. Timestamps are epoch milliseconds.
type Snapshot struct {
	Name                 string             `json:"name"`
	Stage                string             `json:"stage"`
	Health               float64            `json:"health"`
	Hunger               float64            `json:"hunger"`
	Happiness            float64            `json:"happiness"`
	Energy               float64            `json:"energy"`
	Cleanliness          float64            `json:"cleanliness"`
	Discipline           float64            `json:"discipline"`
	Warmth               float64            `json:"warmth"`
	Age                  float64            `json:"age"`
	Level                float64            `json:"level"`
	Wins                 int                `json:"wins"`
	IsSleeping           bool               `json:"isSleeping"`
	IsSick               bool               `json:"isSick"`
	SicknessDuration     int                `json:"sicknessDuration"`
	HasHatched           bool               `json:"hasHatched"`
	IsIncubating         bool               `json:"isIncubating"`
	IncubationTime       int64              `json:"incubationTime"`
	BirthTime            int64              `json:"birthTime"`
	LastUpdateTime       int64              `json:"lastUpdateTime"`
	TotalHibernationTime int64              `json:"totalHibernationTime"`
	PersonalityTraits    map[string]float64 `json:"personalityTraits"`
	Appearance           *Appearance        `json:"appearance"`
	BattleHistory        []BattleEntry      `json:"battleHistory"`
	StatsHistory         []StatsEntry       `json:"statsHistory"`
}

// BattleEntry is the persisted form of a BattleRecord
type BattleEntry struct {
	Timestamp    int64  `json:"timestamp"`
	Won          bool   `json:"won"`
	Outcome      string `json:"outcome"`
	OpponentName string `json:"opponentName"`
	PetLevel     int    `json:"petLevel"`
}

// StatsEntry is the persisted form of a StatsSnapshot
type StatsEntry struct {
	Timestamp int64   `json:"timestamp"`
	Health    float64 `json:"health"`
	Hunger    float64 `json:"hunger"`
	Happiness float64 `json:"happiness"`
	Energy    float64 `json:"energy"`
	Level     float64 `json:"level"`
}

// Card is the public view of a pet sent to battle opponents
type Card struct {
	Name      string  `json:"name"`
	Stage     string  `json:"stage"`
	Health    float64 `json:"health"`
	Hunger    float64 `json:"hunger"`
	Happiness float64 `json:"happiness"`
	Energy    float64 `json:"energy"`
	Age       float64 `json:"age"`
	Level     float64 `json:"level"`
	Wins      int     `json:"wins"`
}

// Card returns the pet's public view
func (p *Pet) Card() Card {
	return Card{
		Name:      p.Name,
		Stage:     string(p.Stage),
		Health:    p.Health,
		Hunger:    p.Hunger,
		Happiness: p.Happiness,
		Energy:    p.Energy,
		Age:       p.Age,
		Level:     p.Level,
		Wins:      p.Wins,
	}
}

// WholeLevel is the card's level rounded down, as used for combat stats
func (c Card) WholeLevel() int {
	if c.Level < 1 {
		return 1
	}
	return int(math.Floor(c.Level))
}

// Condition mirrors (*Pet).Condition for a pet known only by its card
func (c Card) Condition() float64 {
	avg := (Clamp(c.Health) + Clamp(c.Hunger) + Clamp(c.Happiness) + Clamp(c.Energy)) / 4
	return avg / MaxStat
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// ToSnapshot converts the pet to its persisted form
func (p *Pet) ToSnapshot() Snapshot {
	s := Snapshot{
		Name:                 p.Name,
		Stage:                string(p.Stage),
		Health:               p.Health,
		Hunger:               p.Hunger,
		Happiness:            p.Happiness,
		Energy:               p.Energy,
		Cleanliness:          p.Cleanliness,
		Discipline:           p.Discipline,
		Warmth:               p.Warmth,
		Age:                  p.Age,
		Level:                p.Level,
		Wins:                 p.Wins,
		IsSleeping:           p.IsSleeping,
		IsSick:               p.IsSick,
		SicknessDuration:     p.SicknessDuration,
		HasHatched:           p.HasHatched,
		IsIncubating:         p.IsIncubating,
		IncubationTime:       p.IncubationTime.Milliseconds(),
		BirthTime:            millis(p.BirthTime),
		LastUpdateTime:       millis(p.LastUpdateTime),
		TotalHibernationTime: p.TotalHibernationTime.Milliseconds(),
		PersonalityTraits:    p.PersonalityTraits,
		Appearance:           p.Appearance,
		BattleHistory:        make([]BattleEntry, 0, len(p.BattleHistory)),
		StatsHistory:         make([]StatsEntry, 0, len(p.StatsHistory)),
	}
	for _, r := range p.BattleHistory {
		s.BattleHistory = append(s.BattleHistory, BattleEntry{
			Timestamp:    millis(r.Timestamp),
			Won:          r.Won,
			Outcome:      r.Outcome,
			OpponentName: r.OpponentName,
			PetLevel:     r.PetLevel,
		})
	}
	for _, h := range p.StatsHistory {
		s.StatsHistory = append(s.StatsHistory, StatsEntry{
			Timestamp: millis(h.Timestamp),
			Health:    h.Health,
			Hunger:    h.Hunger,
			Happiness: h.Happiness,
			Energy:    h.Energy,
			Level:     h.Level,
		})
	}
	return s
}

// Encode validates the pet and serializes it for storage
func Encode(p *Pet) ([]byte, error) {
	p.Validate()
	data, err := json.Marshal(p.ToSnapshot())
	if err != nil {
		return nil, oops.Code("PET_ENCODE").In("pet").Wrapf(err, "encoding pet snapshot")
	}
	return data, nil
}

// Decode rebuilds a pet from stored data. Every field is coerced on its own:
// missing or malformed values fall back to fresh-egg defaults. Only data that
// is not a JSON object at all is an error.
func Decode(data []byte, now time.Time) (*Pet, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, oops.Code("PET_DECODE").In("pet").Wrapf(err, "decoding pet snapshot")
	}
	if raw == nil {
		return nil, oops.Code("PET_DECODE").In("pet").Errorf("pet snapshot is null")
	}

	p := New(now)
	p.Name = sanitizeStoredName(cast.ToString(raw["name"]), p.Name)
	p.Stage = Stage(cast.ToString(raw["stage"]))
	p.Health = number(raw, "health", p.Health)
	p.Hunger = number(raw, "hunger", p.Hunger)
	p.Happiness = number(raw, "happiness", p.Happiness)
	p.Energy = number(raw, "energy", p.Energy)
	p.Cleanliness = number(raw, "cleanliness", p.Cleanliness)
	p.Discipline = number(raw, "discipline", p.Discipline)
	p.Warmth = number(raw, "warmth", p.Warmth)
	p.Age = number(raw, "age", 0)
	p.Level = number(raw, "level", MinLevel)
	p.Wins = int(number(raw, "wins", 0))
	p.IsSleeping = flag(raw, "isSleeping")
	p.IsSick = flag(raw, "isSick")
	p.SicknessDuration = int(number(raw, "sicknessDuration", 0))
	p.HasHatched = flag(raw, "hasHatched")
	p.IsIncubating = flag(raw, "isIncubating")
	p.IncubationTime = duration(raw, "incubationTime")
	p.TotalHibernationTime = duration(raw, "totalHibernationTime")
	p.BirthTime = timestamp(raw, "birthTime", now)
	p.LastUpdateTime = timestamp(raw, "lastUpdateTime", now)

	if traits, err := cast.ToStringMapE(raw["personalityTraits"]); err == nil {
		for name := range p.PersonalityTraits {
			p.PersonalityTraits[name] = number(traits, name, DefaultTraitValue)
		}
	}
	if appearance, err := cast.ToStringMapStringE(raw["appearance"]); err == nil && len(appearance) > 0 {
		p.Appearance = &Appearance{
			EyeShape:   appearance["eyeShape"],
			EyeColor:   appearance["eyeColor"],
			MouthShape: appearance["mouthShape"],
			BodyColor:  appearance["bodyColor"],
			BodySize:   appearance["bodySize"],
		}
	}

	for _, item := range list(raw, "battleHistory") {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			continue
		}
		ts := timestamp(m, "timestamp", time.Time{})
		if ts.IsZero() {
			ts = timestamp(m, "date", now)
		}
		opponent := cast.ToString(m["opponentName"])
		if opponent == "" {
			opponent = cast.ToString(m["opponent"])
		}
		won := flag(m, "won")
		outcome := cast.ToString(m["outcome"])
		if outcome == "" {
			outcome = OutcomeLose
			if won {
				outcome = OutcomeWin
			}
		}
		p.BattleHistory = append(p.BattleHistory, BattleRecord{
			Timestamp:    ts,
			Won:          won,
			Outcome:      outcome,
			OpponentName: opponent,
			PetLevel:     int(number(m, "petLevel", MinLevel)),
		})
	}
	for _, item := range list(raw, "statsHistory") {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			continue
		}
		p.StatsHistory = append(p.StatsHistory, StatsSnapshot{
			Timestamp: timestamp(m, "timestamp", now),
			Health:    number(m, "health", 0),
			Hunger:    number(m, "hunger", 0),
			Happiness: number(m, "happiness", 0),
			Energy:    number(m, "energy", 0),
			Level:     number(m, "level", MinLevel),
		})
	}

	p.Validate()
	return p, nil
}

func number(m map[string]any, key string, def float64) float64 {
	v, exists := m[key]
	if !exists || v == nil {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func flag(m map[string]any, key string) bool {
	b, err := cast.ToBoolE(m[key])
	return err == nil && b
}

func duration(m map[string]any, key string) time.Duration {
	ms := number(m, key, 0)
	if ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func timestamp(m map[string]any, key string, def time.Time) time.Time {
	ms := number(m, key, 0)
	if ms <= 0 {
		return def
	}
	return time.UnixMilli(int64(ms))
}

func list(m map[string]any, key string) []any {
	items, err := cast.ToSliceE(m[key])
	if err != nil {
		return nil
	}
	return items
}

var angleBrackets = regexp.MustCompile(`[<>]`)

// sanitizeStoredName cleans a name read back from storage
func sanitizeStoredName(name, fallback string) string {
	name = strings.TrimSpace(angleBrackets.ReplaceAllString(name, ""))
	if runes := []rune(name); len(runes) > maxNameLength {
		name = strings.TrimSpace(string(runes[:maxNameLength]))
	}
	if name == "" {
		return fallback
	}
	return name
}
