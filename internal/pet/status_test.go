package pet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeDisplay(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{0, "< 1 minute"},
		{30 * time.Second, "< 1 minute"},
		{time.Minute, "1 minute"},
		{59 * time.Minute, "59 minutes"},
		{time.Hour, "1 hour"},
		{5*time.Hour + 59*time.Minute, "5 hours"},
		{24 * time.Hour, "1 day"},
		{80 * time.Hour, "3 days"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := hatchedPet()
			// nudge past the boundary so float rounding cannot drop a unit
			p.Age = (float64(tt.age) + float64(time.Millisecond)) / float64(Day)
			assert.Equal(t, tt.want, p.AgeDisplay())
		})
	}
}

func TestGetStatusWithLabel(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(p *Pet)
		hibernating bool
		want        string
	}{
		{"happy", func(p *Pet) {}, false, StatusEmojiHappy + " Happy"},
		{"hibernating", func(p *Pet) {}, true, StatusEmojiHibernating + " Hibernating"},
		{"sleeping", func(p *Pet) { p.IsSleeping = true }, false, StatusEmojiSleeping + " Sleeping"},
		{"sleeping and hungry", func(p *Pet) { p.IsSleeping, p.Hunger = true, 10 }, false, StatusEmojiSleeping + StatusEmojiHungry + " Sleeping (Hungry)"},
		{"sick wins over needs", func(p *Pet) { p.IsSick, p.Hunger = true, 10 }, false, StatusEmojiHappy + StatusEmojiSick + " Sick"},
		{"lowest need shown", func(p *Pet) { p.Hunger, p.Energy = 20, 10 }, false, StatusEmojiHappy + StatusEmojiTired + " Tired"},
		{"sad", func(p *Pet) { p.Happiness = 5 }, false, StatusEmojiHappy + StatusEmojiSad + " Sad"},
		{"dirty", func(p *Pet) { p.Cleanliness = 5 }, false, StatusEmojiHappy + StatusEmojiDirty + " Dirty"},
		{"egg", func(p *Pet) { p.Stage, p.HasHatched = StageEgg, false }, false, StatusEmojiEgg + " Waiting to hatch"},
		{"incubating egg", func(p *Pet) { p.Stage, p.HasHatched, p.IsIncubating = StageEgg, false, true }, false, StatusEmojiEgg + StatusEmojiIncubating + " Incubating"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := hatchedPet()
			tt.setup(p)
			assert.Equal(t, tt.want, GetStatusWithLabel(p, tt.hibernating))
		})
	}
}

func TestBattleRecordSummary(t *testing.T) {
	r := BattleRecord{Timestamp: testNow, Outcome: OutcomeLose, OpponentName: "Byte Buddy", PetLevel: 2}
	assert.Equal(t, "💔 vs Byte Buddy (Lv 2) 3 minutes ago", r.Summary(testNow.Add(3*time.Minute)))
}
