// Package hibernation pauses a pet's simulated time on request.
package hibernation

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/samber/oops"
	"go.uber.org/zap"

	"vpet/internal/logger"
)

// StorageKey is the store key holding the gate state
const StorageKey = "hibernationState"

// CriticalStatThreshold blocks hibernation for a pet in poor shape
const CriticalStatThreshold = 30

const dateLayout = "2006-01-02"

// Limits bounds how hibernation may be used. Zero means unlimited.
type Limits struct {
	MaxDays           int  `mapstructure:"max_days"`
	MaxPausesPerDay   int  `mapstructure:"max_pauses_per_day"`
	CanUnpauseAnytime bool `mapstructure:"can_unpause_anytime"`
}

// DefaultLimits returns the standard limit set
func DefaultLimits() Limits {
	return Limits{
		MaxDays:           7,
		MaxPausesPerDay:   0,
		CanUnpauseAnytime: true,
	}
}

// Validate rejects negative limits
func (l Limits) Validate() error {
	if l.MaxDays < 0 || l.MaxPausesPerDay < 0 {
		return oops.Code("INVALID_HIBERNATION_CONFIG").In("hibernation").
			Errorf("hibernation limits must not be negative: max_days=%d max_pauses_per_day=%d", l.MaxDays, l.MaxPausesPerDay)
	}
	return nil
}

// Vitals are the stats that must be healthy before a pet may hibernate
type Vitals struct {
	Hunger      float64
	Health      float64
	Happiness   float64
	Cleanliness float64
}

// critical returns the first stat below the threshold and its message
func (v Vitals) critical() (string, bool) {
	switch {
	case v.Hunger < CriticalStatThreshold:
		return "Pet hunger is too low! Feed your pet before hibernation.", true
	case v.Health < CriticalStatThreshold:
		return "Pet health is too low! Heal your pet before hibernation.", true
	case v.Happiness < CriticalStatThreshold:
		return "Pet happiness is too low! Play with your pet before hibernation.", true
	case v.Cleanliness < CriticalStatThreshold:
		return "Pet cleanliness is too low! Clean your pet before hibernation.", true
	}
	return "", false
}

// Result reports whether a gate operation applied and why
type Result struct {
	OK      bool
	Message string
}

// State is the persisted gate state
type State struct {
	IsHibernating bool
	StartTime     time.Time
	Duration      time.Duration
	PauseCount    int
	LastPauseDate string
}

type wireState struct {
	IsHibernating        bool    `json:"isHibernating"`
	HibernationStartTime *string `json:"hibernationStartTime"`
	HibernationDuration  int64   `json:"hibernationDuration"`
	PauseCount           int     `json:"pauseCount"`
	LastPauseDate        string  `json:"lastPauseDate"`
}

// Gate freezes the pet's simulation while hibernating. Not safe for
// concurrent use.
type Gate struct {
	state  State
	limits Limits
	logger *zap.Logger
}

// NewGate returns an idle gate
func NewGate(limits Limits, log *zap.Logger) *Gate {
	return &Gate{
		limits: limits,
		logger: logger.WithComponent(log, "hibernation"),
	}
}

// State returns a copy of the current state
func (g *Gate) State() State { return g.state }

// Limits returns the configured limits
func (g *Gate) Limits() Limits { return g.limits }

// ShouldFreeze reports whether time-driven simulation must be skipped
func (g *Gate) ShouldFreeze() bool { return g.state.IsHibernating }

func (g *Gate) rollDay(now time.Time) {
	today := now.Format(dateLayout)
	if g.state.LastPauseDate != today {
		g.state.PauseCount = 0
		g.state.LastPauseDate = today
	}
}

// CanStart checks every precondition for starting hibernation
func (g *Gate) CanStart(v Vitals, now time.Time) Result {
	if g.state.IsHibernating {
		return Result{Message: "Pet is already hibernating"}
	}
	if reason, critical := v.critical(); critical {
		return Result{Message: reason}
	}
	g.rollDay(now)
	if g.limits.MaxPausesPerDay > 0 && g.state.PauseCount >= g.limits.MaxPausesPerDay {
		return Result{Message: fmt.Sprintf("Daily hibernation limit reached (%d per day)", g.limits.MaxPausesPerDay)}
	}
	return Result{OK: true}
}

// Start begins hibernation for the given number of days
func (g *Gate) Start(days int, v Vitals, now time.Time) Result {
	if check := g.CanStart(v, now); !check.OK {
		return Result{Message: "❌ " + check.Message}
	}
	if g.limits.MaxDays > 0 && days > g.limits.MaxDays {
		return Result{Message: fmt.Sprintf("❌ Maximum hibernation is %s", plural(g.limits.MaxDays, "day"))}
	}
	if days <= 0 {
		return Result{Message: "❌ Duration must be at least 1 day"}
	}

	g.state.IsHibernating = true
	g.state.StartTime = now
	g.state.Duration = time.Duration(days) * 24 * time.Hour
	g.state.PauseCount++
	g.state.LastPauseDate = now.Format(dateLayout)

	g.logger.Info("hibernation started",
		zap.Int("days", days),
		zap.Int("pause_count", g.state.PauseCount))
	return Result{OK: true, Message: fmt.Sprintf("❄️ Pet entering cryo sleep for %s...", plural(days, "day"))}
}

// WakeUp ends hibernation. A manual wake before the scheduled end is
// refused unless the limits allow it. The returned duration is the time
// spent hibernating, to be excluded from the pet's age.
func (g *Gate) WakeUp(auto bool, now time.Time) (Result, time.Duration) {
	if !g.state.IsHibernating {
		return Result{Message: "Pet is not hibernating"}, 0
	}

	remaining := g.Remaining(now)
	if !auto && !g.limits.CanUnpauseAnytime && remaining > 0 {
		hours := int(math.Ceil(remaining.Hours()))
		return Result{Message: fmt.Sprintf("❌ Cannot unpause early. %s remaining", plural(hours, "hour"))}, 0
	}

	slept := now.Sub(g.state.StartTime)
	if slept < 0 {
		slept = 0
	}
	g.state.IsHibernating = false
	g.state.StartTime = time.Time{}
	g.state.Duration = 0

	g.logger.Info("hibernation ended",
		zap.Bool("auto", auto),
		zap.Duration("slept", slept))

	h, m := int(slept.Hours()), int(slept.Minutes())%60
	if auto {
		return Result{OK: true, Message: fmt.Sprintf("🌅 Pet woke up after %dh %dm", h, m)}, slept
	}
	return Result{OK: true, Message: fmt.Sprintf("🌅 Pet woke up early after %dh %dm", h, m)}, slept
}

// CheckAutoWake wakes the pet once the scheduled duration has passed. The
// wake is dated at the scheduled end, so the returned duration is exactly
// the scheduled one even when the check runs late.
func (g *Gate) CheckAutoWake(now time.Time) (Result, time.Duration, bool) {
	if !g.state.IsHibernating || g.Remaining(now) > 0 {
		return Result{}, 0, false
	}
	result, slept := g.WakeUp(true, g.state.StartTime.Add(g.state.Duration))
	return result, slept, true
}

// NeedsEmergencyWakeUp reports whether a hibernating pet's stats are critical
func (g *Gate) NeedsEmergencyWakeUp(v Vitals) bool {
	if !g.state.IsHibernating {
		return false
	}
	_, critical := v.critical()
	return critical
}

// Remaining returns the time left until the scheduled wake
func (g *Gate) Remaining(now time.Time) time.Duration {
	if !g.state.IsHibernating {
		return 0
	}
	return max(0, g.state.Duration-now.Sub(g.state.StartTime))
}

// RemainingFormatted renders the remaining time as "1d 2h 3m"
func (g *Gate) RemainingFormatted(now time.Time) string {
	remaining := g.Remaining(now)
	if remaining <= 0 {
		return "Waking up..."
	}
	days := int(remaining / (24 * time.Hour))
	hours := int(remaining.Hours()) % 24
	minutes := int(remaining.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// Encode serializes the gate state for storage
func (g *Gate) Encode() ([]byte, error) {
	w := wireState{
		IsHibernating:       g.state.IsHibernating,
		HibernationDuration: g.state.Duration.Milliseconds(),
		PauseCount:          g.state.PauseCount,
		LastPauseDate:       g.state.LastPauseDate,
	}
	if !g.state.StartTime.IsZero() {
		start := g.state.StartTime.UTC().Format(time.RFC3339Nano)
		w.HibernationStartTime = &start
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, oops.Code("HIBERNATION_ENCODE").In("hibernation").Wrapf(err, "encoding hibernation state")
	}
	return data, nil
}

// Restore loads persisted state and resets the daily pause count when the
// day has changed. A hibernating state without a start time is discarded.
func (g *Gate) Restore(data []byte, now time.Time) error {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return oops.Code("HIBERNATION_DECODE").In("hibernation").Wrapf(err, "decoding hibernation state")
	}

	state := State{
		IsHibernating: w.IsHibernating,
		Duration:      time.Duration(max(0, w.HibernationDuration)) * time.Millisecond,
		PauseCount:    max(0, w.PauseCount),
		LastPauseDate: w.LastPauseDate,
	}
	if w.HibernationStartTime != nil {
		start, err := time.Parse(time.RFC3339Nano, *w.HibernationStartTime)
		if err != nil {
			return oops.Code("HIBERNATION_DECODE").In("hibernation").Wrapf(err, "parsing hibernation start time")
		}
		state.StartTime = start
	}
	if state.IsHibernating && state.StartTime.IsZero() {
		g.logger.Warn("discarding hibernation state without a start time")
		state.IsHibernating = false
		state.Duration = 0
	}

	g.state = state
	g.rollDay(now)
	return nil
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
