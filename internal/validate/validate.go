// Package validate checks user-supplied text before it reaches the pet or
// the relay.
package validate

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	MinNameLength = 2
	MaxNameLength = 50
)

var (
	angleBrackets = regexp.MustCompile(`[<>]`)
	scriptScheme  = regexp.MustCompile(`(?i)javascript:`)
	eventHandler  = regexp.MustCompile(`(?i)on\w+=`)
)

var denylist = []string{"fuck", "shit", "damn", "bitch", "ass", "crap"}

// Result is the outcome of a validation. Sanitized is populated even when
// the input is rejected so callers can echo it back.
type Result struct {
	Valid     bool
	Sanitized string
	Error     string
}

// Name validates and sanitizes a pet name
func Name(raw string) Result {
	name := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(name)

	switch {
	case length == 0:
		return Result{Error: "Pet name cannot be empty"}
	case length > MaxNameLength:
		return Result{Sanitized: string([]rune(name)[:MaxNameLength]), Error: "Pet name is too long (max 50 characters)"}
	case length < MinNameLength:
		return Result{Sanitized: name, Error: "Pet name is too short (min 2 characters)"}
	}

	sanitized := angleBrackets.ReplaceAllString(name, "")
	sanitized = scriptScheme.ReplaceAllString(sanitized, "")
	sanitized = eventHandler.ReplaceAllString(sanitized, "")
	sanitized = strings.TrimSpace(sanitized)

	if utf8.RuneCountInString(sanitized) < MinNameLength {
		return Result{Sanitized: sanitized, Error: "Pet name contains invalid characters"}
	}

	lower := strings.ToLower(sanitized)
	if lo.SomeBy(denylist, func(word string) bool { return strings.Contains(lower, word) }) {
		return Result{Sanitized: sanitized, Error: "Pet name contains inappropriate language"}
	}

	return Result{Valid: true, Sanitized: sanitized}
}

// ServerURL validates a relay address. Only websocket schemes are accepted.
func ServerURL(raw string) Result {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return Result{Error: "Server URL is required"}
	}
	if !strings.HasPrefix(addr, "ws://") && !strings.HasPrefix(addr, "wss://") {
		return Result{Sanitized: addr, Error: "Server URL must start with ws:// or wss://"}
	}
	u, err := url.Parse(addr)
	if err != nil || u.Host == "" {
		return Result{Sanitized: addr, Error: "Invalid server URL format"}
	}
	return Result{Valid: true, Sanitized: addr}
}
