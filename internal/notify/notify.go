// Package notify carries player-facing messages from the game to whatever
// front end is attached.
package notify

import (
	"go.uber.org/zap"

	"vpet/internal/logger"
)

// Kind classifies a notification for styling
type Kind string

const (
	Success Kind = "success"
	Warning Kind = "warning"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Sink receives player-facing notifications
type Sink interface {
	Notify(message string, kind Kind)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(message string, kind Kind)

func (f SinkFunc) Notify(message string, kind Kind) { f(message, kind) }

// Nop discards every notification
var Nop Sink = SinkFunc(func(string, Kind) {})

// LogSink writes notifications to a zap logger. Used when no UI is attached.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a sink that logs through log
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{logger: logger.WithComponent(log, "notify")}
}

func (s *LogSink) Notify(message string, kind Kind) {
	fields := []zap.Field{zap.String("kind", string(kind))}
	switch kind {
	case Error:
		s.logger.Error(message, fields...)
	case Warning:
		s.logger.Warn(message, fields...)
	default:
		s.logger.Info(message, fields...)
	}
}

// Recorder keeps notifications in memory. Tests assert against it.
type Recorder struct {
	Messages []Message
}

// Message is one recorded notification
type Message struct {
	Text string
	Kind Kind
}

func (r *Recorder) Notify(message string, kind Kind) {
	r.Messages = append(r.Messages, Message{Text: message, Kind: kind})
}

// Last returns the most recent message, or the zero Message
func (r *Recorder) Last() Message {
	if len(r.Messages) == 0 {
		return Message{}
	}
	return r.Messages[len(r.Messages)-1]
}
