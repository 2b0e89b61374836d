// Package tracking emits decision events for offline analysis. Recording
// is fire-and-forget: the evaluation path never blocks on a sink.
package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stevecallear/feta/internal/engine"
)

// Event is one recorded decision.
type Event struct {
	ID        uuid.UUID     `json:"id"`
	Feature   string        `json:"feature"`
	UserKey   string        `json:"user_key"`
	Variant   string        `json:"variant"`
	Reason    engine.Reason `json:"reason"`
	Value     engine.Value  `json:"value"`
	Audience  string        `json:"audience,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewEvent builds an event from a decision.
func NewEvent(feature string, ctx *engine.Context, d engine.Decision) Event {
	return Event{
		ID:        uuid.New(),
		Feature:   feature,
		UserKey:   ctx.UserKey,
		Variant:   d.Variant,
		Reason:    d.Reason,
		Value:     d.Value,
		Audience:  d.Audience,
		Timestamp: time.Now().UTC(),
	}
}

// Sink receives recorded events.
type Sink interface {
	Record(e Event)
}

// LogSink writes events to the structured log.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink returns a sink that logs each event at info level.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record logs the event.
func (s *LogSink) Record(e Event) {
	s.logger.Info().
		Str("event_id", e.ID.String()).
		Str("feature", e.Feature).
		Str("user_key", e.UserKey).
		Str("variant", e.Variant).
		Stringer("reason", e.Reason).
		Str("value", e.Value.String()).
		Str("audience", e.Audience).
		Msg("decision")
}
