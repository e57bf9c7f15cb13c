package stats

import (
	"context"
	"time"
)

type Outcome string

const (
	OutcomeConverted Outcome = "converted"
	OutcomeCached    Outcome = "cached"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// Event describes one conversion request.
type Event struct {
	ID              string        `bson:"_id"`
	SourceType      string        `bson:"source_type"`
	TargetFormat    string        `bson:"target_format"`
	HasResize       bool          `bson:"has_resize"`
	CompressionKind string        `bson:"compression_kind,omitempty"`
	InputBytes      int           `bson:"input_bytes"`
	OutputBytes     int           `bson:"output_bytes"`
	Duration        time.Duration `bson:"duration_ns"`
	Outcome         Outcome       `bson:"outcome"`
	Error           string        `bson:"error,omitempty"`
	CreatedAt       time.Time     `bson:"created_at"`
}

type Recorder interface {
	Record(ctx context.Context, event Event) error
}

type Noop struct{}

func (Noop) Record(context.Context, Event) error {
	return nil
}
