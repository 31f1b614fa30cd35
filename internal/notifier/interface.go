package notifier

import (
	"context"

	"github.com/wqkoh/reitwatch/internal/report"
)

// Notifier delivers a finished report digest to one channel.
type Notifier interface {
	// Name returns the unique identifier for this notifier
	Name() string

	// Send delivers the digest for a completed run
	Send(ctx context.Context, rep *report.Report) error
}
