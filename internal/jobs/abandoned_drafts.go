// Package jobs holds the background workers that run alongside the web
// server.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/voxcraft3d/voxcraft/storage"
)

const (
	// AbandonmentThreshold is the idle time after which an in-progress
	// quote draft is considered abandoned
	AbandonmentThreshold = 24 * time.Hour

	// DetectionInterval is how often we sweep for abandoned drafts
	DetectionInterval = 1 * time.Hour
)

// AbandonedDraftDetector periodically marks stale in-progress quote drafts
// as abandoned so the owner's dashboard can follow up on them.
type AbandonedDraftDetector struct {
	storage *storage.Storage
	ticker  *time.Ticker
	done    chan bool
}

func NewAbandonedDraftDetector(storage *storage.Storage) *AbandonedDraftDetector {
	return &AbandonedDraftDetector{
		storage: storage,
		done:    make(chan bool),
	}
}

// Start begins the abandoned draft detection background job
func (d *AbandonedDraftDetector) Start(ctx context.Context) {
	slog.Info("starting abandoned draft detector", "interval", DetectionInterval, "threshold", AbandonmentThreshold)

	// Run immediately on start
	d.detectAbandonedDrafts(ctx)

	// Then run on interval
	d.ticker = time.NewTicker(DetectionInterval)

	go func() {
		for {
			select {
			case <-d.ticker.C:
				d.detectAbandonedDrafts(ctx)
			case <-d.done:
				slog.Info("abandoned draft detector stopped")
				return
			}
		}
	}()
}

// Stop stops the background job
func (d *AbandonedDraftDetector) Stop() {
	if d.ticker != nil {
		d.ticker.Stop()
	}
	close(d.done)
}

func (d *AbandonedDraftDetector) detectAbandonedDrafts(ctx context.Context) {
	slog.Debug("running abandoned draft detection")

	cutoff := time.Now().Add(-AbandonmentThreshold)
	marked, err := d.storage.Queries.MarkAbandonedQuoteDrafts(ctx, cutoff)
	if err != nil {
		slog.Error("failed to mark abandoned drafts", "error", err)
		return
	}
	if marked > 0 {
		slog.Info("marked quote drafts as abandoned", "count", marked, "cutoff", cutoff)
	}
}
