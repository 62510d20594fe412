package stream

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aws/aws-lambda-go/events"

	"lunchbot/internal/domain"
)

// VisitRecorder is the restaurant-table surface the reactor needs.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, restaurant, officeLocation, cuisineType string) error
}

// LunchReactor consumes the session-state table's change feed and bumps a
// restaurant's visit counter whenever a session records its final choice.
// The whole path is best-effort: failures are logged and never propagate.
type LunchReactor struct {
	visits VisitRecorder
	log    *slog.Logger
}

func NewLunchReactor(visits VisitRecorder, log *slog.Logger) (*LunchReactor, error) {
	if visits == nil {
		return nil, errors.New("stream: visit recorder must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &LunchReactor{visits: visits, log: log}, nil
}

func (r *LunchReactor) Handle(ctx context.Context, event events.DynamoDBEvent) error {
	chosen := make([]domain.StateRecord, 0, len(event.Records))
	for _, raw := range event.Records {
		if raw.Change.NewImage == nil {
			continue
		}
		var record domain.StateRecord
		if err := unmarshalImage(raw.Change.NewImage, &record); err != nil {
			r.log.WarnContext(ctx, "skipping malformed state record", "error", err)
			continue
		}
		if record.Slot != domain.SlotRestaurants {
			continue
		}
		chosen = append(chosen, record)
	}

	var wg sync.WaitGroup
	for _, record := range chosen {
		record := record
		wg.Add(1)
		go func() {
			defer wg.Done()
			restaurant := record.SlotValue["restaurant"]
			if restaurant == "" {
				r.log.ErrorContext(ctx, "restaurant not found in state record", "sessionId", record.SessionID)
				return
			}
			err := r.visits.RecordVisit(ctx, restaurant, record.SlotValue["officeLocation"], record.SlotValue["cuisineType"])
			if err != nil {
				r.log.ErrorContext(ctx, "failed to record visit", "restaurant", restaurant, "error", err)
			}
		}()
	}
	wg.Wait()
	return nil
}
