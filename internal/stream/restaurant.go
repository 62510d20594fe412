package stream

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/sync/errgroup"

	"lunchbot/internal/domain"
)

const (
	eventInsert = "INSERT"
	eventModify = "MODIFY"
	eventRemove = "REMOVE"
)

// modifyAppendsRestaurant preserves the historical MODIFY handling: a
// modified restaurant is appended to the catalog sequence instead of being
// replaced by name, so repeated modifications leave duplicate entries.
// Replace-by-name is the likely intended semantics; the current consumers
// tolerate the duplicates, so the behavior is kept until they are audited.
const modifyAppendsRestaurant = true

// CatalogWriter is the catalog mutation surface the reactor needs.
type CatalogWriter interface {
	AppendRestaurant(ctx context.Context, record domain.RestaurantRecord) error
	RemoveRestaurant(ctx context.Context, officeLocation, cuisineType, name string) error
}

// RestaurantReactor consumes the restaurant table's change feed and keeps
// the catalog table's restaurant sequences and rating aggregates current.
type RestaurantReactor struct {
	catalog CatalogWriter
	log     *slog.Logger
}

func NewRestaurantReactor(catalog CatalogWriter, log *slog.Logger) (*RestaurantReactor, error) {
	if catalog == nil {
		return nil, errors.New("stream: catalog writer must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &RestaurantReactor{catalog: catalog, log: log}, nil
}

// Handle dispatches a change batch. All three event kinds run concurrently
// and every record is attempted regardless of other records' failures;
// insert and remove failures fail the batch, modify failures are logged
// only.
func (r *RestaurantReactor) Handle(ctx context.Context, event events.DynamoDBEvent) error {
	inserted := r.records(ctx, event, eventInsert)
	modified := r.records(ctx, event, eventModify)
	removed := r.records(ctx, event, eventRemove)

	g := new(errgroup.Group)
	g.Go(func() error { return r.addNewRestaurants(ctx, inserted) })
	g.Go(func() error {
		r.updateModifiedRestaurants(ctx, modified)
		return nil
	})
	g.Go(func() error { return r.removeRestaurants(ctx, removed) })
	return g.Wait()
}

// records collects the new images for one event kind, dropping records that
// do not conform to the restaurant row shape.
func (r *RestaurantReactor) records(ctx context.Context, event events.DynamoDBEvent, eventName string) []domain.RestaurantRecord {
	records := make([]domain.RestaurantRecord, 0, len(event.Records))
	for _, raw := range event.Records {
		if raw.EventName != eventName || raw.Change.NewImage == nil {
			continue
		}
		var record domain.RestaurantRecord
		if err := unmarshalImage(raw.Change.NewImage, &record); err != nil {
			r.log.WarnContext(ctx, "skipping malformed restaurant record", "eventName", eventName, "error", err)
			continue
		}
		if !record.Valid() {
			r.log.WarnContext(ctx, "skipping incomplete restaurant record", "eventName", eventName, "restaurant", record.Restaurant)
			continue
		}
		records = append(records, record)
	}
	return records
}

func (r *RestaurantReactor) addNewRestaurants(ctx context.Context, records []domain.RestaurantRecord) error {
	g := new(errgroup.Group)
	for _, record := range records {
		record := record
		g.Go(func() error {
			if err := r.catalog.AppendRestaurant(ctx, record); err != nil {
				r.log.ErrorContext(ctx, "failed to add restaurant to catalog", "restaurant", record.Restaurant, "error", err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// updateModifiedRestaurants applies the same append path as inserts (see
// modifyAppendsRestaurant). Failures here are deliberately swallowed.
func (r *RestaurantReactor) updateModifiedRestaurants(ctx context.Context, records []domain.RestaurantRecord) {
	if !modifyAppendsRestaurant {
		return
	}
	g := new(errgroup.Group)
	for _, record := range records {
		record := record
		g.Go(func() error {
			if err := r.catalog.AppendRestaurant(ctx, record); err != nil {
				r.log.ErrorContext(ctx, "failed to update modified restaurant", "restaurant", record.Restaurant, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (r *RestaurantReactor) removeRestaurants(ctx context.Context, records []domain.RestaurantRecord) error {
	g := new(errgroup.Group)
	for _, record := range records {
		record := record
		g.Go(func() error {
			err := r.catalog.RemoveRestaurant(ctx, record.OfficeLocation, record.CuisineType, record.Restaurant)
			if err != nil {
				r.log.ErrorContext(ctx, "failed to remove restaurant from catalog", "restaurant", record.Restaurant, "error", err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
