package stream

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"lunchbot/internal/domain"
)

type fakeVisitRecorder struct {
	mu     sync.Mutex
	visits []string
	err    error
}

func (f *fakeVisitRecorder) RecordVisit(_ context.Context, restaurant, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.visits = append(f.visits, restaurant)
	return nil
}

func stateImage(sessionID, slot string, slotValue map[string]string) map[string]events.DynamoDBAttributeValue {
	values := make(map[string]events.DynamoDBAttributeValue, len(slotValue))
	for k, v := range slotValue {
		values[k] = events.NewStringAttribute(v)
	}
	return map[string]events.DynamoDBAttributeValue{
		"id":        events.NewStringAttribute(sessionID),
		"slot":      events.NewStringAttribute(slot),
		"slotValue": events.NewMapAttribute(values),
		"expireAt":  events.NewNumberAttribute("1700000000"),
	}
}

func mustLunchReactor(t *testing.T, visits *fakeVisitRecorder) *LunchReactor {
	t.Helper()
	r, err := NewLunchReactor(visits, nil)
	require.NoError(t, err)
	return r
}

func TestLunchReactor_RecordsVisitForChosenRestaurant(t *testing.T) {
	visits := &fakeVisitRecorder{}
	r := mustLunchReactor(t, visits)

	err := r.Handle(context.Background(), streamEvent(
		record(eventInsert, stateImage("sess-1", domain.SlotRestaurants, map[string]string{
			"restaurant":     "Thai Place",
			"officeLocation": "Kamppi",
			"cuisineType":    "Thai",
		})),
	))
	require.NoError(t, err)
	require.Equal(t, []string{"Thai Place"}, visits.visits)
}

func TestLunchReactor_IgnoresOtherSlots(t *testing.T) {
	visits := &fakeVisitRecorder{}
	r := mustLunchReactor(t, visits)

	err := r.Handle(context.Background(), streamEvent(
		record(eventInsert, stateImage("sess-1", domain.SlotOfficeLocation, map[string]string{
			"officeLocation": "Kamppi",
		})),
		record(eventInsert, stateImage("sess-1", domain.SlotCuisineType, map[string]string{
			"cuisineType": "Thai",
		})),
	))
	require.NoError(t, err)
	require.Empty(t, visits.visits)
}

func TestLunchReactor_MissingRestaurantValueIsSkipped(t *testing.T) {
	visits := &fakeVisitRecorder{}
	r := mustLunchReactor(t, visits)

	err := r.Handle(context.Background(), streamEvent(
		record(eventInsert, stateImage("sess-1", domain.SlotRestaurants, map[string]string{
			"officeLocation": "Kamppi",
		})),
	))
	require.NoError(t, err)
	require.Empty(t, visits.visits)
}

func TestLunchReactor_FailuresNeverPropagate(t *testing.T) {
	visits := &fakeVisitRecorder{err: errors.New("throttled")}
	r := mustLunchReactor(t, visits)

	err := r.Handle(context.Background(), streamEvent(
		record(eventInsert, stateImage("sess-1", domain.SlotRestaurants, map[string]string{
			"restaurant": "Thai Place",
		})),
	))
	require.NoError(t, err)
}

func TestLunchReactor_RecordsAllChosenInBatch(t *testing.T) {
	visits := &fakeVisitRecorder{}
	r := mustLunchReactor(t, visits)

	err := r.Handle(context.Background(), streamEvent(
		record(eventInsert, stateImage("sess-1", domain.SlotRestaurants, map[string]string{"restaurant": "Thai Place"})),
		record(eventInsert, stateImage("sess-2", domain.SlotRestaurants, map[string]string{"restaurant": "Bangkok Garden"})),
	))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Thai Place", "Bangkok Garden"}, visits.visits)
}
