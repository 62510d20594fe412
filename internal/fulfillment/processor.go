package fulfillment

import (
	"context"
	"errors"
	"log/slog"

	"lunchbot/internal/domain"
	"lunchbot/internal/repository"
)

// StateStore is the session-state surface the processor needs.
type StateStore interface {
	StoreState(ctx context.Context, state domain.SessionState) (repository.StoreOutcome, error)
	GetState(ctx context.Context, sessionID, slot string) (domain.SessionState, error)
}

// CatalogReader is the lunch-options surface the processor needs.
type CatalogReader interface {
	CuisineTypesForOffice(ctx context.Context, officeLocation string) ([]string, error)
	RestaurantsForCuisine(ctx context.Context, officeLocation, cuisineType string) ([]domain.Restaurant, error)
}

// TurnInput is one inbound dialog turn.
type TurnInput struct {
	SessionID         string
	Transcript        string
	Slots             map[string]*domain.RawSlot
	Intent            domain.Intent
	SessionAttributes map[string]string
}

// Processor decides the next dialog action for a turn. It keeps no state of
// its own: the position in the flow is re-derived every turn from which
// slots arrive populated, and everything durable lives in the state store.
type Processor struct {
	state        StateStore
	catalog      CatalogReader
	cardImageURL string
	log          *slog.Logger
}

func NewProcessor(state StateStore, catalog CatalogReader, cardImageURL string, log *slog.Logger) (*Processor, error) {
	if state == nil {
		return nil, errors.New("fulfillment: state store must not be nil")
	}
	if catalog == nil {
		return nil, errors.New("fulfillment: catalog reader must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		state:        state,
		catalog:      catalog,
		cardImageURL: cardImageURL,
		log:          log,
	}, nil
}

// ProcessTurn walks the slot-filling flow: office location, then cuisine
// type, then restaurant choice. The first unfilled slot decides the action;
// a filled restaurant slot (or a typed confirmation in the transcript) ends
// the conversation.
func (p *Processor) ProcessTurn(ctx context.Context, in TurnInput) (domain.DialogResult, error) {
	office, ok := ParseSlot(in.Slots[domain.SlotOfficeLocation])
	if !ok {
		return domain.DialogResult{}, newError(ErrorMissingSlot, "office_location_missing", nil)
	}
	cuisine, cuisineOK := ParseSlot(in.Slots[domain.SlotCuisineType])

	if restaurant, ok := ParseSlot(in.Slots[domain.SlotRestaurants]); ok {
		return p.closeWithSelection(ctx, in, restaurant.Interpreted, map[string]string{
			"restaurant": restaurant.Interpreted,
		})
	}

	if name := extractRestaurant(in.Transcript); name != "" {
		slotValue := map[string]string{
			"restaurant":     name,
			"officeLocation": office.Interpreted,
		}
		if cuisineOK {
			slotValue["cuisineType"] = cuisine.Interpreted
		} else if stored := p.storedCuisineType(ctx, in.SessionID); stored != "" {
			slotValue["cuisineType"] = stored
		}
		return p.closeWithSelection(ctx, in, name, slotValue)
	}

	if cuisineOK {
		return p.elicitRestaurant(ctx, in, office.Interpreted, cuisine.Interpreted)
	}
	return p.elicitCuisineType(ctx, in, office.Interpreted)
}

// closeWithSelection records the chosen restaurant and ends the
// conversation with a confirmation. A pre-existing record for the session
// is left as-is.
func (p *Processor) closeWithSelection(ctx context.Context, in TurnInput, restaurant string, slotValue map[string]string) (domain.DialogResult, error) {
	outcome, err := p.state.StoreState(ctx, repository.NewSessionState(in.SessionID, domain.SlotRestaurants, slotValue))
	if err != nil {
		return domain.DialogResult{}, newError(ErrorStateStore, "store_restaurant", err)
	}
	if outcome == repository.StateAlreadyExists {
		p.log.DebugContext(ctx, "restaurant already recorded for session", "sessionId", in.SessionID)
	}
	return closeAction(in.SessionAttributes, in.Intent, selectionMessage(restaurant)), nil
}

// elicitRestaurant records the cuisine choice and asks for a restaurant,
// listing the ones known for the (office, cuisine) pair.
func (p *Processor) elicitRestaurant(ctx context.Context, in TurnInput, officeLocation, cuisineType string) (domain.DialogResult, error) {
	_, err := p.state.StoreState(ctx, repository.NewSessionState(in.SessionID, domain.SlotCuisineType, map[string]string{
		"cuisineType": cuisineType,
	}))
	if err != nil {
		return domain.DialogResult{}, newError(ErrorStateStore, "store_cuisine_type", err)
	}

	restaurants, err := p.catalog.RestaurantsForCuisine(ctx, officeLocation, cuisineType)
	if err != nil {
		return domain.DialogResult{}, newError(ErrorCatalogQuery, "restaurants_query", err)
	}
	p.log.DebugContext(ctx, "found restaurants", "officeLocation", officeLocation, "cuisineType", cuisineType, "count", len(restaurants))

	intent := in.Intent
	intent.State = domain.IntentStateInProgress
	return elicitSlot(domain.SlotRestaurants, in.SessionAttributes, intent, restaurantMessages(officeLocation, restaurants)), nil
}

// elicitCuisineType records the office location and asks for a cuisine. An
// office with no catalog rows is a dead end and closes the conversation
// without messages.
func (p *Processor) elicitCuisineType(ctx context.Context, in TurnInput, officeLocation string) (domain.DialogResult, error) {
	_, err := p.state.StoreState(ctx, repository.NewSessionState(in.SessionID, domain.SlotOfficeLocation, map[string]string{
		"officeLocation": officeLocation,
	}))
	if err != nil {
		return domain.DialogResult{}, newError(ErrorStateStore, "store_office_location", err)
	}

	cuisineTypes, err := p.catalog.CuisineTypesForOffice(ctx, officeLocation)
	if err != nil {
		return domain.DialogResult{}, newError(ErrorCatalogQuery, "cuisine_types_query", err)
	}
	p.log.DebugContext(ctx, "found cuisine types", "officeLocation", officeLocation, "cuisineTypes", cuisineTypes)

	if len(cuisineTypes) == 0 {
		return closeAction(in.SessionAttributes, in.Intent, []domain.Message{}), nil
	}
	return elicitSlot(domain.SlotCuisineType, in.SessionAttributes, in.Intent,
		cuisineTypeMessages(officeLocation, cuisineTypes, p.cardImageURL)), nil
}

// storedCuisineType recovers the cuisine recorded earlier in the session,
// for turns where the restaurant arrives by transcript without a CuisineType
// slot. Best-effort: any miss or failure yields "".
func (p *Processor) storedCuisineType(ctx context.Context, sessionID string) string {
	state, err := p.state.GetState(ctx, sessionID, domain.SlotCuisineType)
	if err != nil {
		if !errors.Is(err, repository.ErrStateNotFound) {
			p.log.WarnContext(ctx, "failed to read stored cuisine type", "sessionId", sessionID, "error", err)
		}
		return ""
	}
	return state.SlotValue["cuisineType"]
}
