package fulfillment

import (
	"fmt"

	"lunchbot/internal/domain"
)

const (
	cuisineCardTitle       = "Available Cuisines"
	selectRestaurantButton = "Select this restaurant"
	genericErrorMessage    = "An error occurred while processing your request."
)

// CloseWithError is the fixed user-facing response for any failure: a Close
// action with a generic apology. Internal detail never reaches the
// transcript.
func CloseWithError(sessionAttributes map[string]string, intent domain.Intent) domain.DialogResult {
	return newResult(domain.ActionClose, sessionAttributes, intent, []domain.Message{{
		ContentType: domain.ContentPlainText,
		Content:     genericErrorMessage,
	}})
}

func closeAction(sessionAttributes map[string]string, intent domain.Intent, messages []domain.Message) domain.DialogResult {
	return newResult(domain.ActionClose, sessionAttributes, intent, messages)
}

func elicitSlot(slotToElicit string, sessionAttributes map[string]string, intent domain.Intent, messages []domain.Message) domain.DialogResult {
	result := newResult(domain.ActionElicitSlot, sessionAttributes, intent, messages)
	result.SessionState.DialogAction.SlotToElicit = slotToElicit
	result.SessionState.DialogAction.SlotElicitationStyle = "Default"
	return result
}

func newResult(actionType string, sessionAttributes map[string]string, intent domain.Intent, messages []domain.Message) domain.DialogResult {
	attrs := make(map[string]string, len(sessionAttributes))
	for k, v := range sessionAttributes {
		attrs[k] = v
	}
	return domain.DialogResult{
		SessionState: domain.SessionTurn{
			Intent:            intent,
			SessionAttributes: attrs,
			DialogAction:      &domain.DialogAction{Type: actionType},
		},
		Messages: messages,
	}
}

// cuisineTypeMessages builds the cuisine selection card, or a plain-text
// notice when the office has no lunch places at all.
func cuisineTypeMessages(officeLocation string, cuisineTypes []string, imageURL string) []domain.Message {
	if len(cuisineTypes) == 0 {
		return []domain.Message{{
			ContentType: domain.ContentPlainText,
			Content:     fmt.Sprintf("no lunch places found for %s", officeLocation),
		}}
	}

	buttons := make([]domain.Button, 0, len(cuisineTypes))
	for _, cuisineType := range cuisineTypes {
		buttons = append(buttons, domain.Button{Text: cuisineType, Value: cuisineType})
	}
	return []domain.Message{{
		ContentType: domain.ContentImageResponseCard,
		ImageResponseCard: &domain.ImageResponseCard{
			Title:    cuisineCardTitle,
			ImageURL: imageURL,
			Buttons:  buttons,
		},
	}}
}

// restaurantMessages builds one card per known restaurant. Selecting a card
// feeds the "<name> was chosen" phrase back through the transcript, which
// the next turn's extraction picks up.
func restaurantMessages(officeLocation string, restaurants []domain.Restaurant) []domain.Message {
	if len(restaurants) == 0 {
		return []domain.Message{{
			ContentType: domain.ContentPlainText,
			Content:     fmt.Sprintf("no restaurants found for %s", officeLocation),
		}}
	}

	messages := make([]domain.Message, 0, len(restaurants))
	for _, r := range restaurants {
		messages = append(messages, domain.Message{
			ContentType: domain.ContentImageResponseCard,
			ImageResponseCard: &domain.ImageResponseCard{
				Title:    r.Name,
				Subtitle: fmt.Sprintf("Rating: %g/5 | Visits: %d", r.Rating, r.Visits),
				Buttons: []domain.Button{{
					Text:  selectRestaurantButton,
					Value: fmt.Sprintf("%s was chosen", r.Name),
				}},
			},
		})
	}
	return messages
}

func selectionMessage(restaurant string) []domain.Message {
	return []domain.Message{{
		ContentType: domain.ContentPlainText,
		Content:     fmt.Sprintf("You selected the restaurant: %s. Enjoy your meal!", restaurant),
	}}
}
