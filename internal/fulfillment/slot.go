package fulfillment

import (
	"regexp"
	"strings"

	"lunchbot/internal/domain"
)

// SlotValue is a slot that passed validation: downstream code never
// re-examines the raw optional fields.
type SlotValue struct {
	Interpreted string
	Resolved    []string
}

// ParseSlot validates a raw Lex slot. A slot is actionable only when its
// interpreted value is non-empty and its resolved values are present (an
// empty list still counts as present); anything else is treated as absent.
func ParseSlot(raw *domain.RawSlot) (SlotValue, bool) {
	if raw == nil {
		return SlotValue{}, false
	}
	if raw.Value.ResolvedValues == nil {
		return SlotValue{}, false
	}
	if raw.Value.InterpretedValue == "" {
		return SlotValue{}, false
	}
	return SlotValue{
		Interpreted: raw.Value.InterpretedValue,
		Resolved:    raw.Value.ResolvedValues,
	}, true
}

// restaurantChosen matches the confirmation phrase the restaurant cards
// put into the transcript ("<name> was chosen").
var restaurantChosen = regexp.MustCompile(`(?i)([A-Za-z\s]+?)\s+was\s+chosen`)

// extractRestaurant pulls a restaurant name out of free text, returning ""
// when the transcript does not contain the confirmation phrase.
func extractRestaurant(transcript string) string {
	m := restaurantChosen.FindStringSubmatch(transcript)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
