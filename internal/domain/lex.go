package domain

// Lex V2 wire types for the fulfillment Lambda. aws-lambda-go ships only the
// V1 event shapes, so the V2 contract is declared here with JSON tags
// matching the runtime event exactly.

// Slot names collected by the SuggestLunch intent.
const (
	SlotOfficeLocation      = "OfficeLocation"
	SlotCuisineType         = "CuisineType"
	SlotDietaryRestrictions = "DietaryRestrictions"
	SlotBudget              = "Budget"
	SlotRestaurants         = "Restaurants"
)

// Dialog action types returned to Lex.
const (
	ActionDelegate   = "Delegate"
	ActionElicitSlot = "ElicitSlot"
	ActionClose      = "Close"
)

// Message content types.
const (
	ContentPlainText         = "PlainText"
	ContentImageResponseCard = "ImageResponseCard"
)

// IntentStateInProgress marks an intent that still has slots to fill.
const IntentStateInProgress = "InProgress"

// TurnEvent is the inbound Lex V2 fulfillment event.
type TurnEvent struct {
	SessionID       string       `json:"sessionId"`
	InputTranscript string       `json:"inputTranscript"`
	SessionState    SessionTurn  `json:"sessionState"`
	Bot             BotReference `json:"bot"`
}

// SessionTurn is the sessionState block shared by events and results.
type SessionTurn struct {
	Intent            Intent            `json:"intent"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
	DialogAction      *DialogAction     `json:"dialogAction,omitempty"`
}

// BotReference identifies the bot that produced the event.
type BotReference struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Intent carries the active intent, its slots, and its fulfillment state.
type Intent struct {
	Name  string              `json:"name"`
	Slots map[string]*RawSlot `json:"slots"`
	State string              `json:"state,omitempty"`
}

// RawSlot is a slot value exactly as Lex delivers it: structurally present
// but not yet validated. ParseSlot in the fulfillment package is the only
// sanctioned way to turn one into a usable value.
type RawSlot struct {
	Value RawSlotValue `json:"value"`
}

// RawSlotValue mirrors the Lex V2 scalar slot value shape.
type RawSlotValue struct {
	OriginalValue    string   `json:"originalValue,omitempty"`
	InterpretedValue string   `json:"interpretedValue,omitempty"`
	ResolvedValues   []string `json:"resolvedValues"`
}

// DialogAction tells Lex what to do next.
type DialogAction struct {
	Type                 string `json:"type"`
	SlotToElicit         string `json:"slotToElicit,omitempty"`
	SlotElicitationStyle string `json:"slotElicitationStyle,omitempty"`
}

// DialogResult is the outbound fulfillment response.
type DialogResult struct {
	SessionState SessionTurn `json:"sessionState"`
	Messages     []Message   `json:"messages,omitempty"`
}

// Message is one response message, either plain text or a response card.
type Message struct {
	ContentType       string             `json:"contentType"`
	Content           string             `json:"content,omitempty"`
	ImageResponseCard *ImageResponseCard `json:"imageResponseCard,omitempty"`
}

// ImageResponseCard renders a titled card with selectable buttons.
type ImageResponseCard struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Button is one selectable option on a response card.
type Button struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}
