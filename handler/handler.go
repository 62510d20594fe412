package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"lunchbot/internal/domain"
	"lunchbot/internal/fulfillment"
)

// TurnProcessor is the use-case surface the handler drives.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, in fulfillment.TurnInput) (domain.DialogResult, error)
}

// Fulfillment adapts Lex V2 fulfillment events to the turn processor and
// shields the dialog from internal failures: every error becomes the fixed
// generic Close response and the invocation itself never fails.
type Fulfillment struct {
	processor TurnProcessor
	log       *slog.Logger
}

func NewFulfillment(processor TurnProcessor, log *slog.Logger) (*Fulfillment, error) {
	if processor == nil {
		return nil, errors.New("handler: processor must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fulfillment{processor: processor, log: log}, nil
}

func (f *Fulfillment) Handle(ctx context.Context, event domain.TurnEvent) (domain.DialogResult, error) {
	intent := event.SessionState.Intent
	log := f.log.With(
		"correlationId", uuid.NewString(),
		"sessionId", event.SessionID,
		"intent", intent.Name,
	)
	log.DebugContext(ctx, "received dialog turn", "transcript", event.InputTranscript)

	if intent.Slots == nil {
		log.ErrorContext(ctx, "missing slots in the input data")
		return fulfillment.CloseWithError(event.SessionState.SessionAttributes, intent), nil
	}

	result, err := f.processor.ProcessTurn(ctx, fulfillment.TurnInput{
		SessionID:         event.SessionID,
		Transcript:        event.InputTranscript,
		Slots:             intent.Slots,
		Intent:            intent,
		SessionAttributes: event.SessionState.SessionAttributes,
	})
	if err != nil {
		var ferr *fulfillment.Error
		if errors.As(err, &ferr) {
			log.ErrorContext(ctx, "failed to process dialog turn", "code", string(ferr.Code), "reason", ferr.Reason, "error", err)
		} else {
			log.ErrorContext(ctx, "failed to process dialog turn", "error", err)
		}
		return fulfillment.CloseWithError(event.SessionState.SessionAttributes, intent), nil
	}
	return result, nil
}
