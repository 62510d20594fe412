package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"lunchbot/internal/domain"
)

// stateTTL is how long a session's slot records live before the table's
// expiry mechanism removes them.
const stateTTL = 7 * 24 * time.Hour

// ErrStateNotFound is returned by GetState when no row exists for the
// (session, slot) pair.
var ErrStateNotFound = errors.New("repository: session state not found")

// StoreOutcome describes the result of a StoreState call.
type StoreOutcome int

const (
	// StateStored means a new row was created.
	StateStored StoreOutcome = iota
	// StateAlreadyExists means a row for the (session, slot) pair already
	// existed and nothing was written. Not an error: first write wins.
	StateAlreadyExists
)

// StateWriter defines the session-state operations consumed by the
// fulfillment processor.
type StateWriter interface {
	StoreState(ctx context.Context, state domain.SessionState) (StoreOutcome, error)
	GetState(ctx context.Context, sessionID, slot string) (domain.SessionState, error)
}

// StateClient wraps the DynamoDB session-state table.
type StateClient struct {
	api       dynamodbAPI
	tableName string
}

// NewStateClient creates a StateClient for the given table.
func NewStateClient(api dynamodbAPI, tableName string) (*StateClient, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &StateClient{api: api, tableName: tableName}, nil
}

// NewSessionState constructs a SessionState expiring stateTTL from now.
func NewSessionState(sessionID, slot string, slotValue map[string]string) domain.SessionState {
	return domain.SessionState{
		SessionID: sessionID,
		Slot:      slot,
		SlotValue: slotValue,
		ExpireAt:  time.Now().Add(stateTTL).Unix(),
	}
}

// StoreState inserts the row for (SessionID, Slot) if it does not already
// exist. A conditional-check failure maps to StateAlreadyExists; any other
// failure is returned as an error.
func (c *StateClient) StoreState(ctx context.Context, state domain.SessionState) (StoreOutcome, error) {
	if state.SessionID == "" || state.Slot == "" {
		return 0, errors.New("repository: StoreState: session id and slot are required")
	}

	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                stateItem(state),
		ConditionExpression: aws.String("attribute_not_exists(id) AND attribute_not_exists(slot)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return StateAlreadyExists, nil
		}
		return 0, fmt.Errorf("repository: StoreState: %w", err)
	}
	return StateStored, nil
}

// GetState reads the row for (sessionID, slot), returning ErrStateNotFound
// when it does not exist.
func (c *StateClient) GetState(ctx context.Context, sessionID, slot string) (domain.SessionState, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"id":   &types.AttributeValueMemberS{Value: sessionID},
			"slot": &types.AttributeValueMemberS{Value: slot},
		},
	})
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("repository: GetState: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.SessionState{}, ErrStateNotFound
	}
	return itemToState(out.Item)
}

func stateItem(state domain.SessionState) map[string]types.AttributeValue {
	slotValue := make(map[string]types.AttributeValue, len(state.SlotValue))
	for k, v := range state.SlotValue {
		slotValue[k] = &types.AttributeValueMemberS{Value: v}
	}
	return map[string]types.AttributeValue{
		"id":        &types.AttributeValueMemberS{Value: state.SessionID},
		"slot":      &types.AttributeValueMemberS{Value: state.Slot},
		"slotValue": &types.AttributeValueMemberM{Value: slotValue},
		"expireAt":  &types.AttributeValueMemberN{Value: strconv.FormatInt(state.ExpireAt, 10)},
	}
}

func itemToState(item map[string]types.AttributeValue) (domain.SessionState, error) {
	id, err := strAttr(item, "id")
	if err != nil {
		return domain.SessionState{}, err
	}
	slot, err := strAttr(item, "slot")
	if err != nil {
		return domain.SessionState{}, err
	}

	state := domain.SessionState{SessionID: id, Slot: slot}
	if raw, ok := item["slotValue"].(*types.AttributeValueMemberM); ok {
		state.SlotValue = make(map[string]string, len(raw.Value))
		for k, v := range raw.Value {
			if s, ok := v.(*types.AttributeValueMemberS); ok {
				state.SlotValue[k] = s.Value
			}
		}
	}
	if raw, ok := item["expireAt"].(*types.AttributeValueMemberN); ok {
		expireAt, err := strconv.ParseInt(raw.Value, 10, 64)
		if err != nil {
			return domain.SessionState{}, fmt.Errorf("repository: parse attribute %q: %w", "expireAt", err)
		}
		state.ExpireAt = expireAt
	}
	return state, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
