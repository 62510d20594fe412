package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// VisitsClient wraps the per-restaurant table whose visit counters the
// state change reactor maintains.
type VisitsClient struct {
	api       dynamodbAPI
	tableName string
}

// NewVisitsClient creates a VisitsClient for the given table.
func NewVisitsClient(api dynamodbAPI, tableName string) (*VisitsClient, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &VisitsClient{api: api, tableName: tableName}, nil
}

// RecordVisit increments the restaurant's visit counter by one and records
// the cuisine it was chosen for.
func (c *VisitsClient) RecordVisit(ctx context.Context, restaurant, officeLocation, cuisineType string) error {
	if restaurant == "" {
		return errors.New("repository: RecordVisit: restaurant is required")
	}

	_, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"restaurant":     &types.AttributeValueMemberS{Value: restaurant},
			"officeLocation": &types.AttributeValueMemberS{Value: officeLocation},
		},
		UpdateExpression: aws.String("SET #cuisineType = :cuisineType ADD #visits :inc"),
		ExpressionAttributeNames: map[string]string{
			"#cuisineType": "cuisineType",
			"#visits":      "visits",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cuisineType": &types.AttributeValueMemberS{Value: cuisineType},
			":inc":         &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: RecordVisit: %w", err)
	}
	return nil
}
