package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"lunchbot/internal/domain"
)

// gsiOfficeCuisine is the secondary index serving the "cuisine types at
// office" enumeration.
const gsiOfficeCuisine = "GSI_OfficeLocation_CuisineType"

// ErrEntryNotFound is returned when a catalog row (or its restaurant
// sequence) does not exist for an operation that requires it.
var ErrEntryNotFound = errors.New("repository: catalog entry not found")

// CatalogReader defines the catalog queries consumed by the fulfillment
// processor.
type CatalogReader interface {
	CuisineTypesForOffice(ctx context.Context, officeLocation string) ([]string, error)
	RestaurantsForCuisine(ctx context.Context, officeLocation, cuisineType string) ([]domain.Restaurant, error)
}

// CatalogClient wraps the DynamoDB lunch-options table.
type CatalogClient struct {
	api       dynamodbAPI
	tableName string
}

// NewCatalogClient creates a CatalogClient for the given table.
func NewCatalogClient(api dynamodbAPI, tableName string) (*CatalogClient, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &CatalogClient{api: api, tableName: tableName}, nil
}

// CuisineTypesForOffice enumerates the cuisine types available at an office
// via the secondary index. No matching rows is an empty result, not an
// error.
func (c *CatalogClient) CuisineTypesForOffice(ctx context.Context, officeLocation string) ([]string, error) {
	out, err := c.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		IndexName:              aws.String(gsiOfficeCuisine),
		KeyConditionExpression: aws.String("officeLocation = :officeLocation"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":officeLocation": &types.AttributeValueMemberS{Value: officeLocation},
		},
		ProjectionExpression: aws.String("cuisineType"),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: Unable to find given lunch types: %w", err)
	}

	cuisineTypes := make([]string, 0, len(out.Items))
	for _, item := range out.Items {
		cuisineType, err := strAttr(item, "cuisineType")
		if err != nil {
			return nil, fmt.Errorf("repository: Unable to find given lunch types: %w", err)
		}
		cuisineTypes = append(cuisineTypes, cuisineType)
	}
	return cuisineTypes, nil
}

// RestaurantsForCuisine returns the restaurant sequence of the catalog row
// for (officeLocation, cuisineType), or an empty slice if no row exists.
func (c *CatalogClient) RestaurantsForCuisine(ctx context.Context, officeLocation, cuisineType string) ([]domain.Restaurant, error) {
	entry, err := c.GetEntry(ctx, officeLocation, cuisineType)
	if errors.Is(err, ErrEntryNotFound) {
		return []domain.Restaurant{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: Unable to find given lunch types: %w", err)
	}
	if entry.Restaurants == nil {
		return []domain.Restaurant{}, nil
	}
	return entry.Restaurants, nil
}

// GetEntry reads one catalog row, returning ErrEntryNotFound when it does
// not exist.
func (c *CatalogClient) GetEntry(ctx context.Context, officeLocation, cuisineType string) (domain.CatalogEntry, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key:       catalogKey(officeLocation, cuisineType),
	})
	if err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("repository: GetEntry: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.CatalogEntry{}, ErrEntryNotFound
	}

	var entry domain.CatalogEntry
	if err := attributevalue.UnmarshalMap(out.Item, &entry); err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("repository: GetEntry unmarshal: %w", err)
	}
	return entry, nil
}

// AppendRestaurant appends a restaurant to the catalog row's sequence,
// creating an empty sequence first if the row or attribute is absent. When
// the record is rated the visit and rating aggregates are folded into the
// same write: totalVisits grows by the record's visit count (one when
// unspecified), totalRating by its rating, and averageRating is recomputed
// from the new totals. The write is guarded by a condition on the previous
// totals so a concurrent aggregate update cannot produce a stale average.
func (c *CatalogClient) AppendRestaurant(ctx context.Context, record domain.RestaurantRecord) error {
	if !record.Valid() {
		return errors.New("repository: AppendRestaurant: missing needed parameters")
	}

	appended, err := attributevalue.Marshal([]domain.Restaurant{{
		Name:   record.Restaurant,
		Rating: record.Rating,
		Visits: record.Visits,
	}})
	if err != nil {
		return fmt.Errorf("repository: AppendRestaurant marshal: %w", err)
	}

	in := &dynamodb.UpdateItemInput{
		TableName: aws.String(c.tableName),
		Key:       catalogKey(record.OfficeLocation, record.CuisineType),
		UpdateExpression: aws.String(
			"SET #restaurants = list_append(if_not_exists(#restaurants, :emptyList), :restaurants)"),
		ExpressionAttributeNames: map[string]string{
			"#restaurants": "restaurants",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":restaurants": appended,
			":emptyList":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		},
	}

	if record.Rated() {
		entry, err := c.GetEntry(ctx, record.OfficeLocation, record.CuisineType)
		if err != nil && !errors.Is(err, ErrEntryNotFound) {
			return fmt.Errorf("repository: AppendRestaurant read totals: %w", err)
		}

		visits := record.Visits
		if visits == 0 {
			visits = 1
		}
		totalVisits := entry.TotalVisits + visits
		totalRating := entry.TotalRating + record.Rating

		in.UpdateExpression = aws.String(
			"SET #restaurants = list_append(if_not_exists(#restaurants, :emptyList), :restaurants), " +
				"#totalVisits = :totalVisits, #totalRating = :totalRating, #averageRating = :averageRating")
		in.ExpressionAttributeNames["#totalVisits"] = "totalVisits"
		in.ExpressionAttributeNames["#totalRating"] = "totalRating"
		in.ExpressionAttributeNames["#averageRating"] = "averageRating"
		in.ExpressionAttributeValues[":totalVisits"] = numberAttr(float64(totalVisits))
		in.ExpressionAttributeValues[":totalRating"] = numberAttr(totalRating)
		in.ExpressionAttributeValues[":averageRating"] = numberAttr(totalRating / float64(totalVisits))

		if entry.TotalVisits == 0 && entry.TotalRating == 0 {
			in.ConditionExpression = aws.String("attribute_not_exists(#totalVisits)")
		} else {
			in.ConditionExpression = aws.String("#totalVisits = :prevVisits")
			in.ExpressionAttributeValues[":prevVisits"] = numberAttr(float64(entry.TotalVisits))
		}
	}

	if _, err := c.api.UpdateItem(ctx, in); err != nil {
		return fmt.Errorf("repository: AppendRestaurant: %w", err)
	}
	return nil
}

// RemoveRestaurant rewrites the catalog row's sequence without the named
// restaurant. It fails with ErrEntryNotFound when the row does not exist or
// carries no restaurants.
func (c *CatalogClient) RemoveRestaurant(ctx context.Context, officeLocation, cuisineType, name string) error {
	if officeLocation == "" || cuisineType == "" || name == "" {
		return errors.New("repository: RemoveRestaurant: missing needed parameters")
	}

	entry, err := c.GetEntry(ctx, officeLocation, cuisineType)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return fmt.Errorf("repository: RemoveRestaurant: no restaurants for office and cuisine: %w", err)
		}
		return fmt.Errorf("repository: RemoveRestaurant: %w", err)
	}
	if len(entry.Restaurants) == 0 {
		return fmt.Errorf("repository: RemoveRestaurant: no restaurants for office and cuisine: %w", ErrEntryNotFound)
	}

	remaining := make([]domain.Restaurant, 0, len(entry.Restaurants))
	for _, r := range entry.Restaurants {
		if r.Name != name {
			remaining = append(remaining, r)
		}
	}

	restaurants, err := attributevalue.Marshal(remaining)
	if err != nil {
		return fmt.Errorf("repository: RemoveRestaurant marshal: %w", err)
	}

	_, err = c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(c.tableName),
		Key:              catalogKey(officeLocation, cuisineType),
		UpdateExpression: aws.String("SET #restaurants = :restaurants"),
		ExpressionAttributeNames: map[string]string{
			"#restaurants": "restaurants",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":restaurants": restaurants,
		},
	})
	if err != nil {
		return fmt.Errorf("repository: RemoveRestaurant: %w", err)
	}
	return nil
}

func catalogKey(officeLocation, cuisineType string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"officeLocation": &types.AttributeValueMemberS{Value: officeLocation},
		"cuisineType":    &types.AttributeValueMemberS{Value: cuisineType},
	}
}

func numberAttr(v float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'f', -1, 64)}
}
