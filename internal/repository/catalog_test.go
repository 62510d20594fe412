package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"lunchbot/internal/domain"
)

func mustCatalogClient(t *testing.T, db *fakeDynamo) *CatalogClient {
	t.Helper()
	c, err := NewCatalogClient(db, "lunch-table")
	require.NoError(t, err)
	return c
}

func catalogItem(officeLocation, cuisineType string, restaurants []types.AttributeValue, totals map[string]string) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"officeLocation": &types.AttributeValueMemberS{Value: officeLocation},
		"cuisineType":    &types.AttributeValueMemberS{Value: cuisineType},
	}
	if restaurants != nil {
		item["restaurants"] = &types.AttributeValueMemberL{Value: restaurants}
	}
	for k, v := range totals {
		item[k] = &types.AttributeValueMemberN{Value: v}
	}
	return item
}

func restaurantAttr(name string, rating string, visits string) types.AttributeValue {
	m := map[string]types.AttributeValue{
		"name": &types.AttributeValueMemberS{Value: name},
	}
	if rating != "" {
		m["rating"] = &types.AttributeValueMemberN{Value: rating}
	}
	if visits != "" {
		m["visits"] = &types.AttributeValueMemberN{Value: visits}
	}
	return &types.AttributeValueMemberM{Value: m}
}

func TestCuisineTypesForOffice_HappyPath(t *testing.T) {
	db := &fakeDynamo{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		{"cuisineType": &types.AttributeValueMemberS{Value: "Thai"}},
		{"cuisineType": &types.AttributeValueMemberS{Value: "Chinese"}},
	}}}
	c := mustCatalogClient(t, db)

	cuisineTypes, err := c.CuisineTypesForOffice(context.Background(), "Kamppi")
	require.NoError(t, err)
	require.Equal(t, []string{"Thai", "Chinese"}, cuisineTypes)

	require.Equal(t, gsiOfficeCuisine, *db.lastQueryIn.IndexName)
	require.Equal(t, "officeLocation = :officeLocation", *db.lastQueryIn.KeyConditionExpression)
	require.Equal(t, "cuisineType", *db.lastQueryIn.ProjectionExpression)
}

func TestCuisineTypesForOffice_NoRowsIsEmpty(t *testing.T) {
	db := &fakeDynamo{queryOut: &dynamodb.QueryOutput{}}
	c := mustCatalogClient(t, db)

	cuisineTypes, err := c.CuisineTypesForOffice(context.Background(), "Vallila")
	require.NoError(t, err)
	require.Empty(t, cuisineTypes)
	require.NotNil(t, cuisineTypes)
}

func TestCuisineTypesForOffice_QueryErrorIsWrapped(t *testing.T) {
	db := &fakeDynamo{queryErr: errors.New("ResourceNotFoundException")}
	c := mustCatalogClient(t, db)

	_, err := c.CuisineTypesForOffice(context.Background(), "Kamppi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Unable to find given lunch types")
	require.Contains(t, err.Error(), "ResourceNotFoundException")
}

func TestRestaurantsForCuisine_FlattensSequence(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: catalogItem("Kamppi", "Thai", []types.AttributeValue{
		restaurantAttr("Thai Place", "4.5", "12"),
		restaurantAttr("Bangkok Garden", "", ""),
	}, nil)}}
	c := mustCatalogClient(t, db)

	restaurants, err := c.RestaurantsForCuisine(context.Background(), "Kamppi", "Thai")
	require.NoError(t, err)
	require.Len(t, restaurants, 2)
	require.Equal(t, "Thai Place", restaurants[0].Name)
	require.Equal(t, 4.5, restaurants[0].Rating)
	require.Equal(t, 12, restaurants[0].Visits)
	require.Equal(t, "Bangkok Garden", restaurants[1].Name)
}

func TestRestaurantsForCuisine_NoRowIsEmpty(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{}}
	c := mustCatalogClient(t, db)

	restaurants, err := c.RestaurantsForCuisine(context.Background(), "Kamppi", "Thai")
	require.NoError(t, err)
	require.NotNil(t, restaurants)
	require.Empty(t, restaurants)
}

func TestRestaurantsForCuisine_NoSequenceIsEmpty(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: catalogItem("Kamppi", "Thai", nil, nil)}}
	c := mustCatalogClient(t, db)

	restaurants, err := c.RestaurantsForCuisine(context.Background(), "Kamppi", "Thai")
	require.NoError(t, err)
	require.Empty(t, restaurants)
}

func TestGetEntry_NotFound(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{}}
	c := mustCatalogClient(t, db)

	_, err := c.GetEntry(context.Background(), "Kamppi", "Thai")
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestAppendRestaurant_UnratedAppendsOnly(t *testing.T) {
	db := &fakeDynamo{}
	c := mustCatalogClient(t, db)

	err := c.AppendRestaurant(context.Background(), domain.RestaurantRecord{
		Restaurant:     "Thai Place",
		OfficeLocation: "Kamppi",
		CuisineType:    "Thai",
	})
	require.NoError(t, err)

	require.Nil(t, db.lastGetInput) // no totals read without a rating
	require.Equal(t,
		"SET #restaurants = list_append(if_not_exists(#restaurants, :emptyList), :restaurants)",
		*db.lastUpdateIn.UpdateExpression)
	require.Contains(t, db.lastUpdateIn.ExpressionAttributeValues, ":emptyList")
	require.Nil(t, db.lastUpdateIn.ConditionExpression)
}

func TestAppendRestaurant_RatedFoldsAggregatesIntoSameWrite(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: catalogItem("Kamppi", "Thai",
		[]types.AttributeValue{restaurantAttr("Thai Place", "4", "4")},
		map[string]string{"totalVisits": "4", "totalRating": "16"},
	)}}
	c := mustCatalogClient(t, db)

	err := c.AppendRestaurant(context.Background(), domain.RestaurantRecord{
		Restaurant:     "Bangkok Garden",
		OfficeLocation: "Kamppi",
		CuisineType:    "Thai",
		Rating:         4,
	})
	require.NoError(t, err)

	values := db.lastUpdateIn.ExpressionAttributeValues
	require.Equal(t, "5", values[":totalVisits"].(*types.AttributeValueMemberN).Value)
	require.Equal(t, "20", values[":totalRating"].(*types.AttributeValueMemberN).Value)
	require.Equal(t, "4", values[":averageRating"].(*types.AttributeValueMemberN).Value)
	require.Contains(t, *db.lastUpdateIn.UpdateExpression, "list_append")
	require.Equal(t, "#totalVisits = :prevVisits", *db.lastUpdateIn.ConditionExpression)
	require.Equal(t, "4", values[":prevVisits"].(*types.AttributeValueMemberN).Value)
}

func TestAppendRestaurant_RatedFirstWriteGuardsOnAbsence(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{}}
	c := mustCatalogClient(t, db)

	err := c.AppendRestaurant(context.Background(), domain.RestaurantRecord{
		Restaurant:     "Thai Place",
		OfficeLocation: "Kamppi",
		CuisineType:    "Thai",
		Rating:         4.5,
		Visits:         3,
	})
	require.NoError(t, err)

	values := db.lastUpdateIn.ExpressionAttributeValues
	require.Equal(t, "3", values[":totalVisits"].(*types.AttributeValueMemberN).Value)
	require.Equal(t, "4.5", values[":totalRating"].(*types.AttributeValueMemberN).Value)
	require.Equal(t, "1.5", values[":averageRating"].(*types.AttributeValueMemberN).Value)
	require.Equal(t, "attribute_not_exists(#totalVisits)", *db.lastUpdateIn.ConditionExpression)
}

func TestAppendRestaurant_MissingParameters(t *testing.T) {
	db := &fakeDynamo{}
	c := mustCatalogClient(t, db)

	err := c.AppendRestaurant(context.Background(), domain.RestaurantRecord{Restaurant: "Thai Place"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing needed parameters")
	require.Nil(t, db.lastUpdateIn)
}

func TestRemoveRestaurant_FiltersByName(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: catalogItem("Kamppi", "Thai", []types.AttributeValue{
		restaurantAttr("Thai Place", "4.5", "12"),
		restaurantAttr("Bangkok Garden", "", ""),
	}, nil)}}
	c := mustCatalogClient(t, db)

	err := c.RemoveRestaurant(context.Background(), "Kamppi", "Thai", "Thai Place")
	require.NoError(t, err)

	require.Equal(t, "SET #restaurants = :restaurants", *db.lastUpdateIn.UpdateExpression)
	remaining := db.lastUpdateIn.ExpressionAttributeValues[":restaurants"].(*types.AttributeValueMemberL).Value
	require.Len(t, remaining, 1)
	name := remaining[0].(*types.AttributeValueMemberM).Value["name"].(*types.AttributeValueMemberS).Value
	require.Equal(t, "Bangkok Garden", name)
}

func TestRemoveRestaurant_MissingRowFails(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{}}
	c := mustCatalogClient(t, db)

	err := c.RemoveRestaurant(context.Background(), "Kamppi", "Thai", "Thai Place")
	require.ErrorIs(t, err, ErrEntryNotFound)
	require.Nil(t, db.lastUpdateIn)
}

func TestRemoveRestaurant_EmptySequenceFails(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: catalogItem("Kamppi", "Thai", []types.AttributeValue{}, nil)}}
	c := mustCatalogClient(t, db)

	err := c.RemoveRestaurant(context.Background(), "Kamppi", "Thai", "Thai Place")
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRemoveRestaurant_MissingParameters(t *testing.T) {
	c := mustCatalogClient(t, &fakeDynamo{})
	err := c.RemoveRestaurant(context.Background(), "Kamppi", "", "Thai Place")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing needed parameters")
}
