package domain

// SessionState is one persisted slot value for a session. Exactly one row
// exists per (SessionID, Slot); later writes for the same pair are no-ops.
type SessionState struct {
	SessionID string
	Slot      string
	SlotValue map[string]string
	ExpireAt  int64
}

// Restaurant is one entry in a CatalogEntry's restaurant sequence.
type Restaurant struct {
	Name    string  `json:"name" dynamodbav:"name"`
	Address string  `json:"address,omitempty" dynamodbav:"address,omitempty"`
	Rating  float64 `json:"rating,omitempty" dynamodbav:"rating,omitempty"`
	Visits  int     `json:"visits,omitempty" dynamodbav:"visits,omitempty"`
}

// CatalogEntry aggregates the restaurants offering one cuisine at one
// office, plus denormalized visit and rating statistics. AverageRating is
// always TotalRating / TotalVisits after a successful aggregate write.
type CatalogEntry struct {
	OfficeLocation string       `json:"officeLocation" dynamodbav:"officeLocation"`
	CuisineType    string       `json:"cuisineType" dynamodbav:"cuisineType"`
	Restaurants    []Restaurant `json:"restaurants" dynamodbav:"restaurants"`
	TotalVisits    int          `json:"totalVisits,omitempty" dynamodbav:"totalVisits,omitempty"`
	TotalRating    float64      `json:"totalRating,omitempty" dynamodbav:"totalRating,omitempty"`
	AverageRating  float64      `json:"averageRating,omitempty" dynamodbav:"averageRating,omitempty"`
}

// RestaurantRecord is the new image of a restaurant-table row as delivered
// on the change feed consumed by the catalog reactor.
type RestaurantRecord struct {
	Restaurant     string  `dynamodbav:"restaurant"`
	OfficeLocation string  `dynamodbav:"officeLocation"`
	CuisineType    string  `dynamodbav:"cuisineType"`
	Visits         int     `dynamodbav:"visits"`
	Rating         float64 `dynamodbav:"rating"`
}

// Valid reports whether the record carries the attributes every catalog
// update needs.
func (r RestaurantRecord) Valid() bool {
	return r.Restaurant != "" && r.OfficeLocation != "" && r.CuisineType != ""
}

// Rated reports whether the record contributes to the rating aggregates.
func (r RestaurantRecord) Rated() bool {
	return r.Rating > 0
}

// StateRecord is the new image of a session-state row as delivered on the
// change feed consumed by the state reactor.
type StateRecord struct {
	SessionID string            `dynamodbav:"id"`
	Slot      string            `dynamodbav:"slot"`
	SlotValue map[string]string `dynamodbav:"slotValue"`
	ExpireAt  int64             `dynamodbav:"expireAt"`
}
