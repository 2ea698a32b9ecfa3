package domain

import "time"

// PropertyAddress is the physical location of a listing.
type PropertyAddress struct {
	StreetAddress string `json:"street_address" bson:"street_address"`
	City          string `json:"city" bson:"city"`
	State         string `json:"state" bson:"state"`
	ZipCode       string `json:"zip_code" bson:"zip_code"`
}

// PropertyDetails summarises the building characteristics used for search.
type PropertyDetails struct {
	Bedrooms     int     `json:"bedrooms" bson:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms" bson:"bathrooms"`
	LivingAreaFt int     `json:"living_area_sqft" bson:"living_area_sqft"`
}

// Property is a searchable real-estate listing.
type Property struct {
	ID          string          `json:"id" bson:"_id,omitempty"`
	ListingID   string          `json:"listing_id" bson:"listing_id"`
	Address     PropertyAddress `json:"address" bson:"address"`
	Details     PropertyDetails `json:"details" bson:"details"`
	Price       float64         `json:"price" bson:"price"`
	Status      string          `json:"status" bson:"status"`
	Description string          `json:"description" bson:"description"`
	IndexedAt   time.Time       `json:"indexed_at" bson:"indexed_at"`
}

// SearchResult carries one page of matches plus bookkeeping the handler
// exposes to clients.
type SearchResult struct {
	Total      int64
	Properties []Property
	FromCache  bool
	TookMS     float64
}
