package models

import "strings"

// Listing is an approved (or pending) rental property as served by the
// backend. Immutable from this application's point of view.
type Listing struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Location      string  `json:"location"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"imageUrl"`
	Price         float64 `json:"price"`     // monthly rate
	DailyRate     float64 `json:"dailyRate"` // nightly rate, resort listings
	PriceUnit     int     `json:"priceUnit"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     int     `json:"bathrooms"`
	Status        int     `json:"status"`
	AdminResponse string  `json:"adminResponse"`
}

// IsApproved reports whether the listing may be booked.
func (l Listing) IsApproved() bool {
	return l.Status == RequestStatusApproved
}

// IsResort reports whether the listing prices per night. Every other
// category prices per calendar month.
func (l Listing) IsResort() bool {
	return strings.EqualFold(strings.TrimSpace(l.Category), "resort")
}

// NightlyRate returns the per-night rate with the backend's historical
// fallback for listings created before dailyRate existed.
func (l Listing) NightlyRate() float64 {
	if l.DailyRate > 0 {
		return l.DailyRate
	}
	return 1000
}

// ListingRequestPayload is the body of POST /api/ListingRequest.
type ListingRequestPayload struct {
	UserID      int64   `json:"userId"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Price       float64 `json:"price"`
	PriceUnit   int     `json:"priceUnit"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
}

// Categories and locations offered by the create-request form.
var (
	ListingCategories = []string{"Apartment", "Villa", "House", "Resort"}
	ListingLocations  = []string{"Areekode", "Kakkadampoyil", "Wayanad", "Kozhikkode", "Malappuram"}
)
