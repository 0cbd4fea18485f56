// Package directory holds the approved-listing set in shared memory for the
// process lifetime. The set is fetched once, lazily, and served to every
// consumer; writers that change listing or booking state call Refresh so
// dependent views never render stale occupancy.
package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/models"
)

// ListingSource is the slice of the backend client the directory needs.
type ListingSource interface {
	ApprovedListings(ctx context.Context) ([]models.Listing, error)
}

// Directory is a concurrency-safe fetch-once cache of approved listings.
type Directory struct {
	source ListingSource

	mu       sync.RWMutex
	listings []models.Listing
	loaded   bool
}

func New(source ListingSource) *Directory {
	return &Directory{source: source}
}

// Listings returns the cached approved-listing set, loading it on first use.
// A failed load is not cached: the next call retries.
func (d *Directory) Listings(ctx context.Context) ([]models.Listing, error) {
	d.mu.RLock()
	if d.loaded {
		listings := d.listings
		d.mu.RUnlock()
		return listings, nil
	}
	d.mu.RUnlock()

	return d.load(ctx)
}

// Find returns the cached listing with the given id.
func (d *Directory) Find(ctx context.Context, id int64) (*models.Listing, error) {
	listings, err := d.Listings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		if listings[i].ID == id {
			listing := listings[i]
			return &listing, nil
		}
	}
	return nil, fmt.Errorf("listing %d not found", id)
}

// Refresh refetches the listing set. Callers invoke it after any mutation
// that affects listings or bookings.
func (d *Directory) Refresh(ctx context.Context) error {
	_, err := d.load(ctx)
	return err
}

func (d *Directory) load(ctx context.Context) ([]models.Listing, error) {
	listings, err := d.source.ApprovedListings(ctx)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to load approved listings: %v", err)
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}

	d.mu.Lock()
	d.listings = listings
	d.loaded = true
	d.mu.Unlock()

	logger.InfoLogger.Infof("Listing directory loaded with %d approved listings", len(listings))
	return listings, nil
}
