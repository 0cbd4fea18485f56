package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/models"
)

func init() {
	logger.InitLoggers()
}

type fakeSource struct {
	calls    int
	listings []models.Listing
	err      error
}

func (f *fakeSource) ApprovedListings(_ context.Context) ([]models.Listing, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

func TestListingsFetchesOnce(t *testing.T) {
	src := &fakeSource{listings: []models.Listing{{ID: 1, Name: "Hilltop Villa"}}}
	dir := New(src)
	ctx := context.Background()

	first, err := dir.Listings(ctx)
	require.NoError(t, err)
	second, err := dir.Listings(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls, "listing set is fetched once and served from memory")
}

func TestRefreshRefetches(t *testing.T) {
	src := &fakeSource{listings: []models.Listing{{ID: 1, Name: "Hilltop Villa"}}}
	dir := New(src)
	ctx := context.Background()

	_, err := dir.Listings(ctx)
	require.NoError(t, err)

	src.listings = append(src.listings, models.Listing{ID: 2, Name: "Lakeside Resort"})
	require.NoError(t, dir.Refresh(ctx))

	listings, err := dir.Listings(ctx)
	require.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.Equal(t, 2, src.calls)
}

func TestFailedLoadRetriesNextCall(t *testing.T) {
	src := &fakeSource{err: errors.New("backend down")}
	dir := New(src)
	ctx := context.Background()

	_, err := dir.Listings(ctx)
	require.Error(t, err)

	src.err = nil
	src.listings = []models.Listing{{ID: 1}}

	listings, err := dir.Listings(ctx)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, 2, src.calls, "a failed load is never cached")
}

func TestFind(t *testing.T) {
	src := &fakeSource{listings: []models.Listing{
		{ID: 1, Name: "Hilltop Villa"},
		{ID: 2, Name: "Lakeside Resort", Category: "Resort"},
	}}
	dir := New(src)
	ctx := context.Background()

	listing, err := dir.Find(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Lakeside Resort", listing.Name)
	assert.True(t, listing.IsResort())

	_, err = dir.Find(ctx, 99)
	assert.Error(t, err)
}
