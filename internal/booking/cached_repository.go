package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

// BookedEntryCache is a short-TTL cache of per-provider booked sets. The
// cache only ever serves the best-effort availability marking; the store's
// uniqueness constraint stays authoritative, so a stale read costs at worst
// one extra Conflict outcome.
type BookedEntryCache interface {
	Get(ctx context.Context, providerID uuid.UUID) ([]schedule.BookedEntry, bool)
	Set(ctx context.Context, providerID uuid.UUID, entries []schedule.BookedEntry)
	Invalidate(ctx context.Context, providerID uuid.UUID)
}

// CachedRepository wraps a Repository with booked-set caching. A successful
// booking invalidates the provider's cached set so every other session sees
// the new claim on its next refresh.
type CachedRepository struct {
	Repository
	cache BookedEntryCache
}

func NewCachedRepository(repo Repository, cache BookedEntryCache) *CachedRepository {
	return &CachedRepository{Repository: repo, cache: cache}
}

func (r *CachedRepository) ListBookedEntries(ctx context.Context, providerID uuid.UUID) ([]schedule.BookedEntry, error) {
	if entries, ok := r.cache.Get(ctx, providerID); ok {
		return entries, nil
	}

	entries, err := r.Repository.ListBookedEntries(ctx, providerID)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, providerID, entries)
	return entries, nil
}

func (r *CachedRepository) CreateBooking(ctx context.Context, b *Booking) error {
	if err := r.Repository.CreateBooking(ctx, b); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, b.ProviderID)
	return nil
}
