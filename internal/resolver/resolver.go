// Package resolver resolves single movie identifiers to detail records.
//
// Resolution order is memo cache, then datastore, then the external API;
// the first hit wins and is cached in the external API shape so downstream
// handling is uniform regardless of source.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/flickd/internal/catalog"
	"github.com/vmunix/flickd/internal/omdb"
)

// ErrNotFound is returned when no source can resolve the identifier.
var ErrNotFound = errors.New("movie not found")

// Store is the catalog subset consulted before the external API.
type Store interface {
	GetMovie(id string) (*catalog.Movie, error)
}

// API performs external detail lookups.
type API interface {
	GetMovie(ctx context.Context, imdbID string) (*omdb.Detail, error)
}

// Resolver resolves movie identifiers to detail records.
type Resolver struct {
	store Store
	api   API
	cache *cache
	log   *slog.Logger
}

// New creates a resolver over the given store and external API.
func New(store Store, api API, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		store: store,
		api:   api,
		cache: newCache(),
		log:   log,
	}
}

// Resolve returns the detail record for one identifier.
// Returns ErrNotFound if every source misses or the external call fails.
func (r *Resolver) Resolve(ctx context.Context, imdbID string) (*omdb.Detail, error) {
	if d, ok := r.cache.get(imdbID); ok {
		return d, nil
	}

	m, err := r.store.GetMovie(imdbID)
	switch {
	case err == nil:
		d := detailFromCatalog(m)
		r.cache.set(imdbID, d)
		return d, nil
	case !errors.Is(err, catalog.ErrNotFound):
		// Datastore unavailability is a soft failure on the read path
		r.log.Warn("datastore unavailable, skipping lookup", "id", imdbID, "error", err)
	}

	d, err := r.api.GetMovie(ctx, imdbID)
	if err != nil {
		if !errors.Is(err, omdb.ErrNotFound) {
			r.log.Warn("external lookup failed", "id", imdbID, "error", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, imdbID)
	}

	r.cache.set(imdbID, d)
	return d, nil
}

// detailFromCatalog reshapes a stored movie into the external API shape.
func detailFromCatalog(m *catalog.Movie) *omdb.Detail {
	return &omdb.Detail{
		ImdbID:   m.ID,
		Title:    m.Title,
		Year:     m.Year,
		Runtime:  orNA(m.Runtime),
		Genre:    orNA(m.Genre),
		Director: orNA(m.Director),
		Poster:   m.Poster,
		Response: "True",
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
