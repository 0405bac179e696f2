// Package aggregator merges movie search results from the local catalog
// and the external movie API into one shaped response.
package aggregator

//go:generate mockgen -source=aggregator.go -destination=mocks/aggregator.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/flickd/internal/catalog"
	"github.com/vmunix/flickd/internal/omdb"
)

// Searcher resolves a free-text title query to search hits.
type Searcher interface {
	Search(ctx context.Context, title string) ([]omdb.SearchHit, error)
}

// Lookup resolves one movie identifier to a detail record.
type Lookup interface {
	Resolve(ctx context.Context, imdbID string) (*omdb.Detail, error)
}

// Store is the catalog subset consulted for known movies.
type Store interface {
	GetMovies(ids []string, username string) ([]*catalog.UserMovie, error)
}

// Config controls candidate assembly and external fan-out.
type Config struct {
	// Seeds are queried when the request carries no query of its own.
	Seeds    []string
	PinnedID string
	// FetchLimit caps concurrent external detail lookups.
	FetchLimit int
}

// Summary is one shaped movie in a search response.
type Summary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Runtime    string `json:"runtime"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	IsFavorite bool   `json:"isFavorite"`
	Poster     string `json:"poster"`
}

// Aggregator orchestrates candidate assembly, catalog overlay,
// bounded external resolution, and the merge.
type Aggregator struct {
	searcher Searcher
	lookup   Lookup
	store    Store
	cfg      Config
	log      *slog.Logger
}

// New creates an aggregator. FetchLimit defaults to 5 when unset.
func New(searcher Searcher, lookup Lookup, store Store, cfg Config, log *slog.Logger) *Aggregator {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 5
	}
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		searcher: searcher,
		lookup:   lookup,
		store:    store,
		cfg:      cfg,
		log:      log,
	}
}

// Search resolves candidates for query (or the seed set when query is
// empty), overlays the catalog, fetches the remainder externally, and
// merges. Output order follows candidate assembly order. A record with
// an explicit user override wins outright over external data; per-item
// lookup failures degrade to partial results.
func (a *Aggregator) Search(ctx context.Context, query, username string) ([]Summary, error) {
	candidates, err := a.assembleCandidates(ctx, query)
	if err != nil {
		return nil, err
	}

	stored, err := a.store.GetMovies(candidates, username)
	if err != nil {
		// Soft failure on the read path: degrade to external-only results
		a.log.Warn("datastore unavailable, skipping catalog overlay", "error", err)
		stored = nil
	}
	storedByID := make(map[string]*catalog.UserMovie, len(stored))
	for _, um := range stored {
		storedByID[um.ID] = um
	}

	var missing []string
	for _, id := range candidates {
		if _, ok := storedByID[id]; !ok {
			missing = append(missing, id)
		}
	}

	fetchedByID := a.fetchDetails(ctx, missing)

	summaries := make([]Summary, 0, len(candidates))
	for _, id := range candidates {
		um := storedByID[id]
		d := fetchedByID[id]
		switch {
		case um != nil && um.HasUserChanges:
			summaries = append(summaries, summaryFromStored(um))
		case d != nil:
			s := summaryFromDetail(d)
			if um != nil {
				s.IsFavorite = um.IsFavorite
			}
			summaries = append(summaries, s)
		case um != nil:
			summaries = append(summaries, summaryFromStored(um))
		}
		// Neither source knows the identifier: dropped silently
	}
	return summaries, nil
}

// assembleCandidates gathers identifiers from the query search, or from
// the seed searches plus the pinned identifier when the query is empty.
// The returned list is deduplicated, keeping first-seen positions.
func (a *Aggregator) assembleCandidates(ctx context.Context, query string) ([]string, error) {
	var ids []string

	query = strings.TrimSpace(query)
	if query != "" {
		hits, err := a.searcher.Search(ctx, NormalizeQuery(query))
		if err != nil && !errors.Is(err, omdb.ErrNotFound) {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		for _, h := range hits {
			ids = append(ids, h.ImdbID)
		}
	} else {
		for _, seed := range a.cfg.Seeds {
			hits, err := a.searcher.Search(ctx, seed)
			if err != nil {
				a.log.Warn("seed search failed", "query", seed, "error", err)
				continue
			}
			for _, h := range hits {
				ids = append(ids, h.ImdbID)
			}
		}
		if a.cfg.PinnedID != "" {
			ids = append(ids, a.cfg.PinnedID)
		}
	}

	seen := make(map[string]struct{}, len(ids))
	candidates := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		candidates = append(candidates, id)
	}
	return candidates, nil
}

// fetchDetails resolves the given identifiers externally, at most
// FetchLimit in flight at once. The whole batch is awaited; failed
// identifiers are logged and absent from the returned map.
func (a *Aggregator) fetchDetails(ctx context.Context, ids []string) map[string]*omdb.Detail {
	details := make([]*omdb.Detail, len(ids))

	var g errgroup.Group
	g.SetLimit(a.cfg.FetchLimit)
	for i, id := range ids {
		g.Go(func() error {
			d, err := a.lookup.Resolve(ctx, id)
			if err != nil {
				a.log.Warn("detail lookup failed", "id", id, "error", err)
				return nil
			}
			details[i] = d
			return nil
		})
	}
	_ = g.Wait()

	byID := make(map[string]*omdb.Detail, len(ids))
	for _, d := range details {
		if d != nil {
			byID[d.ImdbID] = d
		}
	}
	return byID
}

func summaryFromStored(um *catalog.UserMovie) Summary {
	return Summary{
		ID:         um.ID,
		Title:      um.Title,
		Year:       um.Year,
		Runtime:    orNA(um.Runtime),
		Genre:      orNA(um.Genre),
		Director:   orNA(um.Director),
		IsFavorite: um.IsFavorite,
		Poster:     um.Poster,
	}
}

func summaryFromDetail(d *omdb.Detail) Summary {
	poster := d.Poster
	if poster == "N/A" {
		poster = ""
	}
	return Summary{
		ID:       d.ImdbID,
		Title:    d.Title,
		Year:     d.Year,
		Runtime:  orNA(d.Runtime),
		Genre:    orNA(d.Genre),
		Director: orNA(d.Director),
		Poster:   poster,
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
