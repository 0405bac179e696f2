package aggregator

import (
	"context"
	"errors"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/flickd/internal/omdb"
)

// ErrNoMatch is returned when no search hit matches the requested title.
var ErrNoMatch = errors.New("no matching title")

// BestByTitle searches the external API for title and resolves the
// detail record of the best-matching hit. Hits are scored with
// Jaro-Winkler similarity over cleaned titles; Jaro-Winkler favors
// prefix matches, which suits movie titles.
func (a *Aggregator) BestByTitle(ctx context.Context, title string) (*omdb.Detail, error) {
	title = strings.TrimSpace(title)

	hits, err := a.searcher.Search(ctx, NormalizeQuery(title))
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			return nil, ErrNoMatch
		}
		return nil, err
	}

	best, score := bestHit(title, hits)
	if best == nil {
		return nil, ErrNoMatch
	}
	a.log.Debug("title match", "query", title, "matched", best.Title, "score", score)

	d, err := a.lookup.Resolve(ctx, best.ImdbID)
	if err != nil {
		a.log.Warn("detail lookup failed", "id", best.ImdbID, "error", err)
		return nil, ErrNoMatch
	}
	return d, nil
}

func bestHit(title string, hits []omdb.SearchHit) (*omdb.SearchHit, float64) {
	cleaned := cleanTitle(title)

	var best *omdb.SearchHit
	var bestScore float64
	for i := range hits {
		score := float64(edlib.JaroWinklerSimilarity(cleaned, cleanTitle(hits[i].Title)))
		if best == nil || score > bestScore {
			best = &hits[i]
			bestScore = score
		}
	}
	return best, bestScore
}
