package aggregator_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/flickd/internal/aggregator"
	"github.com/vmunix/flickd/internal/aggregator/mocks"
	"github.com/vmunix/flickd/internal/catalog"
	"github.com/vmunix/flickd/internal/omdb"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hit(id string) omdb.SearchHit {
	return omdb.SearchHit{ImdbID: id, Title: "Movie " + id}
}

func detail(id, title string) *omdb.Detail {
	return &omdb.Detail{ImdbID: id, Title: title, Year: "2020", Runtime: "100 min", Genre: "Drama", Director: "Someone", Poster: "https://example.com/" + id + ".jpg", Response: "True"}
}

func TestAggregator_Search_MergesBothSources(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "matrix").
		Return([]omdb.SearchHit{hit("tt1"), hit("tt2")}, nil)

	// tt1 exists only in the catalog, tt2 only externally
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		GetMovies([]string{"tt1", "tt2"}, "").
		Return([]*catalog.UserMovie{
			{Movie: catalog.Movie{ID: "tt1", Title: "Stored One", Year: "1999"}},
		}, nil)

	lookup := mocks.NewMockLookup(ctrl)
	lookup.EXPECT().
		Resolve(gomock.Any(), "tt2").
		Return(detail("tt2", "External Two"), nil)

	agg := aggregator.New(searcher, lookup, store, aggregator.Config{}, testLogger())
	out, err := agg.Search(context.Background(), "matrix", "")

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "tt1", out[0].ID)
	assert.Equal(t, "tt2", out[1].ID)
	assert.Equal(t, "External Two", out[1].Title)
}

func TestAggregator_Search_UserOverrideWins(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "matrix").
		Return([]omdb.SearchHit{hit("tt1")}, nil)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		GetMovies([]string{"tt1"}, "alice").
		Return([]*catalog.UserMovie{
			{
				Movie:          catalog.Movie{ID: "tt1", Title: "User's Title", Year: "1999"},
				IsFavorite:     true,
				HasUserChanges: true,
			},
		}, nil)

	// The override wins outright: no external lookup for tt1
	lookup := mocks.NewMockLookup(ctrl)

	agg := aggregator.New(searcher, lookup, store, aggregator.Config{}, testLogger())
	out, err := agg.Search(context.Background(), "matrix", "alice")

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "User's Title", out[0].Title)
	assert.True(t, out[0].IsFavorite)
}

func TestAggregator_Search_StoredWithoutOverrideStillAppears(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "matrix").
		Return([]omdb.SearchHit{hit("tt1"), hit("tt2")}, nil)

	// tt1 is stored without an explicit override; it is not fetched
	// externally and still appears, carrying the stored favorite flag.
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		GetMovies([]string{"tt1", "tt2"}, "alice").
		Return([]*catalog.UserMovie{
			{Movie: catalog.Movie{ID: "tt1", Title: "Stored Title"}, IsFavorite: true},
		}, nil)

	lookup := mocks.NewMockLookup(ctrl)
	lookup.EXPECT().Resolve(gomock.Any(), "tt2").Return(detail("tt2", "Two"), nil)

	agg := aggregator.New(searcher, lookup, store, aggregator.Config{}, testLogger())
	out, err := agg.Search(context.Background(), "matrix", "alice")

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "tt1", out[0].ID)
	assert.Equal(t, "Stored Title", out[0].Title)
	assert.True(t, out[0].IsFavorite)
	assert.Equal(t, "tt2", out[1].ID)
}

func TestAggregator_Search_OutputFollowsCandidateOrder(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "matrix").
		Return([]omdb.SearchHit{hit("tt3"), hit("tt1"), hit("tt2")}, nil)

	// Store returns rows in its own (different) order
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		GetMovies([]string{"tt3", "tt1", "tt2"}, "").
		Return([]*catalog.UserMovie{
			{Movie: catalog.Movie{ID: "tt1", Title: "One"}, HasUserChanges: true, IsFavorite: true},
			{Movie: catalog.Movie{ID: "tt3", Title: "Three"}, HasUserChanges: true},
		}, nil)

	lookup := mocks.NewMockLookup(ctrl)
	lookup.EXPECT().Resolve(gomock.Any(), "tt2").Return(detail("tt2", "Two"), nil)

	agg := aggregator.New(searcher, lookup, store, aggregator.Config{}, testLogger())
	out, err := agg.Search(context.Background(), "matrix", "")

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "tt3", out[0].ID)
	assert.Equal(t, "tt1", out[1].ID)
	assert.Equal(t, "tt2", out[2].ID)
}

func TestAggregator_Search_DeduplicatesCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "matrix").
		Return([]omdb.SearchHit{hit("tt1"), hit("tt2"), hit("tt1")}, nil)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().GetMovies([]string{"tt1", "tt2"}, "").Return(nil, nil)

	lookup := mocks.NewMockLookup(ctrl)
	lookup.EXPECT().Resolve(gomock.Any(), "tt1").Return(detail("tt1", "One"), nil)
	lookup.EXPECT().Resolve(gomock.Any(), "tt2").Return(detail("tt2", "Two"), nil)

	agg := aggregator.New(searcher, lookup, store, aggregator.Config{}, testLogger())
	out, err := agg.Search(context.Background(), "matrix", "")

	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestAggregator_Search_EmptyQueryUsesSeeds(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "Avengers").
		Return([]omdb.SearchHit{hit("tt1")}, nil)
	// One failing seed is logged and skipped
	searcher.EXPECT().
		Search(gomock.Any(), "Batman").
		Return(nil, errors.New("upstream timeout"))

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().GetMovies([]string{"tt1", "tt9"}, "").Return(nil, nil)

	lookup := mocks.NewMockLookup(ctrl)
	lookup.EXPECT().Resolve(gomock.Any(), "tt1").Return(detail("tt1", "One"), nil)
	lookup.EXPECT().Resolve(gomock.Any(), "tt9").Return(detail("tt9", "Pinned"), nil)

	cfg := aggregator.Config{Seeds: []string{"Avengers", "Batman"}, PinnedID: "tt9"}
	agg := aggregator.New(searcher, lookup, store, cfg, testLogger())
	out, err := agg.Search(context.Background(), "", "")

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "tt1", out[0].ID)
	assert.Equal(t, "tt9", out[1].ID, "pinned identifier comes last")
}

func TestAggregator_Search_QueryFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "matrix").
		Return(nil, errors.New("upstream timeout"))

	agg := aggregator.New(searcher, mocks.NewMockLookup(ctrl), mocks.NewMockStore(ctrl), aggregator.Config{}, testLogger())
	_, err := agg.Search(context.Background(), "matrix", "")

	assert.Error(t, err)
}

func TestAggregator_Search_NoMatchesIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "zzzzzz").
		Return(nil, omdb.ErrNotFound)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().GetMovies(gomock.Len(0), "").Return(nil, nil)

	agg := aggregator.New(searcher, mocks.NewMockLookup(ctrl), store, aggregator.Config{}, testLogger())
	out, err := agg.Search(context.Background(), "zzzzzz", "")

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAggregator_Search_DatastoreFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "matrix").
		Return([]omdb.SearchHit{hit("tt1")}, nil)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		GetMovies([]string{"tt1"}, "").
		Return(nil, errors.New("database is locked"))

	lookup := mocks.NewMockLookup(ctrl)
	lookup.EXPECT().Resolve(gomock.Any(), "tt1").Return(detail("tt1", "One"), nil)

	agg := aggregator.New(searcher, lookup, store, aggregator.Config{}, testLogger())
	out, err := agg.Search(context.Background(), "matrix", "")

	require.NoError(t, err, "datastore failure on the read path is soft")
	assert.Len(t, out, 1)
}

func TestAggregator_Search_FailedLookupsAreDropped(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "matrix").
		Return([]omdb.SearchHit{hit("tt1"), hit("tt2"), hit("tt3")}, nil)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().GetMovies([]string{"tt1", "tt2", "tt3"}, "").Return(nil, nil)

	lookup := mocks.NewMockLookup(ctrl)
	lookup.EXPECT().Resolve(gomock.Any(), "tt1").Return(detail("tt1", "One"), nil)
	lookup.EXPECT().Resolve(gomock.Any(), "tt2").Return(nil, errors.New("connection reset"))
	lookup.EXPECT().Resolve(gomock.Any(), "tt3").Return(detail("tt3", "Three"), nil)

	agg := aggregator.New(searcher, lookup, store, aggregator.Config{}, testLogger())
	out, err := agg.Search(context.Background(), "matrix", "")

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "tt1", out[0].ID)
	assert.Equal(t, "tt3", out[1].ID)
}

func TestAggregator_Search_BoundedFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)

	ids := make([]omdb.SearchHit, 12)
	expectedBatch := make([]string, 12)
	for i := range ids {
		id := string(rune('a'+i)) + "-id"
		ids[i] = omdb.SearchHit{ImdbID: id}
		expectedBatch[i] = id
	}

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), "matrix").Return(ids, nil)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().GetMovies(expectedBatch, "").Return(nil, nil)

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	lookup := mocks.NewMockLookup(ctrl)
	lookup.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		Times(12).
		DoAndReturn(func(_ context.Context, id string) (*omdb.Detail, error) {
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return detail(id, "Movie "+id), nil
		})

	agg := aggregator.New(searcher, lookup, store, aggregator.Config{FetchLimit: 5}, testLogger())
	out, err := agg.Search(context.Background(), "matrix", "")

	require.NoError(t, err)
	assert.Len(t, out, 12)
	assert.LessOrEqual(t, maxInFlight, 5, "no more than 5 lookups in flight")

	// Order still matches the candidate assembly order
	for i, s := range out {
		assert.Equal(t, expectedBatch[i], s.ID)
	}
}

func TestAggregator_Search_BlanksNAPoster(t *testing.T) {
	ctrl := gomock.NewController(t)

	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().
		Search(gomock.Any(), "matrix").
		Return([]omdb.SearchHit{hit("tt1")}, nil)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().GetMovies([]string{"tt1"}, "").Return(nil, nil)

	d := detail("tt1", "One")
	d.Poster = "N/A"
	lookup := mocks.NewMockLookup(ctrl)
	lookup.EXPECT().Resolve(gomock.Any(), "tt1").Return(d, nil)

	agg := aggregator.New(searcher, lookup, store, aggregator.Config{}, testLogger())
	out, err := agg.Search(context.Background(), "matrix", "")

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Poster)
}
