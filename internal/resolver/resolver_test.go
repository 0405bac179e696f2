package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/flickd/internal/catalog"
	"github.com/vmunix/flickd/internal/omdb"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore returns canned movies and counts lookups.
type fakeStore struct {
	movies map[string]*catalog.Movie
	err    error
	calls  int
}

func (f *fakeStore) GetMovie(id string) (*catalog.Movie, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.movies[id]; ok {
		return m, nil
	}
	return nil, catalog.ErrNotFound
}

// fakeAPI returns canned details and counts lookups.
type fakeAPI struct {
	details map[string]*omdb.Detail
	err     error
	calls   int
}

func (f *fakeAPI) GetMovie(ctx context.Context, imdbID string) (*omdb.Detail, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.details[imdbID]; ok {
		return d, nil
	}
	return nil, omdb.ErrNotFound
}

func TestResolver_DatastoreHit(t *testing.T) {
	store := &fakeStore{movies: map[string]*catalog.Movie{
		"tt1": {ID: "tt1", Title: "Stored Movie", Year: "2001"},
	}}
	api := &fakeAPI{}
	r := New(store, api, testLogger())

	d, err := r.Resolve(context.Background(), "tt1")
	require.NoError(t, err)

	// Datastore hits are reshaped into the external API shape
	assert.Equal(t, "tt1", d.ImdbID)
	assert.Equal(t, "Stored Movie", d.Title)
	assert.Equal(t, "N/A", d.Runtime)
	assert.Equal(t, "True", d.Response)
	assert.Zero(t, api.calls, "external API should not be consulted")
}

func TestResolver_ExternalHit(t *testing.T) {
	store := &fakeStore{}
	api := &fakeAPI{details: map[string]*omdb.Detail{
		"tt2": {ImdbID: "tt2", Title: "External Movie", Response: "True"},
	}}
	r := New(store, api, testLogger())

	d, err := r.Resolve(context.Background(), "tt2")
	require.NoError(t, err)
	assert.Equal(t, "External Movie", d.Title)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, api.calls)
}

func TestResolver_CacheShortCircuits(t *testing.T) {
	store := &fakeStore{movies: map[string]*catalog.Movie{
		"tt1": {ID: "tt1", Title: "Stored Movie"},
	}}
	api := &fakeAPI{details: map[string]*omdb.Detail{
		"tt2": {ImdbID: "tt2", Title: "External Movie", Response: "True"},
	}}
	r := New(store, api, testLogger())

	// Datastore hits populate the cache too
	_, err := r.Resolve(context.Background(), "tt1")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "tt1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls, "second resolve must not hit the datastore")

	_, err = r.Resolve(context.Background(), "tt2")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "tt2")
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls, "second resolve must not hit the external API")
}

func TestResolver_AllMiss(t *testing.T) {
	r := New(&fakeStore{}, &fakeAPI{}, testLogger())

	d, err := r.Resolve(context.Background(), "tt-missing")
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_ExternalError(t *testing.T) {
	api := &fakeAPI{err: errors.New("connection refused")}
	r := New(&fakeStore{}, api, testLogger())

	// External failures resolve to not-found, never to a hard error
	_, err := r.Resolve(context.Background(), "tt1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_DatastoreErrorFallsThrough(t *testing.T) {
	store := &fakeStore{err: errors.New("database is locked")}
	api := &fakeAPI{details: map[string]*omdb.Detail{
		"tt1": {ImdbID: "tt1", Title: "External Movie", Response: "True"},
	}}
	r := New(store, api, testLogger())

	d, err := r.Resolve(context.Background(), "tt1")
	require.NoError(t, err)
	assert.Equal(t, "External Movie", d.Title)
}
