// Package favorites manages per-user movie collections on top of the
// catalog store.
package favorites

import (
	"fmt"
	"log/slog"

	"github.com/vmunix/flickd/internal/catalog"
)

// Manager implements the user-movie operations. Each user's collection
// is a set of link rows against shared movie rows; the link carries the
// favorite flag.
type Manager struct {
	store *catalog.Store
	log   *slog.Logger
}

// New creates a favorites manager.
func New(store *catalog.Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: store, log: log}
}

// Save records a movie for username with the given favorite flag,
// creating the user on first contact. The movie row and the link row
// are written in one transaction so a failure leaves neither behind.
// Retrying a save is safe: both writes are upserts.
func (m *Manager) Save(username string, movie *catalog.Movie, favorite bool) (*catalog.User, error) {
	user, err := m.store.GetOrCreateUser(username)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	tx, err := m.store.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.UpsertMovie(movie); err != nil {
		return nil, err
	}
	if err := tx.UpsertUserMovie(user.ID, movie.ID, favorite); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}

	m.log.Debug("saved user movie", "user", username, "movie", movie.ID, "favorite", favorite)
	return user, nil
}

// List returns every movie username holds a link for. An unknown
// username is created on the spot and yields an empty list.
func (m *Manager) List(username string) ([]*catalog.UserMovie, error) {
	user, err := m.store.GetOrCreateUser(username)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return m.store.ListUserMovies(user.ID)
}

// Update rewrites the stored movie fields and the link's favorite flag.
// Rows that do not exist are left untouched; the operation still
// reports success, matching the unconditional UPDATE semantics of the
// underlying store.
func (m *Manager) Update(username string, movie *catalog.Movie, favorite bool) error {
	user, err := m.store.GetOrCreateUser(username)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	if err := m.store.UpdateMovie(movie); err != nil {
		return err
	}
	if err := m.store.UpdateUserMovie(user.ID, movie.ID, favorite); err != nil {
		return err
	}

	m.log.Debug("updated user movie", "user", username, "movie", movie.ID, "favorite", favorite)
	return nil
}

// Delete removes username's link to movieID. The shared movie row is
// kept for other users. Deleting an absent link is not an error.
func (m *Manager) Delete(username, movieID string) error {
	user, err := m.store.GetOrCreateUser(username)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	if err := m.store.DeleteUserMovie(user.ID, movieID); err != nil {
		return err
	}

	m.log.Debug("deleted user movie", "user", username, "movie", movieID)
	return nil
}
