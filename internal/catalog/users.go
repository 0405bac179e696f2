package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func getUserByUsername(q querier, username string) (*User, error) {
	u := &User{}
	err := q.QueryRow(`
		SELECT id, username, created_at
		FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, mapSQLiteError(err))
	}
	return u, nil
}

func getOrCreateUser(q querier, username string) (*User, error) {
	u, err := getUserByUsername(q, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Conflict-tolerant insert: a racing first-write for the same username
	// leaves exactly one row, and the re-read below returns it either way.
	_, err = q.Exec(`
		INSERT INTO users (id, username, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO NOTHING`,
		uuid.NewString(), username, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user %s: %w", username, mapSQLiteError(err))
	}

	return getUserByUsername(q, username)
}

// GetOrCreateUser returns the user row for username, creating it if absent.
// Exactly one row exists per username, also under concurrent first-writes.
func (s *Store) GetOrCreateUser(username string) (*User, error) {
	return getOrCreateUser(s.db, username)
}

// GetOrCreateUser returns or creates a user within a transaction.
func (t *Tx) GetOrCreateUser(username string) (*User, error) {
	return getOrCreateUser(t.tx, username)
}

func upsertUserMovie(q querier, userID, movieID string, favorite bool) error {
	_, err := q.Exec(`
		INSERT INTO user_movies (user_id, movie_id, is_favorite)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, movie_id) DO UPDATE SET is_favorite = excluded.is_favorite`,
		userID, movieID, favorite,
	)
	if err != nil {
		return fmt.Errorf("upsert user movie %s/%s: %w", userID, movieID, mapSQLiteError(err))
	}
	return nil
}

// UpsertUserMovie inserts a user-movie link or updates its favorite flag.
func (s *Store) UpsertUserMovie(userID, movieID string, favorite bool) error {
	return upsertUserMovie(s.db, userID, movieID, favorite)
}

// UpsertUserMovie inserts or updates a link within a transaction.
func (t *Tx) UpsertUserMovie(userID, movieID string, favorite bool) error {
	return upsertUserMovie(t.tx, userID, movieID, favorite)
}

func updateUserMovie(q querier, userID, movieID string, favorite bool) error {
	_, err := q.Exec(`
		UPDATE user_movies SET is_favorite = ?
		WHERE user_id = ? AND movie_id = ?`,
		favorite, userID, movieID,
	)
	if err != nil {
		return fmt.Errorf("update user movie %s/%s: %w", userID, movieID, mapSQLiteError(err))
	}
	return nil
}

// UpdateUserMovie unconditionally updates a link's favorite flag.
// A missing row affects zero rows and is not an error.
func (s *Store) UpdateUserMovie(userID, movieID string, favorite bool) error {
	return updateUserMovie(s.db, userID, movieID, favorite)
}

// UpdateUserMovie updates a link within a transaction.
func (t *Tx) UpdateUserMovie(userID, movieID string, favorite bool) error {
	return updateUserMovie(t.tx, userID, movieID, favorite)
}

func deleteUserMovie(q querier, userID, movieID string) error {
	_, err := q.Exec(`DELETE FROM user_movies WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	if err != nil {
		return fmt.Errorf("delete user movie %s/%s: %w", userID, movieID, mapSQLiteError(err))
	}
	return nil
}

// DeleteUserMovie removes a user-movie link. The movie row itself is kept.
// This operation is idempotent - no error is returned if the link does not exist.
func (s *Store) DeleteUserMovie(userID, movieID string) error {
	return deleteUserMovie(s.db, userID, movieID)
}

// DeleteUserMovie removes a link within a transaction.
func (t *Tx) DeleteUserMovie(userID, movieID string) error {
	return deleteUserMovie(t.tx, userID, movieID)
}

func listUserMovies(q querier, userID string) ([]*UserMovie, error) {
	rows, err := q.Query(`
		SELECT m.id, m.title, m.year, m.runtime, m.genre, m.director, m.poster, um.is_favorite
		FROM movies m
		JOIN user_movies um ON m.id = um.movie_id
		WHERE um.user_id = ?
		ORDER BY m.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user movies: %w", mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var results []*UserMovie
	for rows.Next() {
		um := &UserMovie{HasUserChanges: true}
		if err := rows.Scan(&um.ID, &um.Title, &um.Year, &um.Runtime, &um.Genre, &um.Director, &um.Poster, &um.IsFavorite); err != nil {
			return nil, fmt.Errorf("scan user movie: %w", err)
		}
		results = append(results, um)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user movies: %w", err)
	}
	return results, nil
}

// ListUserMovies returns every movie the user holds a link row for,
// joined with the favorite flag. Movies without a link are not included.
func (s *Store) ListUserMovies(userID string) ([]*UserMovie, error) {
	return listUserMovies(s.db, userID)
}

// ListUserMovies lists a user's movies within a transaction.
func (t *Tx) ListUserMovies(userID string) ([]*UserMovie, error) {
	return listUserMovies(t.tx, userID)
}
