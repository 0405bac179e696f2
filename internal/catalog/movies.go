package catalog

import (
	"fmt"
)

func getMovie(q querier, id string) (*Movie, error) {
	m := &Movie{}
	err := q.QueryRow(`
		SELECT id, title, year, runtime, genre, director, poster
		FROM movies WHERE id = ?`, id,
	).Scan(&m.ID, &m.Title, &m.Year, &m.Runtime, &m.Genre, &m.Director, &m.Poster)
	if err != nil {
		return nil, fmt.Errorf("get movie %s: %w", id, mapSQLiteError(err))
	}
	return m, nil
}

// GetMovie retrieves a movie by identifier.
// Returns ErrNotFound if the movie does not exist.
func (s *Store) GetMovie(id string) (*Movie, error) { return getMovie(s.db, id) }

// GetMovie retrieves a movie by identifier within a transaction.
func (t *Tx) GetMovie(id string) (*Movie, error) { return getMovie(t.tx, id) }

func getMovies(q querier, ids []string, username string) ([]*UserMovie, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := q.Query(`
		SELECT id, title, year, runtime, genre, director, poster
		FROM movies WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var results []*UserMovie
	for rows.Next() {
		um := &UserMovie{}
		if err := rows.Scan(&um.ID, &um.Title, &um.Year, &um.Runtime, &um.Genre, &um.Director, &um.Poster); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		results = append(results, um)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	if username == "" || len(results) == 0 {
		return results, nil
	}

	// Overlay the user's link rows onto the fetched movies.
	linkArgs := append([]any{username}, args...)
	linkRows, err := q.Query(`
		SELECT um.movie_id, um.is_favorite
		FROM user_movies um
		JOIN users u ON um.user_id = u.id
		WHERE u.username = ? AND um.movie_id IN (`+placeholders(len(ids))+`)`, linkArgs...)
	if err != nil {
		return nil, fmt.Errorf("get user links: %w", mapSQLiteError(err))
	}
	defer func() { _ = linkRows.Close() }()

	favorites := make(map[string]bool)
	for linkRows.Next() {
		var movieID string
		var fav bool
		if err := linkRows.Scan(&movieID, &fav); err != nil {
			return nil, fmt.Errorf("scan user link: %w", err)
		}
		favorites[movieID] = fav
	}
	if err := linkRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user links: %w", err)
	}

	for _, um := range results {
		if fav, ok := favorites[um.ID]; ok {
			um.IsFavorite = fav
			um.HasUserChanges = true
		}
	}
	return results, nil
}

// GetMovies retrieves all movies matching the given identifiers in one batch.
// When username is non-empty, each result carries that user's favorite flag
// and HasUserChanges set for movies the user holds a link row for.
// Identifiers with no stored movie are simply absent from the result.
func (s *Store) GetMovies(ids []string, username string) ([]*UserMovie, error) {
	return getMovies(s.db, ids, username)
}

// GetMovies retrieves movies in one batch within a transaction.
func (t *Tx) GetMovies(ids []string, username string) ([]*UserMovie, error) {
	return getMovies(t.tx, ids, username)
}

func upsertMovie(q querier, m *Movie) error {
	d := m.withDefaults()
	_, err := q.Exec(`
		INSERT INTO movies (id, title, year, runtime, genre, director, poster)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			year = excluded.year,
			runtime = excluded.runtime,
			genre = excluded.genre,
			director = excluded.director,
			poster = excluded.poster`,
		d.ID, d.Title, d.Year, d.Runtime, d.Genre, d.Director, d.Poster,
	)
	if err != nil {
		return fmt.Errorf("upsert movie %s: %w", m.ID, mapSQLiteError(err))
	}
	return nil
}

// UpsertMovie inserts a movie or updates its descriptive fields on identifier conflict.
func (s *Store) UpsertMovie(m *Movie) error { return upsertMovie(s.db, m) }

// UpsertMovie inserts or updates a movie within a transaction.
func (t *Tx) UpsertMovie(m *Movie) error { return upsertMovie(t.tx, m) }

func updateMovie(q querier, m *Movie) error {
	d := m.withDefaults()
	_, err := q.Exec(`
		UPDATE movies SET title = ?, year = ?, runtime = ?, genre = ?, director = ?, poster = ?
		WHERE id = ?`,
		d.Title, d.Year, d.Runtime, d.Genre, d.Director, d.Poster, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update movie %s: %w", m.ID, mapSQLiteError(err))
	}
	return nil
}

// UpdateMovie unconditionally updates a movie's descriptive fields.
// A missing row affects zero rows and is not an error.
func (s *Store) UpdateMovie(m *Movie) error { return updateMovie(s.db, m) }

// UpdateMovie updates a movie within a transaction.
func (t *Tx) UpdateMovie(m *Movie) error { return updateMovie(t.tx, m) }
