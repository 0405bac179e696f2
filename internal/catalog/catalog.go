// Package catalog manages the durable movie catalog (movies, users, favorite links).
package catalog

import (
	"time"
)

// Movie is a durable movie record. The identifier is stable across
// the external API and the local store. All other fields are optional;
// empty descriptive fields are stored as "N/A", the rest as "".
type Movie struct {
	ID       string
	Title    string
	Year     string
	Runtime  string
	Genre    string
	Director string
	Poster   string
}

// User is an account row, created lazily on first use of a username.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// UserMovie is a movie overlaid with one user's link row.
// HasUserChanges reports whether the user holds an explicit override
// for this movie (a link row exists).
type UserMovie struct {
	Movie
	IsFavorite     bool
	HasUserChanges bool
}

// orNA substitutes the external API's "no value" marker for empty
// descriptive fields, matching what the API itself would return.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// withDefaults applies the storage defaults for absent fields.
func (m Movie) withDefaults() Movie {
	m.Runtime = orNA(m.Runtime)
	m.Genre = orNA(m.Genre)
	m.Director = orNA(m.Director)
	return m
}
