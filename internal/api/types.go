package api

import "github.com/vmunix/flickd/internal/catalog"

// moviePayload is the movie object carried in user-movie write requests.
type moviePayload struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Runtime    string `json:"runtime"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	Poster     string `json:"poster"`
	IsFavorite bool   `json:"isFavorite"`
}

func (p *moviePayload) toMovie() *catalog.Movie {
	return &catalog.Movie{
		ID:       p.ID,
		Title:    p.Title,
		Year:     p.Year,
		Runtime:  p.Runtime,
		Genre:    p.Genre,
		Director: p.Director,
		Poster:   p.Poster,
	}
}

type userMovieRequest struct {
	Username string        `json:"username"`
	Movie    *moviePayload `json:"movie"`
}

type deleteRequest struct {
	Username string `json:"username"`
	MovieID  string `json:"movieId"`
}

type userMovieResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Runtime    string `json:"runtime"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	Poster     string `json:"poster"`
	IsFavorite bool   `json:"isFavorite"`
}

func userMovieToResponse(um *catalog.UserMovie) userMovieResponse {
	return userMovieResponse{
		ID:         um.ID,
		Title:      um.Title,
		Year:       um.Year,
		Runtime:    um.Runtime,
		Genre:      um.Genre,
		Director:   um.Director,
		Poster:     um.Poster,
		IsFavorite: um.IsFavorite,
	}
}

type successResponse struct {
	Success bool `json:"success"`
}
