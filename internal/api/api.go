// Package api implements the REST surface for movie search, detail
// lookup, and per-user movie collections.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vmunix/flickd/internal/aggregator"
	"github.com/vmunix/flickd/internal/favorites"
	"github.com/vmunix/flickd/internal/resolver"
)

// Server is the API server.
type Server struct {
	agg       *aggregator.Aggregator
	resolver  *resolver.Resolver
	favorites *favorites.Manager
	log       *slog.Logger
}

// New creates an API server over the given collaborators.
func New(agg *aggregator.Aggregator, res *resolver.Resolver, fav *favorites.Manager, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{agg: agg, resolver: res, favorites: fav, log: log}
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", s.search)
	mux.HandleFunc("GET /api/movie/{id}", s.getMovie)
	mux.HandleFunc("GET /api/movie-by-title", s.getMovieByTitle)

	mux.HandleFunc("GET /api/user-movies", s.listUserMovies)
	mux.HandleFunc("POST /api/user-movies", s.saveUserMovie)
	mux.HandleFunc("PUT /api/user-movies", s.updateUserMovie)
	mux.HandleFunc("DELETE /api/user-movies", s.deleteUserMovie)
}

// Error response carries a bare message; callers match on the HTTP status.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	username := r.URL.Query().Get("username")

	movies, err := s.agg.Search(r.Context(), query, username)
	if err != nil {
		s.log.Error("search failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, "OMDB request failed")
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Movie id is required")
		return
	}

	movie, err := s.resolver.Resolve(r.Context(), id)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.log.Error("movie lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch movie")
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) getMovieByTitle(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	movie, err := s.agg.BestByTitle(r.Context(), title)
	if err != nil {
		if errors.Is(err, aggregator.ErrNoMatch) {
			writeError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.log.Error("title lookup failed", "title", title, "error", err)
		writeError(w, http.StatusInternalServerError, "OMDB request failed")
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) listUserMovies(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username required")
		return
	}

	list, err := s.favorites.List(username)
	if err != nil {
		s.log.Error("list user movies failed", "user", username, "error", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := make([]userMovieResponse, len(list))
	for i, um := range list {
		resp[i] = userMovieToResponse(um)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) saveUserMovie(w http.ResponseWriter, r *http.Request) {
	var req userMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Movie == nil || req.Movie.ID == "" {
		writeError(w, http.StatusBadRequest, "username & movie required")
		return
	}

	if _, err := s.favorites.Save(req.Username, req.Movie.toMovie(), req.Movie.IsFavorite); err != nil {
		s.log.Error("save user movie failed", "user", req.Username, "movie", req.Movie.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) updateUserMovie(w http.ResponseWriter, r *http.Request) {
	var req userMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Movie == nil || req.Movie.ID == "" {
		writeError(w, http.StatusBadRequest, "username & movie required")
		return
	}

	if err := s.favorites.Update(req.Username, req.Movie.toMovie(), req.Movie.IsFavorite); err != nil {
		s.log.Error("update user movie failed", "user", req.Username, "movie", req.Movie.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) deleteUserMovie(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.MovieID == "" {
		writeError(w, http.StatusBadRequest, "username & movieId required")
		return
	}

	if err := s.favorites.Delete(req.Username, req.MovieID); err != nil {
		s.log.Error("delete user movie failed", "user", req.Username, "movie", req.MovieID, "error", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
