package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client wraps HTTP calls to the flickd server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new flickd API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) send(method, path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// API response types (mirror server types)

type MovieSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Runtime    string `json:"runtime"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	IsFavorite bool   `json:"isFavorite"`
	Poster     string `json:"poster"`
}

type MovieDetail struct {
	ImdbID   string `json:"imdbID"`
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Director string `json:"Director"`
	Plot     string `json:"Plot,omitempty"`
	Poster   string `json:"Poster"`
}

type UserMovie struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Runtime    string `json:"runtime"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	Poster     string `json:"poster"`
	IsFavorite bool   `json:"isFavorite"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// API methods

func (c *Client) Search(query, username string) ([]MovieSummary, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	if username != "" {
		params.Set("username", username)
	}

	var resp []MovieSummary
	if err := c.get("/api/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Movie(id string) (*MovieDetail, error) {
	var resp MovieDetail
	if err := c.get("/api/movie/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MovieByTitle(title string) (*MovieDetail, error) {
	var resp MovieDetail
	if err := c.get("/api/movie-by-title?title="+url.QueryEscape(title), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UserMovies(username string) ([]UserMovie, error) {
	var resp []UserMovie
	if err := c.get("/api/user-movies?username="+url.QueryEscape(username), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SaveUserMovie(username string, movie map[string]any) error {
	req := map[string]any{"username": username, "movie": movie}
	var resp SuccessResponse
	return c.send(http.MethodPost, "/api/user-movies", req, &resp)
}

func (c *Client) UpdateUserMovie(username string, movie map[string]any) error {
	req := map[string]any{"username": username, "movie": movie}
	var resp SuccessResponse
	return c.send(http.MethodPut, "/api/user-movies", req, &resp)
}

func (c *Client) DeleteUserMovie(username, movieID string) error {
	req := map[string]any{"username": username, "movieId": movieID}
	var resp SuccessResponse
	return c.send(http.MethodDelete, "/api/user-movies", req, &resp)
}
