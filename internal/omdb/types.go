// Package omdb provides a client for the OMDb movie information API.
package omdb

// SearchHit is a single result from a title search.
type SearchHit struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// searchResponse is the wire shape of a title search.
// OMDb reports misses as Response "False" with HTTP 200.
type searchResponse struct {
	Search   []SearchHit `json:"Search"`
	Response string      `json:"Response"`
	Error    string      `json:"Error"`
}

// Detail is a full movie record in the external API shape.
// Fields OMDb has no value for carry the literal string "N/A".
type Detail struct {
	ImdbID   string `json:"imdbID"`
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Director string `json:"Director"`
	Plot     string `json:"Plot,omitempty"`
	Poster   string `json:"Poster"`
	Response string `json:"Response"`
	Error    string `json:"Error,omitempty"`
}
