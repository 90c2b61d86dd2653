package handler

// ShortenRequest is the JSON form of a shorten request
type ShortenRequest struct {
	URL string `json:"url"`
}

// ShortenResponse is returned by POST /shorten
type ShortenResponse struct {
	ShortURL    string `json:"short_url"`
	ShortID     string `json:"short_id"`
	OriginalURL string `json:"original_url"`
}

// ErrorResponse carries a human-readable error message
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
}
