package models

// ConvertResult is the conversion façade's answer for a URL.
type ConvertResult struct {
	// URL is the requested URL.
	URL string `json:"url"`

	// Content is the rendered Markdown, or the JSON envelope when the
	// json_format option was set.
	Content string `json:"content"`

	// ContentType is "text/plain; charset=utf-8" for Markdown output and
	// "application/json" for the envelope.
	ContentType string `json:"content_type"`

	// Strategy is the winning strategy name (possibly composite, e.g.
	// "googlenews-archive").
	Strategy string `json:"strategy"`

	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`

	// ElapsedMs is the end-to-end orchestration duration.
	ElapsedMs int64 `json:"elapsed_ms"`

	// FromCache indicates the result was served from the URL cache.
	FromCache bool `json:"from_cache"`

	// Tokens is a rough token estimate of Content for LLM budgeting.
	Tokens int `json:"tokens"`
}

// Envelope is the JSON wrapper emitted when json_format is requested.
type Envelope struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Content  string `json:"content"`
	Strategy string `json:"strategy"`
	Elapsed  int64  `json:"elapsed"`
	Author   string `json:"author,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
