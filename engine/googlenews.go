package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/use-agent/readmode/models"
)

// googleNewsStrategy decodes a news.google.com redirect URL to the real
// publisher URL and re-enters the orchestrator with bypass enabled.
// The winning inner strategy is reported as "googlenews-<inner>".
type googleNewsStrategy struct {
	orch *Orchestrator
}

func (s *googleNewsStrategy) Name() models.StrategyID { return models.StrategyGoogleNews }

func (s *googleNewsStrategy) Fetch(ctx context.Context, target string) models.StrategyResult {
	decoded, err := DecodeGoogleNewsURL(target)
	if err != nil {
		return models.Failure(s.Name(), err.Error())
	}

	// Refuse to recurse into another Google News URL: a decoder bug or a
	// nested redirect would otherwise loop forever.
	if isGoogleNewsURL(decoded) {
		return models.Failure(s.Name(), "decoded URL is itself a Google News URL")
	}

	outcome, err := s.orch.Orchestrate(ctx, decoded, Options{Bypass: true})
	if err != nil {
		return models.Failure(s.Name(), err.Error())
	}

	return models.StrategyResult{
		Strategy: s.Name(),
		Payload:  outcome.Payload,
		Title:    outcome.Title,
		Inner:    outcome.Strategy,
	}
}

// isGoogleNewsURL reports whether the URL is a Google News host or an RSS
// article redirect.
func isGoogleNewsURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), "news.google.com") ||
		strings.Contains(u.Path, "/rss/articles/")
}

// DecodeGoogleNewsURL recovers the publisher URL embedded in a Google News
// article id. The id is base64 over a small protobuf-ish record that carries
// the URL as a length-prefixed string; rather than parsing the framing, the
// decoder scans the payload for an http(s) run. Newer opaque ids (the
// service-side "AU_yqL" format) cannot be decoded offline.
func DecodeGoogleNewsURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	id := articleID(u.Path)
	if id == "" {
		return "", fmt.Errorf("no article id in %s", u.Path)
	}
	if strings.HasPrefix(id, "AU_yqL") {
		return "", fmt.Errorf("article id uses the opaque format and cannot be decoded offline")
	}

	payload, err := decodeBase64Loose(id)
	if err != nil {
		return "", fmt.Errorf("decode article id: %w", err)
	}

	decoded := extractURLRun(payload)
	if decoded == "" {
		return "", fmt.Errorf("no URL found in decoded article id")
	}
	return decoded, nil
}

// articleID extracts the id segment from /rss/articles/<id>, /articles/<id>,
// or /read/<id> paths.
func articleID(path string) string {
	for _, prefix := range []string{"/rss/articles/", "/articles/", "/read/"} {
		if idx := strings.Index(path, prefix); idx >= 0 {
			id := path[idx+len(prefix):]
			if cut := strings.IndexAny(id, "/?"); cut >= 0 {
				id = id[:cut]
			}
			return id
		}
	}
	return ""
}

// decodeBase64Loose tries the URL-safe alphabet first (with and without
// padding), then standard base64.
func decodeBase64Loose(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("not valid base64")
}

// extractURLRun returns the longest printable run starting with http(s)
// inside the decoded payload.
func extractURLRun(payload []byte) string {
	s := string(payload)
	idx := strings.Index(s, "https://")
	if idx < 0 {
		idx = strings.Index(s, "http://")
	}
	if idx < 0 {
		return ""
	}
	end := idx
	for end < len(s) {
		c := s[end]
		if c < 0x21 || c > 0x7e {
			break
		}
		end++
	}
	// The URL field is often followed by another length-prefixed copy;
	// binary bytes already terminated the run above.
	return s[idx:end]
}
