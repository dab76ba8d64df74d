package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/use-agent/readmode/models"
)

const (
	defaultAvailabilityEndpoint = "https://archive.org/wayback/available"
	defaultWaybackWebEndpoint   = "https://web.archive.org/web/"
)

// archiveStrategy serves the Wayback Machine's snapshot of a URL. Archived
// copies predate paywalls and interstitials, which makes this the most
// reliable fallback for older articles.
type archiveStrategy struct {
	client       *http.Client
	availability string
	web          string
}

func newArchive(client *http.Client) *archiveStrategy {
	return &archiveStrategy{
		client:       client,
		availability: defaultAvailabilityEndpoint,
		web:          defaultWaybackWebEndpoint,
	}
}

// availabilityResponse mirrors the Wayback availability API.
type availabilityResponse struct {
	ArchivedSnapshots struct {
		Closest struct {
			URL       string `json:"url"`
			Timestamp string `json:"timestamp"`
			Status    string `json:"status"`
			Available bool   `json:"available"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

func (s *archiveStrategy) Name() models.StrategyID { return models.StrategyArchive }

func (s *archiveStrategy) Fetch(ctx context.Context, target string) models.StrategyResult {
	snapshot := s.lookupSnapshot(ctx, target)
	if snapshot == "" {
		// No indexed snapshot; the web endpoint redirects to the
		// closest capture on its own.
		snapshot = s.web + target
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshot, nil)
	if err != nil {
		return models.Failure(s.Name(), "build request: "+err.Error())
	}
	req.Header.Set("User-Agent", desktopUA)

	body, err := fetchHTML(s.client, req)
	if err != nil {
		return models.Failure(s.Name(), err.Error())
	}

	return models.StrategyResult{
		Strategy: s.Name(),
		Payload:  models.HTMLPayload{Body: body},
		Title:    extractTitle(body),
	}
}

// lookupSnapshot queries the availability API and returns the closest
// snapshot URL, or "" when none qualifies.
func (s *archiveStrategy) lookupSnapshot(ctx context.Context, target string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.availability+"?url="+url.QueryEscape(target), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", desktopUA)

	resp, err := s.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return ""
	}

	var avail availabilityResponse
	if err := json.Unmarshal(raw, &avail); err != nil {
		return ""
	}
	closest := avail.ArchivedSnapshots.Closest
	if closest.URL == "" || closest.Status != "200" {
		return ""
	}
	return closest.URL
}
