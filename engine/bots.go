package engine

import (
	"context"
	"net/http"

	"github.com/use-agent/readmode/models"
)

// botStrategy impersonates a search-engine or social crawler. Many paywalls
// whitelist indexer user-agents (and some check the forwarded IP), so one
// configured instance exists per crawler identity.
type botStrategy struct {
	id      models.StrategyID
	client  *http.Client
	uas     []string
	ips     []string // X-Forwarded-For pool; empty means no IP spoofing
	referer string
}

func newGooglebot(client *http.Client) *botStrategy {
	return &botStrategy{
		id:     models.StrategyGooglebot,
		client: client,
		uas:    googlebotUAs,
		ips:    googleIPs,
	}
}

func newBingbot(client *http.Client) *botStrategy {
	return &botStrategy{
		id:      models.StrategyBingbot,
		client:  client,
		uas:     bingbotUAs,
		ips:     bingIPs,
		referer: "https://www.bing.com/",
	}
}

func newFacebookbot(client *http.Client) *botStrategy {
	return &botStrategy{
		id:      models.StrategyFacebookbot,
		client:  client,
		uas:     facebookUAs,
		referer: "https://www.facebook.com/",
	}
}

func (s *botStrategy) Name() models.StrategyID { return s.id }

func (s *botStrategy) Fetch(ctx context.Context, url string) models.StrategyResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Failure(s.id, "build request: "+err.Error())
	}
	req.Header.Set("User-Agent", pick(s.uas))
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if len(s.ips) > 0 {
		req.Header.Set("X-Forwarded-For", pick(s.ips))
	}
	if s.referer != "" {
		req.Header.Set("Referer", s.referer)
	}

	body, err := fetchHTML(s.client, req)
	if err != nil {
		return models.Failure(s.id, err.Error())
	}

	return models.StrategyResult{
		Strategy: s.id,
		Payload:  models.HTMLPayload{Body: body},
		Title:    extractTitle(body),
	}
}
