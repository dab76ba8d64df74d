package engine

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/use-agent/readmode/models"
)

const defaultTwelveftEndpoint = "https://12ft.io/proxy"

// twelveftStrategy fetches through the 12ft.io paywall proxy.
type twelveftStrategy struct {
	client   *http.Client
	endpoint string
}

func newTwelveft(client *http.Client) *twelveftStrategy {
	return &twelveftStrategy{client: client, endpoint: defaultTwelveftEndpoint}
}

func (s *twelveftStrategy) Name() models.StrategyID { return models.StrategyTwelveft }

func (s *twelveftStrategy) Fetch(ctx context.Context, target string) models.StrategyResult {
	proxied := s.endpoint + "?q=" + url.QueryEscape(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, proxied, nil)
	if err != nil {
		return models.Failure(s.Name(), "build request: "+err.Error())
	}
	req.Header.Set("User-Agent", desktopUA)
	req.Header.Set("Referer", "https://12ft.io/")

	body, err := fetchHTML(s.client, req)
	if err != nil {
		return models.Failure(s.Name(), err.Error())
	}

	// 12ft reports its own failures inside a 200 body. Only these two
	// literal markers are checked, matching the service's responses; the
	// broader block pattern set is deliberately not applied here.
	lower := strings.ToLower(body)
	if strings.Contains(lower, "rate limit exceeded") || strings.Contains(lower, "blocked") {
		return models.Failure(s.Name(), "12ft.io refused the request")
	}

	return models.StrategyResult{
		Strategy: s.Name(),
		Payload:  models.HTMLPayload{Body: body},
		Title:    extractTitle(body),
	}
}
