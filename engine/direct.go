package engine

import (
	"context"
	"net/http"

	"github.com/use-agent/readmode/models"
)

// directStrategy is the baseline fetch with a realistic desktop browser
// identity. It is the only strategy that rejects blocked/paywalled bodies
// at the adapter level: when it is raced the orchestrator re-validates
// anyway, but in no-bypass mode it is the sole line of defense.
type directStrategy struct {
	client *http.Client
}

func (s *directStrategy) Name() models.StrategyID { return models.StrategyDirect }

func (s *directStrategy) Fetch(ctx context.Context, url string) models.StrategyResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Failure(s.Name(), "build request: "+err.Error())
	}
	req.Header.Set("User-Agent", desktopUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	body, err := fetchHTML(s.client, req)
	if err != nil {
		return models.Failure(s.Name(), err.Error())
	}

	if IsBlocked(body) {
		return models.Failure(s.Name(), "blocked page detected")
	}
	if IsPaywalled(body) {
		return models.Failure(s.Name(), "paywall detected")
	}

	return models.StrategyResult{
		Strategy: s.Name(),
		Payload:  models.HTMLPayload{Body: body},
		Title:    extractTitle(body),
	}
}
