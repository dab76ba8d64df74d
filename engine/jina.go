package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/use-agent/readmode/models"
)

const defaultJinaEndpoint = "https://r.jina.ai/"

// jinaStrategy uses the Jina Reader service, which renders the page
// remotely and returns Markdown directly.
type jinaStrategy struct {
	client   *http.Client
	endpoint string
}

func newJina(client *http.Client) *jinaStrategy {
	return &jinaStrategy{client: client, endpoint: defaultJinaEndpoint}
}

var (
	jinaTitleRe    = regexp.MustCompile(`(?m)^# (.+)$`)
	jinaPreambleRe = regexp.MustCompile(`(?s)\ATitle:.*?Markdown Content:\n+`)
)

func (s *jinaStrategy) Name() models.StrategyID { return models.StrategyJina }

func (s *jinaStrategy) Fetch(ctx context.Context, target string) models.StrategyResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+target, nil)
	if err != nil {
		return models.Failure(s.Name(), "build request: "+err.Error())
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Failure(s.Name(), err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Failure(s.Name(), fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return models.Failure(s.Name(), "read body: "+err.Error())
	}

	markdown := stripJinaPreamble(string(raw))
	if len(markdown) < 50 {
		return models.Failure(s.Name(), "response too short")
	}

	title := ""
	if m := jinaTitleRe.FindStringSubmatch(markdown); m != nil {
		title = strings.TrimSpace(m[1])
	}

	return models.StrategyResult{
		Strategy: s.Name(),
		Payload:  models.MarkdownPayload{Body: markdown},
		Title:    title,
	}
}

// stripJinaPreamble removes the "Title: … URL Source: … Markdown Content:"
// header block the reader prepends in text mode.
func stripJinaPreamble(body string) string {
	if !strings.HasPrefix(body, "Title:") {
		return body
	}
	return jinaPreambleRe.ReplaceAllString(body, "")
}
