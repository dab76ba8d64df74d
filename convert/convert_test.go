package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/readmode/cache"
	"github.com/use-agent/readmode/engine"
	"github.com/use-agent/readmode/models"
)

// stubOrchestrator returns a canned outcome and records the options it saw.
type stubOrchestrator struct {
	outcome *models.Outcome
	err     error
	calls   int
	lastURL string
	lastOpt engine.Options
}

func (s *stubOrchestrator) Orchestrate(_ context.Context, url string, opts engine.Options) (*models.Outcome, error) {
	s.calls++
	s.lastURL = url
	s.lastOpt = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

func htmlOutcome(strategy, body string) *models.Outcome {
	return &models.Outcome{
		Strategy:  strategy,
		Payload:   models.HTMLPayload{Body: body},
		ElapsedMs: 42,
	}
}

func articlePage(headline, body string) string {
	return fmt.Sprintf(`<html><head><title>%s</title></head><body><article><h1>%s</h1>%s</article></body></html>`,
		headline, headline, body)
}

func TestConvertMarkdownPassthrough(t *testing.T) {
	orch := &stubOrchestrator{outcome: &models.Outcome{
		Strategy: "jina",
		Payload:  models.MarkdownPayload{Body: "# Ready Made\n\nAlready markdown."},
		Title:    "Ready Made",
	}}
	cv := New(orch, nil)

	res, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if res.Content != "# Ready Made\n\nAlready markdown." {
		t.Errorf("content = %q", res.Content)
	}
	if res.Strategy != "jina" {
		t.Errorf("strategy = %q", res.Strategy)
	}
	if res.ContentType != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q", res.ContentType)
	}
	if res.Tokens == 0 {
		t.Error("token estimate missing")
	}
}

func TestConvertPrefersJSONLD(t *testing.T) {
	body := strings.Repeat("Sentence of article body text from structured data. ", 12)
	page := fmt.Sprintf(`<html><head><script type="application/ld+json">
		{"@type":"NewsArticle","headline":"Structured Headline","articleBody":%q,"author":{"name":"A. Writer"}}
	</script></head><body><p>visible teaser only</p></body></html>`, body)

	orch := &stubOrchestrator{outcome: htmlOutcome("direct", page)}
	cv := New(orch, nil)

	res, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.HasPrefix(res.Content, "# Structured Headline\n\n") {
		t.Errorf("title heading missing:\n%s", res.Content)
	}
	if !strings.Contains(res.Content, "*By A. Writer*") {
		t.Errorf("byline missing:\n%s", res.Content)
	}
	if !strings.Contains(res.Content, "structured data") {
		t.Errorf("articleBody missing:\n%s", res.Content)
	}
	if res.Author != "A. Writer" {
		t.Errorf("author = %q", res.Author)
	}
}

func TestConvertReadabilityPipeline(t *testing.T) {
	paras := strings.Repeat("<p>Paragraph of real article prose that should survive extraction.</p>", 10)
	orch := &stubOrchestrator{outcome: htmlOutcome("googlebot", articlePage("Pipeline Title", paras))}
	cv := New(orch, nil)

	res, err := cv.Convert(context.Background(), "https://ex.com/post", models.ConvertOptions{})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(res.Content, "real article prose") {
		t.Errorf("article text missing:\n%s", res.Content)
	}
	if !strings.HasPrefix(res.Content, "# ") {
		t.Errorf("no title heading:\n%s", res.Content)
	}
	if res.Strategy != "googlebot" {
		t.Errorf("strategy = %q", res.Strategy)
	}
}

func TestConvertJSONEnvelope(t *testing.T) {
	orch := &stubOrchestrator{outcome: &models.Outcome{
		Strategy:  "archive",
		Payload:   models.MarkdownPayload{Body: "Body text for the envelope."},
		Title:     "Envelope Title",
		ElapsedMs: 7,
	}}
	cv := New(orch, nil)
	cv.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	res, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{JSONFormat: true})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if res.ContentType != "application/json" {
		t.Errorf("content type = %q", res.ContentType)
	}

	var env models.Envelope
	if err := json.Unmarshal([]byte(res.Content), &env); err != nil {
		t.Fatalf("envelope is not valid JSON: %v", err)
	}
	if env.Title != "Envelope Title" {
		t.Errorf("title = %q", env.Title)
	}
	if env.Content != "Body text for the envelope." {
		t.Errorf("content = %q", env.Content)
	}
	if env.Strategy != "archive" {
		t.Errorf("strategy = %q", env.Strategy)
	}
	if env.Date != "2024-05-01T12:00:00Z" {
		t.Errorf("date = %q, want injected clock value", env.Date)
	}
}

func TestConvertJSONEnvelopeDefaultTitle(t *testing.T) {
	orch := &stubOrchestrator{outcome: &models.Outcome{
		Strategy: "jina",
		Payload:  models.MarkdownPayload{Body: "untitled content"},
	}}
	cv := New(orch, nil)

	res, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{JSONFormat: true})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	var env models.Envelope
	if err := json.Unmarshal([]byte(res.Content), &env); err != nil {
		t.Fatalf("envelope is not valid JSON: %v", err)
	}
	if env.Title != "Extracted Content" {
		t.Errorf("title = %q, want default", env.Title)
	}
}

func TestConvertCacheRoundTrip(t *testing.T) {
	orch := &stubOrchestrator{outcome: &models.Outcome{
		Strategy: "direct",
		Payload:  models.MarkdownPayload{Body: "cached body"},
	}}
	cv := New(orch, cache.New(10, time.Minute))

	first, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{})
	if err != nil {
		t.Fatalf("first convert failed: %v", err)
	}
	if first.FromCache {
		t.Error("first conversion must not be served from cache")
	}

	second, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{})
	if err != nil {
		t.Fatalf("second convert failed: %v", err)
	}
	if !second.FromCache {
		t.Error("second conversion must be served from cache")
	}
	if orch.calls != 1 {
		t.Errorf("orchestrator called %d times, want 1", orch.calls)
	}
}

func TestConvertCacheDisabledByOption(t *testing.T) {
	orch := &stubOrchestrator{outcome: &models.Outcome{
		Strategy: "direct",
		Payload:  models.MarkdownPayload{Body: "uncached body"},
	}}
	cv := New(orch, cache.New(10, time.Minute))

	off := false
	opts := models.ConvertOptions{UseCache: &off}
	for i := 0; i < 2; i++ {
		if _, err := cv.Convert(context.Background(), "https://ex.com/a", opts); err != nil {
			t.Fatalf("convert %d failed: %v", i, err)
		}
	}
	if orch.calls != 2 {
		t.Errorf("orchestrator called %d times, want 2", orch.calls)
	}
}

func TestConvertInvalidURL(t *testing.T) {
	cv := New(&stubOrchestrator{}, nil)

	for _, bad := range []string{"", "not a url", "ftp://host/file", "/relative/only"} {
		_, err := cv.Convert(context.Background(), bad, models.ConvertOptions{})
		var ce *models.ConvertError
		if !errors.As(err, &ce) || ce.Code != models.ErrCodeInvalidURL {
			t.Errorf("Convert(%q) error = %v, want INVALID_URL", bad, err)
		}
	}
}

func TestConvertSelectorOption(t *testing.T) {
	paras := strings.Repeat("<p>Selected region prose kept for the reader.</p>", 10)
	page := `<html><body><div id="junk">` + strings.Repeat("<p>boilerplate navigation chrome</p>", 10) +
		`</div><div id="main">` + paras + `</div></body></html>`

	orch := &stubOrchestrator{outcome: htmlOutcome("direct", page)}
	cv := New(orch, nil)

	res, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{Selector: "#main"})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(res.Content, "Selected region prose") {
		t.Errorf("selected content missing:\n%s", res.Content)
	}
	if strings.Contains(res.Content, "boilerplate navigation") {
		t.Errorf("unselected content leaked:\n%s", res.Content)
	}
}

func TestConvertInvalidSelector(t *testing.T) {
	orch := &stubOrchestrator{outcome: htmlOutcome("direct", "<p>x</p>")}
	cv := New(orch, nil)

	_, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{Selector: "[[["})
	var ce *models.ConvertError
	if !errors.As(err, &ce) || ce.Code != models.ErrCodeInvalidInput {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestConvertPropagatesOrchestratorError(t *testing.T) {
	want := models.NewConvertError(models.ErrCodeAllFailed, "all strategies failed", nil)
	cv := New(&stubOrchestrator{err: want}, nil)

	_, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{})
	var ce *models.ConvertError
	if !errors.As(err, &ce) || ce.Code != models.ErrCodeAllFailed {
		t.Errorf("error = %v, want ALL_STRATEGIES_FAILED passthrough", err)
	}
}

func TestConvertForwardsOptions(t *testing.T) {
	orch := &stubOrchestrator{outcome: &models.Outcome{
		Strategy: "archive",
		Payload:  models.MarkdownPayload{Body: "body"},
	}}
	cv := New(orch, nil)

	_, err := cv.Convert(context.Background(), "https://ex.com/a", models.ConvertOptions{
		Bypass:   true,
		Strategy: "archive",
	})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !orch.lastOpt.Bypass {
		t.Error("bypass flag not forwarded")
	}
	if orch.lastOpt.Strategy != models.StrategyArchive {
		t.Errorf("strategy = %q, want archive", orch.lastOpt.Strategy)
	}
}
