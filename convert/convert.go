// Package convert is the conversion façade: it resolves a URL through the
// strategy orchestrator, extracts the article (JSON-LD first, readability
// second), renders reader-mode Markdown, and caches the result by URL.
package convert

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	mdconverter "github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"github.com/use-agent/readmode/cache"
	"github.com/use-agent/readmode/engine"
	"github.com/use-agent/readmode/extract"
	"github.com/use-agent/readmode/models"
)

// contentTypeMarkdown and contentTypeJSON are the two output content types.
const (
	contentTypeMarkdown = "text/plain; charset=utf-8"
	contentTypeJSON     = "application/json"
)

// minLDContentLen is the JSON-LD body length below which the readability
// pipeline runs instead.
const minLDContentLen = 500

// Orchestrator resolves a URL to HTML or Markdown content.
// *engine.Orchestrator is the production implementation.
type Orchestrator interface {
	Orchestrate(ctx context.Context, url string, opts engine.Options) (*models.Outcome, error)
}

// Converter ties the orchestrator, the extraction pipeline, and the URL
// cache together behind a single Convert entry point.
type Converter struct {
	orch  Orchestrator
	cache *cache.Cache
	md    *mdconverter.Converter

	now func() time.Time // overridable in tests
}

// New creates a Converter. cache may be nil to disable caching entirely.
func New(orch Orchestrator, c *cache.Cache) *Converter {
	return &Converter{
		orch:  orch,
		cache: c,
		md:    extract.NewMarkdownConverter(),
		now:   time.Now,
	}
}

// Convert turns a URL into reader-mode Markdown (or its JSON envelope).
func (c *Converter) Convert(ctx context.Context, rawURL string, opts models.ConvertOptions) (*models.ConvertResult, error) {
	opts.Defaults()

	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	useCache := c.cache != nil && *opts.UseCache
	if useCache {
		if cached, hit := c.cache.Get(rawURL); hit {
			hitCopy := *cached
			hitCopy.FromCache = true
			return &hitCopy, nil
		}
	}

	outcome, err := c.orch.Orchestrate(ctx, rawURL, engine.Options{
		Bypass:   opts.Bypass,
		Strategy: models.StrategyID(opts.Strategy),
	})
	if err != nil {
		return nil, err
	}

	result, err := c.render(rawURL, outcome, opts)
	if err != nil {
		return nil, err
	}

	if useCache {
		c.cache.Set(rawURL, result)
	}
	return result, nil
}

// render builds the final ConvertResult from a winning outcome.
func (c *Converter) render(rawURL string, outcome *models.Outcome, opts models.ConvertOptions) (*models.ConvertResult, error) {
	var (
		markdown string
		title    string
		author   string
		date     string
	)

	switch payload := outcome.Payload.(type) {
	case models.MarkdownPayload:
		// Reader services already produced Markdown; pass it through.
		markdown = payload.Body
		title = outcome.Title

	case models.HTMLPayload:
		html := payload.Body
		if opts.Selector != "" {
			narrowed, err := extract.ApplySelector(html, opts.Selector)
			if err != nil {
				return nil, models.NewConvertError(models.ErrCodeInvalidInput,
					"invalid selector", err)
			}
			html = narrowed
		}

		if ld := extract.FromJSONLD(html); ld != nil && len(ld.Body) > minLDContentLen {
			markdown = composeArticle(ld.Title, ld.Author, ld.Body)
			title, author, date = ld.Title, ld.Author, ld.Date
			break
		}

		article := extract.ExtractContent(html, rawURL)
		prepared := extract.PrepareImages(article.Content, rawURL, *opts.PreserveImages)
		body, err := extract.ToMarkdown(c.md, prepared, rawURL)
		if err != nil {
			return nil, models.NewConvertError(models.ErrCodeExtraction,
				"markdown conversion failed", err)
		}

		title = article.Title
		if title == "" {
			title = outcome.Title
		}
		author = article.Byline
		markdown = composeArticle(title, author, body)

	default:
		return nil, models.NewConvertError(models.ErrCodeInternal,
			"orchestrator returned no payload", nil)
	}

	content := markdown
	contentType := contentTypeMarkdown
	if opts.JSONFormat {
		envelope, err := c.envelope(rawURL, outcome, markdown, title, author, date)
		if err != nil {
			return nil, models.NewConvertError(models.ErrCodeInternal,
				"envelope encoding failed", err)
		}
		content = envelope
		contentType = contentTypeJSON
	}

	slog.Debug("conversion complete",
		"url", rawURL, "strategy", outcome.Strategy, "bytes", len(content))

	return &models.ConvertResult{
		URL:         rawURL,
		Content:     content,
		ContentType: contentType,
		Strategy:    outcome.Strategy,
		Title:       title,
		Author:      author,
		ElapsedMs:   outcome.ElapsedMs,
		Tokens:      extract.EstimateTokens(markdown),
	}, nil
}

// envelope wraps markdown in the JSON envelope.
func (c *Converter) envelope(rawURL string, outcome *models.Outcome, markdown, title, author, date string) (string, error) {
	if title == "" {
		title = "Extracted Content"
	}
	if date == "" {
		date = c.now().Format(time.RFC3339)
	}
	raw, err := json.Marshal(models.Envelope{
		URL:      rawURL,
		Title:    title,
		Date:     date,
		Content:  markdown,
		Strategy: outcome.Strategy,
		Elapsed:  outcome.ElapsedMs,
		Author:   author,
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// composeArticle prefixes the body with the title heading and an optional
// byline.
func composeArticle(title, author, body string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("# ")
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}
	if author != "" {
		sb.WriteString("*By ")
		sb.WriteString(author)
		sb.WriteString("*\n\n")
	}
	sb.WriteString(body)
	return sb.String()
}

// validateURL rejects anything that is not an absolute http(s) URL.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.NewConvertError(models.ErrCodeInvalidURL, "unparseable URL", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.NewConvertError(models.ErrCodeInvalidURL,
			"URL must be absolute http(s)", nil)
	}
	return nil
}
