package extract

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below this threshold we assume
// the algorithm failed to locate the main content and fall back.
const minContentLength = 50

// ExtractContent runs the Mozilla Readability algorithm on rawHTML.
//
// On success it returns the Article with clean HTML in Content, plain text in
// TextContent, and metadata (Title, Byline, Excerpt, SiteName).
//
// Fallback behaviour (conversion must never fail because readability choked):
//   - If URL parsing fails           → body-HTML fallback
//   - If readability.FromReader errs → body-HTML fallback
//   - If extracted TextContent < 50  → body-HTML fallback
func ExtractContent(rawHTML string, sourceURL string) readability.Article {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL, using body fallback",
			"url", sourceURL, "error", err,
		)
		return fallbackArticle(rawHTML)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed, using body fallback",
			"url", sourceURL, "error", err,
		)
		return fallbackArticle(rawHTML)
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Warn("readability: extracted content too short, using body fallback",
			"url", sourceURL, "length", len(article.TextContent),
		)
		return fallbackArticle(rawHTML)
	}

	return article
}

// fallbackArticle composes an article from the document <body>, with the
// title taken from <title> or the first <h1>.
func fallbackArticle(rawHTML string) readability.Article {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return readability.Article{Content: rawHTML, TextContent: rawHTML}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	content := rawHTML
	if body, err := doc.Find("body").First().Html(); err == nil && strings.TrimSpace(body) != "" {
		content = body
	}

	return readability.Article{
		Title:       title,
		Content:     content,
		TextContent: strings.TrimSpace(doc.Text()),
	}
}
