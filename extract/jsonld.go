package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LDArticle is article content recovered from JSON-LD structured data.
// Publishers that render behind a paywall often still ship the full
// articleBody here for search engines, which makes this the cheapest
// extraction path.
type LDArticle struct {
	Title  string
	Body   string
	Author string
	Date   string
}

// articleTypes are the schema.org @type values accepted as articles.
var articleTypes = map[string]bool{
	"Article":              true,
	"NewsArticle":          true,
	"BlogPosting":          true,
	"WebPage":              true,
	"ReportageNewsArticle": true,
}

// minLDBodyLen is the minimum trimmed articleBody length for a JSON-LD
// object to qualify. Shorter bodies are usually teasers.
const minLDBodyLen = 200

// FromJSONLD scans every <script type="application/ld+json"> in the document
// and returns the first article-typed object with a substantial body, or nil.
// Malformed scripts are skipped silently; broken embedded JSON is routine.
func FromJSONLD(rawHTML string) *LDArticle {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var article *LDArticle
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var parsed any
		if err := json.Unmarshal([]byte(s.Text()), &parsed); err != nil {
			return true
		}
		for _, obj := range flatten(parsed) {
			if a := articleFrom(obj); a != nil {
				article = a
				return false
			}
		}
		return true
	})
	return article
}

// flatten returns the object itself, or its elements when it is an array.
func flatten(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		var out []map[string]any
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// articleFrom converts one JSON-LD object into an LDArticle when it is
// article-typed and carries enough body text.
func articleFrom(obj map[string]any) *LDArticle {
	if !articleTypes[firstString(obj["@type"])] {
		return nil
	}

	body := bodyText(obj)
	if len(strings.TrimSpace(body)) < minLDBodyLen {
		return nil
	}

	title := firstString(obj["headline"])
	if title == "" {
		title = firstString(obj["name"])
	}

	date := firstString(obj["datePublished"])
	if date == "" {
		date = firstString(obj["dateModified"])
	}

	return &LDArticle{
		Title:  title,
		Body:   strings.TrimSpace(body),
		Author: authorName(obj["author"]),
		Date:   date,
	}
}

// bodyText extracts articleBody (joining array parts with spaces) or text.
func bodyText(obj map[string]any) string {
	switch v := obj["articleBody"].(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	if s, ok := obj["text"].(string); ok {
		return s
	}
	return ""
}

// authorName handles the author field's shapes: object with name, array of
// objects or strings, plain string.
func authorName(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return name
		}
	case []any:
		if len(t) > 0 {
			switch first := t[0].(type) {
			case string:
				return first
			case map[string]any:
				if name, ok := first["name"].(string); ok {
					return name
				}
			}
		}
	}
	return ""
}

// firstString returns v as a string, or the first string element when v is
// an array (JSON-LD allows both for @type, headline, and dates).
func firstString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
