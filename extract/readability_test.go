package extract

import (
	"strings"
	"testing"
)

func articleHTML() string {
	paras := strings.Repeat("<p>A full paragraph of body text that readability should keep in the main content block.</p>", 8)
	return `<html><head><title>Page Title - Site</title></head><body>` +
		`<nav><a href="/">home</a><a href="/about">about</a></nav>` +
		`<article><h1>Page Title</h1>` + paras + `</article>` +
		`<footer>© site</footer></body></html>`
}

func TestExtractContent(t *testing.T) {
	article := ExtractContent(articleHTML(), "https://ex.com/post")

	if article.Title == "" {
		t.Error("no title extracted")
	}
	if !strings.Contains(article.TextContent, "full paragraph of body text") {
		t.Errorf("main content missing: %q", article.TextContent)
	}
}

func TestExtractContentFallbackOnThinPage(t *testing.T) {
	// Too little text for readability; the body fallback must still return
	// whatever is there rather than an empty article.
	html := `<html><head><title>Thin</title></head><body><p>hi</p></body></html>`
	article := ExtractContent(html, "https://ex.com/thin")

	if article.Title != "Thin" {
		t.Errorf("title = %q, want Thin", article.Title)
	}
	if !strings.Contains(article.Content, "hi") {
		t.Errorf("content = %q", article.Content)
	}
}

func TestExtractContentFallbackTitleFromH1(t *testing.T) {
	html := `<html><body><h1>Only Heading</h1></body></html>`
	article := ExtractContent(html, "https://ex.com/h1")
	if article.Title != "Only Heading" {
		t.Errorf("title = %q, want Only Heading", article.Title)
	}
}
