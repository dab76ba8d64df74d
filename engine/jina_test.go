package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/use-agent/readmode/models"
)

func TestStripJinaPreamble(t *testing.T) {
	body := "Title: Some Article\nURL Source: https://example.com/a\n\nMarkdown Content:\n\n# Some Article\n\nBody text here."
	got := stripJinaPreamble(body)
	want := "# Some Article\n\nBody text here."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripJinaPreambleAbsent(t *testing.T) {
	body := "# Plain\n\nNo preamble."
	if got := stripJinaPreamble(body); got != body {
		t.Errorf("body without preamble was modified: %q", got)
	}
}

func TestJinaFetch(t *testing.T) {
	article := strings.Repeat("Paragraph of article text. ", 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/plain" {
			t.Errorf("Accept = %q, want text/plain", got)
		}
		if !strings.Contains(r.URL.String(), "example.com") {
			t.Errorf("target URL not forwarded: %s", r.URL)
		}
		w.Write([]byte("Title: The Headline\n\nMarkdown Content:\n\n# The Headline\n\n" + article))
	}))
	defer srv.Close()

	s := &jinaStrategy{client: srv.Client(), endpoint: srv.URL + "/"}
	res := s.Fetch(context.Background(), "https://example.com/a")

	if !res.OK() {
		t.Fatalf("fetch failed: %s", res.Err)
	}
	md, ok := res.Payload.(models.MarkdownPayload)
	if !ok {
		t.Fatalf("payload = %#v, want markdown", res.Payload)
	}
	if strings.Contains(md.Body, "Markdown Content:") {
		t.Error("preamble not stripped")
	}
	if res.Title != "The Headline" {
		t.Errorf("title = %q, want The Headline", res.Title)
	}
}

func TestJinaRejectsShortBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	s := &jinaStrategy{client: srv.Client(), endpoint: srv.URL + "/"}
	res := s.Fetch(context.Background(), "https://example.com/a")
	if res.OK() {
		t.Fatal("expected failure for sub-50-byte body")
	}
}

func TestJinaTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := &jinaStrategy{client: srv.Client(), endpoint: srv.URL + "/"}
	res := s.Fetch(context.Background(), "https://example.com/a")
	if res.OK() || !strings.Contains(res.Err, "502") {
		t.Errorf("result = %+v, want HTTP 502 failure", res)
	}
}
