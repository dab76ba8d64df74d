package extract

import (
	"strings"
	"testing"
)

func TestApplySelector(t *testing.T) {
	in := `<html><body><nav>menu</nav><article class="post"><p>the story</p></article><footer>legal</footer></body></html>`

	out, err := ApplySelector(in, "article.post")
	if err != nil {
		t.Fatalf("selector failed: %v", err)
	}
	if !strings.Contains(out, "the story") {
		t.Errorf("matched content missing: %s", out)
	}
	if strings.Contains(out, "menu") || strings.Contains(out, "legal") {
		t.Errorf("unmatched content kept: %s", out)
	}
}

func TestApplySelectorMultipleMatches(t *testing.T) {
	in := `<div class="sec">one</div><p>skip</p><div class="sec">two</div>`
	out, err := ApplySelector(in, "div.sec")
	if err != nil {
		t.Fatalf("selector failed: %v", err)
	}
	if !strings.Contains(out, "one") || !strings.Contains(out, "two") {
		t.Errorf("not all matches concatenated: %s", out)
	}
	if strings.Contains(out, "skip") {
		t.Errorf("non-matching element kept: %s", out)
	}
}

func TestApplySelectorNoMatchKeepsOriginal(t *testing.T) {
	in := `<p>original</p>`
	out, err := ApplySelector(in, ".does-not-exist")
	if err != nil {
		t.Fatalf("selector failed: %v", err)
	}
	if out != in {
		t.Errorf("no-match did not return original: %s", out)
	}
}

func TestApplySelectorInvalid(t *testing.T) {
	if _, err := ApplySelector("<p>x</p>", "[[["); err == nil {
		t.Fatal("expected error for invalid selector")
	}
}
