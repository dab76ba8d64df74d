package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PrepareImages normalizes every image in the HTML fragment so the Markdown
// converter sees plain absolute <img src alt title> elements:
//
//   - The source is taken from data-src, then data-lazy-src, then src, so
//     lazy-loaded images survive and base64 placeholders are dropped.
//   - Relative sources are resolved against baseURL.
//   - Alt text falls back to the title attribute, then to "image".
//   - A <figure> wrapping an <img> collapses to the standalone image, with
//     the <figcaption> text as its alt.
//
// When preserve is false, images, figures, and iframes are elided entirely.
func PrepareImages(rawHTML string, baseURL string, preserve bool) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	if !preserve {
		doc.Find("img, figure, iframe").Remove()
		return renderBody(doc, rawHTML)
	}

	// Collapse figures first so their images go through the same
	// normalization below.
	doc.Find("figure").Each(func(_ int, fig *goquery.Selection) {
		img := fig.Find("img").First()
		if img.Length() == 0 {
			return
		}
		if caption := strings.TrimSpace(fig.Find("figcaption").First().Text()); caption != "" {
			img.SetAttr("alt", caption)
		}
		html, err := goquery.OuterHtml(img)
		if err != nil {
			return
		}
		fig.ReplaceWithHtml(html)
	})

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSource(img)
		if src == "" || strings.HasPrefix(src, "data:") {
			img.Remove()
			return
		}

		img.SetAttr("src", ResolveURL(src, baseURL))
		img.RemoveAttr("data-src")
		img.RemoveAttr("data-lazy-src")
		img.RemoveAttr("srcset")

		alt, title := img.AttrOr("alt", ""), img.AttrOr("title", "")
		if alt == "" {
			alt = title
		}
		if alt == "" {
			alt = "image"
		}
		img.SetAttr("alt", alt)
		// Keep the title only when it adds information beyond the alt.
		if title == "" || title == alt {
			img.RemoveAttr("title")
		}
	})

	return renderBody(doc, rawHTML)
}

// imageSource picks the real image source, preferring lazy-load attributes
// over src (which often holds a placeholder).
func imageSource(img *goquery.Selection) string {
	for _, attr := range []string{"data-src", "data-lazy-src", "src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ResolveURL resolves a possibly-relative reference against base:
// protocol-relative references adopt the base scheme, absolute paths the
// base origin, and bare relative paths the parent directory of the base
// path. Data and other non-HTTP scheme URIs pass through unchanged.
func ResolveURL(ref string, base string) string {
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.Scheme != "" && refURL.Scheme != "http" && refURL.Scheme != "https" {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// renderBody serializes the document's body children back to a fragment,
// falling back to the original input on error.
func renderBody(doc *goquery.Document, original string) string {
	html, err := doc.Find("body").First().Html()
	if err != nil {
		return original
	}
	return html
}
