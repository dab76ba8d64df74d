package engine

import (
	"strings"
	"testing"
)

var blockedFixtures = []string{
	"<html><head><title>Just a moment...</title></head><body>Checking your browser before accessing example.com</body></html>",
	"<html><body>Just a moment...</body></html>",
	"<html><body>Cloudflare Ray ID: 8a1b2c3d</body></html>",
	"<html><body>One more step: please complete the security check</body></html>",
	"<html><body>Attention Required! | Cloudflare</body></html>",
	"<html><body>DDoS protection by Cloudflare</body></html>",
	"<html><body>Please solve this CAPTCHA to continue</body></html>",
	"<html><body>Robot Check: type the characters you see</body></html>",
	"<html><body>Are you a robot?</body></html>",
	"<html><body>Verify you are human by completing the action below</body></html>",
	"<html><body>Our systems have detected unusual traffic from your network</body></html>",
	"<html><body>Security check in progress</body></html>",
	"<html><body>Access Denied</body></html>",
	"<html><body>Access to this page has been denied.</body></html>",
	"<html><body><h1>403 Forbidden</h1></body></html>",
	"<html><body>Error 1020: access denied</body></html>",
	"<html><body>Blocked by network security policy</body></html>",
	"<html><body>Request blocked. We can't connect to the server</body></html>",
	"<html><body>Your IP has been blocked</body></html>",
	"<html><head><title>Google News</title></head><body>Opening this page…</body></html>",
}

func TestIsBlockedFixtures(t *testing.T) {
	for i, html := range blockedFixtures {
		if !IsBlocked(html) {
			t.Errorf("fixture %d not flagged as blocked: %.60q", i, html)
		}
	}
}

func TestIsBlockedCleanArticle(t *testing.T) {
	html := "<html><body><article>" +
		strings.Repeat("<p>The committee approved the measure after lengthy debate. </p>", 200) +
		"</article></body></html>"
	if len(html) < 10000 {
		t.Fatal("fixture too small for a realistic article")
	}
	if IsBlocked(html) {
		t.Error("clean article flagged as blocked")
	}
	if IsPaywalled(html) {
		t.Error("clean article flagged as paywalled")
	}
}

func TestIsBlockedWindowLimit(t *testing.T) {
	// A block marker past the 5 KiB window must be ignored.
	html := strings.Repeat("a", 6*1024) + "checking your browser"
	if IsBlocked(html) {
		t.Error("marker past the 5 KiB window should be ignored")
	}
}

func TestIsPaywalled(t *testing.T) {
	fixtures := []string{
		`<div class="paywall-overlay">Subscribe</div>`,
		`<div id="paywall">…</div>`,
		`<section data-paywall="true"></section>`,
		`<p>Subscribe to continue reading this story.</p>`,
		`<p>Sign up to read the full article.</p>`,
		`<p>This area is for members only.</p>`,
		`<p>Please login to view this content.</p>`,
		`<p>Start your free trial today.</p>`,
	}
	for i, html := range fixtures {
		if !IsPaywalled(html) {
			t.Errorf("fixture %d not flagged as paywalled: %q", i, html)
		}
	}
}

func TestIsPaywalledWindowLimit(t *testing.T) {
	html := strings.Repeat("a", 11*1024) + `class="paywall"`
	if IsPaywalled(html) {
		t.Error("marker past the 10 KiB window should be ignored")
	}
}

func TestIsGoogleErrorPage(t *testing.T) {
	if !IsGoogleErrorPage("<html>If you're having trouble accessing Google Search, …</html>") {
		t.Error("google error page not detected")
	}
	if !IsGoogleErrorPage("<html><a href=\"/search?emsg=SG_REL\">retry</a></html>") {
		t.Error("SG_REL marker not detected")
	}
	if IsGoogleErrorPage("<html><body>regular page</body></html>") {
		t.Error("false positive on regular page")
	}
}
