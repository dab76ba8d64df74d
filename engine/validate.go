package engine

import "strings"

// Response validators: advisory heuristics over raw HTML. A false positive
// only costs one failed strategy, which the orchestrator absorbs by racing
// several. All pattern tables live here so drift is contained in one file;
// bump the version when editing them.
const validatorTableVersion = 3

// blockWindow and paywallWindow bound how much of the body each predicate
// inspects. Interstitials and paywall markers sit in the document head or
// the first screenful, so scanning further only adds false positives.
const (
	blockWindow   = 5 * 1024
	paywallWindow = 10 * 1024
)

var blockPatterns = []string{
	// Cloudflare interstitials
	"checking your browser",
	"just a moment",
	"cloudflare ray id",
	"one more step",
	"attention required",
	"ddos protection by",
	// CAPTCHA prompts
	"captcha",
	"robot check",
	"are you a robot",
	"verify you are human",
	"unusual traffic",
	"security check",
	// Explicit denials
	"access denied",
	"access to this page has been denied",
	"403 forbidden",
	"error 1020",
	"blocked by network security",
	"request blocked",
	"has been blocked",
	// Google News interstitial
	"opening this page",
	"<title>google news</title>",
}

var paywallPatterns = []string{
	`class="paywall`,
	`id="paywall`,
	"data-paywall",
	"subscribe to continue",
	"subscribe to read",
	"subscription required",
	"sign up to read",
	"sign in to continue reading",
	"members only",
	"login to view",
	"start your free trial",
	"this content is for subscribers",
}

var googleErrorPatterns = []string{
	"if you're having trouble accessing google search",
	"emsg=sg_rel",
}

// IsBlocked reports whether the HTML looks like an anti-bot interstitial,
// CAPTCHA prompt, or explicit denial. Only the first 5 KiB are inspected.
func IsBlocked(html string) bool {
	return matchAny(html, blockWindow, blockPatterns)
}

// IsPaywalled reports whether the HTML carries paywall markers.
// Only the first 10 KiB are inspected.
func IsPaywalled(html string) bool {
	return matchAny(html, paywallWindow, paywallPatterns)
}

// IsGoogleErrorPage matches Google Search's generic error/redirect page.
func IsGoogleErrorPage(html string) bool {
	return matchAny(html, len(html), googleErrorPatterns)
}

func matchAny(html string, window int, patterns []string) bool {
	if len(html) > window {
		html = html[:window]
	}
	lower := strings.ToLower(html)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
