package models

// StrategyID identifies one fetch technique.
type StrategyID string

const (
	StrategyDirect      StrategyID = "direct"
	StrategyGooglebot   StrategyID = "googlebot"
	StrategyFacebookbot StrategyID = "facebookbot"
	StrategyBingbot     StrategyID = "bingbot"
	StrategyArchive     StrategyID = "archive"
	StrategyTwelveft    StrategyID = "twelveft"
	StrategyJina        StrategyID = "jina"
	StrategyExa         StrategyID = "exa"
	StrategyGoogleNews  StrategyID = "googlenews"
)

// AllStrategies lists every known strategy identifier.
var AllStrategies = []StrategyID{
	StrategyDirect,
	StrategyGooglebot,
	StrategyFacebookbot,
	StrategyBingbot,
	StrategyArchive,
	StrategyTwelveft,
	StrategyJina,
	StrategyExa,
	StrategyGoogleNews,
}

// ValidStrategy reports whether s names a known strategy.
func ValidStrategy(s string) bool {
	for _, id := range AllStrategies {
		if string(id) == s {
			return true
		}
	}
	return false
}

// Payload is the content carried by a successful strategy result.
// A result holds exactly one payload kind: raw HTML for the
// impersonation/proxy strategies, ready Markdown for the reader services.
type Payload interface {
	payload()
	// Len returns the content length in bytes.
	Len() int
}

// HTMLPayload is a decoded HTML document body.
type HTMLPayload struct {
	Body string
}

func (HTMLPayload) payload()   {}
func (p HTMLPayload) Len() int { return len(p.Body) }

// MarkdownPayload is Markdown produced directly by a reader service.
type MarkdownPayload struct {
	Body string
}

func (MarkdownPayload) payload()   {}
func (p MarkdownPayload) Len() int { return len(p.Body) }

// StrategyResult is the uniform outcome of one strategy attempt.
// Adapters never panic and never return a Go error: transport failures,
// bad statuses, and validator rejections all land in Err.
type StrategyResult struct {
	Strategy StrategyID

	// Payload is nil when the attempt failed.
	Payload Payload

	// Title is a best-effort page title, when the strategy could see one.
	Title string

	// Inner is set only by the googlenews strategy: the name of the
	// strategy that won on the decoded publisher URL.
	Inner string

	// Err describes the failure when Payload is nil.
	Err string
}

// OK reports whether the attempt produced content.
func (r StrategyResult) OK() bool { return r.Payload != nil }

// Failure builds a failed result for the given strategy.
func Failure(id StrategyID, err string) StrategyResult {
	return StrategyResult{Strategy: id, Err: err}
}

// Attempt records one completed strategy attempt inside an Outcome,
// in completion order. Err is empty for the winner.
type Attempt struct {
	Strategy StrategyID `json:"strategy"`
	Err      string     `json:"error,omitempty"`
}

// Outcome is the orchestrator's final answer for a URL.
type Outcome struct {
	// Strategy is the winning strategy name. For Google News URLs that
	// were decoded and re-fetched it is the composite
	// "googlenews-<inner>".
	Strategy string

	// Payload is the winning content (HTML or Markdown).
	Payload Payload

	Title     string
	ElapsedMs int64
	Attempts  []Attempt
}
