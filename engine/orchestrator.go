package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/use-agent/readmode/models"
)

// Validation floors for race winners. Markdown only needs to be non-trivial;
// HTML from the impersonation tier must be big enough that an SPA bootstrap
// shell cannot pass, while the archival/proxy tier legitimately serves
// leaner bodies.
const (
	minMarkdownLen    = 100
	primaryHTMLFloor  = 10000
	fallbackHTMLFloor = 1000
)

// primaryTier are the cheap HTTP-level impersonation strategies,
// fallbackTier the slower third-party-service-backed ones. The fallback race
// never starts before the primary race has concluded.
var (
	primaryTier = []models.StrategyID{
		models.StrategyDirect,
		models.StrategyGooglebot,
		models.StrategyFacebookbot,
		models.StrategyBingbot,
	}
	fallbackTier = []models.StrategyID{
		models.StrategyTwelveft,
		models.StrategyArchive,
		models.StrategyJina,
		models.StrategyExa,
	}
)

// Options controls one orchestration.
type Options struct {
	// Bypass enables the tiered races. When false only direct is tried.
	Bypass bool

	// Strategy forces a single strategy; empty means automatic.
	Strategy models.StrategyID
}

// Orchestrator coordinates the tiered strategy races for a URL: a primary
// race of impersonation fetches, then a fallback race of proxy/archive/reader
// services, with first-valid-completion-wins semantics and prompt
// cancellation of the losers.
type Orchestrator struct {
	strategies map[models.StrategyID]Strategy
	timeout    time.Duration
}

// New creates an Orchestrator with the full strategy set sharing one
// Chrome-fingerprinted HTTP client. timeout bounds each strategy attempt.
func New(timeout time.Duration) *Orchestrator {
	client := newClient(timeout)
	o := &Orchestrator{timeout: timeout}
	o.strategies = map[models.StrategyID]Strategy{
		models.StrategyDirect:      &directStrategy{client: client},
		models.StrategyGooglebot:   newGooglebot(client),
		models.StrategyBingbot:     newBingbot(client),
		models.StrategyFacebookbot: newFacebookbot(client),
		models.StrategyTwelveft:    newTwelveft(client),
		models.StrategyArchive:     newArchive(client),
		models.StrategyJina:        newJina(client),
		models.StrategyExa:         newExa(client),
		models.StrategyGoogleNews:  &googleNewsStrategy{orch: o},
	}
	return o
}

// Orchestrate resolves a URL to HTML or Markdown content.
//
// Decision order:
//  1. An explicit strategy runs alone and its result is final.
//  2. Google News URLs try archive, then the redirect decoder, then fall
//     through to the fallback race only (the bot race cannot follow the
//     client-side redirect).
//  3. Without bypass, only direct runs.
//  4. Primary race, then fallback race; first valid completion wins and the
//     rest are cancelled. Both races exhausting is an aggregated error.
func (o *Orchestrator) Orchestrate(ctx context.Context, url string, opts Options) (*models.Outcome, error) {
	start := time.Now()

	// 1. Explicit strategy.
	if opts.Strategy != "" && opts.Strategy != "auto" {
		st, ok := o.strategies[opts.Strategy]
		if !ok {
			return nil, models.NewConvertError(models.ErrCodeInvalidInput,
				fmt.Sprintf("unknown strategy %q", opts.Strategy), nil)
		}
		res := o.run(ctx, st, url)
		return o.conclude(start, res)
	}

	skipPrimary := false
	var attempts []models.Attempt

	// 2. Google News routing.
	if isGoogleNewsURL(url) {
		res := o.run(ctx, o.strategies[models.StrategyArchive], url)
		if res.OK() && res.Payload.Len() > primaryHTMLFloor {
			return o.finish(start, res, []models.Attempt{{Strategy: res.Strategy}})
		}
		attempts = append(attempts, models.Attempt{Strategy: res.Strategy, Err: gnReason(res)})
		slog.Debug("google news: archive insufficient, decoding redirect", "url", url)

		res = o.run(ctx, o.strategies[models.StrategyGoogleNews], url)
		if res.OK() {
			return o.finish(start, res, append(attempts, models.Attempt{Strategy: res.Strategy}))
		}
		attempts = append(attempts, models.Attempt{Strategy: res.Strategy, Err: res.Err})
		slog.Debug("google news: decode failed, falling back", "url", url, "error", res.Err)

		// The bot race cannot handle the client-side redirect.
		opts.Bypass = true
		skipPrimary = true
	}

	// 3. No bypass: direct only.
	if !opts.Bypass {
		res := o.run(ctx, o.strategies[models.StrategyDirect], url)
		return o.conclude(start, res)
	}

	// 4. Primary race.
	if !skipPrimary {
		winner, raceAttempts, ok := o.race(ctx, url, primaryTier, primaryHTMLFloor)
		attempts = append(attempts, raceAttempts...)
		if ok {
			return o.finish(start, winner, attempts)
		}
	}

	// 5. Fallback race.
	winner, raceAttempts, ok := o.race(ctx, url, fallbackTier, fallbackHTMLFloor+1)
	attempts = append(attempts, raceAttempts...)
	if ok {
		return o.finish(start, winner, attempts)
	}

	// 6. Exhaustion.
	return nil, exhausted(attempts)
}

// race runs the given strategies in parallel and returns the first result
// that passes tier validation. Losing attempts are cancelled as soon as a
// winner arrives; completed failures are recorded in completion order.
func (o *Orchestrator) race(ctx context.Context, url string, tier []models.StrategyID, htmlFloor int) (models.StrategyResult, []models.Attempt, bool) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan models.StrategyResult, len(tier))
	var wg sync.WaitGroup
	for _, id := range tier {
		st := o.strategies[id]
		wg.Add(1)
		go func(st Strategy) {
			defer wg.Done()
			results <- o.run(raceCtx, st, url)
		}(st)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var attempts []models.Attempt
	for res := range results {
		if reason := o.rejectReason(res, htmlFloor); reason != "" {
			slog.Debug("strategy rejected", "strategy", res.Strategy, "url", url, "reason", reason)
			attempts = append(attempts, models.Attempt{Strategy: res.Strategy, Err: reason})
			continue
		}
		// First valid completion wins; cancel everything still in flight.
		cancel()
		slog.Info("strategy won race", "strategy", res.Strategy, "url", url)
		attempts = append(attempts, models.Attempt{Strategy: res.Strategy})
		return res, attempts, true
	}
	return models.StrategyResult{}, attempts, false
}

// run executes one strategy attempt under the per-attempt timeout and
// normalizes deadline expiry to the "timeout" error string.
func (o *Orchestrator) run(ctx context.Context, st Strategy, url string) models.StrategyResult {
	attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	res := st.Fetch(attemptCtx, url)
	if !res.OK() && attemptCtx.Err() == context.DeadlineExceeded {
		res.Err = "timeout"
	}
	return res
}

// rejectReason validates a result against the tier's floors and the page
// heuristics. Empty means the result is acceptable.
func (o *Orchestrator) rejectReason(res models.StrategyResult, htmlFloor int) string {
	if !res.OK() {
		return res.Err
	}
	switch p := res.Payload.(type) {
	case models.MarkdownPayload:
		if p.Len() <= minMarkdownLen {
			return "markdown too short"
		}
	case models.HTMLPayload:
		if p.Len() < htmlFloor {
			return fmt.Sprintf("html too short (%d bytes), likely an app shell", p.Len())
		}
		if IsBlocked(p.Body) {
			return "blocked page detected"
		}
		if IsPaywalled(p.Body) {
			return "paywall detected"
		}
		if IsGoogleErrorPage(p.Body) {
			return "google error page detected"
		}
	}
	return ""
}

// conclude wraps a single-strategy run: the adapter's own checks are the
// only gate, so a small page (e.g. a plain static article) still succeeds.
func (o *Orchestrator) conclude(start time.Time, res models.StrategyResult) (*models.Outcome, error) {
	if !res.OK() {
		return nil, exhausted([]models.Attempt{{Strategy: res.Strategy, Err: res.Err}})
	}
	return o.finish(start, res, []models.Attempt{{Strategy: res.Strategy}})
}

// finish assembles the outcome for a winning result.
func (o *Orchestrator) finish(start time.Time, res models.StrategyResult, attempts []models.Attempt) (*models.Outcome, error) {
	name := string(res.Strategy)
	if res.Strategy == models.StrategyGoogleNews && res.Inner != "" {
		name = "googlenews-" + res.Inner
	}
	return &models.Outcome{
		Strategy:  name,
		Payload:   res.Payload,
		Title:     res.Title,
		ElapsedMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
	}, nil
}

// gnReason describes why an archive result did not satisfy the Google News
// fast path.
func gnReason(res models.StrategyResult) string {
	if !res.OK() {
		return res.Err
	}
	return fmt.Sprintf("snapshot too small (%d bytes)", res.Payload.Len())
}

// exhausted builds the aggregated failure listing every attempted strategy.
func exhausted(attempts []models.Attempt) error {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Strategy, a.Err))
	}
	return models.NewConvertError(models.ErrCodeAllFailed,
		"all strategies failed ("+strings.Join(parts, "; ")+")", nil)
}
