package engine

import (
	"context"

	"github.com/use-agent/readmode/models"
)

// Strategy is the interface every fetch technique implements.
type Strategy interface {
	// Name returns the strategy identifier.
	Name() models.StrategyID

	// Fetch retrieves content for the URL. It never panics and never
	// returns a Go error: every failure is reported inside the result
	// so the orchestrator can race attempts uniformly.
	Fetch(ctx context.Context, url string) models.StrategyResult
}
