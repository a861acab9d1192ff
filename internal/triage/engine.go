package triage

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// Result is the classification attached to a complaint at submission.
type Result struct {
	Sector     domain.Sector
	Priority   domain.Priority
	Rule       Rule
	Polarity   float64
	ClusterKey string
}

// Input is one complaint to classify in a batch.
type Input struct {
	Description  string
	LocationCode string
}

// EngineHooks receives notifications about classifications. Hooks must be safe for
// concurrent use; nil hooks are skipped.
type EngineHooks struct {
	OnClassified func(result Result, duration time.Duration)
}

// Engine composes sector, sentiment, priority and cluster key derivation.
type Engine struct {
	sentiment SentimentAnalyzer
	hooks     EngineHooks
}

// NewEngine builds an engine over the given analyzer. A nil analyzer scores every text
// as neutral.
func NewEngine(sentiment SentimentAnalyzer, hooks EngineHooks) *Engine {
	if sentiment == nil {
		sentiment = SentimentFunc(func(string) float64 { return 0 })
	}
	return &Engine{sentiment: sentiment, hooks: hooks}
}

// Classify triages a single complaint. Inputs are not validated here; empty text
// yields Welfare with the default priority path.
func (e *Engine) Classify(description, locationCode string) Result {
	start := time.Now()
	sector := ClassifySector(description)
	polarity := e.sentiment.Polarity(description)
	priority, rule := ScorePriority(description, sector, polarity)
	result := Result{
		Sector:     sector,
		Priority:   priority,
		Rule:       rule,
		Polarity:   polarity,
		ClusterKey: ClusterKey(locationCode, sector),
	}
	if e.hooks.OnClassified != nil {
		e.hooks.OnClassified(result, time.Since(start))
	}
	return result
}

// ClassifyBatch classifies inputs with at most concurrency workers and returns results
// in input order. It stops early if ctx is cancelled.
func (e *Engine) ClassifyBatch(ctx context.Context, inputs []Input, concurrency int) ([]Result, error) {
	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Classify(inputs[i].Description, inputs[i].LocationCode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
