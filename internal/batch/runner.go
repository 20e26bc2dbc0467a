// Package batch walks one run's observations through the vision model
// and the classification engine, preserving a strict row-count
// invariant: every observation that enters the run leaves it with
// exactly one result, even when the model call or the engine fails.
package batch

import (
	"context"
	"fmt"
	"log"
	"time"

	"storebot/internal/classify"
	"storebot/internal/domain"
	"storebot/internal/vision"
)

// Annotated pairs an observation with the raw model reply and the
// engine's decision.
type Annotated struct {
	Observation domain.StoreObservation
	Response    string
	Result      domain.ClassificationResult
}

type Runner struct {
	classifier vision.Classifier
	engine     *classify.Engine

	// delay between model calls; zero disables rate limiting.
	delay time.Duration

	// observations below this image confidence are not sent to the
	// model and resolve to NoChange.
	minImageConfidence float64

	promptFor func(obs domain.StoreObservation) string
}

func NewRunner(classifier vision.Classifier, engine *classify.Engine, delay time.Duration, minImageConfidence float64, promptFor func(domain.StoreObservation) string) *Runner {
	return &Runner{
		classifier:         classifier,
		engine:             engine,
		delay:              delay,
		minImageConfidence: minImageConfidence,
		promptFor:          promptFor,
	}
}

// Run classifies every observation in order. Input order is preserved
// and len(out) always equals len(in) after deduplication.
func (r *Runner) Run(ctx context.Context, observations []domain.StoreObservation) []Annotated {
	deduped := DedupeByStore(observations)
	out := make([]Annotated, 0, len(deduped))

	for i, obs := range deduped {
		if i > 0 && r.delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(r.delay):
			}
		}
		out = append(out, r.classifyOne(ctx, obs))
	}

	if len(out) != len(deduped) {
		// Accounting bug, not a data problem: surface loudly.
		log.Printf("batch row-count mismatch in=%d out=%d", len(deduped), len(out))
	}
	return out
}

// classifyOne never lets one bad row take down the run. A panic from
// the engine or a model-call error becomes an Error-action row.
func (r *Runner) classifyOne(ctx context.Context, obs domain.StoreObservation) (out Annotated) {
	out = Annotated{Observation: obs}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("batch classify panic store=%s err=%v", obs.StoreID, rec)
			out.Result = errorResult(fmt.Sprintf("classification panic: %v", rec))
		}
	}()

	if obs.ImageConfidence < r.minImageConfidence {
		out.Result = domain.ClassificationResult{
			Action:          domain.ActionNoChange,
			Reason:          fmt.Sprintf("image confidence %.2f below threshold %.2f", obs.ImageConfidence, r.minImageConfidence),
			SummaryCategory: "Low image confidence",
			Confidence:      obs.ImageConfidence,
		}
		return out
	}

	text, err := r.classifier.Classify(ctx, obs.ImageURL, r.promptFor(obs))
	if err != nil {
		log.Printf("batch classify error store=%s err=%v", obs.StoreID, err)
		out.Result = errorResult(fmt.Sprintf("vision call failed: %v", err))
		return out
	}
	out.Response = text
	out.Result = r.engine.Classify(obs, text)
	return out
}

func errorResult(reason string) domain.ClassificationResult {
	return domain.ClassificationResult{
		Action:          domain.ActionError,
		Reason:          reason,
		SummaryCategory: "Processing error",
		Confidence:      0.0,
	}
}

// DedupeByStore keeps one observation per store id, preferring the
// most recent ObservedAt. First-seen order of surviving stores is
// preserved.
func DedupeByStore(observations []domain.StoreObservation) []domain.StoreObservation {
	best := make(map[string]int, len(observations))
	var order []string

	for i, obs := range observations {
		j, seen := best[obs.StoreID]
		if !seen {
			best[obs.StoreID] = i
			order = append(order, obs.StoreID)
			continue
		}
		if obs.ObservedAt.After(observations[j].ObservedAt) {
			best[obs.StoreID] = i
		}
	}

	out := make([]domain.StoreObservation, 0, len(order))
	for _, id := range order {
		out = append(out, observations[best[id]])
	}
	if len(out) != len(observations) {
		log.Printf("batch dedupe in=%d out=%d", len(observations), len(out))
	}
	return out
}
