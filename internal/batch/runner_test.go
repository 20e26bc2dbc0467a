package batch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storebot/internal/classify"
	"storebot/internal/config"
	"storebot/internal/domain"
)

// scriptedClassifier returns a canned reply per image URL.
type scriptedClassifier struct {
	replies map[string]string
	errs    map[string]error
	calls   []string
}

func (s *scriptedClassifier) Classify(_ context.Context, imageURL, _ string) (string, error) {
	s.calls = append(s.calls, imageURL)
	if err, ok := s.errs[imageURL]; ok {
		return "", err
	}
	return s.replies[imageURL], nil
}

func newTestRunner(c *scriptedClassifier, minConf float64) *Runner {
	engine := classify.NewEngine(config.DefaultLexicons(), config.DefaultGates(), config.DefaultHoursPolicy())
	return NewRunner(c, engine, 0, minConf, func(domain.StoreObservation) string {
		return "describe the store"
	})
}

func obsAt(storeID string, t time.Time) domain.StoreObservation {
	return domain.StoreObservation{
		StoreID:         storeID,
		ImageURL:        "https://img/" + storeID + ".jpg",
		ImageConfidence: 1.0,
		ObservedAt:      t,
	}
}

func TestRunRowCountAndOrder(t *testing.T) {
	c := &scriptedClassifier{replies: map[string]string{
		"https://img/s1.jpg": "PERMANENTLY CLOSED - thank you for your support. Clarity score: 0.90",
		"https://img/s2.jpg": "Storefront looks normal. Clarity score: 0.80",
		"https://img/s3.jpg": "NO POWER - closed today. Clarity score: 0.80",
	}}
	r := newTestRunner(c, 0.5)

	now := time.Now()
	in := []domain.StoreObservation{obsAt("s1", now), obsAt("s2", now), obsAt("s3", now)}
	out := r.Run(context.Background(), in)

	if len(out) != len(in) {
		t.Fatalf("rows out = %d, want %d", len(out), len(in))
	}
	for i, a := range out {
		if a.Observation.StoreID != in[i].StoreID {
			t.Fatalf("order broken at %d: %s", i, a.Observation.StoreID)
		}
	}
	if out[0].Result.Action != domain.ActionPermanentClosure {
		t.Fatalf("s1 action = %s", out[0].Result.Action)
	}
	if out[2].Result.Action != domain.ActionTemporaryClosure {
		t.Fatalf("s3 action = %s", out[2].Result.Action)
	}
}

func TestRunVisionErrorBecomesErrorRow(t *testing.T) {
	c := &scriptedClassifier{
		replies: map[string]string{"https://img/s2.jpg": "Looks fine. Clarity score: 0.80"},
		errs:    map[string]error{"https://img/s1.jpg": fmt.Errorf("model unavailable")},
	}
	r := newTestRunner(c, 0.5)

	out := r.Run(context.Background(), []domain.StoreObservation{
		obsAt("s1", time.Now()), obsAt("s2", time.Now()),
	})

	if len(out) != 2 {
		t.Fatalf("rows out = %d, want 2 (error row must not drop)", len(out))
	}
	if out[0].Result.Action != domain.ActionError {
		t.Fatalf("s1 action = %s, want Error", out[0].Result.Action)
	}
	if out[0].Result.Confidence != 0.0 {
		t.Fatalf("error row confidence = %f, want 0", out[0].Result.Confidence)
	}
	if out[1].Result.Action == domain.ActionError {
		t.Fatal("s2 must classify normally after s1 fails")
	}
}

func TestRunSkipsLowImageConfidence(t *testing.T) {
	c := &scriptedClassifier{replies: map[string]string{}}
	r := newTestRunner(c, 0.5)

	obs := obsAt("s1", time.Now())
	obs.ImageConfidence = 0.3
	out := r.Run(context.Background(), []domain.StoreObservation{obs})

	if len(c.calls) != 0 {
		t.Fatal("low-confidence image must not reach the model")
	}
	if out[0].Result.Action != domain.ActionNoChange {
		t.Fatalf("action = %s, want NoChange", out[0].Result.Action)
	}
}

func TestDedupeByStorePrefersNewest(t *testing.T) {
	old := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	newer := old.Add(48 * time.Hour)

	in := []domain.StoreObservation{
		obsAt("s1", old),
		obsAt("s2", old),
		obsAt("s1", newer),
	}
	out := DedupeByStore(in)

	if len(out) != 2 {
		t.Fatalf("deduped to %d rows, want 2", len(out))
	}
	if out[0].StoreID != "s1" || out[1].StoreID != "s2" {
		t.Fatalf("first-seen order broken: %s, %s", out[0].StoreID, out[1].StoreID)
	}
	if !out[0].ObservedAt.Equal(newer) {
		t.Fatalf("s1 kept %s, want newest %s", out[0].ObservedAt, newer)
	}
}
