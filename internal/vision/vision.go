// Package vision sends one store photo at a time to a vision-language
// model and returns the free-text reply the classification engine
// consumes. Two providers are supported; the prompt is identical for
// both.
package vision

import "context"

// Classifier is the single-call surface the batch runner depends on.
type Classifier interface {
	Classify(ctx context.Context, imageURL, prompt string) (string, error)
}

// Usage tracks token spend across a run for the digest line.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
