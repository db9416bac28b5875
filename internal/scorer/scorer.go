package scorer

import (
	"context"
	"fmt"
)

// Score is the result of remotely scoring a free-text answer.
// Value is on a 0-10 scale; Feedback explains what was right or missing.
type Score struct {
	Value    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// GeneratedTask is a quiz task produced by the remote generator from chunk text
type GeneratedTask struct {
	Kind     string            `json:"kind"` // multiple_choice or free_text
	Question string            `json:"question"`
	Options  []GeneratedOption `json:"options,omitempty"`
}

// GeneratedOption is one answer option of a generated multiple-choice task
type GeneratedOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Scorer evaluates submitted answers.
// Implementations may call an LLM or return canned results (for tests).
type Scorer interface {
	// ScoreAnswer grades a free-text answer on a 0-10 scale with feedback.
	ScoreAnswer(ctx context.Context, question, answer string) (Score, error)

	// ExplainAnswer returns feedback text for a wrong multiple-choice answer.
	ExplainAnswer(ctx context.Context, question, correctAnswer, givenAnswer string) (string, error)
}

// TaskGenerator creates quiz tasks from source text
type TaskGenerator interface {
	GenerateTasks(ctx context.Context, chunkText string, count int) ([]GeneratedTask, error)
}

// RequestError is returned when a remote call fails, so callers can distinguish
// "the scorer returned a bad result" from "the scorer was unreachable".
// These failures are recoverable; the caller may retry.
type RequestError struct {
	Op      string
	Wrapped error
}

func (e *RequestError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("scorer %s failed: %v", e.Op, e.Wrapped)
	}
	return fmt.Sprintf("scorer %s failed", e.Op)
}

func (e *RequestError) Unwrap() error {
	return e.Wrapped
}
