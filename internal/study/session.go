package study

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"studyhall/internal/models"
	"studyhall/internal/scorer"
	"studyhall/internal/validation"
)

// Phase is the lifecycle state of a study session
type Phase string

const (
	PhaseIdle     Phase = "idle" // no session running (initial, or after restart)
	PhaseStudying Phase = "studying"
	PhaseFinished Phase = "finished"
	PhaseNoTasks  Phase = "no-tasks"
)

// Outcome classifies an evaluated answer
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomePartial   Outcome = "partial"
	OutcomeIncorrect Outcome = "incorrect"
)

// Free-text score thresholds on the scorer's 0-10 scale. Both are exclusive:
// the band [4,7] inclusive is partial.
const (
	correctAbove   = 7
	incorrectBelow = 4
)

var (
	// ErrEvaluationPending is returned while a remote evaluation is in flight;
	// it suppresses advance and double submission.
	ErrEvaluationPending = errors.New("evaluation already in progress")

	// ErrNotStudying is returned for evaluate/advance outside the studying phase
	ErrNotStudying = errors.New("no task is being studied")
)

// TaskSource fetches the task list for a repository
type TaskSource interface {
	TasksForRepository(ctx context.Context, repositoryID int64) ([]models.Task, error)
}

// Evaluation is the result of evaluating one submitted answer
type Evaluation struct {
	Outcome  Outcome
	Score    int // raw remote score, free text only
	Feedback string
}

// Attempt records one evaluated task for later persistence
type Attempt struct {
	TaskID   int64
	Answer   string
	Outcome  Outcome
	Score    int
	Feedback string
}

// State is a read-only snapshot of the session for presentation
type State struct {
	Phase    Phase
	Index    int
	Total    int
	Score    int
	Answer   string
	Outcome  Outcome
	Feedback string
}

// Session runs one user's pass over a repository's tasks: fetch, shuffle,
// present one task at a time, evaluate answers and track a cumulative score.
// Sessions are safe for concurrent use, but only one evaluation may be in
// flight at a time.
type Session struct {
	source TaskSource
	scorer scorer.Scorer

	mu       sync.Mutex
	phase    Phase
	tasks    []models.Task
	index    int
	score    int
	answer   string
	outcome  Outcome
	feedback string
	attempts []Attempt
	inFlight bool
}

// NewSession creates an idle session
func NewSession(source TaskSource, sc scorer.Scorer) *Session {
	return &Session{
		source: source,
		scorer: sc,
		phase:  PhaseIdle,
	}
}

// Start fetches the task list for the repository and begins studying.
// An empty result set moves the session to the no-tasks phase; otherwise the
// tasks are shuffled and the session starts at index 0. A fetch failure leaves
// the session unchanged.
func (s *Session) Start(ctx context.Context, repositoryID int64) error {
	if err := validation.ValidateID("repository_id", repositoryID); err != nil {
		return err
	}

	tasks, err := s.source.TasksForRepository(ctx, repositoryID)
	if err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()

	if len(tasks) == 0 {
		s.phase = PhaseNoTasks
		return nil
	}

	s.tasks = shuffleTasks(tasks)
	s.phase = PhaseStudying
	return nil
}

// shuffleTasks returns a uniform random permutation of tasks (Fisher-Yates)
func shuffleTasks(tasks []models.Task) []models.Task {
	shuffled := make([]models.Task, len(tasks))
	copy(shuffled, tasks)

	for i := len(shuffled) - 1; i >= 1; i-- {
		j := rand.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// Evaluate scores the submitted answer for the current task.
//
// Multiple-choice answers are compared locally against the option flagged
// correct; a correct answer never triggers a remote call. An incorrect answer
// is recorded immediately, then explanatory feedback is requested best-effort:
// if that call fails the outcome stands and the error is recoverable.
//
// Free-text answers are always scored remotely. A failed call leaves the
// session unchanged so the user can retry. Only a correct outcome increments
// the cumulative score.
func (s *Session) Evaluate(ctx context.Context, answer string) (Evaluation, error) {
	if err := validation.ValidateAnswer(answer); err != nil {
		return Evaluation{}, err
	}

	s.mu.Lock()
	if s.phase != PhaseStudying {
		s.mu.Unlock()
		return Evaluation{}, ErrNotStudying
	}
	if s.inFlight {
		s.mu.Unlock()
		return Evaluation{}, ErrEvaluationPending
	}
	task := s.tasks[s.index]

	if task.Kind == models.TaskMultipleChoice {
		return s.evaluateChoice(ctx, task, answer)
	}
	return s.evaluateFreeText(ctx, task, answer)
}

// evaluateChoice handles multiple-choice evaluation. Called with s.mu held;
// releases it before any remote call.
func (s *Session) evaluateChoice(ctx context.Context, task models.Task, answer string) (Evaluation, error) {
	correct := task.CorrectOption()
	if correct != nil && strings.TrimSpace(answer) == strings.TrimSpace(correct.Text) {
		s.record(task, answer, OutcomeCorrect, 0, "")
		s.mu.Unlock()
		return Evaluation{Outcome: OutcomeCorrect}, nil
	}

	// Record the outcome before fetching feedback: the verdict does not
	// depend on the network.
	s.record(task, answer, OutcomeIncorrect, 0, "")
	s.inFlight = true
	s.mu.Unlock()

	correctText := ""
	if correct != nil {
		correctText = correct.Text
	}
	feedback, err := s.scorer.ExplainAnswer(ctx, task.Question, correctText, answer)

	s.mu.Lock()
	s.inFlight = false
	if err != nil {
		s.mu.Unlock()
		// Outcome already recorded; the feedback fetch is best-effort.
		return Evaluation{Outcome: OutcomeIncorrect}, fmt.Errorf("feedback unavailable: %w", err)
	}
	s.feedback = feedback
	s.setAttemptFeedback(task.ID, feedback)
	s.mu.Unlock()

	return Evaluation{Outcome: OutcomeIncorrect, Feedback: feedback}, nil
}

// evaluateFreeText handles free-text evaluation. Called with s.mu held;
// releases it before the remote call.
func (s *Session) evaluateFreeText(ctx context.Context, task models.Task, answer string) (Evaluation, error) {
	s.inFlight = true
	s.mu.Unlock()

	result, err := s.scorer.ScoreAnswer(ctx, task.Question, answer)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		// Session state unchanged; the user may retry the same answer.
		return Evaluation{}, err
	}

	outcome := classifyScore(result.Value)
	s.record(task, answer, outcome, result.Value, result.Feedback)

	return Evaluation{Outcome: outcome, Score: result.Value, Feedback: result.Feedback}, nil
}

// classifyScore maps a 0-10 score onto an outcome using exclusive thresholds
func classifyScore(score int) Outcome {
	switch {
	case score > correctAbove:
		return OutcomeCorrect
	case score < incorrectBelow:
		return OutcomeIncorrect
	default:
		return OutcomePartial
	}
}

// record stores the evaluation for the current task. Caller holds s.mu.
func (s *Session) record(task models.Task, answer string, outcome Outcome, score int, feedback string) {
	// A re-evaluation after a failed feedback fetch must not double-count.
	if outcome == OutcomeCorrect && s.outcome != OutcomeCorrect {
		s.score++
	}
	s.answer = answer
	s.outcome = outcome
	s.feedback = feedback
	s.attempts = append(s.attempts, Attempt{
		TaskID:   task.ID,
		Answer:   answer,
		Outcome:  outcome,
		Score:    score,
		Feedback: feedback,
	})
}

// setAttemptFeedback backfills feedback onto the latest attempt for a task.
// Caller holds s.mu.
func (s *Session) setAttemptFeedback(taskID int64, feedback string) {
	for i := len(s.attempts) - 1; i >= 0; i-- {
		if s.attempts[i].TaskID == taskID {
			s.attempts[i].Feedback = feedback
			return
		}
	}
}

// Advance moves to the next task, clearing per-task state, or finishes the
// session when the current task is the last. Rejected while an evaluation is
// in flight.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return ErrEvaluationPending
	}
	if s.phase != PhaseStudying {
		return ErrNotStudying
	}

	if s.index < len(s.tasks)-1 {
		s.index++
		s.answer = ""
		s.outcome = ""
		s.feedback = ""
		return nil
	}

	s.phase = PhaseFinished
	return nil
}

// Restart resets the session to its initial empty state
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// reset clears all session state. Caller holds s.mu.
func (s *Session) reset() {
	s.phase = PhaseIdle
	s.tasks = nil
	s.index = 0
	s.score = 0
	s.answer = ""
	s.outcome = ""
	s.feedback = ""
	s.attempts = nil
	s.inFlight = false
}

// CurrentTask returns the task being studied, if any
func (s *Session) CurrentTask() (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseStudying {
		return models.Task{}, false
	}
	return s.tasks[s.index], true
}

// State returns a snapshot of the session for presentation
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Phase:    s.phase,
		Index:    s.index,
		Total:    len(s.tasks),
		Score:    s.score,
		Answer:   s.answer,
		Outcome:  s.outcome,
		Feedback: s.feedback,
	}
}

// Attempts returns a copy of the evaluated attempts so far
func (s *Session) Attempts() []Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := make([]Attempt, len(s.attempts))
	copy(attempts, s.attempts)
	return attempts
}
