package study

import (
	"context"
	"errors"
	"testing"

	"studyhall/internal/models"
	"studyhall/internal/scorer"
	"studyhall/internal/validation"
)

// fakeSource returns a fixed task list
type fakeSource struct {
	tasks []models.Task
	err   error
}

func (f *fakeSource) TasksForRepository(ctx context.Context, repositoryID int64) ([]models.Task, error) {
	return f.tasks, f.err
}

// fakeScorer counts remote calls and returns canned results
type fakeScorer struct {
	scoreCalls   int
	explainCalls int
	score        scorer.Score
	scoreErr     error
	explainText  string
	explainErr   error
}

func (f *fakeScorer) ScoreAnswer(ctx context.Context, question, answer string) (scorer.Score, error) {
	f.scoreCalls++
	if f.scoreErr != nil {
		return scorer.Score{}, f.scoreErr
	}
	return f.score, nil
}

func (f *fakeScorer) ExplainAnswer(ctx context.Context, question, correctAnswer, givenAnswer string) (string, error) {
	f.explainCalls++
	if f.explainErr != nil {
		return "", f.explainErr
	}
	return f.explainText, nil
}

// blockingScorer parks ScoreAnswer until released, to test the in-flight guard
type blockingScorer struct {
	started  chan struct{}
	release  chan struct{}
	fallback fakeScorer
}

func (b *blockingScorer) ScoreAnswer(ctx context.Context, question, answer string) (scorer.Score, error) {
	close(b.started)
	<-b.release
	return scorer.Score{Value: 9}, nil
}

func (b *blockingScorer) ExplainAnswer(ctx context.Context, question, correctAnswer, givenAnswer string) (string, error) {
	return b.fallback.ExplainAnswer(ctx, question, correctAnswer, givenAnswer)
}

func choiceTask(id int64, question, correct string, wrong ...string) models.Task {
	task := models.Task{
		ID:       id,
		Kind:     models.TaskMultipleChoice,
		Question: question,
		Options: []models.AnswerOption{
			{ID: id*10 + 1, TaskID: id, Text: correct, IsCorrect: true, Position: 0},
		},
	}
	for i, w := range wrong {
		task.Options = append(task.Options, models.AnswerOption{
			ID: id*10 + int64(i) + 2, TaskID: id, Text: w, Position: i + 1,
		})
	}
	return task
}

func freeTextTask(id int64, question string) models.Task {
	return models.Task{ID: id, Kind: models.TaskFreeText, Question: question}
}

func startedSession(t *testing.T, tasks []models.Task, sc scorer.Scorer) *Session {
	t.Helper()
	s := NewSession(&fakeSource{tasks: tasks}, sc)
	if err := s.Start(context.Background(), 1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return s
}

func TestStartValidatesRepositoryID(t *testing.T) {
	s := NewSession(&fakeSource{}, &fakeScorer{})

	err := s.Start(context.Background(), 0)

	var vErr validation.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if s.State().Phase != PhaseIdle {
		t.Errorf("phase should stay idle after validation failure, got %v", s.State().Phase)
	}
}

func TestStartWithNoTasks(t *testing.T) {
	s := startedSession(t, nil, &fakeScorer{})

	state := s.State()
	if state.Phase != PhaseNoTasks {
		t.Errorf("expected no-tasks phase, got %v", state.Phase)
	}
	if _, ok := s.CurrentTask(); ok {
		t.Error("no task should be presented in the no-tasks phase")
	}
}

func TestStartFetchFailureLeavesSessionUnchanged(t *testing.T) {
	s := NewSession(&fakeSource{err: errors.New("connection refused")}, &fakeScorer{})

	if err := s.Start(context.Background(), 1); err == nil {
		t.Fatal("expected fetch error")
	}
	if s.State().Phase != PhaseIdle {
		t.Errorf("phase should stay idle after fetch failure, got %v", s.State().Phase)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	tasks := make([]models.Task, 30)
	for i := range tasks {
		tasks[i] = freeTextTask(int64(i+1), "q")
	}

	shuffled := shuffleTasks(tasks)

	if len(shuffled) != len(tasks) {
		t.Fatalf("length changed: got %d, want %d", len(shuffled), len(tasks))
	}
	seen := make(map[int64]int)
	for _, task := range shuffled {
		seen[task.ID]++
	}
	for _, task := range tasks {
		if seen[task.ID] != 1 {
			t.Errorf("task %d appears %d times after shuffle", task.ID, seen[task.ID])
		}
	}
}

func TestShuffleVariesAcrossRuns(t *testing.T) {
	tasks := make([]models.Task, 20)
	for i := range tasks {
		tasks[i] = freeTextTask(int64(i+1), "q")
	}

	firsts := make(map[int64]bool)
	for run := 0; run < 200; run++ {
		firsts[shuffleTasks(tasks)[0].ID] = true
	}

	// With 200 uniform draws over 20 positions, seeing fewer than 5 distinct
	// first elements is effectively impossible.
	if len(firsts) < 5 {
		t.Errorf("shuffle does not look uniform: only %d distinct first tasks in 200 runs", len(firsts))
	}
}

func TestEvaluateEmptyAnswer(t *testing.T) {
	s := startedSession(t, []models.Task{freeTextTask(1, "q")}, &fakeScorer{})

	_, err := s.Evaluate(context.Background(), "   ")

	var vErr validation.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestMultipleChoiceCorrectSkipsRemoteCall(t *testing.T) {
	sc := &fakeScorer{}
	s := startedSession(t, []models.Task{choiceTask(1, "q", "right", "wrong")}, sc)

	eval, err := s.Evaluate(context.Background(), "right")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if eval.Outcome != OutcomeCorrect {
		t.Errorf("expected correct, got %v", eval.Outcome)
	}
	if sc.scoreCalls != 0 || sc.explainCalls != 0 {
		t.Errorf("correct answer must not trigger remote calls, got score=%d explain=%d", sc.scoreCalls, sc.explainCalls)
	}
	if s.State().Score != 1 {
		t.Errorf("expected score 1, got %d", s.State().Score)
	}
}

func TestMultipleChoiceIncorrectFetchesFeedback(t *testing.T) {
	sc := &fakeScorer{explainText: "the capital is Paris"}
	s := startedSession(t, []models.Task{choiceTask(1, "q", "Paris", "Lyon")}, sc)

	eval, err := s.Evaluate(context.Background(), "Lyon")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if eval.Outcome != OutcomeIncorrect {
		t.Errorf("expected incorrect, got %v", eval.Outcome)
	}
	if eval.Feedback != "the capital is Paris" {
		t.Errorf("unexpected feedback: %q", eval.Feedback)
	}
	if sc.explainCalls != 1 {
		t.Errorf("expected 1 explain call, got %d", sc.explainCalls)
	}
	if s.State().Score != 0 {
		t.Errorf("incorrect answer must not score, got %d", s.State().Score)
	}
}

func TestMultipleChoiceFeedbackFailureKeepsOutcome(t *testing.T) {
	sc := &fakeScorer{explainErr: &scorer.RequestError{Op: "explain"}}
	s := startedSession(t, []models.Task{choiceTask(1, "q", "Paris", "Lyon")}, sc)

	eval, err := s.Evaluate(context.Background(), "Lyon")

	if err == nil {
		t.Fatal("expected recoverable error from failed feedback fetch")
	}
	if eval.Outcome != OutcomeIncorrect {
		t.Errorf("outcome must be recorded despite feedback failure, got %v", eval.Outcome)
	}
	if state := s.State(); state.Outcome != OutcomeIncorrect || state.Index != 0 {
		t.Errorf("state = %+v, want incorrect outcome at index 0", state)
	}
}

func TestFreeTextScoreThresholds(t *testing.T) {
	tests := []struct {
		score   int
		outcome Outcome
	}{
		{8, OutcomeCorrect},
		{7, OutcomePartial},
		{4, OutcomePartial},
		{3, OutcomeIncorrect},
		{10, OutcomeCorrect},
		{0, OutcomeIncorrect},
	}

	for _, tt := range tests {
		sc := &fakeScorer{score: scorer.Score{Value: tt.score, Feedback: "fb"}}
		s := startedSession(t, []models.Task{freeTextTask(1, "q")}, sc)

		eval, err := s.Evaluate(context.Background(), "an answer")
		if err != nil {
			t.Fatalf("score %d: Evaluate failed: %v", tt.score, err)
		}
		if eval.Outcome != tt.outcome {
			t.Errorf("score %d: outcome = %v, want %v", tt.score, eval.Outcome, tt.outcome)
		}

		wantScore := 0
		if tt.outcome == OutcomeCorrect {
			wantScore = 1
		}
		if s.State().Score != wantScore {
			t.Errorf("score %d: cumulative score = %d, want %d", tt.score, s.State().Score, wantScore)
		}
	}
}

func TestFreeTextNetworkFailureAllowsRetry(t *testing.T) {
	sc := &fakeScorer{scoreErr: &scorer.RequestError{Op: "score"}}
	s := startedSession(t, []models.Task{freeTextTask(1, "q")}, sc)

	if _, err := s.Evaluate(context.Background(), "an answer"); err == nil {
		t.Fatal("expected error from failed scoring call")
	}

	state := s.State()
	if state.Outcome != "" || state.Index != 0 || state.Score != 0 {
		t.Errorf("session must be unchanged after network failure, got %+v", state)
	}

	// Retry succeeds once the scorer recovers
	sc.scoreErr = nil
	sc.score = scorer.Score{Value: 9}
	eval, err := s.Evaluate(context.Background(), "an answer")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if eval.Outcome != OutcomeCorrect {
		t.Errorf("retry outcome = %v, want correct", eval.Outcome)
	}
}

func TestAdvanceClearsPerTaskState(t *testing.T) {
	sc := &fakeScorer{score: scorer.Score{Value: 9, Feedback: "nice"}}
	s := startedSession(t, []models.Task{freeTextTask(1, "q1"), freeTextTask(2, "q2")}, sc)

	if _, err := s.Evaluate(context.Background(), "an answer"); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	state := s.State()
	if state.Index != 1 {
		t.Errorf("index = %d, want 1", state.Index)
	}
	if state.Answer != "" || state.Outcome != "" || state.Feedback != "" {
		t.Errorf("per-task state not cleared: %+v", state)
	}
	if state.Score != 1 {
		t.Errorf("cumulative score must survive advance, got %d", state.Score)
	}
}

func TestAdvanceOnLastTaskFinishes(t *testing.T) {
	s := startedSession(t, []models.Task{choiceTask(1, "q", "right")}, &fakeScorer{})

	if _, err := s.Evaluate(context.Background(), "right"); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	state := s.State()
	if state.Phase != PhaseFinished {
		t.Errorf("phase = %v, want finished", state.Phase)
	}
	if state.Score != 1 {
		t.Errorf("the finish transition must not change the score, got %d", state.Score)
	}

	if err := s.Advance(); !errors.Is(err, ErrNotStudying) {
		t.Errorf("advance after finish should fail with ErrNotStudying, got %v", err)
	}
}

func TestRestartResetsSession(t *testing.T) {
	s := startedSession(t, []models.Task{choiceTask(1, "q", "right")}, &fakeScorer{})

	if _, err := s.Evaluate(context.Background(), "right"); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	s.Restart()

	state := s.State()
	if state.Phase != PhaseIdle || state.Index != 0 || state.Total != 0 || state.Score != 0 {
		t.Errorf("restart did not reset session: %+v", state)
	}
	if len(s.Attempts()) != 0 {
		t.Error("restart must clear recorded attempts")
	}
}

func TestAllCorrectScenario(t *testing.T) {
	tasks := []models.Task{
		choiceTask(1, "q1", "a1"),
		choiceTask(2, "q2", "a2"),
		choiceTask(3, "q3", "a3"),
	}
	answers := map[int64]string{1: "a1", 2: "a2", 3: "a3"}

	s := startedSession(t, tasks, &fakeScorer{})

	for i := 0; i < 3; i++ {
		task, ok := s.CurrentTask()
		if !ok {
			t.Fatalf("no current task at step %d", i)
		}
		eval, err := s.Evaluate(context.Background(), answers[task.ID])
		if err != nil {
			t.Fatalf("Evaluate failed at step %d: %v", i, err)
		}
		if eval.Outcome != OutcomeCorrect {
			t.Fatalf("step %d: outcome = %v, want correct", i, eval.Outcome)
		}
		if err := s.Advance(); err != nil {
			t.Fatalf("Advance failed at step %d: %v", i, err)
		}
	}

	state := s.State()
	if state.Phase != PhaseFinished {
		t.Errorf("phase = %v, want finished", state.Phase)
	}
	if state.Score != 3 {
		t.Errorf("score = %d, want 3", state.Score)
	}
	if len(s.Attempts()) != 3 {
		t.Errorf("attempts = %d, want 3", len(s.Attempts()))
	}
}

func TestPendingEvaluationSuppressesAdvance(t *testing.T) {
	sc := &blockingScorer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := startedSession(t, []models.Task{freeTextTask(1, "q"), freeTextTask(2, "q2")}, sc)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.Evaluate(context.Background(), "an answer"); err != nil {
			t.Errorf("Evaluate failed: %v", err)
		}
	}()

	<-sc.started

	if err := s.Advance(); !errors.Is(err, ErrEvaluationPending) {
		t.Errorf("Advance during evaluation = %v, want ErrEvaluationPending", err)
	}
	if _, err := s.Evaluate(context.Background(), "second"); !errors.Is(err, ErrEvaluationPending) {
		t.Errorf("second Evaluate during evaluation = %v, want ErrEvaluationPending", err)
	}

	close(sc.release)
	<-done

	if err := s.Advance(); err != nil {
		t.Errorf("Advance after evaluation completed = %v", err)
	}
}
