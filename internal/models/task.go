package models

import "time"

// Task kinds
const (
	TaskMultipleChoice = "multiple_choice"
	TaskFreeText       = "free_text"
)

// Task is a single quiz question belonging to a repository.
// Immutable once fetched for a study session.
type Task struct {
	ID           int64
	RepositoryID int64
	DocumentID   *int64
	ChunkID      *int64
	Kind         string
	Question     string
	Options      []AnswerOption // multiple-choice only, in position order
	CreatedAt    time.Time
}

// AnswerOption is one selectable answer of a multiple-choice task
type AnswerOption struct {
	ID        int64
	TaskID    int64
	Text      string
	IsCorrect bool
	Position  int
}

// CorrectOption returns the option flagged correct, or nil for free-text tasks
func (t *Task) CorrectOption() *AnswerOption {
	for i := range t.Options {
		if t.Options[i].IsCorrect {
			return &t.Options[i]
		}
	}
	return nil
}
