package models

import "time"

// StudyRecord is the persisted result of a study session over a repository
type StudyRecord struct {
	ID           int64
	UserID       int64
	RepositoryID int64
	StartedAt    time.Time
	CompletedAt  *time.Time
	TotalTasks   int
	CorrectTasks int
}

// Accuracy returns the fraction of tasks answered correctly
func (r *StudyRecord) Accuracy() float64 {
	if r.TotalTasks == 0 {
		return 0
	}
	return float64(r.CorrectTasks) / float64(r.TotalTasks)
}

// TaskAttempt is a single answered task within a study record
type TaskAttempt struct {
	ID            int64
	StudyRecordID int64
	TaskID        int64
	AnswerText    string
	Outcome       string // correct, partial or incorrect
	Score         int
	Feedback      string
	AttemptedAt   time.Time
}

// StudyRecordWithDetails includes record data plus repository info
type StudyRecordWithDetails struct {
	Record         StudyRecord
	RepositoryName string
}
