package repository

import (
	"database/sql"
	"errors"
	"time"

	"studyhall/internal/database"
	"studyhall/internal/models"
)

// StudyRepository handles database operations for study records and attempts
type StudyRepository struct {
	db database.DBTX
}

// NewStudyRepository creates a new study repository
func NewStudyRepository(db database.DBTX) *StudyRepository {
	return &StudyRepository{db: db}
}

// CreateRecord inserts a study record for a completed session
func (r *StudyRepository) CreateRecord(userID, repoID int64, startedAt time.Time, totalTasks, correctTasks int) (int64, error) {
	query := `
		INSERT INTO study_records (user_id, repository_id, started_at, completed_at, total_tasks, correct_tasks)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query, userID, repoID, startedAt, time.Now(), totalTasks, correctTasks)
}

// CreateAttempt inserts a single answered task under a study record
func (r *StudyRepository) CreateAttempt(recordID, taskID int64, answerText, outcome string, score int, feedback string, attemptedAt time.Time) error {
	query := `
		INSERT INTO task_attempts (study_record_id, task_id, answer_text, outcome, score, feedback, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, recordID, taskID, answerText, outcome, score, feedback, attemptedAt)
	return err
}

// GetRecord retrieves a study record by ID, or nil if not found
func (r *StudyRepository) GetRecord(id int64) (*models.StudyRecord, error) {
	rec := &models.StudyRecord{}
	var completedAt sql.NullTime
	err := r.db.QueryRow(
		"SELECT id, user_id, repository_id, started_at, completed_at, total_tasks, correct_tasks FROM study_records WHERE id = ?", id,
	).Scan(&rec.ID, &rec.UserID, &rec.RepositoryID, &rec.StartedAt, &completedAt, &rec.TotalTasks, &rec.CorrectTasks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		rec.CompletedAt = &completedAt.Time
	}
	return rec, nil
}

// ListRecordsForUser returns a user's study history, most recent first
func (r *StudyRepository) ListRecordsForUser(userID int64, limit int) ([]models.StudyRecordWithDetails, error) {
	query := `
		SELECT sr.id, sr.user_id, sr.repository_id, sr.started_at, sr.completed_at, sr.total_tasks, sr.correct_tasks, r.name
		FROM study_records sr
		JOIN repositories r ON r.id = sr.repository_id
		WHERE sr.user_id = ?
		ORDER BY sr.started_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.StudyRecordWithDetails
	for rows.Next() {
		var d models.StudyRecordWithDetails
		var completedAt sql.NullTime
		if err := rows.Scan(
			&d.Record.ID, &d.Record.UserID, &d.Record.RepositoryID, &d.Record.StartedAt,
			&completedAt, &d.Record.TotalTasks, &d.Record.CorrectTasks, &d.RepositoryName,
		); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			d.Record.CompletedAt = &completedAt.Time
		}
		records = append(records, d)
	}
	return records, rows.Err()
}

// ListAttempts returns the attempts under a study record in order
func (r *StudyRepository) ListAttempts(recordID int64) ([]models.TaskAttempt, error) {
	query := `
		SELECT id, study_record_id, task_id, answer_text, outcome, score, feedback, attempted_at
		FROM task_attempts
		WHERE study_record_id = ?
		ORDER BY attempted_at, id
	`
	rows, err := r.db.Query(query, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.TaskAttempt
	for rows.Next() {
		var a models.TaskAttempt
		if err := rows.Scan(&a.ID, &a.StudyRecordID, &a.TaskID, &a.AnswerText, &a.Outcome, &a.Score, &a.Feedback, &a.AttemptedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// RepositoryStats aggregates study results over one repository
type RepositoryStats struct {
	RepositoryID int64
	Sessions     int
	TotalTasks   int
	CorrectTasks int
}

// GetRepositoryStats aggregates all study records for a repository
func (r *StudyRepository) GetRepositoryStats(repoID int64) (*RepositoryStats, error) {
	stats := &RepositoryStats{RepositoryID: repoID}
	err := r.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(total_tasks), 0), COALESCE(SUM(correct_tasks), 0) FROM study_records WHERE repository_id = ?", repoID,
	).Scan(&stats.Sessions, &stats.TotalTasks, &stats.CorrectTasks)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetUserStats aggregates all study records for a user
func (r *StudyRepository) GetUserStats(userID int64) (*RepositoryStats, error) {
	stats := &RepositoryStats{}
	err := r.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(total_tasks), 0), COALESCE(SUM(correct_tasks), 0) FROM study_records WHERE user_id = ?", userID,
	).Scan(&stats.Sessions, &stats.TotalTasks, &stats.CorrectTasks)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// SkillStats aggregates a user's study results per skill, reached through the
// studied repository's course links
type SkillStats struct {
	SkillID      int64
	SkillName    string
	Sessions     int
	TotalTasks   int
	CorrectTasks int
}

// GetUserSkillStats breaks a user's study records down by skill. Records over
// repositories without a course, or courses without skill links, are omitted.
func (r *StudyRepository) GetUserSkillStats(userID int64) ([]SkillStats, error) {
	rows, err := r.db.Query(`
		SELECT s.id, s.name, COUNT(*), COALESCE(SUM(sr.total_tasks), 0), COALESCE(SUM(sr.correct_tasks), 0)
		FROM study_records sr
		JOIN repositories rep ON sr.repository_id = rep.id
		JOIN course_skills cs ON rep.course_id = cs.course_id
		JOIN skills s ON cs.skill_id = s.id
		WHERE sr.user_id = ?
		GROUP BY s.id, s.name
		ORDER BY s.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []SkillStats
	for rows.Next() {
		var st SkillStats
		if err := rows.Scan(&st.SkillID, &st.SkillName, &st.Sessions, &st.TotalTasks, &st.CorrectTasks); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
