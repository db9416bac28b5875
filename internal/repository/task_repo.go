package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"studyhall/internal/database"
	"studyhall/internal/models"
)

// TaskRepository handles database operations for tasks and answer options
type TaskRepository struct {
	db database.DBTX
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db database.DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts a task and its answer options
func (r *TaskRepository) CreateTask(task *models.Task) (*models.Task, error) {
	query := "INSERT INTO tasks (repository_id, document_id, chunk_id, kind, question) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, task.RepositoryID, task.DocumentID, task.ChunkID, task.Kind, task.Question)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	for i, opt := range task.Options {
		optQuery := "INSERT INTO answer_options (task_id, option_text, is_correct, position) VALUES (?, ?, ?, ?)"
		if _, err := r.db.Exec(optQuery, id, opt.Text, opt.IsCorrect, i); err != nil {
			return nil, fmt.Errorf("failed to create answer option: %w", err)
		}
	}

	return r.GetTask(id)
}

// GetTask retrieves a task with its options, or nil if not found
func (r *TaskRepository) GetTask(id int64) (*models.Task, error) {
	task := &models.Task{}
	var docID, chunkID sql.NullInt64
	err := r.db.QueryRow(
		"SELECT id, repository_id, document_id, chunk_id, kind, question, created_at FROM tasks WHERE id = ?", id,
	).Scan(&task.ID, &task.RepositoryID, &docID, &chunkID, &task.Kind, &task.Question, &task.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if docID.Valid {
		task.DocumentID = &docID.Int64
	}
	if chunkID.Valid {
		task.ChunkID = &chunkID.Int64
	}

	task.Options, err = r.getOptions(task.ID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetTasksByRepository returns all tasks in a repository with their options
func (r *TaskRepository) GetTasksByRepository(repoID int64) ([]models.Task, error) {
	query := `
		SELECT id, repository_id, document_id, chunk_id, kind, question, created_at
		FROM tasks
		WHERE repository_id = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, repoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		var docID, chunkID sql.NullInt64
		if err := rows.Scan(&task.ID, &task.RepositoryID, &docID, &chunkID, &task.Kind, &task.Question, &task.CreatedAt); err != nil {
			return nil, err
		}
		if docID.Valid {
			task.DocumentID = &docID.Int64
		}
		if chunkID.Valid {
			task.ChunkID = &chunkID.Int64
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		tasks[i].Options, err = r.getOptions(tasks[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *TaskRepository) getOptions(taskID int64) ([]models.AnswerOption, error) {
	query := `
		SELECT id, task_id, option_text, is_correct, position
		FROM answer_options
		WHERE task_id = ?
		ORDER BY position
	`
	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []models.AnswerOption
	for rows.Next() {
		var opt models.AnswerOption
		if err := rows.Scan(&opt.ID, &opt.TaskID, &opt.Text, &opt.IsCorrect, &opt.Position); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// CountTasks returns the number of tasks in a repository
func (r *TaskRepository) CountTasks(repoID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM tasks WHERE repository_id = ?", repoID).Scan(&count)
	return count, err
}

// DeleteTask removes a task and its options
func (r *TaskRepository) DeleteTask(id int64) error {
	_, err := r.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	return err
}

// DeleteTasksByDocument removes all tasks generated from a document
func (r *TaskRepository) DeleteTasksByDocument(documentID int64) error {
	_, err := r.db.Exec("DELETE FROM tasks WHERE document_id = ?", documentID)
	return err
}
