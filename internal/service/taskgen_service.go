package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"studyhall/internal/models"
	"studyhall/internal/repository"
	"studyhall/internal/scorer"
	"studyhall/internal/validation"
	"studyhall/internal/worker"
)

// Job statuses reported by GetJob
const (
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// GenJob tracks the progress of one task generation request
type GenJob struct {
	ID           string
	RepositoryID int64
	DocumentID   int64
	Status       string
	TasksCreated int
	Error        string
}

type genResult struct {
	jobID        string
	tasksCreated int
	err          error
}

// TaskGenService generates quiz tasks from document chunks using the remote
// generator. Generation runs on a worker pool; callers poll job status.
type TaskGenService struct {
	generator        scorer.TaskGenerator
	taskRepo         *repository.TaskRepository
	libraryRepo      *repository.LibraryRepository
	notificationRepo *repository.NotificationRepository
	emailService     *EmailService
	userRepo         *repository.UserRepository
	library          *LibraryService

	pool *worker.Pool[genResult]

	mu   sync.Mutex
	jobs map[string]*GenJob
}

// NewTaskGenService creates the service and starts its worker pool
func NewTaskGenService(
	generator scorer.TaskGenerator,
	taskRepo *repository.TaskRepository,
	libraryRepo *repository.LibraryRepository,
	notificationRepo *repository.NotificationRepository,
	emailService *EmailService,
	userRepo *repository.UserRepository,
	library *LibraryService,
	workers int,
) *TaskGenService {
	if workers < 1 {
		workers = 1
	}
	s := &TaskGenService{
		generator:        generator,
		taskRepo:         taskRepo,
		libraryRepo:      libraryRepo,
		notificationRepo: notificationRepo,
		emailService:     emailService,
		userRepo:         userRepo,
		library:          library,
		pool:             worker.NewPool[genResult](workers, workers*4),
		jobs:             make(map[string]*GenJob),
	}
	go s.collect()
	return s
}

// Close drains the worker pool. Pending jobs complete first.
func (s *TaskGenService) Close() {
	s.pool.Close()
}

// Generate queues task generation for a document. Roughly tasksPerChunk tasks
// are requested from each chunk. Returns the job ID for status polling.
func (s *TaskGenService) Generate(userID, documentID int64, tasksPerChunk int) (*GenJob, error) {
	if err := validation.ValidateTaskCount(tasksPerChunk); err != nil {
		return nil, err
	}

	doc, err := s.libraryRepo.GetDocument(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if _, canEdit, err := s.library.Access(userID, doc.RepositoryID); err != nil {
		return nil, err
	} else if !canEdit {
		return nil, ErrForbidden
	}

	chunks, err := s.libraryRepo.ListChunks(documentID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, validation.ValidationError{Field: "document", Message: "document has no extracted text"}
	}

	job := &GenJob{
		ID:           uuid.New().String(),
		RepositoryID: doc.RepositoryID,
		DocumentID:   documentID,
		Status:       JobRunning,
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	jobID := job.ID
	s.pool.Submit(jobID, func() genResult {
		created, err := s.generateForChunks(context.Background(), doc, chunks, tasksPerChunk, userID)
		return genResult{jobID: jobID, tasksCreated: created, err: err}
	})

	return job, nil
}

// Tasks lists a repository's tasks in creation order.
// The caller must be able to view the repository.
func (s *TaskGenService) Tasks(userID, repositoryID int64) ([]models.Task, error) {
	if _, _, err := s.library.Access(userID, repositoryID); err != nil {
		return nil, err
	}
	return s.taskRepo.GetTasksByRepository(repositoryID)
}

// GetJob returns a job's current status, or nil if unknown
func (s *TaskGenService) GetJob(jobID string) *GenJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		snapshot := *job
		return &snapshot
	}
	return nil
}

func (s *TaskGenService) generateForChunks(ctx context.Context, doc *models.Document, chunks []models.Chunk, tasksPerChunk int, userID int64) (int, error) {
	created := 0
	for _, chunk := range chunks {
		generated, err := s.generator.GenerateTasks(ctx, chunk.ChunkText, tasksPerChunk)
		if err != nil {
			// Keep tasks already created from earlier chunks
			return created, fmt.Errorf("chunk %d: %w", chunk.Position, err)
		}

		for _, g := range generated {
			task := &models.Task{
				RepositoryID: doc.RepositoryID,
				DocumentID:   &doc.ID,
				ChunkID:      &chunk.ID,
				Kind:         g.Kind,
				Question:     g.Question,
			}
			for _, opt := range g.Options {
				task.Options = append(task.Options, models.AnswerOption{
					Text:      opt.Text,
					IsCorrect: opt.Correct,
				})
			}
			if _, err := s.taskRepo.CreateTask(task); err != nil {
				return created, fmt.Errorf("failed to store task: %w", err)
			}
			created++
		}
	}

	s.notifyDone(ctx, doc, userID, created)
	return created, nil
}

func (s *TaskGenService) notifyDone(ctx context.Context, doc *models.Document, userID int64, created int) {
	message := fmt.Sprintf("%d tasks are ready for %q", created, doc.Name)
	if err := s.notificationRepo.CreateNotification(userID, models.NotificationTasksReady, message); err != nil {
		log.Printf("Failed to create notification for user %d: %v", userID, err)
	}

	// Email is best effort
	if s.emailService != nil && s.emailService.IsEnabled() {
		user, err := s.userRepo.GetUserByID(userID)
		if err != nil || user == nil {
			return
		}
		if err := s.emailService.SendTasksReady(ctx, user.Email, user.Name, doc.Name, created); err != nil {
			log.Printf("Failed to send tasks-ready email to %s: %v", user.Email, err)
		}
	}
}

// collect consumes pool results and updates job status
func (s *TaskGenService) collect() {
	for result := range s.pool.Results() {
		r := result.Output
		s.mu.Lock()
		job, ok := s.jobs[r.jobID]
		if ok {
			job.TasksCreated = r.tasksCreated
			if r.err != nil {
				job.Status = JobFailed
				job.Error = r.err.Error()
				log.Printf("Task generation job %s failed: %v", r.jobID, r.err)
			} else {
				job.Status = JobDone
			}
		}
		s.mu.Unlock()
	}
}
