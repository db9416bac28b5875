package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"studyhall/internal/models"
	"studyhall/internal/repository"
	"studyhall/internal/scorer"
	"studyhall/internal/study"
)

// StudyService owns the live study sessions, one per user, and persists a
// study record with its attempts when a session finishes.
type StudyService struct {
	taskRepo         *repository.TaskRepository
	studyRepo        *repository.StudyRepository
	notificationRepo *repository.NotificationRepository
	library          *LibraryService
	scorer           scorer.Scorer

	mu       sync.Mutex
	sessions map[int64]*userSession
}

type userSession struct {
	session      *study.Session
	repositoryID int64
	startedAt    time.Time
	persisted    bool
}

// NewStudyService creates a new study service
func NewStudyService(
	taskRepo *repository.TaskRepository,
	studyRepo *repository.StudyRepository,
	notificationRepo *repository.NotificationRepository,
	library *LibraryService,
	sc scorer.Scorer,
) *StudyService {
	return &StudyService{
		taskRepo:         taskRepo,
		studyRepo:        studyRepo,
		notificationRepo: notificationRepo,
		library:          library,
		scorer:           sc,
	}
}

// TasksForRepository implements study.TaskSource against the task store
func (s *StudyService) TasksForRepository(ctx context.Context, repositoryID int64) ([]models.Task, error) {
	return s.taskRepo.GetTasksByRepository(repositoryID)
}

// Start begins a study session over a repository for the user, replacing any
// existing session.
func (s *StudyService) Start(ctx context.Context, userID, repositoryID int64) (study.State, error) {
	if _, _, err := s.library.Access(userID, repositoryID); err != nil {
		return study.State{}, err
	}

	session := study.NewSession(s, s.scorer)
	if err := session.Start(ctx, repositoryID); err != nil {
		return study.State{}, err
	}

	s.mu.Lock()
	if s.sessions == nil {
		s.sessions = make(map[int64]*userSession)
	}
	s.sessions[userID] = &userSession{
		session:      session,
		repositoryID: repositoryID,
		startedAt:    time.Now(),
	}
	s.mu.Unlock()

	return session.State(), nil
}

// Current returns the user's session state and the task being studied, if any
func (s *StudyService) Current(userID int64) (study.State, *models.Task, error) {
	us, err := s.get(userID)
	if err != nil {
		return study.State{}, nil, err
	}
	state := us.session.State()
	if task, ok := us.session.CurrentTask(); ok {
		return state, &task, nil
	}
	return state, nil, nil
}

// Evaluate submits an answer for the user's current task
func (s *StudyService) Evaluate(ctx context.Context, userID int64, answer string) (study.Evaluation, error) {
	us, err := s.get(userID)
	if err != nil {
		return study.Evaluation{}, err
	}
	return us.session.Evaluate(ctx, answer)
}

// Advance moves the user's session to the next task. On finishing the last
// task the session is persisted as a study record.
func (s *StudyService) Advance(userID int64) (study.State, error) {
	us, err := s.get(userID)
	if err != nil {
		return study.State{}, err
	}
	if err := us.session.Advance(); err != nil {
		return study.State{}, err
	}

	state := us.session.State()
	if state.Phase == study.PhaseFinished {
		s.persistFinished(userID, us)
	}
	return state, nil
}

// Restart resets the user's session to idle, discarding progress
func (s *StudyService) Restart(userID int64) (study.State, error) {
	us, err := s.get(userID)
	if err != nil {
		return study.State{}, err
	}
	us.session.Restart()
	us.persisted = false
	return us.session.State(), nil
}

func (s *StudyService) get(userID int64) (*userSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	us, ok := s.sessions[userID]
	if !ok {
		return nil, study.ErrNotStudying
	}
	return us, nil
}

// persistFinished writes the study record and its attempts. Persistence
// failures are logged; the in-memory session result is still returned.
func (s *StudyService) persistFinished(userID int64, us *userSession) {
	s.mu.Lock()
	if us.persisted {
		s.mu.Unlock()
		return
	}
	us.persisted = true
	s.mu.Unlock()

	state := us.session.State()
	attempts := us.session.Attempts()

	recordID, err := s.studyRepo.CreateRecord(userID, us.repositoryID, us.startedAt, state.Total, state.Score)
	if err != nil {
		log.Printf("Failed to persist study record for user %d: %v", userID, err)
		return
	}
	for _, a := range attempts {
		if err := s.studyRepo.CreateAttempt(recordID, a.TaskID, a.Answer, string(a.Outcome), a.Score, a.Feedback, time.Now()); err != nil {
			log.Printf("Failed to persist attempt for record %d: %v", recordID, err)
		}
	}

	message := fmt.Sprintf("Study session complete: %d/%d correct", state.Score, state.Total)
	if err := s.notificationRepo.CreateNotification(userID, models.NotificationStudyDone, message); err != nil {
		log.Printf("Failed to create study notification for user %d: %v", userID, err)
	}
}
