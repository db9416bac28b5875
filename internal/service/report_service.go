package service

import (
	"studyhall/internal/models"
	"studyhall/internal/repository"
)

// UserReport summarises a user's study history
type UserReport struct {
	Sessions     int
	TotalTasks   int
	CorrectTasks int
	Accuracy     float64
	Recent       []models.StudyRecordWithDetails
	Skills       []SkillReport
}

// SkillReport is a user's aggregated accuracy on one skill, reached through
// the course links of the repositories they studied
type SkillReport struct {
	SkillID      int64
	SkillName    string
	Sessions     int
	TotalTasks   int
	CorrectTasks int
	Accuracy     float64
}

// RepositoryReport summarises all study activity over one repository
type RepositoryReport struct {
	RepositoryID int64
	Sessions     int
	TotalTasks   int
	CorrectTasks int
	Accuracy     float64
}

// ReportService aggregates study records into progress reports
type ReportService struct {
	studyRepo *repository.StudyRepository
	library   *LibraryService
}

// NewReportService creates a new report service
func NewReportService(studyRepo *repository.StudyRepository, library *LibraryService) *ReportService {
	return &ReportService{studyRepo: studyRepo, library: library}
}

// UserReport returns the user's own study report with recent sessions
func (s *ReportService) UserReport(userID int64) (*UserReport, error) {
	stats, err := s.studyRepo.GetUserStats(userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.studyRepo.ListRecordsForUser(userID, 20)
	if err != nil {
		return nil, err
	}
	skillStats, err := s.studyRepo.GetUserSkillStats(userID)
	if err != nil {
		return nil, err
	}
	skills := make([]SkillReport, 0, len(skillStats))
	for _, st := range skillStats {
		skills = append(skills, SkillReport{
			SkillID:      st.SkillID,
			SkillName:    st.SkillName,
			Sessions:     st.Sessions,
			TotalTasks:   st.TotalTasks,
			CorrectTasks: st.CorrectTasks,
			Accuracy:     accuracy(st.CorrectTasks, st.TotalTasks),
		})
	}
	return &UserReport{
		Sessions:     stats.Sessions,
		TotalTasks:   stats.TotalTasks,
		CorrectTasks: stats.CorrectTasks,
		Accuracy:     accuracy(stats.CorrectTasks, stats.TotalTasks),
		Recent:       recent,
		Skills:       skills,
	}, nil
}

// RepositoryReport aggregates every study session over a repository.
// The caller must be able to view the repository.
func (s *ReportService) RepositoryReport(userID, repoID int64) (*RepositoryReport, error) {
	if _, _, err := s.library.Access(userID, repoID); err != nil {
		return nil, err
	}
	stats, err := s.studyRepo.GetRepositoryStats(repoID)
	if err != nil {
		return nil, err
	}
	return &RepositoryReport{
		RepositoryID: repoID,
		Sessions:     stats.Sessions,
		TotalTasks:   stats.TotalTasks,
		CorrectTasks: stats.CorrectTasks,
		Accuracy:     accuracy(stats.CorrectTasks, stats.TotalTasks),
	}, nil
}

// RecordAttempts returns the per-task attempts of one of the user's records
func (s *ReportService) RecordAttempts(userID, recordID int64) ([]models.TaskAttempt, error) {
	record, err := s.studyRepo.GetRecord(recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if record.UserID != userID {
		return nil, ErrForbidden
	}
	return s.studyRepo.ListAttempts(recordID)
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
