package handlers

import (
	"net/http"
	"time"

	"studyhall/internal/service"
)

// ReportHandler handles progress report endpoints
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// UserReport handles GET /reports/me
func (h *ReportHandler) UserReport(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	report, err := h.reportService.UserReport(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	type recordView struct {
		ID             int64      `json:"id"`
		RepositoryID   int64      `json:"repository_id"`
		RepositoryName string     `json:"repository_name"`
		StartedAt      time.Time  `json:"started_at"`
		CompletedAt    *time.Time `json:"completed_at,omitempty"`
		TotalTasks     int        `json:"total_tasks"`
		CorrectTasks   int        `json:"correct_tasks"`
	}
	recent := make([]recordView, 0, len(report.Recent))
	for _, d := range report.Recent {
		recent = append(recent, recordView{
			ID:             d.Record.ID,
			RepositoryID:   d.Record.RepositoryID,
			RepositoryName: d.RepositoryName,
			StartedAt:      d.Record.StartedAt,
			CompletedAt:    d.Record.CompletedAt,
			TotalTasks:     d.Record.TotalTasks,
			CorrectTasks:   d.Record.CorrectTasks,
		})
	}
	type skillView struct {
		SkillID      int64   `json:"skill_id"`
		SkillName    string  `json:"skill_name"`
		Sessions     int     `json:"sessions"`
		TotalTasks   int     `json:"total_tasks"`
		CorrectTasks int     `json:"correct_tasks"`
		Accuracy     float64 `json:"accuracy"`
	}
	skills := make([]skillView, 0, len(report.Skills))
	for _, s := range report.Skills {
		skills = append(skills, skillView{
			SkillID:      s.SkillID,
			SkillName:    s.SkillName,
			Sessions:     s.Sessions,
			TotalTasks:   s.TotalTasks,
			CorrectTasks: s.CorrectTasks,
			Accuracy:     s.Accuracy,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Sessions     int          `json:"sessions"`
		TotalTasks   int          `json:"total_tasks"`
		CorrectTasks int          `json:"correct_tasks"`
		Accuracy     float64      `json:"accuracy"`
		Recent       []recordView `json:"recent"`
		Skills       []skillView  `json:"skills"`
	}{report.Sessions, report.TotalTasks, report.CorrectTasks, report.Accuracy, recent, skills})
}

// RepositoryReport handles GET /repositories/{id}/report
func (h *ReportHandler) RepositoryReport(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	repoID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	report, err := h.reportService.RepositoryReport(user.ID, repoID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		RepositoryID int64   `json:"repository_id"`
		Sessions     int     `json:"sessions"`
		TotalTasks   int     `json:"total_tasks"`
		CorrectTasks int     `json:"correct_tasks"`
		Accuracy     float64 `json:"accuracy"`
	}{report.RepositoryID, report.Sessions, report.TotalTasks, report.CorrectTasks, report.Accuracy})
}

// RecordAttempts handles GET /reports/records/{id}/attempts
func (h *ReportHandler) RecordAttempts(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	recordID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	attempts, err := h.reportService.RecordAttempts(user.ID, recordID)
	if err != nil {
		respondError(w, err)
		return
	}

	type attemptView struct {
		TaskID   int64  `json:"task_id"`
		Answer   string `json:"answer"`
		Outcome  string `json:"outcome"`
		Score    int    `json:"score"`
		Feedback string `json:"feedback,omitempty"`
	}
	views := make([]attemptView, 0, len(attempts))
	for _, a := range attempts {
		views = append(views, attemptView{TaskID: a.TaskID, Answer: a.AnswerText, Outcome: a.Outcome, Score: a.Score, Feedback: a.Feedback})
	}
	writeJSON(w, http.StatusOK, views)
}
