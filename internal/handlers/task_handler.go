package handlers

import (
	"net/http"

	"studyhall/internal/models"
	"studyhall/internal/service"
)

// TaskHandler handles task listing and generation endpoints
type TaskHandler struct {
	taskGenService *service.TaskGenService
	libraryService *service.LibraryService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskGenService *service.TaskGenService, libraryService *service.LibraryService) *TaskHandler {
	return &TaskHandler{taskGenService: taskGenService, libraryService: libraryService}
}

// taskView hides which option is correct; answers are checked server side
type taskView struct {
	ID       int64    `json:"id"`
	Kind     string   `json:"kind"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
}

func newTaskView(t *models.Task) taskView {
	view := taskView{ID: t.ID, Kind: t.Kind, Question: t.Question}
	for _, opt := range t.Options {
		view.Options = append(view.Options, opt.Text)
	}
	return view
}

// List handles GET /repositories/{id}/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	repoID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	tasks, err := h.taskGenService.Tasks(user.ID, repoID)
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]taskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, newTaskView(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

// Generate handles POST /documents/{id}/generate.
// Generation is asynchronous; the response carries a job ID for polling.
func (h *TaskHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	documentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		TasksPerChunk int `json:"tasks_per_chunk"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	job, err := h.taskGenService.Generate(user.ID, documentID, req.TasksPerChunk)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, jobView(job))
}

// GetJob handles GET /generation-jobs/{id}
func (h *TaskHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	job := h.taskGenService.GetJob(jobID)
	if job == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "job not found"})
		return
	}
	writeJSON(w, http.StatusOK, jobView(job))
}

func jobView(job *service.GenJob) interface{} {
	return struct {
		ID           string `json:"id"`
		Status       string `json:"status"`
		TasksCreated int    `json:"tasks_created"`
		Error        string `json:"error,omitempty"`
	}{job.ID, job.Status, job.TasksCreated, job.Error}
}
