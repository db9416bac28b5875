package handlers

import (
	"net/http"

	"studyhall/internal/models"
	"studyhall/internal/service"
	"studyhall/internal/study"
)

// StudyHandler handles the study session endpoints
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

type stateView struct {
	Phase    string    `json:"phase"`
	Index    int       `json:"index"`
	Total    int       `json:"total"`
	Score    int       `json:"score"`
	Answer   string    `json:"answer,omitempty"`
	Outcome  string    `json:"outcome,omitempty"`
	Feedback string    `json:"feedback,omitempty"`
	Task     *taskView `json:"task,omitempty"`
}

func newStateView(state study.State, task *models.Task) stateView {
	view := stateView{
		Phase:    string(state.Phase),
		Index:    state.Index,
		Total:    state.Total,
		Score:    state.Score,
		Answer:   state.Answer,
		Outcome:  string(state.Outcome),
		Feedback: state.Feedback,
	}
	if task != nil {
		tv := newTaskView(task)
		view.Task = &tv
	}
	return view
}

// Start handles POST /study/start: fetch the repository's tasks, shuffle
// and begin at the first one.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	var req struct {
		RepositoryID int64 `json:"repository_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.studyService.Start(r.Context(), user.ID, req.RepositoryID); err != nil {
		respondError(w, err)
		return
	}

	state, task, err := h.studyService.Current(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(state, task))
}

// Current handles GET /study: the session state and the task being studied
func (h *StudyHandler) Current(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	state, task, err := h.studyService.Current(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(state, task))
}

// Answer handles POST /study/answer: evaluate the submitted answer against
// the current task.
func (h *StudyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	var req struct {
		Answer string `json:"answer"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	evaluation, err := h.studyService.Evaluate(r.Context(), user.ID, req.Answer)
	if err != nil {
		// A failed feedback fetch still carries the recorded outcome
		if evaluation.Outcome == "" {
			respondError(w, err)
			return
		}
	}

	state, task, stateErr := h.studyService.Current(user.ID)
	if stateErr != nil {
		respondError(w, stateErr)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Outcome  string    `json:"outcome"`
		Score    int       `json:"score"`
		Feedback string    `json:"feedback,omitempty"`
		State    stateView `json:"state"`
	}{string(evaluation.Outcome), evaluation.Score, evaluation.Feedback, newStateView(state, task)})
}

// Next handles POST /study/next: advance to the next task or finish
func (h *StudyHandler) Next(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	state, err := h.studyService.Advance(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	if state.Phase == study.PhaseStudying {
		state, task, err := h.studyService.Current(user.ID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newStateView(state, task))
		return
	}
	writeJSON(w, http.StatusOK, newStateView(state, nil))
}

// Restart handles POST /study/restart: reset the session to idle
func (h *StudyHandler) Restart(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	state, err := h.studyService.Restart(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(state, nil))
}
