package handlers

import (
	"net/http"

	"studyhall/internal/models"
	"studyhall/internal/service"
)

// SkillHandler handles skill taxonomy endpoints
type SkillHandler struct {
	skillService *service.SkillService
}

// NewSkillHandler creates a new skill handler
func NewSkillHandler(skillService *service.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

type skillView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Global      bool   `json:"global"`
}

func newSkillView(s *models.Skill) skillView {
	return skillView{ID: s.ID, Name: s.Name, Description: s.Description, Global: s.OrganisationID == nil}
}

func skillViews(skills []models.Skill) []skillView {
	views := make([]skillView, 0, len(skills))
	for i := range skills {
		views = append(views, newSkillView(&skills[i]))
	}
	return views
}

// List handles GET /orgs/{id}/skills
func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	skills, err := h.skillService.ListSkills(user.ID, orgID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skillViews(skills))
}

// Create handles POST /orgs/{id}/skills
func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	skill, err := h.skillService.CreateSkill(user.ID, orgID, req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSkillView(skill))
}

// Update handles PUT /orgs/{id}/skills/{skillId}
func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	skillID, err := pathID(r, "skillId")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.skillService.UpdateSkill(user.ID, orgID, skillID, req.Name, req.Description); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// Delete handles DELETE /orgs/{id}/skills/{skillId}
func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	skillID, err := pathID(r, "skillId")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.skillService.DeleteSkill(user.ID, orgID, skillID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
