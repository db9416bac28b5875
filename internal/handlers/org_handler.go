package handlers

import (
	"net/http"
	"time"

	"studyhall/internal/models"
	"studyhall/internal/service"
)

// OrgHandler handles organisation and membership endpoints
type OrgHandler struct {
	orgService *service.OrgService
}

// NewOrgHandler creates a new organisation handler
func NewOrgHandler(orgService *service.OrgService) *OrgHandler {
	return &OrgHandler{orgService: orgService}
}

type orgView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func newOrgView(o *models.Organisation) orgView {
	return orgView{ID: o.ID, Name: o.Name, Description: o.Description, CreatedAt: o.CreatedAt}
}

// Create handles POST /orgs
func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	org, err := h.orgService.CreateOrganisation(user.ID, req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newOrgView(org))
}

// List handles GET /orgs
func (h *OrgHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgs, err := h.orgService.ListOrganisations(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]orgView, 0, len(orgs))
	for i := range orgs {
		views = append(views, newOrgView(&orgs[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

// Get handles GET /orgs/{id}
func (h *OrgHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	org, err := h.orgService.GetOrganisation(user.ID, orgID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrgView(org))
}

// Update handles PUT /orgs/{id}
func (h *OrgHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	if err := h.orgService.UpdateOrganisation(user.ID, orgID, req.Name, req.Description); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// Delete handles DELETE /orgs/{id}
func (h *OrgHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.orgService.DeleteOrganisation(user.ID, orgID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// ListMembers handles GET /orgs/{id}/members
func (h *OrgHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	members, err := h.orgService.ListMembers(user.ID, orgID)
	if err != nil {
		respondError(w, err)
		return
	}

	type memberView struct {
		UserID int64  `json:"user_id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
		Role   string `json:"role"`
	}
	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, memberView{UserID: m.UserID, Email: m.Email, Name: m.Name, Role: m.Role})
	}
	writeJSON(w, http.StatusOK, views)
}

// AddMember handles POST /orgs/{id}/members
func (h *OrgHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.orgService.AddMember(user.ID, orgID, req.Email, req.Role); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct{}{})
}

// UpdateMember handles PUT /orgs/{id}/members/{userId}
func (h *OrgHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	targetID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.orgService.UpdateMemberRole(user.ID, orgID, targetID, req.Role); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// RemoveMember handles DELETE /orgs/{id}/members/{userId}
func (h *OrgHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	targetID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.orgService.RemoveMember(user.ID, orgID, targetID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
