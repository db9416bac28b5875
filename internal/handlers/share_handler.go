package handlers

import (
	"net/http"

	"studyhall/internal/models"
	"studyhall/internal/service"
)

// ShareHandler handles repository sharing endpoints
type ShareHandler struct {
	shareService *service.ShareService
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareService *service.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

type shareView struct {
	ID           int64  `json:"id"`
	RepositoryID int64  `json:"repository_id"`
	InviteCode   string `json:"invite_code"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Accepted     bool   `json:"accepted"`
}

func newShareView(s *models.Share) shareView {
	return shareView{
		ID:           s.ID,
		RepositoryID: s.RepositoryID,
		InviteCode:   s.InviteCode,
		Email:        s.Email,
		Role:         s.Role,
		Accepted:     s.IsAccepted(),
	}
}

// Create handles POST /repositories/{id}/shares
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	repoID, err := pathID(r, "id")
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

	share, err := h.shareService.CreateShare(r.Context(), user.ID, repoID, req.Email, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newShareView(share))
}

// List handles GET /repositories/{id}/shares
func (h *ShareHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	repoID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	shares, err := h.shareService.ListShares(user.ID, repoID)
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]shareView, 0, len(shares))
	for i := range shares {
		views = append(views, newShareView(&shares[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

// Accept handles POST /shares/accept
func (h *ShareHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	var req struct {
		InviteCode string `json:"invite_code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	share, err := h.shareService.AcceptShare(user.ID, req.InviteCode)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newShareView(share))
}

// ListAccepted handles GET /shares/accepted
func (h *ShareHandler) ListAccepted(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	shares, err := h.shareService.ListAccepted(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]shareView, 0, len(shares))
	for i := range shares {
		views = append(views, newShareView(&shares[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

// Revoke handles DELETE /shares/{id}
func (h *ShareHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	shareID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.shareService.RevokeShare(user.ID, shareID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
