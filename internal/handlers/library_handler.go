package handlers

import (
	"net/http"

	"studyhall/internal/models"
	"studyhall/internal/service"
)

// LibraryHandler handles repository and document endpoints
type LibraryHandler struct {
	libraryService *service.LibraryService
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(libraryService *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

type repositoryView struct {
	ID             int64  `json:"id"`
	OrganisationID int64  `json:"organisation_id"`
	CourseID       *int64 `json:"course_id,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

func newRepositoryView(repo *models.Repository) repositoryView {
	return repositoryView{
		ID:             repo.ID,
		OrganisationID: repo.OrganisationID,
		CourseID:       repo.CourseID,
		Name:           repo.Name,
		Description:    repo.Description,
	}
}

type documentView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

// CreateRepository handles POST /orgs/{id}/repositories
func (h *LibraryHandler) CreateRepository(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CourseID    *int64 `json:"course_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	repo, err := h.libraryService.CreateRepository(user.ID, orgID, req.CourseID, req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newRepositoryView(repo))
}

// ListRepositories handles GET /orgs/{id}/repositories
func (h *LibraryHandler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	repos, err := h.libraryService.ListRepositories(user.ID, orgID)
	if err != nil {
		respondError(w, err)
		return
	}

	type summaryView struct {
		repositoryView
		DocumentCount int `json:"document_count"`
		TaskCount     int `json:"task_count"`
	}
	views := make([]summaryView, 0, len(repos))
	for i := range repos {
		views = append(views, summaryView{
			repositoryView: newRepositoryView(&repos[i].Repository),
			DocumentCount:  repos[i].DocumentCount,
			TaskCount:      repos[i].TaskCount,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// GetRepository handles GET /repositories/{id}
func (h *LibraryHandler) GetRepository(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	repoID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	repo, err := h.libraryService.GetRepository(user.ID, repoID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRepositoryView(repo))
}

// UpdateRepository handles PUT /repositories/{id}
func (h *LibraryHandler) UpdateRepository(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	repoID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CourseID    *int64 `json:"course_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.libraryService.UpdateRepository(user.ID, repoID, req.CourseID, req.Name, req.Description); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// DeleteRepository handles DELETE /repositories/{id}
func (h *LibraryHandler) DeleteRepository(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	repoID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.libraryService.DeleteRepository(user.ID, repoID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// UploadDocument handles POST /repositories/{id}/documents.
// The document text is submitted inline; chunk extraction runs synchronously.
func (h *LibraryHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	repoID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	doc, err := h.libraryService.UploadDocument(user.ID, repoID, req.Name, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, documentView{ID: doc.ID, Name: doc.Name, SizeBytes: doc.SizeBytes})
}

// ListDocuments handles GET /repositories/{id}/documents
func (h *LibraryHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	repoID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	docs, err := h.libraryService.ListDocuments(user.ID, repoID)
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]documentView, 0, len(docs))
	for _, d := range docs {
		views = append(views, documentView{ID: d.ID, Name: d.Name, SizeBytes: d.SizeBytes})
	}
	writeJSON(w, http.StatusOK, views)
}

// DeleteDocument handles DELETE /documents/{id}
func (h *LibraryHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	documentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.libraryService.DeleteDocument(user.ID, documentID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// GetChunk handles GET /chunks/{id}: the source text a task was generated from
func (h *LibraryHandler) GetChunk(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	chunkID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	chunk, err := h.libraryService.GetChunk(user.ID, chunkID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ChunkText string `json:"chunk_text"`
	}{chunk.ChunkText})
}

// ListChunks handles GET /documents/{id}/chunks
func (h *LibraryHandler) ListChunks(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	documentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	chunks, err := h.libraryService.ListChunks(user.ID, documentID)
	if err != nil {
		respondError(w, err)
		return
	}

	type chunkView struct {
		ID       int64  `json:"id"`
		Position int    `json:"position"`
		Text     string `json:"text"`
	}
	views := make([]chunkView, 0, len(chunks))
	for _, c := range chunks {
		views = append(views, chunkView{ID: c.ID, Position: c.Position, Text: c.ChunkText})
	}
	writeJSON(w, http.StatusOK, views)
}
