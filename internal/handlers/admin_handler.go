package handlers

import (
	"fmt"
	"net/http"
	"time"

	"studyhall/internal/service"
)

// AdminHandler handles site-admin endpoints
type AdminHandler struct {
	backupService *service.BackupService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(backupService *service.BackupService) *AdminHandler {
	return &AdminHandler{backupService: backupService}
}

// ExportBackup handles GET /admin/backup: streams a full database export
func (h *AdminHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("studyhall_backup_%s.json", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.backupService.ExportToWriter(w); err != nil {
		// Headers are already written; nothing sensible left to send
		return
	}
}

// ImportBackup handles POST /admin/backup: restores from an uploaded export
func (h *AdminHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	if err := h.backupService.ImportFromReader(r.Body); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
