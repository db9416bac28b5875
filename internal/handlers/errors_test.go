package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"studyhall/internal/scorer"
	"studyhall/internal/service"
	"studyhall/internal/study"
	"studyhall/internal/validation"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", validation.ValidationError{Field: "email", Message: "email is required"}, 400},
		{"scorer unreachable", &scorer.RequestError{Op: "score", Wrapped: errors.New("connection refused")}, 502},
		{"wrapped scorer error", fmt.Errorf("evaluating: %w", &scorer.RequestError{Op: "score"}), 502},
		{"invalid credentials", service.ErrInvalidCredentials, 401},
		{"session expired", service.ErrSessionExpired, 401},
		{"forbidden", service.ErrForbidden, 403},
		{"not a member", service.ErrNotMember, 403},
		{"not found", service.ErrNotFound, 404},
		{"invite not found", service.ErrInviteNotFound, 404},
		{"email taken", service.ErrEmailTaken, 409},
		{"already in org", service.ErrAlreadyInOrg, 409},
		{"invite accepted", service.ErrInviteAccepted, 409},
		{"last owner", service.ErrLastOwner, 409},
		{"invalid reset token", service.ErrInvalidResetToken, 400},
		{"document too large", service.ErrDocumentTooLarge, 413},
		{"evaluation pending", study.ErrEvaluationPending, 409},
		{"not studying", study.ErrNotStudying, 409},
		{"unknown error", errors.New("database on fire"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response body is not JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("response body has no error message")
			}
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("pq: relation users does not exist"))

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not JSON: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal errors must not leak details, got %q", body.Error)
	}
}

func TestRespondErrorValidationField(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, validation.ValidationError{Field: "name", Message: "name is required"})

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not JSON: %v", err)
	}
	if body.Field != "name" {
		t.Errorf("field = %q, want %q", body.Field, "name")
	}
	if body.Error != "name is required" {
		t.Errorf("error = %q, want %q", body.Error, "name is required")
	}
}
