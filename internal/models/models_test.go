package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		expected  bool
	}{
		{"future expiry", time.Now().Add(time.Hour), false},
		{"past expiry", time.Now().Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{ID: "abc", UserID: 1, ExpiresAt: tt.expiresAt}
			if got := s.IsExpired(); got != tt.expected {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPasswordResetTokenIsExpired(t *testing.T) {
	valid := PasswordResetToken{Token: "t", ExpiresAt: time.Now().Add(time.Hour)}
	if valid.IsExpired() {
		t.Error("token with future expiry should not be expired")
	}

	expired := PasswordResetToken{Token: "t", ExpiresAt: time.Now().Add(-time.Minute)}
	if !expired.IsExpired() {
		t.Error("token with past expiry should be expired")
	}
}

func TestCanManage(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{RoleOwner, true},
		{RoleAdmin, true},
		{RoleMember, false},
		{"", false},
		{"viewer", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := CanManage(tt.role); got != tt.expected {
				t.Errorf("CanManage(%q) = %v, want %v", tt.role, got, tt.expected)
			}
		})
	}
}

func TestTaskCorrectOption(t *testing.T) {
	task := Task{
		Kind: TaskMultipleChoice,
		Options: []AnswerOption{
			{ID: 1, Text: "wrong", IsCorrect: false, Position: 0},
			{ID: 2, Text: "right", IsCorrect: true, Position: 1},
			{ID: 3, Text: "also wrong", IsCorrect: false, Position: 2},
		},
	}

	opt := task.CorrectOption()
	if opt == nil {
		t.Fatal("CorrectOption() returned nil")
	}
	if opt.ID != 2 || opt.Text != "right" {
		t.Errorf("CorrectOption() = %+v, want option 2", opt)
	}

	freeText := Task{Kind: TaskFreeText, Question: "Explain"}
	if opt := freeText.CorrectOption(); opt != nil {
		t.Errorf("CorrectOption() on free-text task = %+v, want nil", opt)
	}
}

func TestStudyRecordAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		record   StudyRecord
		expected float64
	}{
		{"perfect", StudyRecord{TotalTasks: 4, CorrectTasks: 4}, 1.0},
		{"half", StudyRecord{TotalTasks: 10, CorrectTasks: 5}, 0.5},
		{"none", StudyRecord{TotalTasks: 3, CorrectTasks: 0}, 0},
		{"empty session", StudyRecord{TotalTasks: 0, CorrectTasks: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Accuracy(); got != tt.expected {
				t.Errorf("Accuracy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestShareIsAccepted(t *testing.T) {
	pending := Share{InviteCode: "code"}
	if pending.IsAccepted() {
		t.Error("share without AcceptedBy should not be accepted")
	}

	userID := int64(7)
	now := time.Now()
	accepted := Share{InviteCode: "code", AcceptedBy: &userID, AcceptedAt: &now}
	if !accepted.IsAccepted() {
		t.Error("share with AcceptedBy should be accepted")
	}
}
