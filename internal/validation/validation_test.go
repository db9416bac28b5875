package validation

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid with plus", "user+tag@example.com", false},
		{"valid with subdomain", "user@mail.example.co.uk", false},
		{"empty", "", true},
		{"missing at", "userexample.com", true},
		{"missing domain", "user@", true},
		{"missing tld", "user@example", true},
		{"whitespace only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "secretpass", false},
		{"exactly 8 chars", "12345678", false},
		{"too short", "1234567", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("repository_id", 0); err == nil {
		t.Error("expected error for zero ID")
	}
	if err := ValidateID("repository_id", -3); err == nil {
		t.Error("expected error for negative ID")
	}
	if err := ValidateID("repository_id", 7); err != nil {
		t.Errorf("unexpected error for valid ID: %v", err)
	}
}

func TestValidateAnswer(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		wantErr bool
	}{
		{"valid answer", "the mitochondria", false},
		{"empty", "", true},
		{"whitespace only", "  \t ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswer(tt.answer)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAnswer(%q) error = %v, wantErr %v", tt.answer, err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorType(t *testing.T) {
	err := ValidateAnswer("")

	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if vErr.Field != "answer" {
		t.Errorf("expected field 'answer', got %q", vErr.Field)
	}
}

func TestValidateTaskCount(t *testing.T) {
	tests := []struct {
		count   int
		wantErr bool
	}{
		{1, false},
		{10, false},
		{50, false},
		{0, true},
		{51, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateTaskCount(tt.count)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTaskCount(%d) error = %v, wantErr %v", tt.count, err, tt.wantErr)
		}
	}
}
