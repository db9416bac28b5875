package service

import (
	"testing"

	"studyhall/internal/models"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		minimum  string
		expected bool
	}{
		{"owner meets owner", models.RoleOwner, models.RoleOwner, true},
		{"owner meets admin", models.RoleOwner, models.RoleAdmin, true},
		{"owner meets member", models.RoleOwner, models.RoleMember, true},
		{"admin below owner", models.RoleAdmin, models.RoleOwner, false},
		{"admin meets admin", models.RoleAdmin, models.RoleAdmin, true},
		{"admin meets member", models.RoleAdmin, models.RoleMember, true},
		{"member below admin", models.RoleMember, models.RoleAdmin, false},
		{"member meets member", models.RoleMember, models.RoleMember, true},
		{"non-member below member", "", models.RoleMember, false},
		{"unknown role below member", "guest", models.RoleMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roleAtLeast(tt.role, tt.minimum); got != tt.expected {
				t.Errorf("roleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
			}
		})
	}
}
