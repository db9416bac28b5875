package security

import (
	"net/http/httptest"
	"regexp"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Error("hash must not equal the plain-text password")
	}

	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("CheckPassword() should accept the original password")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword() should reject a different password")
	}
	if CheckPassword("correct horse battery staple", "not a bcrypt hash") {
		t.Error("CheckPassword() should reject a malformed hash")
	}
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	token, err := g.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	if !g.ValidateToken("session-123", token) {
		t.Error("ValidateToken() should accept the generated token")
	}
	if g.ValidateToken("other-session", token) {
		t.Error("ValidateToken() should reject a token for a different session")
	}
	if g.ValidateToken("session-123", "tampered") {
		t.Error("ValidateToken() should reject a tampered token")
	}
	if g.ValidateToken("", token) {
		t.Error("ValidateToken() should reject an empty session ID")
	}
	if g.ValidateToken("session-123", "") {
		t.Error("ValidateToken() should reject an empty token")
	}
}

func TestCSRFTokenDependsOnSecret(t *testing.T) {
	a := NewCSRFGenerator("secret-a")
	b := NewCSRFGenerator("secret-b")

	token, err := a.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if b.ValidateToken("session-123", token) {
		t.Error("token signed with one secret must not validate under another")
	}
}

func TestCSRFGenerateTokenRequiresSession(t *testing.T) {
	g := NewCSRFGenerator("test-secret")
	if _, err := g.GenerateToken(""); err == nil {
		t.Error("GenerateToken() should fail for an empty session ID")
	}
}

func TestGenerateInviteCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z]+-[a-z]+-\d{4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateInviteCode()
		if err != nil {
			t.Fatalf("GenerateInviteCode() error = %v", err)
		}
		if !pattern.MatchString(code) {
			t.Errorf("invite code %q does not match adjective-noun-NNNN format", code)
		}
		seen[code] = true
	}

	// 30*30*10000 combinations; 20 draws colliding down to 1 means broken randomness
	if len(seen) < 2 {
		t.Error("expected varied invite codes across draws")
	}
}

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() error = %v", err)
	}
	if len(token) != 32 {
		t.Errorf("token length = %d, want 32", len(token))
	}

	other, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() error = %v", err)
	}
	if token == other {
		t.Error("two generated tokens should differ")
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed within the limit", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over the limit should be denied")
	}

	// A different client has its own bucket
	if !rl.Allow("10.0.0.2") {
		t.Error("fresh client should be allowed")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "x-forwarded-for wins",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5", "X-Real-IP": "198.51.100.7"},
			remote:   "192.0.2.1:1234",
			expected: "203.0.113.5",
		},
		{
			name:     "x-real-ip fallback",
			headers:  map[string]string{"X-Real-IP": "198.51.100.7"},
			remote:   "192.0.2.1:1234",
			expected: "198.51.100.7",
		},
		{
			name:     "remote addr fallback",
			headers:  nil,
			remote:   "192.0.2.1:1234",
			expected: "192.0.2.1:1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
