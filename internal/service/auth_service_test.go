package service

import (
	"strings"
	"testing"
	"time"

	"github.com/markbook/markbook-backend/internal/config"
)

func testAuthService(secret string) *AuthService {
	cfg := &config.Config{
		JWTSecret:  secret,
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
	// Staff token paths never touch Redis, so nil is fine here.
	return NewAuthService(cfg, nil)
}

func TestStaffTokenRoundTrip(t *testing.T) {
	s := testAuthService("test-secret")

	token, err := s.GenerateStaffToken(42, true)
	if err != nil {
		t.Fatalf("GenerateStaffToken: %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != TokenTypeStaff {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, TokenTypeStaff)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if !claims.IsAdmin {
		t.Error("IsAdmin = false, want true")
	}
	if claims.Subject != "42" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "42")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := testAuthService("secret-a").GenerateStaffToken(1, false)
	if err != nil {
		t.Fatalf("GenerateStaffToken: %v", err)
	}

	if _, err := testAuthService("secret-b").ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	s := testAuthService("test-secret")
	for _, tok := range []string{"", "not.a.jwt", strings.Repeat("x", 100)} {
		if _, err := s.ValidateToken(tok); err == nil {
			t.Errorf("ValidateToken(%q) succeeded, want error", tok)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	s := testAuthService("test-secret")

	hash, err := s.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if err := s.CheckPassword(hash, "correct-horse"); err != nil {
		t.Errorf("CheckPassword with right password: %v", err)
	}
	if err := s.CheckPassword(hash, "wrong-horse"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword with wrong password = %v, want ErrInvalidCredentials", err)
	}
}
