package util

import (
	"testing"
	"time"

	"quizgen_backend/internal/model"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{
		Email: "student@example.com",
		Role:  model.Member,
	}
	user.ID = 42
	secret := "test-secret-which-is-long-enough-for-hs256"

	token, err := GenerateJWT(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("ParseJWT failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "student@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "student@example.com")
	}
	if claims.Role != model.Member {
		t.Errorf("Role = %q, want %q", claims.Role, model.Member)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "a@b.com", Role: model.Member}
	user.ID = 1

	token, err := GenerateJWT(user, "correct-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	if _, err := ParseJWT(token, "wrong-secret"); err == nil {
		t.Fatal("expected error for wrong secret, got nil")
	}
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Email: "a@b.com", Role: model.Member}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("not.a.token", "secret"); err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}
