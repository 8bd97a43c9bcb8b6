package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext password")
	}
	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("wrong password accepted")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := NewAccessToken(userID, "unit-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}

	claims, err := ParseAccessToken(token, "unit-test-secret")
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id: got %s, want %s", claims.UserID, userID)
	}

	if _, err := ParseAccessToken(token, "other-secret"); err == nil {
		t.Error("token validated with the wrong secret")
	}
}
