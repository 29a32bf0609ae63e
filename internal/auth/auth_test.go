package auth

import (
	"os"
	"testing"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("correct horse battery", hash) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("expected mismatching password to fail")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	os.Setenv("JWT_SECRET", "test_secret")
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	token, err := GenerateJWT("user-123")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("user id = %q", userID)
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	os.Setenv("JWT_SECRET", "test_secret")
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	if _, err := ParseJWT("not.a.token"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestStrictModeRequiresSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	os.Setenv("GRAPHBUS_STRICT_JWT", "1")
	t.Cleanup(func() { os.Unsetenv("GRAPHBUS_STRICT_JWT") })

	if _, err := JWTSecret(); err == nil {
		t.Fatal("expected error when strict mode is on and JWT_SECRET unset")
	}
}
