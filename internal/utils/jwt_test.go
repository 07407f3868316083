package utils

import (
	"testing"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	token, err := issuer.Generate("64f0c8d2a1b2c3d4e5f60718", "doctor")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "64f0c8d2a1b2c3d4e5f60718" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Role != "doctor" {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestTokenIssuerRejectsForeignToken(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret-a")
	other, _ := NewTokenIssuer("secret-b")

	token, err := other.Generate("id", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := issuer.Validate(token); err == nil {
		t.Error("expected validation to fail for a token signed with another secret")
	}
}

func TestTokenIssuerRejectsGarbage(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret")
	if _, err := issuer.Validate("not-a-token"); err == nil {
		t.Error("expected validation to fail for a malformed token")
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer(""); err == nil {
		t.Error("expected an error for an empty secret")
	}
}
