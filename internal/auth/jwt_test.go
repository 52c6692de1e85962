package auth

import (
	"testing"

	"github.com/stockroom-app/stockroom/internal/model"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "alice", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(testSecret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username 'alice', got %q", claims.Username)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a non-empty JTI")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, 1, "bob", model.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken(testSecret, "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestTokensHaveUniqueJTIs(t *testing.T) {
	a, _ := GenerateToken(testSecret, 1, "alice", model.RoleUser)
	b, _ := GenerateToken(testSecret, 1, "alice", model.RoleUser)

	ca, _ := ValidateToken(testSecret, a)
	cb, _ := ValidateToken(testSecret, b)
	if ca.ID == cb.ID {
		t.Error("expected distinct JTIs for distinct tokens")
	}
}
