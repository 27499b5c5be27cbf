package jwt

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()
	privileges := []string{"order:view", "report:create"}

	token, err := GenerateToken(userID, "siti@example.com", "Siti", "TAILOR", privileges, "v1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user_id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "siti@example.com" {
		t.Errorf("email = %s, want siti@example.com", claims.Email)
	}
	if claims.RoleCode != "TAILOR" {
		t.Errorf("role_code = %s, want TAILOR", claims.RoleCode)
	}
	if len(claims.Privileges) != 2 {
		t.Errorf("privileges = %v, want 2 entries", claims.Privileges)
	}
	if claims.TokenVersion != "v1" {
		t.Errorf("token_version = %s, want v1", claims.TokenVersion)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "a@example.com", "A", "ADMIN", nil, "v1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tampered := token[:len(token)-4] + "xxxx"
	if _, err := ValidateToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}
