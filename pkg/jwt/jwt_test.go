package jwt

import (
	"testing"
	"time"

	"clinic-operations/config"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
	userID := uuid.New()
	clinicID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "staff@clinic.test", "STAFF", &clinicID)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID || claims.Role != "STAFF" || claims.ClinicID != clinicID.String() {
		t.Errorf("claims = %+v", claims)
	}
	if claims.TokenID != tokenID || claims.TokenType != AccessToken {
		t.Errorf("token id/type = %q/%q", claims.TokenID, claims.TokenType)
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(config.JWTConfig{Secret: "a", AccessExpiry: time.Minute})
	verifier := NewJWTService(config.JWTConfig{Secret: "b", AccessExpiry: time.Minute})

	token, _, err := issuer.GenerateAccessToken(uuid.New(), "x@y.z", "ADMIN", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "a", AccessExpiry: time.Minute})
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateAccessToken(uuid.New(), "x@y.z", "ADMIN", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected expiry failure")
	}
}
