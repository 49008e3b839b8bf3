package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.GenerateToken("operator")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Operator != "operator" {
		t.Errorf("operator = %q", claims.Operator)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).GenerateToken("operator")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Hour).ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must fail validation")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.GenerateToken("operator")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.ValidateToken(token); err != ErrTokenExpired {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestServiceLogin(t *testing.T) {
	pm := NewPasswordManager(4) // low cost keeps the test fast
	hash, err := pm.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	svc := NewService("operator", hash, pm, NewJWTManager("test-secret", time.Hour))

	if _, err := svc.Login("operator", "correct horse"); err != nil {
		t.Errorf("valid login failed: %v", err)
	}
	if _, err := svc.Login("operator", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Login("intruder", "correct horse"); err != ErrInvalidCredentials {
		t.Errorf("wrong username: got %v", err)
	}
}
