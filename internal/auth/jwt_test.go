package auth

import (
	"testing"
	"time"
)

func TestSignParse(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	tok, err := j.Sign("user-1", "Aarav")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Name != "Aarav" {
		t.Fatalf("claims: %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewJWT("secret-a", time.Hour).Sign("user-1", "Aarav")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWT("secret-b", time.Hour).Parse(tok); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	tok, err := NewJWT("secret", -time.Minute).Sign("user-1", "Aarav")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWT("secret", -time.Minute).Parse(tok); err == nil {
		t.Fatal("expired token must be rejected")
	}
}
