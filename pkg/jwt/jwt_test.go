package jwt

import (
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	token, expireAt, err := GenerateToken("secret", 42, "contractor", false, 72)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expireAt) < 71*time.Hour {
		t.Errorf("expiry too close: %v", expireAt)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "contractor" || claims.IsAdmin {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "terrin" {
		t.Errorf("issuer = %s", claims.Issuer)
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("secret-a", 1, "homeowner", false, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("token with wrong secret accepted")
	}
}
