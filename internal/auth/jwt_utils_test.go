package auth

import (
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	Init("access-secret", "refresh-secret")

	token, err := GenerateAccessToken(7, "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "admin" {
		t.Fatalf("claims = %+v, want userID=7 role=admin", claims)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	Init("access-secret", "refresh-secret")

	token, err := GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("claims.UserID = %d, want 7", claims.UserID)
	}
}

// The two token kinds use different keys, so one must not validate as the other
func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	Init("access-secret", "refresh-secret")

	access, err := GenerateAccessToken(7, "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Fatal("access token accepted as refresh token")
	}

	refresh, err := GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if _, err := ValidateAccessToken(refresh); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	Init("access-secret", "refresh-secret")

	token, err := GenerateAccessToken(7, "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	Init("different-secret", "refresh-secret")
	if _, err := ValidateAccessToken(token); err == nil {
		t.Fatal("token signed with another key was accepted")
	}
}
