package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokensIssueAndVerify(t *testing.T) {
	tokens, err := NewTokens("test-secret", TokenOptions{})
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	raw, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sub, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("unexpected subject %q", sub)
	}
}

func TestTokensRejectWrongSecret(t *testing.T) {
	issuer, _ := NewTokens("secret-a", TokenOptions{})
	verifier, _ := NewTokens("secret-b", TokenOptions{})
	raw, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokensRejectExpired(t *testing.T) {
	tokens, _ := NewTokens("test-secret", TokenOptions{
		TTL:    time.Millisecond,
		Leeway: time.Millisecond,
	})
	raw, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := tokens.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokensRequireSecret(t *testing.T) {
	if _, err := NewTokens("  ", TokenOptions{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
