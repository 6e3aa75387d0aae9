package auth

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("test-secret")
	userID := uuid.New()

	pair, err := tokens.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens should differ")
	}

	t.Run("access token round trip", func(t *testing.T) {
		got, err := tokens.ParseAccess(pair.AccessToken)
		if err != nil {
			t.Fatalf("ParseAccess: %v", err)
		}
		if got != userID {
			t.Errorf("got user %s, want %s", got, userID)
		}
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		got, err := tokens.ParseRefresh(pair.RefreshToken)
		if err != nil {
			t.Fatalf("ParseRefresh: %v", err)
		}
		if got != userID {
			t.Errorf("got user %s, want %s", got, userID)
		}
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		if _, err := tokens.ParseAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got err %v", err)
		}
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		if _, err := tokens.ParseRefresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got err %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokens("different-secret")
		if _, err := other.ParseAccess(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got err %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := tokens.ParseAccess("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got err %v", err)
		}
	})
}

func TestTokens_EmptySecret(t *testing.T) {
	tokens := NewTokens("")
	if _, err := tokens.Issue(uuid.New()); err == nil {
		t.Error("expected error with empty secret")
	}
}
