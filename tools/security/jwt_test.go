package security

import (
	stderrors "errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func testOpts() Options {
	return DefaultOptions([]byte("test-secret"))
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		userID string
		scope  string
	}{
		{"socket scope", "1001", ScopeSocket},
		{"session scope", "u-abc", ScopeSession},
		{"long id", "7241985602316666881", ScopeSocket},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := testOpts()
			token, exp, err := Issue(opts, tc.userID, tc.scope)
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			if until := time.Until(exp); until < 119*time.Minute || until > 121*time.Minute {
				t.Errorf("expiry not ~2h away: %v", until)
			}
			claims, err := Verify(opts, token, tc.scope)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if claims.UserID != tc.userID {
				t.Errorf("UserID = %q, want %q", claims.UserID, tc.userID)
			}
			if claims.Scope != tc.scope {
				t.Errorf("Scope = %q, want %q", claims.Scope, tc.scope)
			}
		})
	}
}

func TestVerifyRejections(t *testing.T) {
	opts := testOpts()

	t.Run("expired", func(t *testing.T) {
		expired := opts
		expired.TTL = -time.Hour
		token, _, err := Issue(expired, "1001", ScopeSocket)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if _, err := Verify(opts, token, ScopeSocket); !stderrors.Is(err, jwtlib.ErrTokenExpired) {
			t.Errorf("want ErrTokenExpired, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, _ := Issue(opts, "1001", ScopeSocket)
		other := DefaultOptions([]byte("other-secret"))
		if _, err := Verify(other, token, ScopeSocket); err == nil {
			t.Error("want signature error, got nil")
		}
	})

	t.Run("scope mismatch", func(t *testing.T) {
		token, _, _ := Issue(opts, "1001", ScopeSession)
		if _, err := Verify(opts, token, ScopeSocket); !stderrors.Is(err, ErrScopeMismatch) {
			t.Errorf("want ErrScopeMismatch, got %v", err)
		}
	})

	t.Run("missing sub", func(t *testing.T) {
		token, _, _ := Issue(opts, "", ScopeSocket)
		if _, err := Verify(opts, token, ScopeSocket); !stderrors.Is(err, ErrMissingSub) {
			t.Errorf("want ErrMissingSub, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := Verify(opts, "not.a.token", ScopeSocket); err == nil {
			t.Error("want parse error, got nil")
		}
	})

	t.Run("unsupported alg option", func(t *testing.T) {
		bad := opts
		bad.Alg = "RS256"
		if _, _, err := Issue(bad, "1001", ScopeSocket); err == nil {
			t.Error("want unsupported alg error, got nil")
		}
	})
}

func TestVerifyAnyScopeWhenUnspecified(t *testing.T) {
	opts := testOpts()
	token, _, _ := Issue(opts, "1001", ScopeSocket)
	claims, err := Verify(opts, token, "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Scope != ScopeSocket {
		t.Errorf("Scope = %q, want %q", claims.Scope, ScopeSocket)
	}
}
