package token

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	codec, err := NewJWT("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}

	userID := uuid.New()
	signed, err := codec.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != userID {
		t.Errorf("subject = %s, want %s", got, userID)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	issuer, _ := NewJWT("secret-a", time.Hour)
	verifier, _ := NewJWT("secret-b", time.Hour)

	signed, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestJWTExpired(t *testing.T) {
	codec, _ := NewJWT("test-secret", time.Nanosecond)

	signed, err := codec.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := codec.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify expired token = %v, want ErrInvalidToken", err)
	}
}

func TestJWTGarbage(t *testing.T) {
	codec, _ := NewJWT("test-secret", time.Hour)
	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(input); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", input, err)
		}
	}
}

func TestNewJWTEmptySecret(t *testing.T) {
	if _, err := NewJWT("", time.Hour); err == nil {
		t.Error("NewJWT accepted an empty secret")
	}
}
