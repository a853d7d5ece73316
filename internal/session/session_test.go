package session

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCreateValidateRoundTrip(t *testing.T) {
	svc := NewService("test-secret")

	sessionID, token, err := svc.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(sessionID, "sess_") {
		t.Errorf("session id = %q, want sess-prefixed typeid", sessionID)
	}

	got, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got != sessionID {
		t.Errorf("validated session = %q, want %q", got, sessionID)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret")

	if _, err := svc.Validate("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-a")
	verifier := NewService("secret-b")

	_, token, err := issuer.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := verifier.Validate(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestValidateRejectsMalformedSubject(t *testing.T) {
	secret := "test-secret"
	svc := NewService(secret)

	// Correctly signed, but the subject is not a session id.
	for _, sub := range []string{"admin", "el_01h455vb4pex5vsknk084sn02q"} {
		claims := jwt.MapClaims{
			"sub": sub,
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		if _, err := svc.Validate(token); err == nil {
			t.Errorf("subject %q: expected validation error", sub)
		}
	}
}

func TestTokensAreSessionBound(t *testing.T) {
	svc := NewService("test-secret")

	idA, tokenA, err := svc.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	idB, _, err := svc.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if idA == idB {
		t.Fatalf("two sessions share id %q", idA)
	}

	got, err := svc.Validate(tokenA)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got != idA {
		t.Errorf("token for %q validated as %q", idA, got)
	}
}
