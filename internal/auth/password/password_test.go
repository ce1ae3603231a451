package password

import (
	"errors"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := Verify("hunter2", encoded); err != nil {
		t.Fatalf("expected verify to pass, got %v", err)
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	encoded, err := Hash("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := Verify("letmein", encoded); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if err := Verify("x", "not-a-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct salts to produce distinct hashes")
	}
}
