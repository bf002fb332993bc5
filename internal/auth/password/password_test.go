package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashNeverEqualsPlaintext(t *testing.T) {
	hashed, err := Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "s3cret-pass" {
		t.Fatal("expected digest to differ from plaintext")
	}
	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != Cost {
		t.Fatalf("expected cost %d, got %d", Cost, cost)
	}
}

func TestVerify(t *testing.T) {
	hashed, err := Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !Verify("s3cret-pass", hashed) {
		t.Fatal("expected match")
	}
	if Verify("wrong", hashed) {
		t.Fatal("expected mismatch")
	}
	if Verify("s3cret-pass", "") {
		t.Fatal("expected empty hash to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := Hash("same")
	b, _ := Hash("same")
	if a == b {
		t.Fatal("expected distinct salts")
	}
}
