package password_test

import (
	"testing"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/password"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	h := password.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Aa1!aaaa")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Aa1!aaaa" {
		t.Fatal("hash equals plaintext")
	}
	if !h.Verify(hash, "Aa1!aaaa") {
		t.Error("correct password rejected")
	}
	if h.Verify(hash, "Aa1!aaab") {
		t.Error("wrong password accepted")
	}
}

func TestVerify_MalformedHash_NeverMatches(t *testing.T) {
	h := password.NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("", "anything") {
		t.Error("empty hash matched")
	}
	if h.Verify("not-a-bcrypt-hash", "not-a-bcrypt-hash") {
		t.Error("malformed hash matched")
	}
}

func TestNewBcryptHasher_OutOfRangeCost_FallsBackToDefault(t *testing.T) {
	h := password.NewBcryptHasher(100)
	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}
