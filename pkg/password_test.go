package soaprouter

import (
	"strings"
	"testing"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasher(10)

	password := "MySecurePassword123!"
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == "" {
		t.Error("Hash is empty")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash doesn't start with bcrypt prefix: %s", hash)
	}
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := NewBcryptHasher(10)

	password := "MySecurePassword123!"
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	valid, err := hasher.Verify(password, hash)
	if err != nil {
		t.Fatalf("Failed to verify password: %v", err)
	}
	if !valid {
		t.Error("Valid password was rejected")
	}

	valid, err = hasher.Verify("WrongPassword", hash)
	if err != nil {
		t.Fatalf("Failed to verify password: %v", err)
	}
	if valid {
		t.Error("Invalid password was accepted")
	}
}

func TestBcryptHasher_NeedsRehash(t *testing.T) {
	hasher10 := NewBcryptHasher(10)
	hasher12 := NewBcryptHasher(12)

	password := "MySecurePassword123!"
	hash, err := hasher10.Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if !hasher12.NeedsRehash(hash) {
		t.Error("Expected hash to need rehash")
	}
	if hasher10.NeedsRehash(hash) {
		t.Error("Expected hash to not need rehash")
	}
}

func TestArgon2Hasher_Hash(t *testing.T) {
	hasher := NewArgon2Hasher(DefaultArgon2Params())

	password := "MySecurePassword123!"
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == "" {
		t.Error("Hash is empty")
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("Hash doesn't start with argon2id prefix: %s", hash)
	}
}

func TestArgon2Hasher_Verify(t *testing.T) {
	hasher := NewArgon2Hasher(DefaultArgon2Params())

	password := "MySecurePassword123!"
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	valid, err := hasher.Verify(password, hash)
	if err != nil {
		t.Fatalf("Failed to verify password: %v", err)
	}
	if !valid {
		t.Error("Valid password was rejected")
	}

	valid, err = hasher.Verify("WrongPassword", hash)
	if err != nil {
		t.Fatalf("Failed to verify password: %v", err)
	}
	if valid {
		t.Error("Invalid password was accepted")
	}
}

func TestArgon2Hasher_NeedsRehash(t *testing.T) {
	params1 := DefaultArgon2Params()
	params2 := DefaultArgon2Params()
	params2.Memory = 128 * 1024

	hasher1 := NewArgon2Hasher(params1)
	hasher2 := NewArgon2Hasher(params2)

	password := "MySecurePassword123!"
	hash, err := hasher1.Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if !hasher2.NeedsRehash(hash) {
		t.Error("Expected hash to need rehash")
	}
	if hasher1.NeedsRehash(hash) {
		t.Error("Expected hash to not need rehash")
	}
}

func TestNewPasswordHasherSelectsAlgorithm(t *testing.T) {
	if _, ok := NewPasswordHasher(AlgorithmBcrypt).(*BcryptHasher); !ok {
		t.Error("expected AlgorithmBcrypt to select a BcryptHasher")
	}
	if _, ok := NewPasswordHasher(AlgorithmArgon2id).(*Argon2Hasher); !ok {
		t.Error("expected AlgorithmArgon2id to select an Argon2Hasher")
	}
}

func TestPasswordHasher_EmptyPassword(t *testing.T) {
	bcryptHasher := NewBcryptHasher(10)
	argon2Hasher := NewArgon2Hasher(DefaultArgon2Params())

	if _, err := bcryptHasher.Hash(""); err == nil {
		t.Error("Expected error for empty password with bcrypt")
	}
	if _, err := argon2Hasher.Hash(""); err == nil {
		t.Error("Expected error for empty password with argon2id")
	}
}

func TestPasswordHasher_LongPassword(t *testing.T) {
	bcryptHasher := NewBcryptHasher(10)

	longPassword := strings.Repeat("a", 73)
	if _, err := bcryptHasher.Hash(longPassword); err == nil {
		t.Error("Expected error for password exceeding 72 bytes with bcrypt")
	}

	argon2Hasher := NewArgon2Hasher(DefaultArgon2Params())
	veryLongPassword := strings.Repeat("a", 1000)
	hash, err := argon2Hasher.Hash(veryLongPassword)
	if err != nil {
		t.Errorf("Argon2id should handle long passwords: %v", err)
	}

	valid, err := argon2Hasher.Verify(veryLongPassword, hash)
	if err != nil || !valid {
		t.Error("Failed to verify long password with argon2id")
	}
}

func BenchmarkBcryptHash(b *testing.B) {
	hasher := NewBcryptHasher(10)
	password := "BenchmarkPassword123!"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = hasher.Hash(password)
	}
}
