package util

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	str, err := RandomString(32)
	if err != nil {
		t.Fatalf("RandomString(32) error = %v", err)
	}
	if len(str) != 32 {
		t.Errorf("len = %d, want 32", len(str))
	}

	str2, _ := RandomString(32)
	if str == str2 {
		t.Error("two calls returned the same string")
	}

	if _, err := RandomString(0); err == nil {
		t.Error("RandomString(0) error = nil, want error")
	}
	if _, err := RandomString(-5); err == nil {
		t.Error("RandomString(-5) error = nil, want error")
	}
}

func TestEncryptDecryptAES(t *testing.T) {
	key := "test-encryption-key"

	testCases := []string{
		"Hello World",
		"Cálculo II — revisão",
		"",
		"Special!@#$%^&*()",
		strings.Repeat("A", 1000),
	}

	for _, plaintext := range testCases {
		encrypted, err := EncryptAES(key, []byte(plaintext))
		if err != nil {
			t.Fatalf("EncryptAES(%q) error = %v", plaintext, err)
		}

		decrypted, err := DecryptAES(key, encrypted)
		if err != nil {
			t.Fatalf("DecryptAES(%q) error = %v", plaintext, err)
		}

		if string(decrypted) != plaintext {
			t.Errorf("round trip = %q, want %q", decrypted, plaintext)
		}
	}
}

func TestDecryptAES_WrongKey(t *testing.T) {
	encrypted, _ := EncryptAES("correct-key", []byte("Data"))

	if _, err := DecryptAES("wrong-key", encrypted); err == nil {
		t.Error("DecryptAES with wrong key error = nil, want error")
	}
}

func TestDecryptAES_InvalidData(t *testing.T) {
	if _, err := DecryptAES("test-key", []byte{1, 2, 3}); err == nil {
		t.Error("short input error = nil, want error")
	}
	if _, err := DecryptAES("test-key", []byte{}); err == nil {
		t.Error("empty input error = nil, want error")
	}
}

func TestEncryptString(t *testing.T) {
	enc, err := EncryptString("k", "PATCH /api/sessions/1")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}
	if enc == "PATCH /api/sessions/1" {
		t.Fatal("EncryptString returned plaintext")
	}
	if got := DecryptString("k", enc); got != "PATCH /api/sessions/1" {
		t.Errorf("DecryptString() = %q", got)
	}

	// no key: stored as is
	if got, _ := EncryptString("", "plain"); got != "plain" {
		t.Errorf("EncryptString without key = %q, want plain", got)
	}
	// not ciphertext: returned unchanged
	if got := DecryptString("k", "legacy value"); got != "legacy value" {
		t.Errorf("DecryptString(non-cipher) = %q", got)
	}
}

func BenchmarkEncryptAES(b *testing.B) {
	key := "bench-key"
	data := []byte("Benchmark data")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		EncryptAES(key, data)
	}
}
