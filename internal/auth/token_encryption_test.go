// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package auth

import (
	"errors"
	"strings"
	"testing"
)

const (
	testKeyA = "0123456789abcdef0123456789abcdef"
	testKeyB = "fedcba9876543210fedcba9876543210"
)

func mustEncryptor(t *testing.T, keys ...string) *TokenEncryptor {
	t.Helper()
	e, err := NewTokenEncryptor(keys)
	if err != nil {
		t.Fatalf("NewTokenEncryptor() error = %v", err)
	}
	return e
}

func TestNewTokenEncryptor_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenEncryptor(nil); !errors.Is(err, ErrNoKeys) {
		t.Errorf("NewTokenEncryptor(nil) error = %v, want ErrNoKeys", err)
	}
	if _, err := NewTokenEncryptor([]string{testKeyA, ""}); err == nil {
		t.Error("NewTokenEncryptor() with an empty key should fail")
	}
}

func TestTokenEncryptor_RoundTrip(t *testing.T) {
	t.Parallel()

	e := mustEncryptor(t, testKeyA)
	tests := []string{"refresh-token-123", "", strings.Repeat("x", 4096), "ünïcødé"}

	for _, plaintext := range tests {
		ciphertext, err := e.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q) error = %v", plaintext, err)
		}
		if plaintext != "" && strings.Contains(ciphertext, plaintext) {
			t.Errorf("ciphertext contains the plaintext")
		}
		got, err := e.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if got != plaintext {
			t.Errorf("Decrypt(Encrypt(%q)) = %q", plaintext, got)
		}
	}
}

func TestTokenEncryptor_NonceIsRandom(t *testing.T) {
	t.Parallel()

	e := mustEncryptor(t, testKeyA)
	a, _ := e.Encrypt("same")
	b, _ := e.Encrypt("same")
	if a == b {
		t.Error("two encryptions of the same plaintext should differ")
	}
}

func TestTokenEncryptor_KeyRotation(t *testing.T) {
	t.Parallel()

	old := mustEncryptor(t, testKeyA)
	ciphertext, err := old.Encrypt("legacy")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	// New primary key, old key kept for reading.
	rotated := mustEncryptor(t, testKeyB, testKeyA)
	got, err := rotated.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() with rotated keys error = %v", err)
	}
	if got != "legacy" {
		t.Errorf("Decrypt() = %q, want legacy", got)
	}

	// Values written after rotation are not readable with only the old key.
	fresh, _ := rotated.Encrypt("fresh")
	if _, err := old.Decrypt(fresh); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("old.Decrypt(fresh) error = %v, want ErrDecryptionFailed", err)
	}

	if rotated.KeyCount() != 2 {
		t.Errorf("KeyCount() = %d, want 2", rotated.KeyCount())
	}
}

func TestTokenEncryptor_InvalidCiphertext(t *testing.T) {
	t.Parallel()

	e := mustEncryptor(t, testKeyA)
	tests := []struct {
		name  string
		input string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"too short", "AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := e.Decrypt(tt.input); !errors.Is(err, ErrInvalidCiphertext) {
				t.Errorf("Decrypt(%q) error = %v, want ErrInvalidCiphertext", tt.input, err)
			}
		})
	}
}

func TestTokenEncryptor_Tampered(t *testing.T) {
	t.Parallel()

	e := mustEncryptor(t, testKeyA)
	ciphertext, _ := e.Encrypt("refresh-token")

	b := []byte(ciphertext)
	if b[len(b)-3] == 'A' {
		b[len(b)-3] = 'B'
	} else {
		b[len(b)-3] = 'A'
	}
	if _, err := e.Decrypt(string(b)); err == nil {
		t.Error("Decrypt() of tampered ciphertext should fail")
	}
}

func TestTokenEncryptor_DecryptFallback(t *testing.T) {
	t.Parallel()

	e := mustEncryptor(t, testKeyA)
	ciphertext, _ := e.Encrypt("secret")

	if got := e.DecryptFallback(ciphertext); got != "secret" {
		t.Errorf("DecryptFallback(ciphertext) = %q, want secret", got)
	}
	if got := e.DecryptFallback("plain-legacy-token"); got != "plain-legacy-token" {
		t.Errorf("DecryptFallback(plaintext) = %q, want it unchanged", got)
	}
}

func TestGenerateEncryptionKey(t *testing.T) {
	t.Parallel()

	a, err := GenerateEncryptionKey()
	if err != nil {
		t.Fatalf("GenerateEncryptionKey() error = %v", err)
	}
	b, _ := GenerateEncryptionKey()
	if a == b {
		t.Error("generated keys should differ")
	}
	if len(a) < 32 {
		t.Errorf("len(key) = %d, want at least 32", len(a))
	}
	if _, err := NewTokenEncryptor([]string{a}); err != nil {
		t.Errorf("generated key rejected: %v", err)
	}
}
