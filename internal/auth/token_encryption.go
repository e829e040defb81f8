// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Token encryption errors
var (
	// ErrNoKeys indicates no encryption secret was configured.
	ErrNoKeys = errors.New("no encryption keys configured")

	// ErrDecryptionFailed indicates no configured key could open the ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidCiphertext indicates the ciphertext is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// tokenEncryptionContext is the HKDF info string for refresh token keys.
const tokenEncryptionContext = "hexy-refresh-token-encryption"

// TokenEncryptor provides AES-GCM encryption for stored Strava tokens.
//
// It holds one AEAD per configured secret, newest first. Encrypt always uses
// the first; Decrypt tries each in turn so older secrets can be rotated out
// without re-encrypting every row at once.
type TokenEncryptor struct {
	aeads []cipher.AEAD
}

// NewTokenEncryptor creates an encryptor from secrets, newest first.
func NewTokenEncryptor(secrets []string) (*TokenEncryptor, error) {
	if len(secrets) == 0 {
		return nil, ErrNoKeys
	}

	aeads := make([]cipher.AEAD, 0, len(secrets))
	for i, secret := range secrets {
		if secret == "" {
			return nil, fmt.Errorf("encryption key %d is empty", i)
		}
		aead, err := newAEAD([]byte(secret))
		if err != nil {
			return nil, fmt.Errorf("encryption key %d: %w", i, err)
		}
		aeads = append(aeads, aead)
	}

	return &TokenEncryptor{aeads: aeads}, nil
}

func newAEAD(secret []byte) (cipher.AEAD, error) {
	derivedKey, err := deriveKey(secret, []byte(tokenEncryptionContext), 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM cipher: %w", err)
	}
	return aead, nil
}

// deriveKey derives a key using HKDF-SHA256.
func deriveKey(secret, context []byte, keyLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, context)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt encrypts the plaintext with the newest key and returns URL-safe
// base64 of nonce || ciphertext.
func (e *TokenEncryptor) Encrypt(plaintext string) (string, error) {
	aead := e.aeads[0]

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts a value produced by Encrypt with any configured key.
func (e *TokenEncryptor) Decrypt(ciphertext string) (string, error) {
	data, err := base64.URLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode failed", ErrInvalidCiphertext)
	}

	// Every key is AES-256-GCM, so nonce size and overhead are shared.
	nonceSize := e.aeads[0].NonceSize()
	if len(data) < nonceSize+e.aeads[0].Overhead() {
		return "", fmt.Errorf("%w: data too short", ErrInvalidCiphertext)
	}
	nonce, sealed := data[:nonceSize], data[nonceSize:]

	for _, aead := range e.aeads {
		plaintext, err := aead.Open(nil, nonce, sealed, nil)
		if err == nil {
			return string(plaintext), nil
		}
	}

	return "", ErrDecryptionFailed
}

// DecryptFallback decrypts s, or returns s unchanged if it cannot be
// decrypted. Rows written before encryption was enabled hold plaintext.
func (e *TokenEncryptor) DecryptFallback(s string) string {
	plaintext, err := e.Decrypt(s)
	if err != nil {
		return s
	}
	return plaintext
}

// KeyCount returns the number of configured keys.
func (e *TokenEncryptor) KeyCount() int {
	return len(e.aeads)
}

// GenerateEncryptionKey generates a random secret suitable for ENCRYPTION_KEYS.
func GenerateEncryptionKey() (string, error) {
	key := make([]byte, 32) // 256 bits
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate random key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(key), nil
}
