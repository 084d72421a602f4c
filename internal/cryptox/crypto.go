// Package cryptox holds the password digest sent to the backend and the
// authenticated encryption used to seal remembered credentials at rest.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/console/internal/common"
	"golang.org/x/crypto/argon2"
)

// sealSalt is fixed: the seal key only has to be stable for one install.
var sealSalt = []byte("console/credential-seal/v1")

// ErrSealedValue reports a sealed value that is malformed or fails
// authentication, e.g. after the secret changed.
var ErrSealedValue = errors.New("malformed sealed value")

// PasswordDigest returns the lowercase hex MD5 of password. The backend
// contract expects this digest instead of the plaintext password.
func PasswordDigest(password []byte) string {
	sum := md5.Sum(password)
	return hex.EncodeToString(sum[:])
}

// DeriveSealKey stretches secret into a 32-byte AES-256 key with argon2id.
func DeriveSealKey(secret []byte) []byte {
	return argon2.IDKey(secret, sealSalt, 1, 64*1024, 4, 32)
}

// Seal encrypts plaintext with AES-GCM under key and returns
// base64(nonce || ciphertext). A fresh nonce is drawn for every call.
func Seal(plaintext, key []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	out := aesgcm.Seal(nonce, nonce, plaintext, nil)

	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Tampered or truncated values fail authentication.
func Open(sealed string, key []byte) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, ErrSealedValue
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(raw) < aesgcm.NonceSize() {
		return nil, ErrSealedValue
	}
	nonce, ciphertext := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]

	plain, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSealedValue, err)
	}
	return plain, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
