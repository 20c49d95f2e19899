// Package keys loads the bridge signer key, either as a plain hex secret or
// encrypted at rest with AES-256-GCM under a key derived from a master secret.
package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/hkdf"
)

const privateKeySize = 32

// hkdfInfo binds derived encryption keys to this use.
var hkdfInfo = []byte("bridge-claims signer key v1")

// ErrNoKey is returned when the signer config holds no local key.
var ErrNoKey = errors.New("no local signer key configured")

// LoadPrivateKey returns the signer key described by cfg.
func LoadPrivateKey(cfg config.SignerConfig) (*ecdsa.PrivateKey, error) {
	switch {
	case cfg.PrivateKey != "":
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to load private key: %w", err)
		}
		return key, nil
	case cfg.EncryptedPrivateKey != "":
		master, err := MasterKeyFromBase64(cfg.MasterKey)
		if err != nil {
			return nil, err
		}
		raw, err := DecryptPrivateKey(cfg.EncryptedPrivateKey, master)
		if err != nil {
			return nil, err
		}
		key, err := crypto.ToECDSA(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to convert private key: %w", err)
		}
		return key, nil
	}
	return nil, ErrNoKey
}

// deriveKey stretches the master secret into an AES-256 key.
func deriveKey(master []byte) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, hkdfInfo), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

func newGCM(master []byte) (cipher.AEAD, error) {
	if len(master) < 32 {
		return nil, fmt.Errorf("master key must be at least 32 bytes")
	}
	key, err := deriveKey(master)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// EncryptPrivateKey encrypts a 32-byte secp256k1 key.
// Output is base64(nonce || ciphertext || tag).
func EncryptPrivateKey(privateKey []byte, master []byte) (string, error) {
	if len(privateKey) != privateKeySize {
		return "", fmt.Errorf("private key must be %d bytes", privateKeySize)
	}
	gcm, err := newGCM(master)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(gcm.Seal(nonce, nonce, privateKey, nil)), nil
}

// DecryptPrivateKey reverses EncryptPrivateKey.
func DecryptPrivateKey(encrypted string, master []byte) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	gcm, err := newGCM(master)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	if len(plaintext) != privateKeySize {
		return nil, fmt.Errorf("decrypted key has wrong size: got %d, want %d", len(plaintext), privateKeySize)
	}
	return plaintext, nil
}

// GenerateMasterKey returns a random 32-byte master secret.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return key, nil
}

// MasterKeyFromBase64 decodes a base64 master secret.
func MasterKeyFromBase64(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode master key: %w", err)
	}
	if len(key) < 32 {
		return nil, fmt.Errorf("master key must be at least 32 bytes, got %d", len(key))
	}
	return key, nil
}
