package auth

import (
	"crypto/ecdsa"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func signPersonal(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	sig, err := crypto.Sign(personalHash(message), key)
	if err != nil {
		t.Fatalf("crypto.Sign() failed: %v", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig)
}

func newKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("crypto.GenerateKey() failed: %v", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey)
}

func TestVerifyEIP191Signature(t *testing.T) {
	key, addr := newKey(t)
	msg := SignedMessage(time.Unix(1760000000, 0))
	sig := signPersonal(t, key, msg)

	got, err := VerifyEIP191Signature(msg, sig)
	if err != nil {
		t.Fatalf("VerifyEIP191Signature() failed: %v", err)
	}
	if got != addr {
		t.Fatalf("expected %s, got %s", addr.Hex(), got.Hex())
	}

	// without 0x prefix
	if got, err = VerifyEIP191Signature(msg, sig[2:]); err != nil || got != addr {
		t.Fatalf("unprefixed signature: %s, %v", got.Hex(), err)
	}

	// different message recovers a different address
	got, err = VerifyEIP191Signature(msg+"0", sig)
	if err == nil && got == addr {
		t.Fatal("signature should not verify for another message")
	}
}

func TestVerifyEIP191Signature_Invalid(t *testing.T) {
	for _, sig := range []string{"", "0xzz", "0x1234"} {
		if _, err := VerifyEIP191Signature("msg", sig); err == nil {
			t.Errorf("expected error for %q", sig)
		}
	}
}

func TestParseSignedMessage(t *testing.T) {
	at := time.Unix(1760000000, 0)
	got, err := ParseSignedMessage(SignedMessage(at))
	if err != nil {
		t.Fatalf("ParseSignedMessage() failed: %v", err)
	}
	if !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}

	for _, msg := range []string{"", "hello", "bridge-claims:", "bridge-claims:abc", "bridge-claims:-5", "other:1760000000"} {
		if _, err := ParseSignedMessage(msg); !errors.Is(err, ErrMalformedMessage) {
			t.Errorf("%q: expected ErrMalformedMessage, got %v", msg, err)
		}
	}
}

func TestCheckFreshness(t *testing.T) {
	now := time.Unix(1760000000, 0)
	maxAge := 5 * time.Minute

	tests := []struct {
		name     string
		signedAt time.Time
		ok       bool
	}{
		{"now", now, true},
		{"within max age", now.Add(-4 * time.Minute), true},
		{"at max age", now.Add(-maxAge), true},
		{"too old", now.Add(-maxAge - time.Second), false},
		{"small skew", now.Add(10 * time.Second), true},
		{"future", now.Add(time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFreshness(tt.signedAt, now, maxAge)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrExpiredMessage) {
				t.Fatalf("expected ErrExpiredMessage, got %v", err)
			}
		})
	}
}
