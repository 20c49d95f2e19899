package keys

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestEncryptDecryptPrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	master, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey failed: %v", err)
	}

	encrypted, err := EncryptPrivateKey(crypto.FromECDSA(key), master)
	if err != nil {
		t.Fatalf("EncryptPrivateKey failed: %v", err)
	}
	if _, err := base64.StdEncoding.DecodeString(encrypted); err != nil {
		t.Fatalf("encrypted key is not valid base64: %v", err)
	}

	loaded, err := LoadPrivateKey(config.SignerConfig{
		EncryptedPrivateKey: encrypted,
		MasterKey:           base64.StdEncoding.EncodeToString(master),
	})
	if err != nil {
		t.Fatalf("LoadPrivateKey failed: %v", err)
	}
	if crypto.PubkeyToAddress(loaded.PublicKey) != crypto.PubkeyToAddress(key.PublicKey) {
		t.Fatal("decrypted key does not match original")
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	key, _ := crypto.GenerateKey()
	master1, _ := GenerateMasterKey()
	master2, _ := GenerateMasterKey()

	encrypted, err := EncryptPrivateKey(crypto.FromECDSA(key), master1)
	if err != nil {
		t.Fatalf("EncryptPrivateKey failed: %v", err)
	}
	if _, err := DecryptPrivateKey(encrypted, master2); err == nil {
		t.Fatal("expected error decrypting with wrong key")
	}
}

func TestEncryptInvalidInput(t *testing.T) {
	key, _ := crypto.GenerateKey()
	if _, err := EncryptPrivateKey(crypto.FromECDSA(key), make([]byte, 16)); err == nil {
		t.Fatal("expected error for short master key")
	}
	master, _ := GenerateMasterKey()
	if _, err := EncryptPrivateKey(make([]byte, 31), master); err == nil {
		t.Fatal("expected error for short private key")
	}
}

func TestLoadPrivateKey_Hex(t *testing.T) {
	key, err := LoadPrivateKey(config.SignerConfig{
		PrivateKey: "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
	})
	if err != nil {
		t.Fatalf("LoadPrivateKey failed: %v", err)
	}
	if got := crypto.PubkeyToAddress(key.PublicKey).Hex(); got != "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23" {
		t.Fatalf("unexpected address %s", got)
	}

	if _, err := LoadPrivateKey(config.SignerConfig{ExternalURL: "http://clef"}); !errors.Is(err, ErrNoKey) {
		t.Fatalf("expected ErrNoKey, got %v", err)
	}
}

func TestMasterKeyFromBase64Invalid(t *testing.T) {
	if _, err := MasterKeyFromBase64("not-base64!!!"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := MasterKeyFromBase64(base64.StdEncoding.EncodeToString(make([]byte, 8))); err == nil {
		t.Fatal("expected size error")
	}
}
