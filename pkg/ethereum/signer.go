package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/chainsafe/bridge-claims/pkg/keys"
)

// Signer authorizes transactions on behalf of the bridge operator account.
type Signer interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// NewSigner builds the signer selected by cfg: an external signer when a URL is set,
// otherwise the local (possibly encrypted) key.
func NewSigner(cfg config.SignerConfig) (Signer, error) {
	if cfg.ExternalURL != "" {
		return NewExternalSigner(cfg.ExternalURL)
	}
	key, err := keys.LoadPrivateKey(cfg)
	if err != nil {
		return nil, err
	}
	return NewKeySigner(key), nil
}

// KeySigner signs with an in-process private key.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner wraps key.
func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

func (s *KeySigner) Address() common.Address { return s.address }

func (s *KeySigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

// ExternalSigner delegates signing to a clef compatible endpoint, where an
// operator may approve or deny each request.
type ExternalSigner struct {
	signer  *external.ExternalSigner
	account accounts.Account
}

// NewExternalSigner connects to the signer at url and uses its first account.
func NewExternalSigner(url string) (*ExternalSigner, error) {
	s, err := external.NewExternalSigner(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to external signer: %w", err)
	}
	accs := s.Accounts()
	if len(accs) == 0 {
		return nil, errors.New("external signer exposes no accounts")
	}
	return &ExternalSigner{signer: s, account: accs[0]}, nil
}

func (s *ExternalSigner) Address() common.Address { return s.account.Address }

// SignTx forwards tx to the external signer. A denied request is reported as a user rejection.
func (s *ExternalSigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := s.signer.SignTx(s.account, tx, chainID)
	if err != nil {
		return nil, Classify(err)
	}
	return signed, nil
}
