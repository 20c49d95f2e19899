// Package bridge holds the domain types shared by the deposit, attestation,
// claim and ledger packages.
package bridge

import (
	"bytes"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Status is the lifecycle state of a bridge transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusClaimed   Status = "claimed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusClaimed, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusClaimed || s == StatusFailed
}

// CanTransition reports whether a transaction in state from may move to state to.
// Re-asserting the current state is always allowed.
//
// A successful claim proves source finality (validators only sign final deposits),
// so pending entries may jump straight to claimed when the watcher lags behind.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	switch to {
	case StatusConfirmed:
		return from == StatusPending
	case StatusClaimed:
		return from == StatusPending || from == StatusConfirmed
	case StatusFailed:
		return true
	}
	return false
}

// Transaction is a bridge transfer tracked from deposit to claim.
type Transaction struct {
	ID                 string    `json:"id"`
	SourceTxHash       string    `json:"source_tx_hash"`
	SourceChainID      uint64    `json:"source_chain_id"`
	DestinationChainID uint64    `json:"destination_chain_id"`
	SourceToken        string    `json:"source_token"`
	DestinationToken   string    `json:"destination_token"`
	TokenSymbol        string    `json:"token_symbol"`
	Amount             string    `json:"amount"`
	Receiver           string    `json:"receiver"`
	Status             Status    `json:"status"`
	BlockNumber        uint64    `json:"block_number"`
	ConfirmedBlocks    uint64    `json:"confirmed_blocks"`
	DestinationAddress string    `json:"destination_address,omitempty"`
	ClaimTxHash        string    `json:"claim_tx_hash,omitempty"`
	FailureReason      string    `json:"failure_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	// Version increases on every stored change.
	Version uint64 `json:"version"`
}

// Clone returns a copy that shares no mutable state with t.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Attestation is one validator's signed authorization for a destination-chain claim.
type Attestation struct {
	Validator       string
	Success         bool
	Signature       []byte
	Message         string
	Bridge          common.Address
	OriginalToken   common.Address
	OriginalChainID uint64
	To              common.Address
	Value           *big.Int
	ToContract      *common.Address
	Data            []byte
}

// HasSignature reports whether the validator approved and returned a signature.
func (a *Attestation) HasSignature() bool {
	return a != nil && a.Success && len(a.Signature) > 0
}

// HasCall reports whether the attestation carries a destination call.
func (a *Attestation) HasCall() bool {
	return a != nil && a.ToContract != nil && *a.ToContract != (common.Address{}) && len(a.Data) > 0
}

// SameClaim reports whether a and b authorize the same transfer.
// The returned string names the first differing field.
func (a *Attestation) SameClaim(b *Attestation) (bool, string) {
	switch {
	case a.Bridge != b.Bridge:
		return false, "bridge"
	case a.OriginalToken != b.OriginalToken:
		return false, "originalToken"
	case a.OriginalChainID != b.OriginalChainID:
		return false, "originalChainID"
	case a.To != b.To:
		return false, "to"
	case !sameValue(a.Value, b.Value):
		return false, "value"
	case !sameCall(a, b):
		return false, "toContract"
	}
	return true, ""
}

func sameValue(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func sameCall(a, b *Attestation) bool {
	if (a.ToContract == nil) != (b.ToContract == nil) {
		return false
	}
	if a.ToContract != nil && *a.ToContract != *b.ToContract {
		return false
	}
	return bytes.Equal(a.Data, b.Data)
}
