// Package deposit validates and submits source chain deposits to the bridge contract.
package deposit

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/allowance"
	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/ethereum"
	"github.com/chainsafe/bridge-claims/pkg/registry"
	"github.com/chainsafe/bridge-claims/pkg/units"
)

// Chain is the subset of the ethereum client used to deposit.
type Chain interface {
	ChainID() uint64
	Address() common.Address
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	DepositTokens(ctx context.Context, call ethereum.DepositCall) (*ethereum.Receipt, error)
}

// Allowances grants the bridge contract an allowance before token deposits.
type Allowances interface {
	Ensure(ctx context.Context, chainID uint64, token, spender common.Address, amount *big.Int, policy allowance.Policy) (*allowance.Result, error)
}

// Recorder stores submitted deposits.
type Recorder interface {
	Record(ctx context.Context, tx *bridge.Transaction) (*bridge.Transaction, error)
}

// Request describes a deposit. Token is a registered symbol or the token address on the
// source chain. Amount is a human readable decimal; NativeValue is in wei.
type Request struct {
	Receiver           string `json:"receiver" validate:"required"`
	Token              string `json:"token" validate:"required"`
	Amount             string `json:"amount" validate:"required"`
	SourceChainID      uint64 `json:"source_chain_id" validate:"required"`
	DestinationChainID uint64 `json:"destination_chain_id" validate:"required"`
	NativeValue        string `json:"native_value"`
	DestinationAddress string `json:"destination_address"`
}

// Result is a mined deposit and its ledger entry.
type Result struct {
	TxHash      common.Hash         `json:"tx_hash"`
	BlockNumber uint64              `json:"block_number"`
	Transaction *bridge.Transaction `json:"transaction"`
}

// Submitter performs deposits on the configured source chains.
type Submitter struct {
	registry   *registry.Registry
	chains     map[uint64]Chain
	allowances Allowances
	ledger     Recorder
	policy     allowance.Policy
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewSubmitter creates a submitter. policy decides how missing allowances are handled.
func NewSubmitter(reg *registry.Registry, chains map[uint64]Chain, allowances Allowances, ledger Recorder, policy allowance.Policy, logger *zap.Logger) *Submitter {
	return &Submitter{
		registry:   reg,
		chains:     chains,
		allowances: allowances,
		ledger:     ledger,
		policy:     policy,
		validate:   validator.New(),
		logger:     logger.With(zap.String("component", "deposit")),
	}
}

// plan is a validated request.
type plan struct {
	symbol      string
	source      registry.Network
	sourceDep   registry.Deployment
	destDep     registry.Deployment
	receiver    common.Address
	amount      *big.Int
	nativeValue *big.Int
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", bridge.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// validateChecksum checks the EIP-55 checksum of a mixed-case address. Single-case
// addresses carry no checksum and are accepted as they are.
func validateChecksum(addr string) error {
	digits := addr
	if len(digits) >= 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}
	if digits == strings.ToLower(digits) || digits == strings.ToUpper(digits) {
		return nil
	}
	return ethav.Validate("0x" + digits)
}

func (s *Submitter) prepare(req Request) (*plan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}
	if !common.IsHexAddress(req.Receiver) {
		return nil, invalid("receiver %q is not a valid address", req.Receiver)
	}
	if err := validateChecksum(req.Receiver); err != nil {
		return nil, invalid("receiver %q fails EIP-55 checksum validation: %v", req.Receiver, err)
	}
	if req.DestinationAddress != "" && !common.IsHexAddress(req.DestinationAddress) {
		return nil, invalid("destination address %q is not a valid address", req.DestinationAddress)
	}
	if req.SourceChainID == req.DestinationChainID {
		return nil, invalid("destination chain must differ from source chain %d", req.SourceChainID)
	}

	source, ok := s.registry.NetworkByChainID(req.SourceChainID)
	if !ok {
		return nil, invalid("source chain %d is not supported", req.SourceChainID)
	}
	if _, ok := s.registry.NetworkByChainID(req.DestinationChainID); !ok {
		return nil, invalid("destination chain %d is not supported", req.DestinationChainID)
	}

	token, ok := s.resolveToken(req.SourceChainID, req.Token)
	if !ok {
		return nil, invalid("token %s is not registered on chain %d", req.Token, req.SourceChainID)
	}
	sourceDep, err := s.registry.Deployment(token.Symbol, req.SourceChainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrInvalidRequest, err)
	}
	destDep, err := s.registry.Deployment(token.Symbol, req.DestinationChainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrInvalidRequest, err)
	}

	amount, err := units.Parse(req.Amount, sourceDep.Decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrInvalidRequest, err)
	}
	if amount.Sign() <= 0 {
		return nil, invalid("amount must be greater than zero")
	}

	nativeValue, err := units.ParseBaseUnits(req.NativeValue)
	if err != nil {
		return nil, fmt.Errorf("%w: native value: %w", bridge.ErrInvalidRequest, err)
	}
	if sourceDep.IsNative() {
		if nativeValue.Cmp(amount) != 0 {
			return nil, invalid("native value %s must equal amount %s", nativeValue, amount)
		}
	} else if nativeValue.Sign() != 0 {
		return nil, invalid("native value must be empty for token deposits")
	}

	return &plan{
		symbol:      token.Symbol,
		source:      source,
		sourceDep:   sourceDep,
		destDep:     destDep,
		receiver:    common.HexToAddress(req.Receiver),
		amount:      amount,
		nativeValue: nativeValue,
	}, nil
}

func (s *Submitter) resolveToken(chainID uint64, token string) (registry.Token, bool) {
	if common.IsHexAddress(token) {
		t, _, ok := s.registry.TokenByAddress(chainID, common.HexToAddress(token))
		return t, ok
	}
	return s.registry.TokenBySymbol(strings.TrimSpace(token))
}

// SubmitDeposit validates req, ensures the allowance for token deposits, submits
// depositTokens and records a pending ledger entry. Nothing is recorded when the
// submission is rejected or fails.
func (s *Submitter) SubmitDeposit(ctx context.Context, req Request) (*Result, error) {
	p, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	chain, ok := s.chains[req.SourceChainID]
	if !ok {
		return nil, invalid("no client for chain %d", req.SourceChainID)
	}

	if err := s.checkGasBalance(ctx, chain, p); err != nil {
		return nil, err
	}

	if !p.sourceDep.IsNative() {
		approval, err := s.allowances.Ensure(ctx, req.SourceChainID, p.sourceDep.Address, p.source.BridgeAddress, p.amount, s.policy)
		if err != nil {
			return nil, err
		}
		if approval != nil {
			s.logger.Info("Allowance granted",
				zap.String("tx_hash", approval.TxHash.Hex()),
				zap.String("amount", approval.Amount.String()))
		}
	}

	call := ethereum.DepositCall{
		Receiver:  p.receiver,
		Token:     p.sourceDep.ContractAddress(),
		Amount:    p.amount,
		ToChainID: req.DestinationChainID,
	}
	if p.sourceDep.IsNative() {
		call.Value = p.nativeValue
	}

	receipt, err := chain.DepositTokens(ctx, call)
	if err != nil {
		s.logger.Warn("Deposit failed",
			zap.Uint64("source_chain_id", req.SourceChainID),
			zap.String("token", p.symbol),
			zap.String("kind", string(bridge.KindOf(err))),
			zap.Error(err))
		return nil, err
	}

	entry := &bridge.Transaction{
		SourceTxHash:       receipt.TxHash.Hex(),
		SourceChainID:      req.SourceChainID,
		DestinationChainID: req.DestinationChainID,
		SourceToken:        p.sourceDep.Address.Hex(),
		DestinationToken:   p.destDep.Address.Hex(),
		TokenSymbol:        p.symbol,
		Amount:             p.amount.String(),
		Receiver:           p.receiver.Hex(),
		Status:             bridge.StatusPending,
		BlockNumber:        receipt.BlockNumber,
	}
	if req.DestinationAddress != "" {
		entry.DestinationAddress = common.HexToAddress(req.DestinationAddress).Hex()
	}

	recorded, err := s.ledger.Record(ctx, entry)
	if err != nil {
		// The deposit is on chain; surface it with the error so it can be recorded again.
		s.logger.Error("Failed to record deposit",
			zap.String("source_tx_hash", entry.SourceTxHash),
			zap.Error(err))
		return &Result{TxHash: receipt.TxHash, BlockNumber: receipt.BlockNumber, Transaction: entry}, err
	}

	s.logger.Info("Deposit submitted",
		zap.String("id", recorded.ID),
		zap.String("source_tx_hash", recorded.SourceTxHash),
		zap.Uint64("source_chain_id", recorded.SourceChainID),
		zap.Uint64("destination_chain_id", recorded.DestinationChainID),
		zap.String("token", p.symbol),
		zap.String("amount", units.Format(p.amount, p.sourceDep.Decimals)))

	return &Result{TxHash: receipt.TxHash, BlockNumber: receipt.BlockNumber, Transaction: recorded}, nil
}

// checkGasBalance refuses deposits that would leave the signer below the network's minimum gas balance.
func (s *Submitter) checkGasBalance(ctx context.Context, chain Chain, p *plan) error {
	minGas := p.source.MinGasBalance
	if minGas == nil || minGas.Sign() == 0 {
		return nil
	}

	balance, err := chain.Balance(ctx, chain.Address())
	if err != nil {
		return fmt.Errorf("failed to read gas balance: %w", err)
	}

	remaining := new(big.Int).Set(balance)
	if p.sourceDep.IsNative() {
		remaining.Sub(remaining, p.nativeValue)
	}
	if remaining.Cmp(minGas) < 0 {
		return invalid("balance %s on chain %d would fall below the minimum gas balance %s",
			balance, p.source.ChainID, minGas)
	}
	return nil
}
