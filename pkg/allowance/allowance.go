// Package allowance reads and grants ERC-20 allowances to the bridge contract.
package allowance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethmath "github.com/ethereum/go-ethereum/common/math"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/chainsafe/bridge-claims/pkg/ethereum"
	"github.com/chainsafe/bridge-claims/pkg/registry"
)

// Policy decides how a missing allowance is handled before a deposit.
type Policy string

const (
	PolicyExact     Policy = config.ApprovalExact
	PolicyUnbounded Policy = config.ApprovalUnbounded
	PolicyNone      Policy = config.ApprovalNone
)

// Chain is the subset of the ethereum client the manager needs.
type Chain interface {
	ChainID() uint64
	RemoteChainID(ctx context.Context) (uint64, error)
	Address() common.Address
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (*ethereum.Receipt, error)
}

// ApproveRequest asks for spender to be allowed to move Amount of Token.
type ApproveRequest struct {
	ChainID   uint64
	Token     common.Address
	Spender   common.Address
	Amount    *big.Int
	Unbounded bool
}

// Result describes a mined approval.
type Result struct {
	TxHash      common.Hash
	BlockNumber uint64
	Amount      *big.Int
}

// Manager checks and grants allowances across the configured chains.
type Manager struct {
	registry *registry.Registry
	chains   map[uint64]Chain
	logger   *zap.Logger
}

// NewManager returns a manager over chains keyed by chain id.
func NewManager(reg *registry.Registry, chains map[uint64]Chain, logger *zap.Logger) *Manager {
	return &Manager{registry: reg, chains: chains, logger: logger.With(zap.String("component", "allowance"))}
}

// NeedsApproval reports whether current is insufficient to cover amount.
func NeedsApproval(amount, current *big.Int) bool {
	if current == nil {
		current = new(big.Int)
	}
	return current.Cmp(amount) < 0
}

func (m *Manager) chain(chainID uint64) (Chain, error) {
	c, ok := m.chains[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %d", bridge.ErrInvalidRequest, registry.ErrChainNotSupported, chainID)
	}
	return c, nil
}

// CurrentAllowance reads the allowance owner granted spender on token.
func (m *Manager) CurrentAllowance(ctx context.Context, chainID uint64, token, owner, spender common.Address) (*big.Int, error) {
	c, err := m.chain(chainID)
	if err != nil {
		return nil, err
	}
	return c.Allowance(ctx, token, owner, spender)
}

// Approve submits an approval and waits for it to be mined. The connected
// node must serve req.ChainID and the token must be a registered ERC-20
// deployment on that chain.
func (m *Manager) Approve(ctx context.Context, req ApproveRequest) (*Result, error) {
	c, err := m.chain(req.ChainID)
	if err != nil {
		return nil, err
	}

	_, dep, ok := m.registry.TokenByAddress(req.ChainID, req.Token)
	if !ok || dep.IsNative() {
		return nil, fmt.Errorf("%w: token %s is not an ERC-20 deployment on chain %d",
			bridge.ErrChainMismatch, req.Token.Hex(), req.ChainID)
	}

	remote, err := c.RemoteChainID(ctx)
	if err != nil {
		return nil, err
	}
	if remote != req.ChainID {
		return nil, fmt.Errorf("%w: connected to chain %d, token lives on %d", bridge.ErrChainMismatch, remote, req.ChainID)
	}

	amount := req.Amount
	if req.Unbounded {
		amount = new(big.Int).Set(gethmath.MaxBig256)
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: approval amount must be positive", bridge.ErrInvalidRequest)
	}

	m.logger.Info("Approving allowance",
		zap.Uint64("chain_id", req.ChainID),
		zap.String("token", req.Token.Hex()),
		zap.String("spender", req.Spender.Hex()),
		zap.String("amount", amount.String()))

	receipt, err := c.Approve(ctx, req.Token, req.Spender, amount)
	if err != nil {
		m.logger.Warn("Approval failed",
			zap.Uint64("chain_id", req.ChainID),
			zap.String("kind", string(bridge.KindOf(err))),
			zap.Error(err))
		return nil, err
	}

	return &Result{TxHash: receipt.TxHash, BlockNumber: receipt.BlockNumber, Amount: amount}, nil
}

// Ensure makes sure the operator account has granted spender at least amount,
// approving according to policy. It returns nil when no approval was needed.
func (m *Manager) Ensure(ctx context.Context, chainID uint64, token, spender common.Address, amount *big.Int, policy Policy) (*Result, error) {
	c, err := m.chain(chainID)
	if err != nil {
		return nil, err
	}

	current, err := c.Allowance(ctx, token, c.Address(), spender)
	if err != nil {
		return nil, err
	}
	if !NeedsApproval(amount, current) {
		return nil, nil
	}

	switch policy {
	case PolicyNone:
		return nil, fmt.Errorf("%w: allowance %s below %s", bridge.ErrAllowanceRequired, current, amount)
	case PolicyUnbounded:
		return m.Approve(ctx, ApproveRequest{ChainID: chainID, Token: token, Spender: spender, Unbounded: true})
	default:
		return m.Approve(ctx, ApproveRequest{ChainID: chainID, Token: token, Spender: spender, Amount: amount})
	}
}
