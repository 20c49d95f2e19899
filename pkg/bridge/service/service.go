// Package service exposes bridge operations to HTTP clients.
package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/allowance"
	"github.com/chainsafe/bridge-claims/pkg/attestation"
	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/claim"
	"github.com/chainsafe/bridge-claims/pkg/deposit"
	"github.com/chainsafe/bridge-claims/pkg/registry"
	"github.com/chainsafe/bridge-claims/pkg/units"
)

// Service defines the bridge operations served over HTTP
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	Networks(ctx context.Context) ([]bridge.NetworkInfo, error)
	Tokens(ctx context.Context, chainID uint64) ([]bridge.TokenInfo, error)
	Allowance(ctx context.Context, q *bridge.AllowanceQuery) (*bridge.AllowanceStatus, error)
	Approve(ctx context.Context, req *bridge.ApprovalRequest) (*bridge.ApprovalResponse, error)
	SubmitDeposit(ctx context.Context, req *deposit.Request) (*deposit.Result, error)
	ListTransactions(ctx context.Context, limit int) ([]*bridge.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*bridge.Transaction, error)
	ClaimStatus(ctx context.Context, chainID uint64, txHash string) (*bridge.ClaimStatus, error)
	SubmitClaim(ctx context.Context, req *claim.Request) (*claim.Result, error)
}

// Allowances reads and grants token allowances.
type Allowances interface {
	CurrentAllowance(ctx context.Context, chainID uint64, token, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, req allowance.ApproveRequest) (*allowance.Result, error)
}

// Deposits submits source chain deposits.
type Deposits interface {
	SubmitDeposit(ctx context.Context, req deposit.Request) (*deposit.Result, error)
}

// Claims submits destination chain claims.
type Claims interface {
	SubmitClaim(ctx context.Context, req claim.Request) (*claim.Result, error)
}

// Attestations collects validator signatures.
type Attestations interface {
	Threshold() int
	CollectAttestations(ctx context.Context, txHash string, chainID uint64) (*attestation.Result, error)
}

// Ledger reads recorded transactions.
type Ledger interface {
	Get(ctx context.Context, id string) (*bridge.Transaction, error)
	ListRecent(ctx context.Context, limit int) ([]*bridge.Transaction, error)
}

// Dependencies are the components the service delegates to.
type Dependencies struct {
	Registry     *registry.Registry
	Allowances   Allowances
	Deposits     Deposits
	Claims       Claims
	Attestations Attestations
	Ledger       Ledger
}

type bridgeService struct {
	Dependencies
	logger *zap.Logger
}

// NewService creates the bridge service
func NewService(deps Dependencies, logger *zap.Logger) Service {
	return &bridgeService{Dependencies: deps, logger: logger}
}

func (s *bridgeService) Networks(_ context.Context) ([]bridge.NetworkInfo, error) {
	networks := s.Registry.Networks()
	out := make([]bridge.NetworkInfo, 0, len(networks))
	for _, n := range networks {
		out = append(out, bridge.NetworkInfo{
			ChainID:               n.ChainID,
			Name:                  n.Name,
			NativeSymbol:          n.NativeSymbol,
			BridgeAddress:         n.BridgeAddress.Hex(),
			RequiredConfirmations: s.Registry.RequiredConfirmations(n.ChainID),
			ExplorerURL:           n.ExplorerURL,
		})
	}
	return out, nil
}

func (s *bridgeService) Tokens(_ context.Context, chainID uint64) ([]bridge.TokenInfo, error) {
	if _, ok := s.Registry.NetworkByChainID(chainID); !ok {
		return nil, fmt.Errorf("%w: %w: %d", bridge.ErrNotFound, registry.ErrChainNotSupported, chainID)
	}
	tokens := s.Registry.TokensAvailableOn(chainID)
	out := make([]bridge.TokenInfo, 0, len(tokens))
	for _, t := range tokens {
		dep := t.Deployments[chainID]
		out = append(out, bridge.TokenInfo{
			Symbol:   t.Symbol,
			Name:     t.Name,
			Address:  dep.Address.Hex(),
			Decimals: dep.Decimals,
			Native:   dep.IsNative(),
		})
	}
	return out, nil
}

func (s *bridgeService) Allowance(ctx context.Context, q *bridge.AllowanceQuery) (*bridge.AllowanceStatus, error) {
	network, token, dep, err := s.erc20(q.ChainID, q.Token)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(q.Owner) {
		return nil, fmt.Errorf("%w: owner %q is not a valid address", bridge.ErrInvalidRequest, q.Owner)
	}
	owner := common.HexToAddress(q.Owner)

	current, err := s.Allowances.CurrentAllowance(ctx, q.ChainID, dep.Address, owner, network.BridgeAddress)
	if err != nil {
		return nil, err
	}

	status := &bridge.AllowanceStatus{
		ChainID:   q.ChainID,
		Token:     token.Symbol,
		Owner:     owner.Hex(),
		Spender:   network.BridgeAddress.Hex(),
		Allowance: current.String(),
	}
	if q.Amount != "" {
		amount, err := units.Parse(q.Amount, dep.Decimals)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bridge.ErrInvalidRequest, err)
		}
		status.Amount = amount.String()
		status.NeedsApproval = allowance.NeedsApproval(amount, current)
	}
	return status, nil
}

func (s *bridgeService) Approve(ctx context.Context, req *bridge.ApprovalRequest) (*bridge.ApprovalResponse, error) {
	network, _, dep, err := s.erc20(req.ChainID, req.Token)
	if err != nil {
		return nil, err
	}

	approve := allowance.ApproveRequest{
		ChainID:   req.ChainID,
		Token:     dep.Address,
		Spender:   network.BridgeAddress,
		Unbounded: req.Unbounded,
	}
	if !req.Unbounded {
		approve.Amount, err = units.Parse(req.Amount, dep.Decimals)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bridge.ErrInvalidRequest, err)
		}
	}

	res, err := s.Allowances.Approve(ctx, approve)
	if err != nil {
		return nil, err
	}
	return &bridge.ApprovalResponse{
		TxHash:      res.TxHash.Hex(),
		BlockNumber: res.BlockNumber,
		Amount:      res.Amount.String(),
	}, nil
}

// erc20 resolves a token symbol or address to its ERC-20 deployment on chainID.
func (s *bridgeService) erc20(chainID uint64, token string) (registry.Network, registry.Token, registry.Deployment, error) {
	network, ok := s.Registry.NetworkByChainID(chainID)
	if !ok {
		return registry.Network{}, registry.Token{}, registry.Deployment{},
			fmt.Errorf("%w: chain %d is not supported", bridge.ErrInvalidRequest, chainID)
	}

	var t registry.Token
	if common.IsHexAddress(token) {
		t, _, ok = s.Registry.TokenByAddress(chainID, common.HexToAddress(token))
	} else {
		t, ok = s.Registry.TokenBySymbol(strings.TrimSpace(token))
	}
	if !ok {
		return network, registry.Token{}, registry.Deployment{},
			fmt.Errorf("%w: token %q is not registered on chain %d", bridge.ErrInvalidRequest, token, chainID)
	}

	dep, err := s.Registry.Deployment(t.Symbol, chainID)
	if err != nil {
		return network, t, registry.Deployment{}, fmt.Errorf("%w: %w", bridge.ErrInvalidRequest, err)
	}
	if dep.IsNative() {
		return network, t, dep, fmt.Errorf("%w: %s is the native asset of chain %d and needs no allowance",
			bridge.ErrInvalidRequest, t.Symbol, chainID)
	}
	return network, t, dep, nil
}

func (s *bridgeService) SubmitDeposit(ctx context.Context, req *deposit.Request) (*deposit.Result, error) {
	return s.Deposits.SubmitDeposit(ctx, *req)
}

func (s *bridgeService) ListTransactions(ctx context.Context, limit int) ([]*bridge.Transaction, error) {
	return s.Ledger.ListRecent(ctx, limit)
}

func (s *bridgeService) GetTransaction(ctx context.Context, id string) (*bridge.Transaction, error) {
	return s.Ledger.Get(ctx, id)
}

func (s *bridgeService) ClaimStatus(ctx context.Context, chainID uint64, txHash string) (*bridge.ClaimStatus, error) {
	if _, ok := s.Registry.NetworkByChainID(chainID); !ok {
		return nil, fmt.Errorf("%w: chain %d is not supported", bridge.ErrInvalidRequest, chainID)
	}
	hash, err := claim.ParseTxHash(txHash)
	if err != nil {
		return nil, err
	}
	txHash = hash.Hex()

	res, err := s.Attestations.CollectAttestations(ctx, txHash, chainID)
	if err != nil {
		return nil, err
	}
	status := &bridge.ClaimStatus{
		SourceTxHash: txHash,
		ChainID:      chainID,
		Collected:    len(res.Attestations),
		Threshold:    s.Attestations.Threshold(),
	}
	if res.LastResponse != nil {
		status.Message = res.LastResponse.Message
	}
	if status.Collected < status.Threshold {
		return status, nil
	}
	if err := attestation.CheckConsistency(res.Attestations); err != nil {
		return nil, err
	}
	status.Ready = true
	return status, nil
}

func (s *bridgeService) SubmitClaim(ctx context.Context, req *claim.Request) (*claim.Result, error) {
	return s.Claims.SubmitClaim(ctx, *req)
}
