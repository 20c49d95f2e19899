// Package claim submits destination chain claims authorized by validator signatures.
package claim

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/internal/metrics"
	"github.com/chainsafe/bridge-claims/pkg/attestation"
	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/ethereum"
	"github.com/chainsafe/bridge-claims/pkg/ledger"
	"github.com/chainsafe/bridge-claims/pkg/registry"
)

// Variant selects the bridge method used to claim.
type Variant string

const (
	// VariantAuto claims to a contract when the validators attested a call, plainly otherwise.
	VariantAuto  Variant = ""
	VariantPlain Variant = "plain"
	VariantCall  Variant = "call"
)

// Collector gathers validator attestations.
type Collector interface {
	Threshold() int
	CollectAttestations(ctx context.Context, txHash string, chainID uint64) (*attestation.Result, error)
	PollUntilReady(ctx context.Context, txHash string, chainID uint64) (*attestation.Result, error)
}

// Chain submits claims on a destination network.
type Chain interface {
	Claim(ctx context.Context, call ethereum.ClaimCall) (*ethereum.Receipt, error)
}

// Ledger is the part of the transaction ledger a claim touches.
type Ledger interface {
	FindBySourceTxHash(ctx context.Context, hash string) (*bridge.Transaction, error)
	MarkClaimed(ctx context.Context, sourceTxHash, claimTxHash string, destinationChainID uint64) (*bridge.Transaction, error)
}

// Request identifies the deposit to claim. DestinationChainID is optional.
type Request struct {
	SourceTxHash       string  `json:"source_tx_hash" validate:"required"`
	SourceChainID      uint64  `json:"source_chain_id" validate:"required"`
	Variant            Variant `json:"variant" validate:"omitempty,oneof=plain call"`
	DestinationChainID uint64  `json:"destination_chain_id"`
	// Wait polls the validators until the threshold is reached instead of asking once.
	Wait bool `json:"wait"`
}

// Result is a mined claim.
type Result struct {
	TxHash             common.Hash         `json:"tx_hash"`
	BlockNumber        uint64              `json:"block_number"`
	DestinationChainID uint64              `json:"destination_chain_id"`
	Variant            Variant             `json:"variant"`
	Signatures         int                 `json:"signatures"`
	Transaction        *bridge.Transaction `json:"transaction,omitempty"`
}

// Submitter turns threshold attestations into claim transactions.
type Submitter struct {
	registry  *registry.Registry
	collector Collector
	chains    map[uint64]Chain
	ledger    Ledger
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewSubmitter creates a claim submitter over the destination chains keyed by chain id.
func NewSubmitter(reg *registry.Registry, collector Collector, chains map[uint64]Chain, l Ledger, logger *zap.Logger) *Submitter {
	return &Submitter{
		registry:  reg,
		collector: collector,
		chains:    chains,
		ledger:    l,
		validate:  validator.New(),
		logger:    logger.With(zap.String("component", "claim")),
	}
}

// SubmitClaim collects attestations for req and submits the claim on the destination chain.
// Nothing is submitted unless a threshold of consistent, complete attestations was collected.
func (s *Submitter) SubmitClaim(ctx context.Context, req Request) (*Result, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", bridge.ErrInvalidRequest, err)
	}
	hash, err := ParseTxHash(req.SourceTxHash)
	if err != nil {
		return nil, err
	}
	txHash := hash.Hex()

	res, err := s.collect(ctx, txHash, req)
	if err != nil {
		return nil, err
	}
	first := &res.Attestations[0]

	variant, err := resolveVariant(req.Variant, first)
	if err != nil {
		return nil, err
	}

	entry, err := s.ledger.FindBySourceTxHash(ctx, txHash)
	if err != nil && !ledger.IsNotFound(err) {
		return nil, err
	}
	destination, err := s.destination(req, entry, first)
	if err != nil {
		return nil, err
	}
	chain, ok := s.chains[destination]
	if !ok {
		return nil, fmt.Errorf("%w: no client for destination chain %d", bridge.ErrInvalidRequest, destination)
	}

	call := ethereum.ClaimCall{
		Bridge:          first.Bridge,
		OriginalToken:   first.OriginalToken,
		OriginalChainID: first.OriginalChainID,
		SourceTxHash:    hash,
		To:              first.To,
		Value:           first.Value,
		FromChainID:     req.SourceChainID,
		Signatures:      res.Signatures(),
	}
	if variant == VariantCall {
		call.ToContract = first.ToContract
		call.Data = first.Data
	}

	chainLabel := fmt.Sprint(destination)
	receipt, err := chain.Claim(ctx, call)
	if err != nil {
		metrics.ClaimsTotal.WithLabelValues(chainLabel, string(bridge.KindOf(err))).Inc()
		s.logger.Warn("Claim failed",
			zap.String("source_tx_hash", txHash),
			zap.Uint64("destination_chain_id", destination),
			zap.String("kind", string(bridge.KindOf(err))),
			zap.Error(err))
		return nil, err
	}
	metrics.ClaimsTotal.WithLabelValues(chainLabel, "success").Inc()

	out := &Result{
		TxHash:             receipt.TxHash,
		BlockNumber:        receipt.BlockNumber,
		DestinationChainID: destination,
		Variant:            variant,
		Signatures:         len(res.Attestations),
	}

	if entry != nil {
		updated, err := s.ledger.MarkClaimed(ctx, txHash, receipt.TxHash.Hex(), destination)
		if err != nil {
			// The claim is mined; a ledger failure must not hide that.
			s.logger.Error("Failed to mark transaction claimed",
				zap.String("source_tx_hash", txHash),
				zap.String("claim_tx_hash", receipt.TxHash.Hex()),
				zap.Error(err))
		} else {
			out.Transaction = updated
		}
	}

	s.logger.Info("Claim submitted",
		zap.String("source_tx_hash", txHash),
		zap.String("claim_tx_hash", receipt.TxHash.Hex()),
		zap.Uint64("destination_chain_id", destination),
		zap.String("variant", string(variant)),
		zap.Int("signatures", out.Signatures))
	return out, nil
}

func (s *Submitter) collect(ctx context.Context, txHash string, req Request) (*attestation.Result, error) {
	var (
		res *attestation.Result
		err error
	)
	if req.Wait {
		res, err = s.collector.PollUntilReady(ctx, txHash, req.SourceChainID)
	} else {
		res, err = s.collector.CollectAttestations(ctx, txHash, req.SourceChainID)
	}
	if err != nil {
		return nil, err
	}

	threshold := s.collector.Threshold()
	if len(res.Attestations) < threshold {
		msg := "no validator responded"
		if res.LastResponse != nil && res.LastResponse.Message != "" {
			msg = res.LastResponse.Message
		}
		return nil, fmt.Errorf("%w: %d of %d: %s",
			bridge.ErrInsufficientAttestations, len(res.Attestations), threshold, msg)
	}
	if err := attestation.CheckConsistency(res.Attestations); err != nil {
		return nil, err
	}
	return res, nil
}

// resolveVariant checks the attestation carries what the variant needs.
func resolveVariant(v Variant, a *bridge.Attestation) (Variant, error) {
	switch {
	case a.Bridge == (common.Address{}):
		return "", fmt.Errorf("%w: missing bridge", bridge.ErrMalformedAttestation)
	case a.To == (common.Address{}):
		return "", fmt.Errorf("%w: missing recipient", bridge.ErrMalformedAttestation)
	case a.Value == nil:
		return "", fmt.Errorf("%w: missing value", bridge.ErrMalformedAttestation)
	}

	switch v {
	case VariantCall:
		if !a.HasCall() {
			return "", fmt.Errorf("%w: call claim needs toContract and data", bridge.ErrMalformedAttestation)
		}
		return VariantCall, nil
	case VariantPlain:
		return VariantPlain, nil
	default:
		if a.HasCall() {
			return VariantCall, nil
		}
		return VariantPlain, nil
	}
}

// destination picks the claim chain from the ledger entry, the request or the
// attested bridge, and checks the attested bridge is the one deployed there.
func (s *Submitter) destination(req Request, entry *bridge.Transaction, a *bridge.Attestation) (uint64, error) {
	chainID := req.DestinationChainID
	if entry != nil && entry.DestinationChainID != 0 {
		if chainID != 0 && chainID != entry.DestinationChainID {
			return 0, fmt.Errorf("%w: deposit targets chain %d, not %d",
				bridge.ErrInvalidRequest, entry.DestinationChainID, chainID)
		}
		chainID = entry.DestinationChainID
	}

	if chainID == 0 {
		n, ok := s.registry.NetworkByBridge(a.Bridge)
		if !ok {
			return 0, fmt.Errorf("%w: cannot determine destination chain for bridge %s", bridge.ErrInvalidRequest, a.Bridge.Hex())
		}
		return n.ChainID, nil
	}

	n, ok := s.registry.NetworkByChainID(chainID)
	if !ok {
		return 0, fmt.Errorf("%w: unknown destination chain %d", bridge.ErrInvalidRequest, chainID)
	}
	if n.BridgeAddress != a.Bridge {
		return 0, fmt.Errorf("%w: attested bridge %s is not the bridge on chain %d",
			bridge.ErrInvalidRequest, a.Bridge.Hex(), chainID)
	}
	return chainID, nil
}

// ParseTxHash parses a 0x-prefixed 32-byte transaction hash.
func ParseTxHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %q is not a transaction hash", bridge.ErrInvalidRequest, s)
	}
	return common.BytesToHash(b), nil
}
