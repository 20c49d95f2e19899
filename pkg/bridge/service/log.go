package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/claim"
	"github.com/chainsafe/bridge-claims/pkg/deposit"
)

const serviceName = "BridgeService"

// logService wraps Service with logging of the mutating calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the bridge Service.
// Read-only calls are logged at debug level, submissions at info.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{svc: svc, logger: logger}
}

func (ls *logService) done(method string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		kind := bridge.KindOf(err)
		fields = append(fields, zap.String("kind", string(kind)), zap.Error(err))
		if kind == bridge.KindInternal {
			ls.logger.Error(method+" failed", fields...)
		} else {
			ls.logger.Warn(method+" failed", fields...)
		}
		return
	}
	ls.logger.Debug(method+" completed", fields...)
}

func (ls *logService) Networks(ctx context.Context) (out []bridge.NetworkInfo, err error) {
	defer func(start time.Time) { ls.done("Networks", start, err) }(time.Now())
	return ls.svc.Networks(ctx)
}

func (ls *logService) Tokens(ctx context.Context, chainID uint64) (out []bridge.TokenInfo, err error) {
	defer func(start time.Time) { ls.done("Tokens", start, err, zap.Uint64("chain_id", chainID)) }(time.Now())
	return ls.svc.Tokens(ctx, chainID)
}

func (ls *logService) Allowance(ctx context.Context, q *bridge.AllowanceQuery) (out *bridge.AllowanceStatus, err error) {
	defer func(start time.Time) {
		ls.done("Allowance", start, err, zap.Uint64("chain_id", q.ChainID), zap.String("token", q.Token))
	}(time.Now())
	return ls.svc.Allowance(ctx, q)
}

// Approve wraps the service method with logging
func (ls *logService) Approve(ctx context.Context, req *bridge.ApprovalRequest) (resp *bridge.ApprovalResponse, err error) {
	start := time.Now()
	ls.logger.Info("Approve started",
		zap.String("service", serviceName),
		zap.Uint64("chain_id", req.ChainID),
		zap.String("token", req.Token),
		zap.String("amount", req.Amount),
		zap.Bool("unbounded", req.Unbounded),
	)
	defer func() {
		if err == nil {
			ls.logger.Info("Approve completed",
				zap.String("service", serviceName),
				zap.String("tx_hash", resp.TxHash),
				zap.Duration("duration", time.Since(start)),
			)
			return
		}
		ls.done("Approve", start, err)
	}()
	return ls.svc.Approve(ctx, req)
}

// SubmitDeposit wraps the service method with logging
func (ls *logService) SubmitDeposit(ctx context.Context, req *deposit.Request) (resp *deposit.Result, err error) {
	start := time.Now()
	ls.logger.Info("SubmitDeposit started",
		zap.String("service", serviceName),
		zap.Uint64("source_chain_id", req.SourceChainID),
		zap.Uint64("destination_chain_id", req.DestinationChainID),
		zap.String("token", req.Token),
		zap.String("amount", req.Amount),
		zap.String("receiver", req.Receiver),
	)
	defer func() {
		if err == nil {
			ls.logger.Info("SubmitDeposit completed",
				zap.String("service", serviceName),
				zap.String("tx_hash", resp.TxHash.Hex()),
				zap.Duration("duration", time.Since(start)),
			)
			return
		}
		ls.done("SubmitDeposit", start, err)
	}()
	return ls.svc.SubmitDeposit(ctx, req)
}

func (ls *logService) ListTransactions(ctx context.Context, limit int) (out []*bridge.Transaction, err error) {
	defer func(start time.Time) { ls.done("ListTransactions", start, err, zap.Int("limit", limit)) }(time.Now())
	return ls.svc.ListTransactions(ctx, limit)
}

func (ls *logService) GetTransaction(ctx context.Context, id string) (out *bridge.Transaction, err error) {
	defer func(start time.Time) { ls.done("GetTransaction", start, err, zap.String("id", id)) }(time.Now())
	return ls.svc.GetTransaction(ctx, id)
}

func (ls *logService) ClaimStatus(ctx context.Context, chainID uint64, txHash string) (out *bridge.ClaimStatus, err error) {
	defer func(start time.Time) {
		ls.done("ClaimStatus", start, err, zap.Uint64("chain_id", chainID), zap.String("source_tx_hash", txHash))
	}(time.Now())
	return ls.svc.ClaimStatus(ctx, chainID, txHash)
}

// SubmitClaim wraps the service method with logging
func (ls *logService) SubmitClaim(ctx context.Context, req *claim.Request) (resp *claim.Result, err error) {
	start := time.Now()
	ls.logger.Info("SubmitClaim started",
		zap.String("service", serviceName),
		zap.String("source_tx_hash", req.SourceTxHash),
		zap.Uint64("source_chain_id", req.SourceChainID),
		zap.String("variant", string(req.Variant)),
		zap.Bool("wait", req.Wait),
	)
	defer func() {
		if err == nil {
			ls.logger.Info("SubmitClaim completed",
				zap.String("service", serviceName),
				zap.String("tx_hash", resp.TxHash.Hex()),
				zap.Uint64("destination_chain_id", resp.DestinationChainID),
				zap.Duration("duration", time.Since(start)),
			)
			return
		}
		ls.done("SubmitClaim", start, err)
	}()
	return ls.svc.SubmitClaim(ctx, req)
}
