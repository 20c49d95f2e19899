package ledger

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
)

// TransactionDao maps to the 'bridge_transactions' table in PostgreSQL.
type TransactionDao struct {
	bun.BaseModel      `bun:"table:bridge_transactions,alias:bt"`
	ID                 string    `bun:"id,pk,type:varchar(36)"`
	SourceTxHash       string    `bun:"source_tx_hash,unique,notnull,type:varchar(66)"`
	SourceChainID      int64     `bun:"source_chain_id,notnull"`
	DestinationChainID int64     `bun:"destination_chain_id,notnull"`
	SourceToken        string    `bun:"source_token,notnull,type:varchar(42)"`
	DestinationToken   string    `bun:"destination_token,type:varchar(42)"`
	TokenSymbol        string    `bun:"token_symbol,type:varchar(32)"`
	Amount             string    `bun:"amount,notnull,type:numeric(78,0)"`
	Receiver           string    `bun:"receiver,notnull,type:varchar(42)"`
	Status             string    `bun:"status,notnull,type:varchar(20)"`
	BlockNumber        int64     `bun:"block_number,notnull,default:0"`
	ConfirmedBlocks    int64     `bun:"confirmed_blocks,notnull,default:0"`
	DestinationAddress *string   `bun:"destination_address,type:varchar(42)"`
	ClaimTxHash        *string   `bun:"claim_tx_hash,type:varchar(66)"`
	FailureReason      *string   `bun:"failure_reason,type:text"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt          time.Time `bun:"updated_at,notnull,default:current_timestamp"`
	Version            int64     `bun:"version,notnull,default:0"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toTransactionDao converts a bridge.Transaction to TransactionDao.
func toTransactionDao(tx *bridge.Transaction) *TransactionDao {
	return &TransactionDao{
		ID:                 tx.ID,
		SourceTxHash:       NormalizeHash(tx.SourceTxHash),
		SourceChainID:      int64(tx.SourceChainID),
		DestinationChainID: int64(tx.DestinationChainID),
		SourceToken:        tx.SourceToken,
		DestinationToken:   tx.DestinationToken,
		TokenSymbol:        tx.TokenSymbol,
		Amount:             tx.Amount,
		Receiver:           tx.Receiver,
		Status:             string(tx.Status),
		BlockNumber:        int64(tx.BlockNumber),
		ConfirmedBlocks:    int64(tx.ConfirmedBlocks),
		DestinationAddress: optional(tx.DestinationAddress),
		ClaimTxHash:        optional(tx.ClaimTxHash),
		FailureReason:      optional(tx.FailureReason),
		CreatedAt:          tx.CreatedAt,
		UpdatedAt:          tx.UpdatedAt,
		Version:            int64(tx.Version),
	}
}

// toTransaction converts a TransactionDao to bridge.Transaction.
func toTransaction(dao *TransactionDao) *bridge.Transaction {
	return &bridge.Transaction{
		ID:                 dao.ID,
		SourceTxHash:       dao.SourceTxHash,
		SourceChainID:      uint64(dao.SourceChainID),
		DestinationChainID: uint64(dao.DestinationChainID),
		SourceToken:        dao.SourceToken,
		DestinationToken:   dao.DestinationToken,
		TokenSymbol:        dao.TokenSymbol,
		Amount:             dao.Amount,
		Receiver:           dao.Receiver,
		Status:             bridge.Status(dao.Status),
		BlockNumber:        uint64(dao.BlockNumber),
		ConfirmedBlocks:    uint64(dao.ConfirmedBlocks),
		DestinationAddress: deref(dao.DestinationAddress),
		ClaimTxHash:        deref(dao.ClaimTxHash),
		FailureReason:      deref(dao.FailureReason),
		CreatedAt:          dao.CreatedAt.UTC(),
		UpdatedAt:          dao.UpdatedAt.UTC(),
		Version:            uint64(dao.Version),
	}
}
