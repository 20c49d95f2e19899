package bridge

// NetworkInfo describes a supported chain.
type NetworkInfo struct {
	ChainID               uint64 `json:"chain_id"`
	Name                  string `json:"name"`
	NativeSymbol          string `json:"native_symbol"`
	BridgeAddress         string `json:"bridge_address"`
	RequiredConfirmations uint64 `json:"required_confirmations"`
	ExplorerURL           string `json:"explorer_url,omitempty"`
}

// TokenInfo describes a token deployment on one chain.
type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Native   bool   `json:"native"`
}

// AllowanceQuery asks how much of Token the bridge may move for Owner.
// Amount is an optional human readable decimal to compare against.
type AllowanceQuery struct {
	ChainID uint64
	Token   string
	Owner   string
	Amount  string
}

// AllowanceStatus is the current allowance in base units.
type AllowanceStatus struct {
	ChainID       uint64 `json:"chain_id"`
	Token         string `json:"token"`
	Owner         string `json:"owner"`
	Spender       string `json:"spender"`
	Allowance     string `json:"allowance"`
	Amount        string `json:"amount,omitempty"`
	NeedsApproval bool   `json:"needs_approval"`
}

// ApprovalRequest grants the bridge an allowance from the operator account.
type ApprovalRequest struct {
	ChainID   uint64 `json:"chain_id"`
	Token     string `json:"token"`
	Amount    string `json:"amount"`
	Unbounded bool   `json:"unbounded"`
}

// ApprovalResponse is a mined approval.
type ApprovalResponse struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	Amount      string `json:"amount"`
}

// ClaimStatus reports whether enough validators signed a deposit.
type ClaimStatus struct {
	SourceTxHash string `json:"source_tx_hash"`
	ChainID      uint64 `json:"chain_id"`
	Ready        bool   `json:"ready"`
	Collected    int    `json:"collected"`
	Threshold    int    `json:"threshold"`
	Message      string `json:"message,omitempty"`
}
