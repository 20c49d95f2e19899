package deposit

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/allowance"
	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/ethereum"
	"github.com/chainsafe/bridge-claims/pkg/ledger"
	"github.com/chainsafe/bridge-claims/pkg/registry"
)

var (
	usdtMainnet = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	usdtBSC     = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")
	bridgeAddr  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	operator    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	receiver    = "0x3333333333333333333333333333333333333333"
	depositHash = common.HexToHash("0x8a3c1f0e6b1d4c2a9e7f5b3d1c0a9e8f7d6c5b4a39281706f5e4d3c2b1a09f8e")
)

type fakeChain struct {
	balance *big.Int
	calls   []ethereum.DepositCall
	err     error
}

func (f *fakeChain) ChainID() uint64         { return 1 }
func (f *fakeChain) Address() common.Address { return operator }

func (f *fakeChain) Balance(context.Context, common.Address) (*big.Int, error) {
	if f.balance == nil {
		return big.NewInt(0), nil
	}
	return f.balance, nil
}

func (f *fakeChain) DepositTokens(_ context.Context, call ethereum.DepositCall) (*ethereum.Receipt, error) {
	f.calls = append(f.calls, call)
	if f.err != nil {
		return nil, f.err
	}
	return &ethereum.Receipt{TxHash: depositHash, BlockNumber: 1234}, nil
}

type fakeAllowances struct {
	calls  int
	policy allowance.Policy
	err    error
}

func (f *fakeAllowances) Ensure(_ context.Context, _ uint64, _, _ common.Address, _ *big.Int, policy allowance.Policy) (*allowance.Result, error) {
	f.calls++
	f.policy = policy
	return nil, f.err
}

type fixture struct {
	submitter  *Submitter
	chain      *fakeChain
	allowances *fakeAllowances
	ledger     *ledger.Ledger
}

func setup(t *testing.T, minGas *big.Int) *fixture {
	t.Helper()
	reg, err := registry.New(
		[]registry.Network{
			{ChainID: 1, BridgeAddress: bridgeAddr, MinGasBalance: minGas},
			{ChainID: 56},
			{ChainID: 137},
		},
		[]registry.Token{
			{Symbol: "USDT", Deployments: map[uint64]registry.Deployment{
				1:   {Address: usdtMainnet, Decimals: 6},
				56:  {Address: usdtBSC, Decimals: 18},
				137: {Address: registry.NotDeployed, Decimals: 6},
			}},
			{Symbol: "ETH", Deployments: map[uint64]registry.Deployment{
				1:  {Address: registry.NativeAddress, Decimals: 18},
				56: {Address: common.HexToAddress("0x2170Ed0880ac9A755fd29B2688956BD959F933F8"), Decimals: 18},
			}},
		},
	)
	require.NoError(t, err)

	f := &fixture{
		chain:      &fakeChain{},
		allowances: &fakeAllowances{},
		ledger:     ledger.New(ledger.NewMemoryRepository(), reg, nil, 10, zap.NewNop()),
	}
	f.submitter = NewSubmitter(reg, map[uint64]Chain{1: f.chain}, f.allowances, f.ledger, allowance.PolicyExact, zap.NewNop())
	return f
}

func tokenRequest() Request {
	return Request{
		Receiver:           receiver,
		Token:              "USDT",
		Amount:             "10.5",
		SourceChainID:      1,
		DestinationChainID: 56,
	}
}

func TestSubmitDeposit_Token(t *testing.T) {
	f := setup(t, nil)

	res, err := f.submitter.SubmitDeposit(context.Background(), tokenRequest())
	require.NoError(t, err)

	require.Len(t, f.chain.calls, 1)
	call := f.chain.calls[0]
	assert.Equal(t, int64(10500000), call.Amount.Int64())
	assert.Equal(t, usdtMainnet, call.Token)
	assert.Equal(t, uint64(56), call.ToChainID)
	assert.Nil(t, call.Value)

	assert.Equal(t, 1, f.allowances.calls)
	assert.Equal(t, allowance.PolicyExact, f.allowances.policy)

	tx := res.Transaction
	assert.Equal(t, bridge.StatusPending, tx.Status)
	assert.Equal(t, uint64(0), tx.ConfirmedBlocks)
	assert.Equal(t, uint64(1234), tx.BlockNumber)
	assert.Equal(t, "10500000", tx.Amount)
	assert.Equal(t, usdtBSC.Hex(), tx.DestinationToken)

	stored, err := f.ledger.FindBySourceTxHash(context.Background(), depositHash.Hex())
	require.NoError(t, err)
	assert.Equal(t, tx.ID, stored.ID)
}

func TestSubmitDeposit_ByAddress(t *testing.T) {
	f := setup(t, nil)

	req := tokenRequest()
	req.Token = usdtMainnet.Hex()
	_, err := f.submitter.SubmitDeposit(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, f.chain.calls, 1)
}

func TestSubmitDeposit_Native(t *testing.T) {
	f := setup(t, nil)

	req := Request{
		Receiver:           receiver,
		Token:              "ETH",
		Amount:             "0.5",
		NativeValue:        "500000000000000000",
		SourceChainID:      1,
		DestinationChainID: 56,
	}
	res, err := f.submitter.SubmitDeposit(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.chain.calls, 1)
	call := f.chain.calls[0]
	assert.Equal(t, common.Address{}, call.Token)
	assert.Equal(t, "500000000000000000", call.Value.String())
	assert.Equal(t, 0, f.allowances.calls, "native deposits need no allowance")
	assert.Equal(t, registry.NativeAddress.Hex(), res.Transaction.SourceToken)
}

func TestSubmitDeposit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing receiver", func(r *Request) { r.Receiver = "" }},
		{"bad receiver", func(r *Request) { r.Receiver = "0x123" }},
		{"zero amount", func(r *Request) { r.Amount = "0" }},
		{"negative amount", func(r *Request) { r.Amount = "-1" }},
		{"too many decimals", func(r *Request) { r.Amount = "1.0000001" }},
		{"same chain", func(r *Request) { r.DestinationChainID = 1 }},
		{"unknown destination", func(r *Request) { r.DestinationChainID = 10 }},
		{"not deployed on destination", func(r *Request) { r.DestinationChainID = 137 }},
		{"unknown token", func(r *Request) { r.Token = "DOGE" }},
		{"native value on token deposit", func(r *Request) { r.NativeValue = "1" }},
		{"bad destination address", func(r *Request) { r.DestinationAddress = "nope" }},
		{"native value mismatch", func(r *Request) {
			r.Token, r.Amount, r.NativeValue = "ETH", "1", "999"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, nil)
			req := tokenRequest()
			tt.mutate(&req)

			_, err := f.submitter.SubmitDeposit(context.Background(), req)
			assert.ErrorIs(t, err, bridge.ErrInvalidRequest)
			assert.Empty(t, f.chain.calls)
			assert.Equal(t, 0, f.allowances.calls)
		})
	}
}

func TestSubmitDeposit_ReceiverChecksum(t *testing.T) {
	const checksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	accepted := map[string]string{
		"checksummed": checksummed,
		"lowercase":   "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"uppercase":   "0X5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED",
	}
	for name, addr := range accepted {
		t.Run(name, func(t *testing.T) {
			f := setup(t, nil)
			req := tokenRequest()
			req.Receiver = addr

			res, err := f.submitter.SubmitDeposit(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, checksummed, res.Transaction.Receiver)
		})
	}

	t.Run("bad mixed-case checksum", func(t *testing.T) {
		f := setup(t, nil)
		req := tokenRequest()
		req.Receiver = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD"

		_, err := f.submitter.SubmitDeposit(context.Background(), req)
		assert.ErrorIs(t, err, bridge.ErrInvalidRequest)
		assert.ErrorContains(t, err, "EIP-55")
		assert.Empty(t, f.chain.calls)
	})
}

func TestSubmitDeposit_ZeroNativeValueAllowedForTokens(t *testing.T) {
	f := setup(t, nil)

	req := tokenRequest()
	req.NativeValue = "0"
	_, err := f.submitter.SubmitDeposit(context.Background(), req)
	require.NoError(t, err)
}

func TestSubmitDeposit_FailureRecordsNothing(t *testing.T) {
	for _, failure := range []error{bridge.ErrUserRejected, bridge.ErrSubmissionFailed} {
		t.Run(string(bridge.KindOf(failure)), func(t *testing.T) {
			f := setup(t, nil)
			f.chain.err = failure

			_, err := f.submitter.SubmitDeposit(context.Background(), tokenRequest())
			assert.True(t, errors.Is(err, failure))

			txs, err := f.ledger.ListRecent(context.Background(), 0)
			require.NoError(t, err)
			assert.Empty(t, txs)
		})
	}
}

func TestSubmitDeposit_AllowanceRequired(t *testing.T) {
	f := setup(t, nil)
	f.allowances.err = bridge.ErrAllowanceRequired

	_, err := f.submitter.SubmitDeposit(context.Background(), tokenRequest())
	assert.ErrorIs(t, err, bridge.ErrAllowanceRequired)
	assert.Empty(t, f.chain.calls)
}

func TestSubmitDeposit_MinGasBalance(t *testing.T) {
	f := setup(t, big.NewInt(1000))
	f.chain.balance = big.NewInt(999)

	_, err := f.submitter.SubmitDeposit(context.Background(), tokenRequest())
	assert.ErrorIs(t, err, bridge.ErrInvalidRequest)
	assert.Empty(t, f.chain.calls)

	f.chain.balance = big.NewInt(1000)
	_, err = f.submitter.SubmitDeposit(context.Background(), tokenRequest())
	require.NoError(t, err)
}
