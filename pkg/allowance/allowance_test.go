package allowance

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/ethereum"
	"github.com/chainsafe/bridge-claims/pkg/registry"
)

var (
	token   = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	spender = common.HexToAddress("0x1111111111111111111111111111111111111111")
	owner   = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type fakeChain struct {
	chainID   uint64
	remoteID  uint64
	allowance *big.Int
	approved  []*big.Int
	approveFn func(amount *big.Int) (*ethereum.Receipt, error)
}

func (f *fakeChain) ChainID() uint64         { return f.chainID }
func (f *fakeChain) Address() common.Address { return owner }

func (f *fakeChain) RemoteChainID(context.Context) (uint64, error) { return f.remoteID, nil }

func (f *fakeChain) Allowance(context.Context, common.Address, common.Address, common.Address) (*big.Int, error) {
	return f.allowance, nil
}

func (f *fakeChain) Approve(_ context.Context, _, _ common.Address, amount *big.Int) (*ethereum.Receipt, error) {
	f.approved = append(f.approved, amount)
	if f.approveFn != nil {
		return f.approveFn(amount)
	}
	return &ethereum.Receipt{TxHash: common.HexToHash("0xabc"), BlockNumber: 7}, nil
}

func newManager(t *testing.T, c *fakeChain) *Manager {
	t.Helper()
	reg, err := registry.New(
		[]registry.Network{{ChainID: 1}},
		[]registry.Token{
			{Symbol: "USDT", Deployments: map[uint64]registry.Deployment{1: {Address: token, Decimals: 6}}},
			{Symbol: "ETH", Deployments: map[uint64]registry.Deployment{1: {Address: registry.NativeAddress, Decimals: 18}}},
		},
	)
	require.NoError(t, err)
	return NewManager(reg, map[uint64]Chain{1: c}, zap.NewNop())
}

func TestNeedsApproval(t *testing.T) {
	amount := big.NewInt(100)

	assert.True(t, NeedsApproval(amount, big.NewInt(0)))
	assert.True(t, NeedsApproval(amount, nil))
	assert.True(t, NeedsApproval(amount, big.NewInt(99)))
	assert.False(t, NeedsApproval(amount, big.NewInt(100)))
	assert.False(t, NeedsApproval(amount, new(big.Int).Set(gethmath.MaxBig256)))
	assert.True(t, NeedsApproval(new(big.Int).Set(gethmath.MaxBig256), new(big.Int).Sub(gethmath.MaxBig256, big.NewInt(1))))
}

func TestApprove_Unbounded(t *testing.T) {
	c := &fakeChain{chainID: 1, remoteID: 1}
	m := newManager(t, c)

	res, err := m.Approve(context.Background(), ApproveRequest{ChainID: 1, Token: token, Spender: spender, Unbounded: true})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Amount.Cmp(gethmath.MaxBig256))
	require.Len(t, c.approved, 1)
	assert.Equal(t, uint64(7), res.BlockNumber)
}

func TestApprove_ChainMismatch(t *testing.T) {
	c := &fakeChain{chainID: 1, remoteID: 56}
	m := newManager(t, c)

	_, err := m.Approve(context.Background(), ApproveRequest{ChainID: 1, Token: token, Spender: spender, Amount: big.NewInt(1)})
	assert.ErrorIs(t, err, bridge.ErrChainMismatch)
	assert.Empty(t, c.approved)
}

func TestApprove_RejectsNativeAndUnknownTokens(t *testing.T) {
	c := &fakeChain{chainID: 1, remoteID: 1}
	m := newManager(t, c)

	for _, tok := range []common.Address{registry.NativeAddress, common.HexToAddress("0x9999")} {
		_, err := m.Approve(context.Background(), ApproveRequest{ChainID: 1, Token: tok, Spender: spender, Amount: big.NewInt(1)})
		assert.ErrorIs(t, err, bridge.ErrChainMismatch)
	}
	assert.Empty(t, c.approved)

	_, err := m.Approve(context.Background(), ApproveRequest{ChainID: 5, Token: token, Spender: spender, Amount: big.NewInt(1)})
	assert.ErrorIs(t, err, bridge.ErrInvalidRequest)
}

func TestApprove_UserRejectedNotRetried(t *testing.T) {
	c := &fakeChain{chainID: 1, remoteID: 1, approveFn: func(*big.Int) (*ethereum.Receipt, error) {
		return nil, bridge.ErrUserRejected
	}}
	m := newManager(t, c)

	_, err := m.Approve(context.Background(), ApproveRequest{ChainID: 1, Token: token, Spender: spender, Amount: big.NewInt(1)})
	assert.True(t, errors.Is(err, bridge.ErrUserRejected))
	assert.Len(t, c.approved, 1)
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()
	amount := big.NewInt(500)

	t.Run("sufficient allowance", func(t *testing.T) {
		c := &fakeChain{chainID: 1, remoteID: 1, allowance: big.NewInt(500)}
		res, err := newManager(t, c).Ensure(ctx, 1, token, spender, amount, PolicyExact)
		require.NoError(t, err)
		assert.Nil(t, res)
		assert.Empty(t, c.approved)
	})

	t.Run("exact", func(t *testing.T) {
		c := &fakeChain{chainID: 1, remoteID: 1, allowance: big.NewInt(10)}
		res, err := newManager(t, c).Ensure(ctx, 1, token, spender, amount, PolicyExact)
		require.NoError(t, err)
		assert.Equal(t, int64(500), res.Amount.Int64())
	})

	t.Run("unbounded", func(t *testing.T) {
		c := &fakeChain{chainID: 1, remoteID: 1, allowance: big.NewInt(0)}
		res, err := newManager(t, c).Ensure(ctx, 1, token, spender, amount, PolicyUnbounded)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Amount.Cmp(gethmath.MaxBig256))
	})

	t.Run("none", func(t *testing.T) {
		c := &fakeChain{chainID: 1, remoteID: 1, allowance: big.NewInt(0)}
		_, err := newManager(t, c).Ensure(ctx, 1, token, spender, amount, PolicyNone)
		assert.ErrorIs(t, err, bridge.ErrAllowanceRequired)
		assert.Empty(t, c.approved)
	})
}
