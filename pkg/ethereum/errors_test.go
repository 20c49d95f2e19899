package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

type rpcError struct {
	code int
	msg  string
	data interface{}
}

func (e *rpcError) Error() string          { return e.msg }
func (e *rpcError) ErrorCode() int         { return e.code }
func (e *rpcError) ErrorData() interface{} { return e.data }

func revertString(t *testing.T, reason string) string {
	t.Helper()
	str, _ := abi.NewType("string", "", nil)
	packed, err := abi.Arguments{{Type: str}}.Pack(reason)
	if err != nil {
		t.Fatalf("pack revert: %v", err)
	}
	// Error(string) selector
	return hexutil.Encode(append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "eip-1193 rejection code",
			err:  &rpcError{code: 4001, msg: "denied"},
			want: bridge.ErrUserRejected,
		},
		{
			name: "clef denial",
			err:  errors.New("Request denied"),
			want: bridge.ErrUserRejected,
		},
		{
			name: "custom error selector",
			err:  &rpcError{code: 3, msg: "execution reverted", data: hexutil.Encode(alreadyClaimedSelector)},
			want: bridge.ErrAlreadyClaimed,
		},
		{
			name: "revert reason string",
			err:  &rpcError{code: 3, msg: "execution reverted", data: revertString(t, "Bridge: already claimed")},
			want: bridge.ErrAlreadyClaimed,
		},
		{
			name: "message fallback",
			err:  errors.New("execution reverted: transfer already claimed"),
			want: bridge.ErrAlreadyClaimed,
		},
		{
			name: "other revert",
			err:  &rpcError{code: 3, msg: "execution reverted", data: revertString(t, "paused")},
			want: bridge.ErrSubmissionFailed,
		},
		{
			name: "insufficient funds",
			err:  errors.New("insufficient funds for gas * price + value"),
			want: bridge.ErrSubmissionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(fmt.Errorf("send: %w", tt.err))
			if !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	if Classify(nil) != nil {
		t.Fatal("expected nil")
	}
	already := fmt.Errorf("wrapped: %w", bridge.ErrAlreadyClaimed)
	if got := Classify(already); got != already {
		t.Fatalf("expected classified error unchanged, got %v", got)
	}
	if got := Classify(context.Canceled); !errors.Is(got, context.Canceled) || bridge.KindOf(got) != bridge.KindInternal {
		t.Fatalf("expected cancellation unchanged, got %v", got)
	}
}

func TestKeySigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	s := NewKeySigner(key)

	chainID := big.NewInt(56)
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(1), Gas: 21000, Value: big.NewInt(0)})
	signed, err := s.SignTx(context.Background(), tx, chainID)
	if err != nil {
		t.Fatalf("SignTx failed: %v", err)
	}

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		t.Fatalf("Sender failed: %v", err)
	}
	if from != s.Address() {
		t.Fatalf("expected sender %s, got %s", s.Address().Hex(), from.Hex())
	}
}
