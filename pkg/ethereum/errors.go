package ethereum

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
)

// userRejectedCode is the EIP-1193 "user rejected request" code.
const userRejectedCode = 4001

// alreadyClaimedSelector identifies the bridge's AlreadyClaimed() custom error.
var alreadyClaimedSelector = crypto.Keccak256([]byte("AlreadyClaimed()"))[:4]

var rejectionPhrases = []string{"user rejected", "user denied", "request denied", "rejected by user"}

// Classify tags a signing or submission failure with its taxonomy kind.
// Already classified errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if bridge.KindOf(err) != bridge.KindInternal ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == userRejectedCode {
		return fmt.Errorf("%w: %v", bridge.ErrUserRejected, err)
	}

	msg := strings.ToLower(err.Error())
	for _, p := range rejectionPhrases {
		if strings.Contains(msg, p) {
			return fmt.Errorf("%w: %v", bridge.ErrUserRejected, err)
		}
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data := revertData(dataErr.ErrorData()); len(data) > 0 {
			if bytes.HasPrefix(data, alreadyClaimedSelector) {
				return fmt.Errorf("%w: %v", bridge.ErrAlreadyClaimed, err)
			}
			if reason, uerr := abi.UnpackRevert(data); uerr == nil && isAlreadyClaimed(reason) {
				return fmt.Errorf("%w: %s", bridge.ErrAlreadyClaimed, reason)
			}
		}
	}

	if isAlreadyClaimed(msg) {
		return fmt.Errorf("%w: %v", bridge.ErrAlreadyClaimed, err)
	}
	return fmt.Errorf("%w: %v", bridge.ErrSubmissionFailed, err)
}

func isAlreadyClaimed(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "already claimed") || strings.Contains(s, "alreadyclaimed")
}

func revertData(v interface{}) []byte {
	switch d := v.(type) {
	case string:
		b, err := hexutil.Decode(d)
		if err != nil {
			return nil
		}
		return b
	case []byte:
		return d
	}
	return nil
}
