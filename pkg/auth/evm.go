package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// MessagePrefix starts every signed authentication message: bridge-claims:<unix-seconds>.
const MessagePrefix = "bridge-claims:"

// maxClockSkew tolerates signers whose clock runs slightly ahead.
const maxClockSkew = 30 * time.Second

var (
	ErrMalformedMessage = errors.New("malformed auth message")
	ErrExpiredMessage   = errors.New("auth message expired")
)

// VerifyEIP191Signature verifies an EIP-191 personal_sign signature
// Returns the recovered Ethereum address if valid
func VerifyEIP191Signature(message, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(withHexPrefix(signature))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid signature hex: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: expected %d, got %d", crypto.SignatureLength, len(sig))
	}

	// v can be 0, 1, 27, or 28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(personalHash(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

func personalHash(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}

// SignedMessage returns the authentication message for t.
func SignedMessage(t time.Time) string {
	return MessagePrefix + strconv.FormatInt(t.Unix(), 10)
}

// ParseSignedMessage extracts the signing time from a message built by SignedMessage.
func ParseSignedMessage(message string) (time.Time, error) {
	raw, ok := strings.CutPrefix(message, MessagePrefix)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing %q prefix", ErrMalformedMessage, MessagePrefix)
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformedMessage, raw)
	}
	return time.Unix(secs, 0), nil
}

// CheckFreshness rejects messages signed more than maxAge before now or too far in the future.
func CheckFreshness(signedAt, now time.Time, maxAge time.Duration) error {
	if signedAt.After(now.Add(maxClockSkew)) {
		return fmt.Errorf("%w: signed in the future", ErrExpiredMessage)
	}
	if now.Sub(signedAt) > maxAge {
		return fmt.Errorf("%w: older than %s", ErrExpiredMessage, maxAge)
	}
	return nil
}

func withHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}
