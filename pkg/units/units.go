// Package units converts between human readable token amounts and on-chain base units.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrTooManyDecimals   = errors.New("amount has more fractional digits than the token supports")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	maxUint256           = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	errAmountOutOfBounds = errors.New("amount exceeds uint256")
)

const (
	// maxUint256Digits is the number of decimal digits in 2^256-1.
	maxUint256Digits = 78
	// maxAmountLength fits a uint256 integer part, a point and 255 fractional digits.
	maxAmountLength = maxUint256Digits + 1 + 255
	// maxBaseUnitsLength fits 2^256-1 in any base SetString accepts, with prefix and separators.
	maxBaseUnitsLength = 2 + 256 + 255
)

// Parse converts a decimal string such as "10.5" into base units for a token with
// the given number of decimals ("10.5" at 6 decimals is 10500000).
func Parse(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, ErrInvalidAmount
	}
	// Exponents and oversized inputs would make the shift below allocate huge powers of ten.
	if len(amount) > maxAmountLength {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidAmount, maxAmountLength)
	}
	if strings.ContainsAny(amount, "eE") {
		return nil, fmt.Errorf("%w: exponent notation is not supported: %q", ErrInvalidAmount, amount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if d.IsZero() {
		return new(big.Int), nil
	}
	if d.NumDigits()+int(d.Exponent())+int(decimals) > maxUint256Digits {
		return nil, errAmountOutOfBounds
	}

	shifted := d.Shift(int32(decimals))
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q with %d decimals", ErrTooManyDecimals, amount, decimals)
	}

	out := shifted.BigInt()
	if out.Cmp(maxUint256) > 0 {
		return nil, errAmountOutOfBounds
	}
	return out, nil
}

// Format renders base units as a decimal string without trailing zeros.
func Format(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}

// ParseBaseUnits parses an integer amount already expressed in base units (e.g. wei).
// An empty string is treated as zero.
func ParseBaseUnits(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return new(big.Int), nil
	}
	if len(value) > maxBaseUnitsLength {
		return nil, errAmountOutOfBounds
	}
	out, ok := new(big.Int).SetString(value, 0)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if out.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if out.Cmp(maxUint256) > 0 {
		return nil, errAmountOutOfBounds
	}
	return out, nil
}
