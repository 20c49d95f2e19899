// Package attestation collects threshold signatures from the bridge validators.
package attestation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const maxResponseBytes = 1 << 20

// Validator is one attestation endpoint.
type Validator interface {
	Endpoint() string
	Fetch(ctx context.Context, txHash string, chainID uint64) (*bridge.Attestation, error)
}

// Client queries a validator over HTTP: GET <base>auth?tx=<hash>&chain=<id>.
type Client struct {
	base   string
	client *http.Client
}

// NewClient creates a client for the validator at base.
func NewClient(base string, timeout time.Duration) *Client {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the validator base URL.
func (c *Client) Endpoint() string { return c.base }

// response is the validator wire format.
type response struct {
	IsSuccess       bool            `json:"isSuccess"`
	Signature       string          `json:"signature"`
	Message         string          `json:"message"`
	Bridge          string          `json:"bridge"`
	OriginalToken   string          `json:"originalToken"`
	OriginalChainID json.RawMessage `json:"originalChainID"`
	To              string          `json:"to"`
	Value           json.RawMessage `json:"value"`
	ToContract      string          `json:"toContract"`
	Data            string          `json:"data"`
}

// statusError is a non-success HTTP status that carried no parseable attestation.
type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("validator returned HTTP %d", e.code) }

// retryable reports whether a failed request is worth repeating against the same endpoint.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return !isMalformed(err)
}

// Fetch requests the attestation for txHash on chainID.
// Transport failures and 5xx statuses are returned as plain errors; an unparseable
// body is reported as bridge.ErrMalformedAttestation.
func (c *Client) Fetch(ctx context.Context, txHash string, chainID uint64) (*bridge.Attestation, error) {
	q := url.Values{}
	q.Set("tx", txHash)
	q.Set("chain", strconv.FormatUint(chainID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"auth?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &statusError{code: resp.StatusCode}
	}

	var r response
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &statusError{code: resp.StatusCode}
		}
		return nil, fmt.Errorf("%w: %v", bridge.ErrMalformedAttestation, err)
	}

	att, err := r.toAttestation(c.base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bridge.ErrMalformedAttestation, err)
	}
	return att, nil
}

func (r *response) toAttestation(validator string) (*bridge.Attestation, error) {
	att := &bridge.Attestation{
		Validator: validator,
		Success:   r.IsSuccess,
		Message:   r.Message,
	}

	var err error
	if r.Signature != "" {
		if att.Signature, err = hexutil.Decode(withHexPrefix(r.Signature)); err != nil {
			return nil, fmt.Errorf("signature: %w", err)
		}
	}
	if att.Bridge, err = parseAddress(r.Bridge); err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	if att.OriginalToken, err = parseAddress(r.OriginalToken); err != nil {
		return nil, fmt.Errorf("originalToken: %w", err)
	}
	if att.To, err = parseAddress(r.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if r.ToContract != "" {
		addr, err := parseAddress(r.ToContract)
		if err != nil {
			return nil, fmt.Errorf("toContract: %w", err)
		}
		att.ToContract = &addr
	}
	if r.Data != "" && r.Data != "0x" {
		if att.Data, err = hexutil.Decode(withHexPrefix(r.Data)); err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}
	}

	if v, err := parseNumber(r.OriginalChainID); err != nil {
		return nil, fmt.Errorf("originalChainID: %w", err)
	} else if v != nil {
		if !v.IsUint64() {
			return nil, fmt.Errorf("originalChainID out of range: %s", v)
		}
		att.OriginalChainID = v.Uint64()
	}
	if att.Value, err = parseNumber(r.Value); err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}

	return att, nil
}

func withHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}

func parseAddress(s string) (common.Address, error) {
	if s == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// parseNumber accepts a JSON number or a decimal or 0x-hex string. Absent values yield nil.
func parseNumber(raw json.RawMessage) (*big.Int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
		if s == "" {
			return nil, nil
		}
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base, s = 16, s[2:]
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid number %q", string(raw))
	}
	return v, nil
}
