// Package registry holds the static catalog of supported networks and bridgeable tokens.
package registry

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// NativeAddress marks a token deployment that is the chain's native asset.
	NativeAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")
	// NotDeployed marks a token that has no deployment on a chain.
	NotDeployed = common.Address{}
)

// DefaultRequiredConfirmations applies to chains with no configured or known depth.
const DefaultRequiredConfirmations uint64 = 6

// knownConfirmations are finality depths for well known chains.
var knownConfirmations = map[uint64]uint64{
	1:        12, // Ethereum
	10:       10, // Optimism
	56:       15, // BNB Chain
	137:      128,
	8453:     10, // Base
	42161:    10, // Arbitrum
	43114:    12, // Avalanche C-Chain
	11155111: 3,  // Sepolia
}

var (
	ErrTokenNotFound     = errors.New("token not found")
	ErrChainNotSupported = errors.New("chain not supported")
	ErrNotDeployed       = errors.New("token not deployed on chain")
)

// Network is one EVM chain the bridge operates on.
type Network struct {
	ChainID               uint64
	Name                  string
	NativeSymbol          string
	BridgeAddress         common.Address
	RPCURL                string
	RequiredConfirmations uint64
	MinGasBalance         *big.Int
	GasLimit              uint64
	MaxGasPrice           *big.Int
	ExplorerURL           string
}

// Deployment is a token contract on one chain.
type Deployment struct {
	Address  common.Address
	Decimals uint8
}

// IsNative reports whether the deployment is the chain's native asset.
func (d Deployment) IsNative() bool {
	return d.Address == NativeAddress
}

// ContractAddress is the address passed to the bridge contract: zero for the native asset.
func (d Deployment) ContractAddress() common.Address {
	if d.IsNative() {
		return common.Address{}
	}
	return d.Address
}

// Token is a bridgeable asset and its deployments keyed by chain id.
type Token struct {
	Symbol      string
	Name        string
	Deployments map[uint64]Deployment
}

// DeployedOn reports whether the token has a deployment on chainID.
func (t Token) DeployedOn(chainID uint64) bool {
	d, ok := t.Deployments[chainID]
	return ok && d.Address != NotDeployed
}

// Registry is an immutable lookup over networks and tokens.
type Registry struct {
	networks map[uint64]Network
	bridges  map[common.Address]uint64
	tokens   map[string]Token
}

// New builds a registry, rejecting duplicates and deployments on unknown chains.
func New(networks []Network, tokens []Token) (*Registry, error) {
	r := &Registry{
		networks: make(map[uint64]Network, len(networks)),
		bridges:  make(map[common.Address]uint64, len(networks)),
		tokens:   make(map[string]Token, len(tokens)),
	}

	for _, n := range networks {
		if n.ChainID == 0 {
			return nil, errors.New("network chain id must be set")
		}
		if _, dup := r.networks[n.ChainID]; dup {
			return nil, fmt.Errorf("duplicate network %d", n.ChainID)
		}
		r.networks[n.ChainID] = n
		if n.BridgeAddress != (common.Address{}) {
			r.bridges[n.BridgeAddress] = n.ChainID
		}
	}

	for _, t := range tokens {
		key := strings.ToUpper(t.Symbol)
		if key == "" {
			return nil, errors.New("token symbol must be set")
		}
		if _, dup := r.tokens[key]; dup {
			return nil, fmt.Errorf("duplicate token %s", t.Symbol)
		}
		for chainID := range t.Deployments {
			if _, ok := r.networks[chainID]; !ok {
				return nil, fmt.Errorf("token %s: %w: %d", t.Symbol, ErrChainNotSupported, chainID)
			}
		}
		r.tokens[key] = t
	}

	return r, nil
}

// FromConfig builds a registry from the networks and tokens sections.
func FromConfig(cfg *config.Config) (*Registry, error) {
	networks := make([]Network, 0, len(cfg.Networks))
	for _, n := range cfg.Networks {
		minGas, err := parseWei(n.MinGasBalance)
		if err != nil {
			return nil, fmt.Errorf("network %d min_gas_balance: %w", n.ChainID, err)
		}
		maxGasPrice, err := parseWei(n.MaxGasPrice)
		if err != nil {
			return nil, fmt.Errorf("network %d max_gas_price: %w", n.ChainID, err)
		}
		networks = append(networks, Network{
			ChainID:               n.ChainID,
			Name:                  n.Name,
			NativeSymbol:          n.NativeSymbol,
			BridgeAddress:         common.HexToAddress(n.BridgeContract),
			RPCURL:                n.RPCURL,
			RequiredConfirmations: n.RequiredConfirmations,
			MinGasBalance:         minGas,
			GasLimit:              n.GasLimit,
			MaxGasPrice:           maxGasPrice,
			ExplorerURL:           n.ExplorerURL,
		})
	}

	tokens := make([]Token, 0, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		tok := Token{Symbol: t.Symbol, Name: t.Name, Deployments: make(map[uint64]Deployment, len(t.Deployments))}
		for _, d := range t.Deployments {
			var decimals uint8 = 18
			if d.Decimals != nil {
				decimals = *d.Decimals
			}
			addr, err := parseDeploymentAddress(d.Address)
			if err != nil {
				return nil, fmt.Errorf("token %s on %d: %w", t.Symbol, d.ChainID, err)
			}
			tok.Deployments[d.ChainID] = Deployment{Address: addr, Decimals: decimals}
		}
		tokens = append(tokens, tok)
	}

	return New(networks, tokens)
}

func parseDeploymentAddress(s string) (common.Address, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return NotDeployed, nil
	case "native":
		return NativeAddress, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// parseWei returns nil for an empty value.
func parseWei(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid wei amount %q", s)
	}
	return v, nil
}

// NetworkByChainID returns the network with the given chain id.
func (r *Registry) NetworkByChainID(chainID uint64) (Network, bool) {
	n, ok := r.networks[chainID]
	return n, ok
}

// NetworkByBridge returns the network whose bridge contract is at addr.
func (r *Registry) NetworkByBridge(addr common.Address) (Network, bool) {
	id, ok := r.bridges[addr]
	if !ok {
		return Network{}, false
	}
	return r.networks[id], true
}

// Networks returns all networks ordered by chain id.
func (r *Registry) Networks() []Network {
	out := make([]Network, 0, len(r.networks))
	for _, n := range r.networks {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

// TokensAvailableOn lists tokens deployed on chainID, the native asset included, ordered by symbol.
func (r *Registry) TokensAvailableOn(chainID uint64) []Token {
	out := make([]Token, 0)
	for _, t := range r.tokens {
		if t.DeployedOn(chainID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// TokenBySymbol looks a token up case-insensitively.
func (r *Registry) TokenBySymbol(symbol string) (Token, bool) {
	t, ok := r.tokens[strings.ToUpper(symbol)]
	return t, ok
}

// TokenByAddress finds the token deployed at addr on chainID.
func (r *Registry) TokenByAddress(chainID uint64, addr common.Address) (Token, Deployment, bool) {
	if addr == NotDeployed {
		return Token{}, Deployment{}, false
	}
	for _, t := range r.tokens {
		if d, ok := t.Deployments[chainID]; ok && d.Address == addr {
			return t, d, true
		}
	}
	return Token{}, Deployment{}, false
}

// Deployment returns the deployment of symbol on chainID.
func (r *Registry) Deployment(symbol string, chainID uint64) (Deployment, error) {
	if _, ok := r.networks[chainID]; !ok {
		return Deployment{}, fmt.Errorf("%w: %d", ErrChainNotSupported, chainID)
	}
	t, ok := r.TokenBySymbol(symbol)
	if !ok {
		return Deployment{}, fmt.Errorf("%w: %s", ErrTokenNotFound, symbol)
	}
	if !t.DeployedOn(chainID) {
		return Deployment{}, fmt.Errorf("%w: %s on %d", ErrNotDeployed, symbol, chainID)
	}
	return t.Deployments[chainID], nil
}

// RequiredConfirmations is the block depth after which a deposit on chainID is final.
// It is never zero.
func (r *Registry) RequiredConfirmations(chainID uint64) uint64 {
	if n, ok := r.networks[chainID]; ok && n.RequiredConfirmations > 0 {
		return n.RequiredConfirmations
	}
	if c, ok := knownConfirmations[chainID]; ok {
		return c
	}
	return DefaultRequiredConfirmations
}

// IsConfirmed reports whether confirmedBlocks meets the finality depth of chainID.
func (r *Registry) IsConfirmed(chainID, confirmedBlocks uint64) bool {
	return confirmedBlocks >= r.RequiredConfirmations(chainID)
}
