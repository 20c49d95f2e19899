package registry

import (
	"errors"
	"testing"

	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/ethereum/go-ethereum/common"
)

var (
	usdtEth = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	usdtBsc = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(
		[]Network{
			{ChainID: 1, Name: "Ethereum", BridgeAddress: common.HexToAddress("0x01")},
			{ChainID: 56, Name: "BNB Chain", BridgeAddress: common.HexToAddress("0x56"), RequiredConfirmations: 20},
			{ChainID: 999999, Name: "Devnet"},
		},
		[]Token{
			{Symbol: "USDT", Deployments: map[uint64]Deployment{
				1:  {Address: usdtEth, Decimals: 6},
				56: {Address: usdtBsc, Decimals: 18},
			}},
			{Symbol: "ETH", Deployments: map[uint64]Deployment{
				1:      {Address: NativeAddress, Decimals: 18},
				999999: {Address: NotDeployed},
			}},
		},
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return r
}

func TestRequiredConfirmations(t *testing.T) {
	r := testRegistry(t)

	if got := r.RequiredConfirmations(56); got != 20 {
		t.Fatalf("configured depth: expected 20, got %d", got)
	}
	if got := r.RequiredConfirmations(1); got != 12 {
		t.Fatalf("known depth: expected 12, got %d", got)
	}
	for _, id := range []uint64{999999, 424242} {
		if got := r.RequiredConfirmations(id); got != DefaultRequiredConfirmations || got < 1 {
			t.Fatalf("chain %d: expected default %d, got %d", id, DefaultRequiredConfirmations, got)
		}
	}
}

func TestIsConfirmed_RoundTrip(t *testing.T) {
	r := testRegistry(t)
	need := r.RequiredConfirmations(1)

	if r.IsConfirmed(1, need-1) {
		t.Fatal("expected unconfirmed one block short")
	}
	if !r.IsConfirmed(1, need) {
		t.Fatal("expected confirmed at required depth")
	}
}

func TestTokensAvailableOn(t *testing.T) {
	r := testRegistry(t)

	eth := r.TokensAvailableOn(1)
	if len(eth) != 2 || eth[0].Symbol != "ETH" || eth[1].Symbol != "USDT" {
		t.Fatalf("expected [ETH USDT] on chain 1, got %+v", eth)
	}
	if !eth[0].Deployments[1].IsNative() {
		t.Fatal("expected ETH to be native on chain 1")
	}

	if got := r.TokensAvailableOn(999999); len(got) != 0 {
		t.Fatalf("expected no tokens on devnet, got %+v", got)
	}
}

func TestDeployment(t *testing.T) {
	r := testRegistry(t)

	d, err := r.Deployment("usdt", 1)
	if err != nil {
		t.Fatalf("Deployment() failed: %v", err)
	}
	if d.Address != usdtEth || d.Decimals != 6 {
		t.Fatalf("unexpected deployment %+v", d)
	}

	if _, err := r.Deployment("ETH", 56); !errors.Is(err, ErrNotDeployed) {
		t.Fatalf("expected ErrNotDeployed, got %v", err)
	}
	if _, err := r.Deployment("DAI", 1); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
	if _, err := r.Deployment("USDT", 5); !errors.Is(err, ErrChainNotSupported) {
		t.Fatalf("expected ErrChainNotSupported, got %v", err)
	}
}

func TestNetworkByBridge(t *testing.T) {
	r := testRegistry(t)

	n, ok := r.NetworkByBridge(common.HexToAddress("0x56"))
	if !ok || n.ChainID != 56 {
		t.Fatalf("expected chain 56, got %+v (ok=%v)", n, ok)
	}
	if _, ok := r.NetworkByBridge(common.HexToAddress("0x99")); ok {
		t.Fatal("expected unknown bridge")
	}
}

func TestNew_RejectsUnknownChainDeployment(t *testing.T) {
	_, err := New(
		[]Network{{ChainID: 1}},
		[]Token{{Symbol: "X", Deployments: map[uint64]Deployment{2: {Address: usdtEth}}}},
	)
	if !errors.Is(err, ErrChainNotSupported) {
		t.Fatalf("expected ErrChainNotSupported, got %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	six := uint8(6)
	cfg := &config.Config{
		Networks: []config.NetworkConfig{
			{ChainID: 1, Name: "Ethereum", BridgeContract: "0x1111111111111111111111111111111111111111", MinGasBalance: "1000", MaxGasPrice: "50000000000"},
		},
		Tokens: []config.TokenConfig{
			{Symbol: "ETH", Deployments: []config.TokenDeploymentConfig{{ChainID: 1, Address: "native"}}},
			{Symbol: "USDT", Deployments: []config.TokenDeploymentConfig{{ChainID: 1, Address: usdtEth.Hex(), Decimals: &six}}},
		},
	}

	r, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig() failed: %v", err)
	}

	n, _ := r.NetworkByChainID(1)
	if n.MinGasBalance.Int64() != 1000 || n.MaxGasPrice.Int64() != 50000000000 {
		t.Fatalf("unexpected gas settings %+v", n)
	}
	eth, err := r.Deployment("ETH", 1)
	if err != nil || !eth.IsNative() || eth.Decimals != 18 {
		t.Fatalf("expected native ETH with 18 decimals, got %+v (%v)", eth, err)
	}
	if eth.ContractAddress() != (common.Address{}) {
		t.Fatal("expected zero contract address for native asset")
	}
	usdt, _ := r.Deployment("USDT", 1)
	if usdt.Decimals != 6 {
		t.Fatalf("expected 6 decimals, got %d", usdt.Decimals)
	}
}
