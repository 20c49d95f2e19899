package watcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/chainsafe/bridge-claims/pkg/ledger"
	"github.com/chainsafe/bridge-claims/pkg/registry"
	"github.com/chainsafe/bridge-claims/pkg/watcher"
)

type staticHead uint64

func (h staticHead) LatestBlockNumber(context.Context) (uint64, error) { return uint64(h), nil }

func TestParseLimit(t *testing.T) {
	tests := map[string]int{
		"":     defaultPendingLimit,
		"abc":  defaultPendingLimit,
		"-4":   defaultPendingLimit,
		"0":    defaultPendingLimit,
		"25":   25,
		"5000": maxPendingLimit,
	}
	for raw, want := range tests {
		assert.Equal(t, want, parseLimit(raw), "limit %q", raw)
	}
}

func TestParseOffset(t *testing.T) {
	tests := map[string]int{"": 0, "x": 0, "-1": 0, "0": 0, "200": 200}
	for raw, want := range tests {
		assert.Equal(t, want, parseOffset(raw), "offset %q", raw)
	}
}

func TestRouter_ReportsEngineState(t *testing.T) {
	reg, err := registry.New([]registry.Network{{ChainID: 1, RequiredConfirmations: 12}}, nil)
	require.NoError(t, err)
	l := ledger.New(ledger.NewMemoryRepository(), reg, nil, 0, zap.NewNop())

	_, err = l.Record(context.Background(), &bridge.Transaction{
		SourceTxHash:  "0xabc",
		SourceChainID: 1,
		Amount:        "1",
		Receiver:      "0x3333333333333333333333333333333333333333",
		BlockNumber:   100,
	})
	require.NoError(t, err)

	engine := watcher.NewEngine(l, map[uint64]watcher.BlockSource{1: staticHead(105)}, time.Hour, 10, zap.NewNop())
	s := NewServer(&config.Config{Server: config.ServerConfig{RequestTimeout: 5 * time.Second}})
	router := s.newRouter(engine, l, reg, zap.NewNop())

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusServiceUnavailable, get("/ready").Code)

	engine.Start(context.Background())
	t.Cleanup(engine.Stop)
	require.Eventually(t, engine.IsReady, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, http.StatusOK, get("/ready").Code)

	var status struct {
		Ready  bool          `json:"ready"`
		Chains []chainStatus `json:"chains"`
	}
	rec := get("/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Ready)
	require.Len(t, status.Chains, 1)
	assert.Equal(t, chainStatus{ChainID: 1, LastCheckedBlock: 105, RequiredConfirmations: 12}, status.Chains[0])

	var pending struct {
		Transactions []bridge.Transaction `json:"transactions"`
	}
	rec = get("/api/v1/pending?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending.Transactions, 1)
	assert.Equal(t, uint64(5), pending.Transactions[0].ConfirmedBlocks)

	rec = get("/api/v1/pending?offset=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Empty(t, pending.Transactions)
}
