package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/bridge/service/mocks"
	"github.com/chainsafe/bridge-claims/pkg/claim"
)

func newTestServer(svc Service, protect func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, protect, zap.NewNop())
	return r
}

type errorBody struct {
	Error  string `json:"error"`
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var got errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	return got
}

func TestHTTP_SubmitClaim_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	svc := mocks.NewService(t)
	handler := newTestServer(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec); got.Error != "invalid JSON" {
		t.Fatalf("expected error %q, got %q", "invalid JSON", got.Error)
	}
}

func TestHTTP_SubmitClaim_Created(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		SubmitClaim(mock.Anything, mock.MatchedBy(func(req *claim.Request) bool {
			return req.SourceTxHash == "0xabc" && req.SourceChainID == 1 && req.Variant == claim.VariantCall
		})).
		Return(&claim.Result{
			TxHash:             common.HexToHash("0x01"),
			BlockNumber:        42,
			DestinationChainID: 56,
			Variant:            claim.VariantCall,
			Signatures:         3,
		}, nil)
	handler := newTestServer(svc, nil)

	body := `{"source_tx_hash":"0xabc","source_chain_id":1,"variant":"call"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type %q, got %q", "application/json", ct)
	}

	var got claim.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.BlockNumber != 42 || got.DestinationChainID != 56 || got.Signatures != 3 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestHTTP_DomainErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{fmt.Errorf("%w: 1 of 3", bridge.ErrInsufficientAttestations), http.StatusServiceUnavailable, "insufficient_attestations"},
		{bridge.ErrAlreadyClaimed, http.StatusConflict, "already_claimed"},
		{bridge.ErrUserRejected, http.StatusForbidden, "user_rejected"},
		{bridge.ErrDivergentAttestations, http.StatusBadGateway, "divergent_attestations"},
		{bridge.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
	}
	for _, tc := range tests {
		t.Run(tc.reason, func(t *testing.T) {
			svc := mocks.NewService(t)
			svc.EXPECT().SubmitClaim(mock.Anything, mock.Anything).Return(nil, tc.err)
			handler := newTestServer(svc, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", bytes.NewBufferString(`{}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			if got := decodeError(t, rec); got.Reason != tc.reason {
				t.Fatalf("expected reason %q, got %q", tc.reason, got.Reason)
			}
		})
	}
}

func TestHTTP_ProtectedRoutes(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().Networks(mock.Anything).Return([]bridge.NetworkInfo{{ChainID: 1}}, nil)

	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	handler := newTestServer(svc, deny)

	for _, path := range []string{"/api/v1/claims", "/api/v1/deposits", "/api/v1/approvals"} {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusUnauthorized, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/networks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestHTTP_Allowance_QueryParams(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		Allowance(mock.Anything, &bridge.AllowanceQuery{ChainID: 1, Token: "USDT", Owner: "0x33", Amount: "5"}).
		Return(&bridge.AllowanceStatus{ChainID: 1, Allowance: "0", NeedsApproval: true}, nil)
	handler := newTestServer(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/allowance?chain_id=1&token=USDT&owner=0x33&amount=5", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got bridge.AllowanceStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if !got.NeedsApproval {
		t.Fatalf("expected needs_approval to be true")
	}
}

func TestHTTP_BadParams(t *testing.T) {
	svc := mocks.NewService(t)
	handler := newTestServer(svc, nil)

	for _, path := range []string{
		"/api/v1/allowance?chain_id=1&token=USDT",
		"/api/v1/allowance?chain_id=x&token=USDT&owner=0x1",
		"/api/v1/networks/0/tokens",
		"/api/v1/transactions?limit=-1",
		"/api/v1/attestations/abc/0x01",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestHTTP_GetTransaction_NotFound(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().GetTransaction(mock.Anything, "missing").Return(nil, bridge.ErrNotFound)
	handler := newTestServer(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHTTP_ListTransactions_PassesLimit(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().ListTransactions(mock.Anything, 5).Return([]*bridge.Transaction{{ID: "a"}}, nil)
	handler := newTestServer(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?limit=5", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got []bridge.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected transactions %+v", got)
	}
}
