package service

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridge-claims/pkg/app/errors"
	apphttp "github.com/chainsafe/bridge-claims/pkg/app/http"
	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/claim"
	"github.com/chainsafe/bridge-claims/pkg/deposit"
)

const maxBodySize = 1 << 20

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the /api/v1 endpoints on r. Mutating routes are wrapped
// with protect when it is not nil.
func RegisterRoutes(r chi.Router, service Service, protect func(http.Handler) http.Handler, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/networks", apphttp.HandleError(h.networks))
		r.Get("/networks/{chainID}/tokens", apphttp.HandleError(h.tokens))
		r.Get("/allowance", apphttp.HandleError(h.allowance))
		r.Get("/transactions", apphttp.HandleError(h.listTransactions))
		r.Get("/transactions/{id}", apphttp.HandleError(h.getTransaction))
		r.Get("/attestations/{chainID}/{txHash}", apphttp.HandleError(h.claimStatus))

		r.Group(func(r chi.Router) {
			if protect != nil {
				r.Use(protect)
			}
			r.Post("/approvals", apphttp.HandleError(h.approve))
			r.Post("/deposits", apphttp.HandleError(h.submitDeposit))
			r.Post("/claims", apphttp.HandleError(h.submitClaim))
		})
	})
}

func (h *HTTP) networks(w http.ResponseWriter, r *http.Request) error {
	out, err := h.service.Networks(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) tokens(w http.ResponseWriter, r *http.Request) error {
	chainID, err := parseChainID(chi.URLParam(r, "chainID"))
	if err != nil {
		return err
	}
	out, err := h.service.Tokens(r.Context(), chainID)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) allowance(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	chainID, err := parseChainID(q.Get("chain_id"))
	if err != nil {
		return err
	}
	if q.Get("token") == "" || q.Get("owner") == "" {
		return apperrors.BadRequestError(nil, "token and owner are required")
	}

	out, err := h.service.Allowance(r.Context(), &bridge.AllowanceQuery{
		ChainID: chainID,
		Token:   q.Get("token"),
		Owner:   q.Get("owner"),
		Amount:  q.Get("amount"),
	})
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) approve(w http.ResponseWriter, r *http.Request) error {
	var req bridge.ApprovalRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	out, err := h.service.Approve(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) submitDeposit(w http.ResponseWriter, r *http.Request) error {
	var req deposit.Request
	if err := decode(r, &req); err != nil {
		return err
	}
	out, err := h.service.SubmitDeposit(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, out)
	return nil
}

func (h *HTTP) listTransactions(w http.ResponseWriter, r *http.Request) error {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return apperrors.BadRequestError(err, "limit must be a non-negative integer")
		}
		limit = n
	}
	out, err := h.service.ListTransactions(r.Context(), limit)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) getTransaction(w http.ResponseWriter, r *http.Request) error {
	out, err := h.service.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) claimStatus(w http.ResponseWriter, r *http.Request) error {
	chainID, err := parseChainID(chi.URLParam(r, "chainID"))
	if err != nil {
		return err
	}
	out, err := h.service.ClaimStatus(r.Context(), chainID, chi.URLParam(r, "txHash"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) submitClaim(w http.ResponseWriter, r *http.Request) error {
	var req claim.Request
	if err := decode(r, &req); err != nil {
		return err
	}
	out, err := h.service.SubmitClaim(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, out)
	return nil
}

func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func parseChainID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.BadRequestError(err, "invalid chain id")
	}
	return id, nil
}
