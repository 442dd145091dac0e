package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/keyshop/internal/model"
)

const notEnoughCoins = "Not enough coins"

type createPaymentRequest struct {
	UserID string `json:"userId"`
	Amount int64  `json:"amount"`
	Coins  int64  `json:"coins"`
}

type buyKeyRequest struct {
	UserID string `json:"userId"`
}

type successResponse struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	PaymentCode string `json:"payment_code,omitempty"`
	Key         string `json:"key,omitempty"`
	NewPrice    int64  `json:"new_price,omitempty"`
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, successResponse{Success: false, Error: msg})
}

// GetPriceHandler handles GET /api/key/price
func (h *HandlerProvider) GetPriceHandler(w http.ResponseWriter, r *http.Request) {
	price, err := h.queries.Price(r.Context())
	if err != nil {
		h.internalError(w, r, "key price", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"price": price})
}

// CreatePaymentHandler handles POST /api/payment/create
func (h *HandlerProvider) CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	err := decodeBody(w, r, &req)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.payments.Create(r.Context(), req.UserID, req.Amount, req.Coins)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}

		h.log.ErrorContext(r.Context(), "create payment failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, PaymentCode: p.Code})
}

// CheckPaymentHandler handles GET /api/payment/check/{code}/{userID}
func (h *HandlerProvider) CheckPaymentHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "payment code required")
		return
	}

	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.payments.Check(r.Context(), code, userID)
	if err != nil {
		h.internalError(w, r, "check payment", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"confirmed": res.Confirmed,
		"coins":     res.Coins,
	})
}

// BuyKeyHandler handles POST /api/buy/key. Business failures are reported
// with HTTP 200 and success=false.
func (h *HandlerProvider) BuyKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req buyKeyRequest
	err := decodeBody(w, r, &req)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.issuance.Purchase(r.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInsufficientFunds):
			writeFailure(w, http.StatusOK, notEnoughCoins)
		case errors.Is(err, model.ErrInvalidInput):
			writeFailure(w, http.StatusBadRequest, err.Error())
		default:
			h.log.ErrorContext(r.Context(), "purchase failed", "error", err)
			writeFailure(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success:  true,
		Key:      res.Key.Value,
		NewPrice: res.NewPrice,
	})
}

// GetStatsHandler handles GET /api/stats
func (h *HandlerProvider) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := h.queries.Stats(r.Context())
	if err != nil {
		h.internalError(w, r, "stats", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"users":         st.Users,
		"keys_sold":     st.KeysSold,
		"total_earned":  st.TotalEarned,
		"current_price": st.CurrentPrice,
	})
}

// RootHandler handles GET /
func (h *HandlerProvider) RootHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "online",
		"message": "Key Shop API Server",
		"endpoints": []string{
			"/api/user/<user_id>",
			"/api/user/<user_id>/profile",
			"/api/user/<user_id>/keys",
			"/api/key/price",
			"/api/payment/create",
			"/api/payment/check/<code>/<user_id>",
			"/api/buy/key",
			"/api/stats",
		},
	})
}

// HealthzHandler handles GET /healthz
func (h *HandlerProvider) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	err := h.queries.Ping(r.Context())
	if err != nil {
		h.log.WarnContext(r.Context(), "health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
