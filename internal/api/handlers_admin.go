package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/keyshop/internal/model"
)

type confirmRequest struct {
	AdminID string `json:"adminId"`
}

type paymentResponse struct {
	Code        string  `json:"payment_code"`
	UserID      string  `json:"user_id"`
	Amount      int64   `json:"amount"`
	Coins       int64   `json:"coins"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_date"`
	ConfirmedAt *string `json:"confirmed_date"`
	ConfirmedBy *string `json:"confirmed_by"`
}

func toPaymentResponse(p model.Payment) paymentResponse {
	out := paymentResponse{
		Code:        p.Code,
		UserID:      p.UserID,
		Amount:      p.AmountCurrency,
		Coins:       p.AmountCoins,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		ConfirmedBy: p.ConfirmerID,
	}
	if p.ConfirmedAt != nil {
		s := p.ConfirmedAt.UTC().Format(time.RFC3339)
		out.ConfirmedAt = &s
	}

	return out
}

// ConfirmPaymentHandler handles POST /api/admin/payment/{code}/confirm
func (h *HandlerProvider) ConfirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req confirmRequest
	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.payments.Confirm(r.Context(), code, req.AdminID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPaymentNotFound):
			writeError(w, http.StatusNotFound, "payment not found")
		case errors.Is(err, model.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.internalError(w, r, "confirm payment", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

// ListPendingHandler handles GET /api/admin/payments/pending
func (h *HandlerProvider) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.payments.ListPending(r.Context(), limit)
	if err != nil {
		h.internalError(w, r, "list pending payments", err)
		return
	}

	out := make([]paymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}

	writeJSON(w, http.StatusOK, out)
}
