package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/fastprodman/keyshop/internal/model"
)

type userResponse struct {
	Coins    int64  `json:"coins"`
	KeyPrice int64  `json:"keyPrice"`
	Username string `json:"username"`
}

type profileResponse struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	Coins          int64  `json:"coins"`
	TotalPaid      int64  `json:"total_paid"`
	KeysCount      int64  `json:"keys_count"`
	RegisteredDate string `json:"registered_date"`
}

type keyRecordResponse struct {
	KeyValue     string `json:"key_value"`
	PurchaseDate string `json:"purchase_date"`
	Price        int64  `json:"price"`
}

// GetUserHandler handles GET /api/user/{userID}
func (h *HandlerProvider) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.queries.UserSnapshot(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.internalError(w, r, "user snapshot", err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		Coins:    snap.Coins,
		KeyPrice: snap.KeyPrice,
		Username: snap.Username,
	})
}

// GetProfileHandler handles GET /api/user/{userID}/profile
func (h *HandlerProvider) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.queries.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}

		h.internalError(w, r, "profile", err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		UserID:         p.UserID,
		Username:       p.Username,
		FirstName:      p.DisplayName,
		Coins:          p.Coins,
		TotalPaid:      p.LifetimePaid,
		KeysCount:      p.KeysCount,
		RegisteredDate: p.RegisteredAt.UTC().Format(time.RFC3339),
	})
}

// GetKeysHandler handles GET /api/user/{userID}/keys
func (h *HandlerProvider) GetKeysHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.queries.KeyHistory(r.Context(), userID, limit)
	if err != nil {
		h.internalError(w, r, "key history", err)
		return
	}

	out := make([]keyRecordResponse, 0, len(records))
	for _, k := range records {
		out = append(out, keyRecordResponse{
			KeyValue:     k.Value,
			PurchaseDate: k.IssuedAt.UTC().Format(time.RFC3339),
			Price:        k.Price,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
