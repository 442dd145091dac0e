package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/keyshop/internal/model"
)

const maxBodyBytes = 1 << 20

type Queries interface {
	UserSnapshot(ctx context.Context, userID string) (model.UserSnapshot, error)
	Profile(ctx context.Context, userID string) (model.Profile, error)
	KeyHistory(ctx context.Context, userID string, limit int) ([]model.KeyRecord, error)
	Price(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (model.Stats, error)
	Ping(ctx context.Context) error
}

type Payments interface {
	Create(ctx context.Context, userID string, amountCurrency, amountCoins int64) (model.Payment, error)
	Confirm(ctx context.Context, code, confirmerID string) (model.Payment, error)
	Check(ctx context.Context, code, userID string) (model.PaymentCheck, error)
	ListPending(ctx context.Context, limit int) ([]model.Payment, error)
}

type Issuance interface {
	Purchase(ctx context.Context, userID string) (model.Purchase, error)
}

// HandlerProvider exposes the shop services as HTTP handlers.
type HandlerProvider struct {
	queries  Queries
	payments Payments
	issuance Issuance
	log      *slog.Logger
}

func NewHandler(q Queries, p Payments, i Issuance, log *slog.Logger) *HandlerProvider {
	return &HandlerProvider{
		queries:  q,
		payments: p,
		issuance: i,
		log:      log,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError logs err and answers 503 when storage timed out, 500
// otherwise.
func (h *HandlerProvider) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.ErrorContext(r.Context(), op+" failed", slog.Any("error", err))

	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}

	writeError(w, http.StatusInternalServerError, "internal error")
}

// decodeBody reads a JSON body of at most maxBodyBytes into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}

		return errors.New("invalid JSON")
	}

	return nil
}

func userIDFromPath(r *http.Request) (string, error) {
	id := chi.URLParam(r, "userID")

	err := model.ValidateUserID(id)
	if err != nil {
		return "", fmt.Errorf("invalid user_id: %w", err)
	}

	return id, nil
}

// queryLimit parses ?limit=N; absent means 0 (service default).
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer")
	}

	return n, nil
}
