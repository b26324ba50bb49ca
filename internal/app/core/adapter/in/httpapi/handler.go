package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
)

type Response struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SummaryResponse 帳本總覽
type SummaryResponse struct {
	RunID            uuid.UUID       `json:"run_id"`
	GeneratedAt      time.Time       `json:"generated_at"`
	PrimeRate        decimal.Decimal `json:"prime_rate"`
	TransactionCount uint64          `json:"transaction_count"`
	TotalTender      domain.Money    `json:"total_tender"`
	Customers        int             `json:"customers"`
}

type handler struct {
	source SnapshotSource
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.source.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{
		RunID:            snapshot.RunID,
		GeneratedAt:      snapshot.GeneratedAt,
		PrimeRate:        snapshot.PrimeRate,
		TransactionCount: snapshot.TransactionCount,
		TotalTender:      snapshot.TotalTender,
		Customers:        len(snapshot.Customers),
	})
}

func (h *handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.source.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot.Customers)
}

func (h *handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookupCustomer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// getAccount slot 與交易日誌相同: 0 為主帳戶，1 為副帳戶
func (h *handler) getAccount(w http.ResponseWriter, r *http.Request) {
	var slot domain.Slot
	switch mux.Vars(r)["slot"] {
	case "0":
		slot = domain.SlotPrimary
	case "1":
		slot = domain.SlotSecondary
	default:
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "slot must be 0 or 1")
		return
	}
	customer, ok := h.lookupCustomer(w, r)
	if !ok {
		return
	}
	account, ok := customer.Account(slot)
	if !ok {
		writeError(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", domain.ErrAccountNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// lookupCustomer 找不到時已寫入錯誤回應
func (h *handler) lookupCustomer(w http.ResponseWriter, r *http.Request) (domain.CustomerView, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid customer id")
		return domain.CustomerView{}, false
	}
	snapshot, err := h.source.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return domain.CustomerView{}, false
	}
	customer, ok := snapshot.Customer(uint(id))
	if !ok {
		writeError(w, http.StatusNotFound, "CUSTOMER_NOT_FOUND", domain.ErrCustomerNotFound.Error())
		return domain.CustomerView{}, false
	}
	return customer, true
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Data: data})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Error: &Error{Code: code, Message: message}})
}
