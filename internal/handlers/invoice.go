package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/diewo77/paytrack/internal/httpx"
	"github.com/diewo77/paytrack/internal/logger"
	"github.com/diewo77/paytrack/internal/models"
	"github.com/diewo77/paytrack/internal/money"
	"github.com/diewo77/paytrack/internal/services"
	"github.com/diewo77/paytrack/internal/store"
	"github.com/diewo77/paytrack/internal/validation"
)

// InvoiceHandler exposes the invoice service as a JSON API.
type InvoiceHandler struct {
	Svc *services.InvoiceService
	log zerolog.Logger
}

func NewInvoiceHandler(svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Svc: svc, log: logger.WithComponent("http")}
}

// maxBodyBytes caps request bodies; amounts are short decimal strings.
const maxBodyBytes = 4 << 10

type PaymentView struct {
	ID          uint      `json:"id"`
	InvoiceID   uint      `json:"invoice_id"`
	Amount      string    `json:"amount"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	MethodCode  int       `json:"method_code"`
	CreatedAt   time.Time `json:"created_at"`
}

type InvoiceView struct {
	ID              uint          `json:"id"`
	Total           string        `json:"total"`
	TotalCents      int64         `json:"total_cents"`
	AmountOwed      string        `json:"amount_owed"`
	AmountOwedCents int64         `json:"amount_owed_cents"`
	FullyPaid       bool          `json:"fully_paid"`
	Overpaid        bool          `json:"overpaid"`
	Payments        []PaymentView `json:"payments"`
	CreatedAt       time.Time     `json:"created_at"`
}

func NewPaymentView(p *models.Payment) PaymentView {
	return PaymentView{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount().StringFixed(2),
		AmountCents: p.AmountCents,
		Method:      p.Method(),
		MethodCode:  int(p.MethodCode),
		CreatedAt:   p.CreatedAt,
	}
}

func NewInvoiceView(inv *models.Invoice) InvoiceView {
	v := InvoiceView{
		ID:              inv.ID,
		Total:           inv.Total().StringFixed(2),
		TotalCents:      inv.TotalCents,
		AmountOwed:      inv.AmountOwed().StringFixed(2),
		AmountOwedCents: inv.AmountOwedCents(),
		FullyPaid:       inv.IsFullyPaid(),
		Overpaid:        inv.IsOverpaid(),
		Payments:        make([]PaymentView, 0, len(inv.Payments)),
		CreatedAt:       inv.CreatedAt,
	}
	for i := range inv.Payments {
		v.Payments = append(v.Payments, NewPaymentView(&inv.Payments[i]))
	}
	return v
}

// Create: POST /invoices {"total":"100.00"}
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Total decimal.NullDecimal `json:"total"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	total, err := money.FromNullable(req.Total)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	inv, err := h.Svc.CreateInvoice(r.Context(), total)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, NewInvoiceView(inv))
}

// View: GET /invoices/{id}
func (h *InvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	inv, err := h.Svc.GetInvoice(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewInvoiceView(inv))
}

// Delete: DELETE /invoices/{id}, payments included
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.DeleteInvoice(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordPayment: POST /invoices/{id}/payments {"amount":"40.00","method":"cash"}
func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.NullDecimal `json:"amount"`
		Method string              `json:"method"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	amount, err := money.FromNullable(req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Svc.RecordPayment(r.Context(), id, amount, req.Method)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, NewPaymentView(p))
}

func invoiceID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}

func (h *InvoiceHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusBadRequest, validation.ErrValidation.Error(), ve.Violations)
	case errors.Is(err, validation.ErrInvalidAmount):
		httpx.JSONError(w, http.StatusBadRequest, validation.ErrInvalidAmount.Error(), err.Error())
	case errors.Is(err, validation.ErrInvalidPaymentMethod):
		httpx.JSONError(w, http.StatusBadRequest, validation.ErrInvalidPaymentMethod.Error(), err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, store.ErrNotFound.Error(), nil)
	case errors.Is(err, services.ErrExceedsBalance):
		httpx.JSONError(w, http.StatusConflict, services.ErrExceedsBalance.Error(), err.Error())
	default:
		log := logger.FromContext(r.Context(), h.log)
		log.Error().Err(err).Msg("request failed")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
