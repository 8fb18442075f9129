package voucher

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/httpx"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

// Handler wires HTTP endpoints for the posting engine.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs voucher handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers voucher routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/vouchers", h.handleList)
	r.Post("/vouchers", h.handlePost)
	r.Put("/vouchers/{id}", h.handleReplace)
	r.Delete("/vouchers/{id}", h.handleRemove)
	r.Post("/vouchers/purge", h.handlePurge)
	r.Get("/vouchers/next-number", h.handleNextNumber)
}

type allocationRequest struct {
	ItemName string  `json:"itemName" validate:"required"`
	Qty      float64 `json:"qty" validate:"gt=0"`
	Unit     string  `json:"unit"`
	Rate     float64 `json:"rate" validate:"gte=0"`
	Amount   float64 `json:"amount" validate:"gte=0"`
	Batch    string  `json:"batch"`
	Expiry   string  `json:"expiry"`
}

type rowRequest struct {
	Side        string              `json:"side" validate:"required,oneof=Dr Cr"`
	LedgerName  string              `json:"ledgerName" validate:"required"`
	Debit       float64             `json:"debit" validate:"gte=0"`
	Credit      float64             `json:"credit" validate:"gte=0"`
	Allocations []allocationRequest `json:"allocations" validate:"omitempty,dive"`
}

type voucherRequest struct {
	Number    string       `json:"number"`
	Date      time.Time    `json:"date" validate:"required"`
	Type      string       `json:"type" validate:"required"`
	Narration string       `json:"narration"`
	Rows      []rowRequest `json:"rows" validate:"required,min=1,dive"`
}

func (req voucherRequest) toVoucher(id string) Voucher {
	v := Voucher{
		ID:        id,
		Number:    req.Number,
		Date:      req.Date,
		Type:      Type(req.Type),
		Narration: req.Narration,
	}
	for _, row := range req.Rows {
		out := Row{
			Side:       Side(row.Side),
			LedgerName: row.LedgerName,
			Debit:      row.Debit,
			Credit:     row.Credit,
		}
		for _, alloc := range row.Allocations {
			out.Allocations = append(out.Allocations, Allocation{
				ItemName: alloc.ItemName,
				Qty:      alloc.Qty,
				Unit:     alloc.Unit,
				Rate:     alloc.Rate,
				Amount:   alloc.Amount,
				Batch:    alloc.Batch,
				Expiry:   alloc.Expiry,
			})
		}
		v.Rows = append(v.Rows, out)
	}
	return v
}

func (h *Handler) decodeVoucher(w http.ResponseWriter, r *http.Request) (voucherRequest, bool) {
	var req voucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid request body", err.Error())
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "validation failed", err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.service.List(r.Context(), shared.CompanyFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, "list vouchers", err)
		return
	}
	if vouchers == nil {
		vouchers = []Voucher{}
	}
	httpx.JSON(w, http.StatusOK, vouchers)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeVoucher(w, r)
	if !ok {
		return
	}
	posted, err := h.service.Post(r.Context(), shared.CompanyFromContext(r.Context()), req.toVoucher(""))
	if err != nil {
		h.fail(w, r, "post voucher", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, posted)
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := h.decodeVoucher(w, r)
	if !ok {
		return
	}
	replaced, err := h.service.Replace(r.Context(), shared.CompanyFromContext(r.Context()), req.toVoucher(id))
	if err != nil {
		h.fail(w, r, "replace voucher", err)
		return
	}
	httpx.JSON(w, http.StatusOK, replaced)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), shared.CompanyFromContext(r.Context()), id); err != nil {
		h.fail(w, r, "remove voucher", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type purgeRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type purgeResponse struct {
	Requested int    `json:"requested"`
	Completed int    `json:"completed"`
	Error     string `json:"error,omitempty"`
}

// handlePurge deletes a batch of vouchers best effort and reports how many
// completed; a partial failure is a 207, not an abort.
func (h *Handler) handlePurge(w http.ResponseWriter, r *http.Request) {
	var req purgeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "validation failed", err.Error())
		return
	}
	completed, err := h.service.RemoveMany(r.Context(), shared.CompanyFromContext(r.Context()), req.IDs)
	resp := purgeResponse{Requested: len(req.IDs), Completed: completed}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusMultiStatus
	}
	httpx.JSON(w, status, resp)
}

func (h *Handler) handleNextNumber(w http.ResponseWriter, r *http.Request) {
	vtype := Type(r.URL.Query().Get("type"))
	if vtype == "" {
		httpx.Problem(w, http.StatusBadRequest, "missing voucher type", "query parameter type is required")
		return
	}
	number, err := h.service.NextNumber(r.Context(), shared.CompanyFromContext(r.Context()), vtype)
	if err != nil {
		h.fail(w, r, "next number", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"number": number})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "not found", err.Error())
		return
	}
	if errors.Is(err, ErrUnbalanced) {
		httpx.Problem(w, http.StatusUnprocessableEntity, "unbalanced voucher", err.Error())
		return
	}
	h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	httpx.Problem(w, http.StatusInternalServerError, "internal error", "")
}
