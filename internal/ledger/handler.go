package ledger

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/httpx"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

// Handler wires HTTP endpoints for ledger masters.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledgers", h.handleList)
	r.Post("/ledgers", h.handleCreate)
	r.Put("/ledgers/{id}", h.handleUpdate)
}

type ledgerRequest struct {
	Name         string  `json:"name" validate:"required"`
	Group        string  `json:"group" validate:"required"`
	Balance      float64 `json:"balance" validate:"gte=0"`
	Type         string  `json:"type" validate:"omitempty,oneof=Dr Cr"`
	GSTIN        string  `json:"gstin"`
	Registration string  `json:"registration" validate:"omitempty,oneof=Registered Unregistered Consumer"`
	SameState    bool    `json:"sameState"`
}

func (req ledgerRequest) toLedger(id string) Ledger {
	return Ledger{
		ID:           id,
		Name:         req.Name,
		Group:        req.Group,
		Balance:      req.Balance,
		Type:         BalanceType(req.Type),
		GSTIN:        req.GSTIN,
		Registration: Registration(req.Registration),
		SameState:    req.SameState,
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ledgerRequest, bool) {
	var req ledgerRequest
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
	ledgers, err := h.service.List(r.Context(), shared.CompanyFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, "list ledgers", err)
		return
	}
	if ledgers == nil {
		ledgers = []Ledger{}
	}
	httpx.JSON(w, http.StatusOK, ledgers)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), shared.CompanyFromContext(r.Context()), req.toLedger(""))
	if err != nil {
		h.fail(w, r, "create ledger", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), shared.CompanyFromContext(r.Context()), req.toLedger(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, "update ledger", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, ErrDuplicateName):
		httpx.Problem(w, http.StatusConflict, "duplicate ledger", err.Error())
	case errors.Is(err, ErrNegativeBalance):
		httpx.Problem(w, http.StatusUnprocessableEntity, "invalid balance", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "")
	}
}
