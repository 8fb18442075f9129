package stock

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/httpx"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

// Handler wires HTTP endpoints for stock item masters.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs stock handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers stock routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stock-items", h.handleList)
	r.Post("/stock-items", h.handleCreate)
	r.Put("/stock-items/{id}", h.handleUpdate)
}

type itemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Unit        string  `json:"unit"`
	OpeningQty  float64 `json:"openingQty" validate:"gte=0"`
	OpeningRate float64 `json:"openingRate" validate:"gte=0"`
	TaxRate     float64 `json:"taxRate" validate:"gte=0,lte=100"`
	HSNCode     string  `json:"hsnCode"`
}

func (req itemRequest) toItem(id string) Item {
	return Item{
		ID:          id,
		Name:        req.Name,
		Unit:        req.Unit,
		OpeningQty:  req.OpeningQty,
		OpeningRate: req.OpeningRate,
		TaxRate:     req.TaxRate,
		HSNCode:     req.HSNCode,
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (itemRequest, bool) {
	var req itemRequest
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
	items, err := h.service.List(r.Context(), shared.CompanyFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, "list stock items", err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), shared.CompanyFromContext(r.Context()), req.toItem(""))
	if err != nil {
		h.fail(w, r, "create stock item", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), shared.CompanyFromContext(r.Context()), req.toItem(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, "update stock item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, ErrDuplicateName):
		httpx.Problem(w, http.StatusConflict, "duplicate stock item", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "")
	}
}
