package reports

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/httpx"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

const dateLayout = "2006-01-02"

// Handler wires HTTP endpoints for ledger statements.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs reports handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledgers/{name}/statement", h.handleStatement)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	q := r.URL.Query()
	from, err := parseDate(q.Get("from"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid from date", err.Error())
		return
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid to date", err.Error())
		return
	}
	statement, err := h.service.Statement(r.Context(), shared.CompanyFromContext(r.Context()), name, from, to)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "not found", err.Error())
			return
		}
		h.logger.Error("build statement", slog.Any("error", err), slog.String("ledger", name))
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, statement)
}
