package gst

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/httpx"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

// Handler wires HTTP endpoints for GST reporting.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs gst handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers gst routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/gst", h.handleReport)
}

// handleReport serves the aggregated report, cached unless ?fresh=true.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	company := shared.CompanyFromContext(r.Context())
	fresh, _ := strconv.ParseBool(r.URL.Query().Get("fresh"))

	var (
		report Report
		err    error
	)
	if fresh {
		report, err = h.service.Warm(r.Context(), company)
	} else {
		report, err = h.service.BuildCached(r.Context(), company)
	}
	if err != nil {
		h.logger.Error("build gst report", slog.Any("error", err), slog.String("company", company))
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
