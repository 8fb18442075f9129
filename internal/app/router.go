package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerbook-erp/ledgerbook/internal/gst"
	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/observability"
	"github.com/ledgerbook-erp/ledgerbook/internal/reports"
	"github.com/ledgerbook-erp/ledgerbook/internal/stock"
	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
	"github.com/ledgerbook-erp/ledgerbook/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	LedgerHandler  *ledger.Handler
	StockHandler   *stock.Handler
	VoucherHandler *voucher.Handler
	GSTHandler     *gst.Handler
	ReportsHandler *reports.Handler
	JobsHandler    *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Ledgerbook defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.LedgerHandler != nil {
		params.LedgerHandler.MountRoutes(r)
	}
	if params.StockHandler != nil {
		params.StockHandler.MountRoutes(r)
	}
	if params.VoucherHandler != nil {
		params.VoucherHandler.MountRoutes(r)
	}
	if params.GSTHandler != nil {
		params.GSTHandler.MountRoutes(r)
	}
	if params.ReportsHandler != nil {
		params.ReportsHandler.MountRoutes(r)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
