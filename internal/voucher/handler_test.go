package voucher

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/docstore"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	r := chi.NewRouter()
	NewHandler(slog.Default(), svc).MountRoutes(r)
	return r, svc
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(shared.ContextWithCompany(req.Context(), company))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandlerPostCreatesVoucher(t *testing.T) {
	router, svc := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/vouchers", salesVoucher("INV-001"))
	require.Equal(t, http.StatusCreated, rr.Code)

	var posted Voucher
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posted))
	require.NotEmpty(t, posted.ID)
	require.Equal(t, "INV-001", posted.Number)

	vouchers, err := svc.List(context.Background(), company)
	require.NoError(t, err)
	require.Len(t, vouchers, 1)
}

func TestHandlerPostRejectsEmptyRows(t *testing.T) {
	router, _ := newTestRouter(t)

	v := salesVoucher("INV-001")
	v.Rows = nil
	rr := doJSON(t, router, http.MethodPost, "/vouchers", v)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHandlerRemoveUnknownReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodDelete, "/vouchers/missing", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerNextNumber(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/vouchers/next-number?type=Sales", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "1", resp["number"])

	rr = doJSON(t, router, http.MethodGet, "/vouchers/next-number", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerPurgeReportsPartialCompletion(t *testing.T) {
	router, svc := newTestRouter(t)

	posted, err := svc.Post(context.Background(), company, salesVoucher("INV-001"))
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodPost, "/vouchers/purge", map[string]any{
		"ids": []string{posted.ID, "missing"},
	})
	require.Equal(t, http.StatusMultiStatus, rr.Code)

	var resp purgeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Requested)
	require.Equal(t, 1, resp.Completed)
	require.NotEmpty(t, resp.Error)
}
