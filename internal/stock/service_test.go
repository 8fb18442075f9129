package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/docstore"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewStore(docstore.NewMemory()), nil)
	svc.WithNow(func() time.Time {
		return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	})
	return svc
}

func TestCreateDerivesOpeningValue(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), "acme", Item{
		Name:        "Widget",
		Unit:        "Nos",
		OpeningQty:  10,
		OpeningRate: 100,
		TaxRate:     18,
		HSNCode:     "8471",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, 1000.0, created.OpeningValue)
	require.Equal(t, 10.0, created.Balance())
	require.Equal(t, 100.0, created.Rate())
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "acme", Item{Name: "Widget"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "acme", Item{Name: "Widget"})
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestCreateValidatesTaxRate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), "acme", Item{Name: "Widget", TaxRate: 150})
	require.Error(t, err)
}

func TestUpdateLeavesValuationStateAlone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "acme", Item{
		Name:        "Widget",
		OpeningQty:  10,
		OpeningRate: 100,
	})
	require.NoError(t, err)

	items, err := svc.List(ctx, "acme")
	require.NoError(t, err)
	ApplySale(&items[0], 4, 1)
	require.NoError(t, svc.store.Replace(ctx, "acme", items))

	updated, err := svc.Update(ctx, "acme", Item{
		ID:      created.ID,
		Name:    "Widget Mk II",
		Unit:    "Box",
		TaxRate: 12,
		HSNCode: "8473",
	})
	require.NoError(t, err)
	require.Equal(t, "Widget Mk II", updated.Name)
	require.Equal(t, 12.0, updated.TaxRate)
	require.Equal(t, 6.0, updated.Balance())
	require.Equal(t, 600.0, updated.Value())
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), "acme", Item{ID: "missing", Name: "Widget"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
