package ledger

import (
	"context"
	"errors"
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

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "acme", Ledger{
		Name:    "Cash",
		Group:   "Cash-in-Hand",
		Balance: 1000,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, TypeDebit, created.Type)
	require.Equal(t, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), created.CreatedAt)

	got, err := svc.Get(ctx, "acme", "Cash")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "acme", Ledger{Name: "Cash", Group: "Cash-in-Hand"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "acme", Ledger{Name: "Cash", Group: "Cash-in-Hand"})
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestCreateRejectsNegativeOpeningBalance(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), "acme", Ledger{
		Name:    "Cash",
		Group:   "Cash-in-Hand",
		Balance: -5,
	})
	require.ErrorIs(t, err, ErrNegativeBalance)
}

func TestUpdateLeavesPostingStateAlone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "acme", Ledger{
		Name:    "Acme Traders",
		Group:   GroupSundryDebtors,
		Balance: 500,
		Type:    TypeCredit,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "acme", Ledger{
		ID:           created.ID,
		Name:         "Acme Traders Pvt Ltd",
		Group:        GroupSundryDebtors,
		GSTIN:        "27AAACA1234A1Z5",
		Registration: RegistrationRegistered,
		SameState:    true,
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Traders Pvt Ltd", updated.Name)
	require.Equal(t, "27AAACA1234A1Z5", updated.GSTIN)
	require.Equal(t, 500.0, updated.Balance)
	require.Equal(t, TypeCredit, updated.Type)
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), "acme", Ledger{
		ID:    "missing",
		Name:  "Cash",
		Group: "Cash-in-Hand",
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCompaniesAreIsolated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "acme", Ledger{Name: "Cash", Group: "Cash-in-Hand"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "globex", "Cash")
	require.True(t, errors.Is(err, shared.ErrNotFound))

	others, err := svc.List(ctx, "globex")
	require.NoError(t, err)
	require.Empty(t, others)
}
