package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	raw, err := store.Read(ctx, TableLedgers, "acme")
	require.NoError(t, err)
	require.Nil(t, raw)

	err = WriteRecords(ctx, store, TableLedgers, []record{{ID: "1", Name: "Cash"}}, "acme")
	require.NoError(t, err)

	records, err := ReadRecords[record](ctx, store, TableLedgers, "acme")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Cash", records[0].Name)

	// Scope isolation.
	records, err = ReadRecords[record](ctx, store, TableLedgers, "other")
	require.NoError(t, err)
	require.Nil(t, records)
}

func TestMemoryCopiesPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	payload := []byte(`[{"id":"1"}]`)
	require.NoError(t, store.Write(ctx, TableVouchers, payload, ""))
	payload[2] = 'x'

	raw, err := store.Read(ctx, TableVouchers, "")
	require.NoError(t, err)
	require.Equal(t, []byte(`[{"id":"1"}]`), raw)
}

func TestRedisRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := NewRedis(client)

	raw, err := store.Read(ctx, TableStockItems, "acme")
	require.NoError(t, err)
	require.Nil(t, raw)

	err = WriteRecords(ctx, store, TableStockItems, []record{{ID: "s1", Name: "Widget"}}, "acme")
	require.NoError(t, err)

	records, err := ReadRecords[record](ctx, store, TableStockItems, "acme")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "s1", records[0].ID)

	require.True(t, srv.Exists("docstore:acme:stock_items"))
}

func TestWrapPgErrorClassifiesMissingTable(t *testing.T) {
	missing := fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgUndefinedTable})
	err := wrapPgError("read", TableLedgers, missing)
	require.ErrorIs(t, err, shared.ErrStoreNotInitialized)

	other := wrapPgError("write", TableVouchers, errors.New("connection reset"))
	require.NotErrorIs(t, other, shared.ErrStoreNotInitialized)
	require.Contains(t, other.Error(), "docstore: write vouchers")
}

func TestWriteRecordsNilBecomesEmptyList(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, WriteRecords[record](ctx, store, TableLedgers, nil, ""))

	raw, err := store.Read(ctx, TableLedgers, "")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(raw))
}
