package gst

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/stock"
	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
)

// Service builds GST reports over the document store, optionally caching
// the aggregated result in Redis.
type Service struct {
	ledgers  *ledger.Store
	items    *stock.Store
	vouchers *voucher.Store
	rules    Rules
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewService builds Service. cache may be nil to disable caching.
func NewService(ledgers *ledger.Store, items *stock.Store, vouchers *voucher.Store, rules Rules, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Service{ledgers: ledgers, items: items, vouchers: vouchers, rules: rules, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Rules exposes the active rule set.
func (s *Service) Rules() Rules {
	return s.rules
}

// ClassifyVoucher classifies a single voucher against current masters.
func (s *Service) ClassifyVoucher(ctx context.Context, company string, v voucher.Voucher) (Classification, error) {
	ledgers, items, _, err := s.loadTables(ctx, company, false)
	if err != nil {
		return Classification{}, err
	}
	return Classify(v, ledger.Index(ledgers), stock.Index(items), s.rules), nil
}

// Build aggregates the scope's full voucher history into a report.
func (s *Service) Build(ctx context.Context, company string) (Report, error) {
	ledgers, items, vouchers, err := s.loadTables(ctx, company, true)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(vouchers, ledgers, items, s.rules), nil
}

// BuildCached reads the report through the Redis cache. A cache miss or a
// cache error falls back to a fresh build.
func (s *Service) BuildCached(ctx context.Context, company string) (Report, error) {
	if s.cache == nil {
		return s.Build(ctx, company)
	}
	key := cacheKey(company)
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err == nil {
		var report Report
		if err := json.Unmarshal(raw, &report); err == nil {
			return report, nil
		}
		s.logger.Warn("gst report cache entry corrupt, rebuilding", slog.String("company", company))
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("gst report cache read failed", slog.Any("error", err))
	}

	report, err := s.Build(ctx, company)
	if err != nil {
		return Report{}, err
	}
	s.storeCache(ctx, company, report)
	return report, nil
}

// Warm rebuilds the report and refreshes the cache entry. Used by the
// background worker.
func (s *Service) Warm(ctx context.Context, company string) (Report, error) {
	report, err := s.Build(ctx, company)
	if err != nil {
		return Report{}, err
	}
	s.storeCache(ctx, company, report)
	return report, nil
}

func (s *Service) storeCache(ctx context.Context, company string, report Report) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(company), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("gst report cache write failed", slog.Any("error", err))
	}
}

func cacheKey(company string) string {
	return fmt.Sprintf("gst:report:%s", company)
}

// loadTables reads masters (and optionally the voucher history)
// concurrently. Reads do not interleave with writers by assumption.
func (s *Service) loadTables(ctx context.Context, company string, withVouchers bool) ([]ledger.Ledger, []stock.Item, []voucher.Voucher, error) {
	var (
		ledgers  []ledger.Ledger
		items    []stock.Item
		vouchers []voucher.Voucher
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ledgers, err = s.ledgers.List(ctx, company)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.items.List(ctx, company)
		return err
	})
	if withVouchers {
		g.Go(func() error {
			var err error
			vouchers, err = s.vouchers.List(ctx, company)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return ledgers, items, vouchers, nil
}
