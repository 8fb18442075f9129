package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
)

const (
	// TaskVoucherPurge removes a batch of vouchers, reversing their balances.
	TaskVoucherPurge = "voucher:purge"
)

// VoucherPurgePayload identifies the vouchers to remove.
type VoucherPurgePayload struct {
	Company    string   `json:"company"`
	VoucherIDs []string `json:"voucherIds"`
}

// NewVoucherPurgeTask constructs an Asynq task for a bulk voucher removal.
func NewVoucherPurgeTask(company string, ids []string) (*asynq.Task, error) {
	payload := VoucherPurgePayload{Company: company, VoucherIDs: ids}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVoucherPurge, body, asynq.Queue(QueueDefault)), nil
}

// VoucherPurgeHandler processes TaskVoucherPurge tasks against the given
// service. Removal is best effort; a partial failure is logged and returned
// so the remaining vouchers are retried on the next attempt.
func VoucherPurgeHandler(service *voucher.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload VoucherPurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		completed, err := service.RemoveMany(ctx, payload.Company, payload.VoucherIDs)
		if err != nil {
			logger.Error("voucher purge",
				slog.String("company", payload.Company),
				slog.Int("requested", len(payload.VoucherIDs)),
				slog.Int("completed", completed),
				slog.Any("error", err))
			return err
		}
		logger.Info("voucher purge",
			slog.String("company", payload.Company),
			slog.Int("completed", completed))
		return nil
	}
}
