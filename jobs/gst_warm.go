package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ledgerbook-erp/ledgerbook/internal/gst"
)

const (
	// TaskGSTWarm rebuilds the cached GST report for a company book.
	TaskGSTWarm = "gst:warm"
)

// GSTWarmPayload names the company book whose report cache is refreshed.
type GSTWarmPayload struct {
	Company      string    `json:"company"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewGSTWarmTask constructs an Asynq task for a GST cache refresh.
func NewGSTWarmTask(company string, at time.Time) (*asynq.Task, error) {
	payload := GSTWarmPayload{Company: company, ScheduledFor: at}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGSTWarm, body, asynq.Queue(QueueDefault)), nil
}

// GSTWarmHandler processes TaskGSTWarm tasks against the given service.
func GSTWarmHandler(service *gst.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload GSTWarmPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		report, err := service.Warm(ctx, payload.Company)
		if err != nil {
			logger.Error("gst warm", slog.String("company", payload.Company), slog.Any("error", err))
			return err
		}
		logger.Info("gst warm",
			slog.String("company", payload.Company),
			slog.Int("vouchers", report.Total))
		return nil
	}
}
