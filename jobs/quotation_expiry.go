package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/artha-erp/artha/internal/platform/db"
)

// QuotationExpiryJob flips overdue sent quotations to expired in one
// set-based statement; soft-deleted rows are left alone.
type QuotationExpiryJob struct {
	db     db.Executor
	logger *slog.Logger
	clock  func() time.Time
}

// NewQuotationExpiryJob wires dependencies for the expiry handler.
func NewQuotationExpiryJob(executor db.Executor, logger *slog.Logger) *QuotationExpiryJob {
	return &QuotationExpiryJob{
		db:     executor,
		logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes quotation expiry tasks.
func (j *QuotationExpiryJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.db == nil {
		return errors.New("quotation expiry: handler not configured")
	}
	var payload QuotationExpirePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	before := payload.Before
	if before.IsZero() {
		before = j.clock()
	}

	tag, err := j.db.Exec(ctx, `UPDATE quotations SET status = 'expired', updated_at = NOW()
WHERE status = 'sent' AND valid_until IS NOT NULL AND valid_until < $1 AND deleted_at IS NULL`, before)
	if err != nil {
		j.logger.Error("expire quotations", slog.Any("error", err))
		return err
	}
	if expired := tag.RowsAffected(); expired > 0 {
		j.logger.Info("expired overdue quotations", slog.Int64("count", expired))
	}
	return nil
}
