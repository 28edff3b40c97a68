package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

var timeZero time.Time

type Mailer interface {
	SendReceiptEmail(to string, bill model.BillDetail) error
	SendDailyReportEmail(to string, report model.RevenueReport) error
}

// BillSource reads what the job handlers report on.
type BillSource interface {
	GetBillDetail(ctx context.Context, billID int) (*model.BillDetail, error)
	RevenueReport(ctx context.Context, from, to time.Time) (*model.RevenueReport, error)
}

// InitHandlers wires the dependencies the task handlers use.
func (j *JobService) InitHandlers(mailer Mailer, bills BillSource) {
	j.mailer = mailer
	j.bills = bills
}

func (j *JobService) handleBillReceiptTask(ctx context.Context, t *asynq.Task) error {
	var p BillReceiptPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal receipt payload: %w: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", TaskBillReceipt).
		Int("bill_id", p.BillID).
		Logger()

	logger.Info().Msg("processing receipt task")

	bill, err := j.bills.GetBillDetail(ctx, p.BillID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load bill for receipt")
		return err
	}

	if err := j.mailer.SendReceiptEmail(p.To, *bill); err != nil {
		logger.Error().Err(err).Msg("failed to send receipt email")
		return err
	}

	logger.Info().Msg("receipt email sent")
	return nil
}

func (j *JobService) handleDailyReportTask(ctx context.Context, t *asynq.Task) error {
	var p DailyReportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal report payload: %w: %w", err, asynq.SkipRetry)
	}

	from, to, err := reportWindow(p, time.Now(), time.Local)
	if err != nil {
		return fmt.Errorf("invalid report date %q: %w: %w", p.Date, err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", TaskDailyReport).
		Time("from", from).
		Logger()

	logger.Info().Msg("processing daily report task")

	report, err := j.bills.RevenueReport(ctx, from, to)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build revenue report")
		return err
	}

	if err := j.mailer.SendDailyReportEmail(p.To, *report); err != nil {
		logger.Error().Err(err).Msg("failed to send revenue report")
		return err
	}

	logger.Info().
		Int("bill_count", report.BillCount).
		Float64("net_total", report.NetTotal).
		Msg("daily report sent")
	return nil
}
