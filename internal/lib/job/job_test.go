package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

type fakeMailer struct {
	receipts []string
	reports  []model.RevenueReport
	err      error
}

func (m *fakeMailer) SendReceiptEmail(to string, _ model.BillDetail) error {
	m.receipts = append(m.receipts, to)
	return m.err
}

func (m *fakeMailer) SendDailyReportEmail(_ string, report model.RevenueReport) error {
	m.reports = append(m.reports, report)
	return m.err
}

type fakeBills struct {
	from, to time.Time
}

func (b *fakeBills) GetBillDetail(_ context.Context, billID int) (*model.BillDetail, error) {
	if billID != 7 {
		return nil, errors.New("bill not found")
	}
	return &model.BillDetail{Bill: model.Bill{ID: 7}, TableName: "Table 1"}, nil
}

func (b *fakeBills) RevenueReport(_ context.Context, from, to time.Time) (*model.RevenueReport, error) {
	b.from, b.to = from, to
	return &model.RevenueReport{From: from, To: to, BillCount: 2, NetTotal: 41.6}, nil
}

func newTestJobService(m Mailer, b BillSource) *JobService {
	logger := zerolog.Nop()
	j := &JobService{logger: &logger}
	j.InitHandlers(m, b)
	return j
}

func TestHandleBillReceiptTask(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer, &fakeBills{})

	task, err := NewBillReceiptTask(7, "guest@example.com")
	require.NoError(t, err)

	require.NoError(t, j.handleBillReceiptTask(context.Background(), task))
	assert.Equal(t, []string{"guest@example.com"}, mailer.receipts)

	missing, err := NewBillReceiptTask(8, "guest@example.com")
	require.NoError(t, err)
	assert.Error(t, j.handleBillReceiptTask(context.Background(), missing))
}

func TestHandleBillReceiptTask_BadPayloadSkipsRetry(t *testing.T) {
	j := newTestJobService(&fakeMailer{}, &fakeBills{})

	err := j.handleBillReceiptTask(context.Background(), asynq.NewTask(TaskBillReceipt, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleDailyReportTask_ExplicitDate(t *testing.T) {
	mailer := &fakeMailer{}
	bills := &fakeBills{}
	j := newTestJobService(mailer, bills)

	payload, err := json.Marshal(DailyReportPayload{To: "manager@example.com", Date: "2024-05-01"})
	require.NoError(t, err)

	require.NoError(t, j.handleDailyReportTask(context.Background(), asynq.NewTask(TaskDailyReport, payload)))
	require.Len(t, mailer.reports, 1)
	assert.Equal(t, "2024-05-01", bills.from.Format(dateLayout))
	assert.Equal(t, 24*time.Hour, bills.to.Sub(bills.from))
}

func TestHandleDailyReportTask_InvalidDate(t *testing.T) {
	j := newTestJobService(&fakeMailer{}, &fakeBills{})

	payload, err := json.Marshal(DailyReportPayload{To: "manager@example.com", Date: "May 1"})
	require.NoError(t, err)

	err = j.handleDailyReportTask(context.Background(), asynq.NewTask(TaskDailyReport, payload))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestReportWindow_DefaultsToYesterday(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 5, 2, 6, 0, 0, 0, loc)

	from, to, err := reportWindow(DailyReportPayload{}, now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, loc), to)
}

func TestNewDailyReportTask_ZeroDayOmitsDate(t *testing.T) {
	task, err := NewDailyReportTask("manager@example.com", time.Time{})
	require.NoError(t, err)

	var p DailyReportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Empty(t, p.Date)
	assert.Equal(t, TaskDailyReport, task.Type())
}

func TestStart_RequiresHandlers(t *testing.T) {
	logger := zerolog.Nop()
	j := &JobService{logger: &logger}
	assert.Error(t, j.Start())
}
