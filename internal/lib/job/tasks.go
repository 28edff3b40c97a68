package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskBillReceipt = "bill:receipt"
	TaskDailyReport = "report:daily"
)

type BillReceiptPayload struct {
	BillID int    `json:"bill_id"`
	To     string `json:"to"`
}

// DailyReportPayload names the day to report as YYYY-MM-DD. An empty Date
// means yesterday, which is what the scheduler enqueues.
type DailyReportPayload struct {
	To   string `json:"to"`
	Date string `json:"date,omitempty"`
}

const dateLayout = "2006-01-02"

func NewBillReceiptTask(billID int, to string) (*asynq.Task, error) {
	payload, err := json.Marshal(BillReceiptPayload{BillID: billID, To: to})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBillReceipt,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("critical"),
		asynq.Timeout(30*time.Second),
	), nil
}

func NewDailyReportTask(to string, day time.Time) (*asynq.Task, error) {
	p := DailyReportPayload{To: to}
	if !day.IsZero() {
		p.Date = day.Format(dateLayout)
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskDailyReport,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue("low"),
		asynq.Timeout(2*time.Minute),
	), nil
}

// reportWindow returns [start of day, start of next day) in loc.
func reportWindow(p DailyReportPayload, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	var day time.Time
	if p.Date == "" {
		y, m, d := now.In(loc).AddDate(0, 0, -1).Date()
		day = time.Date(y, m, d, 0, 0, 0, 0, loc)
	} else {
		parsed, err := time.ParseInLocation(dateLayout, p.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		day = parsed
	}
	return day, day.AddDate(0, 0, 1), nil
}
