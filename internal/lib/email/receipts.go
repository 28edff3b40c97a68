package email

import (
	"fmt"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

// SendReceiptEmail sends the itemised receipt of a paid bill.
func (c *Client) SendReceiptEmail(to string, bill model.BillDetail) error {
	return c.SendEmail(
		to,
		fmt.Sprintf("Your receipt #%d", bill.ID),
		TemplateReceipt,
		bill,
	)
}

// SendDailyReportEmail sends the revenue summary for one day.
func (c *Client) SendDailyReportEmail(to string, report model.RevenueReport) error {
	return c.SendEmail(
		to,
		fmt.Sprintf("Revenue report %s", report.From.Format("2006-01-02")),
		TemplateDailyReport,
		report,
	)
}
