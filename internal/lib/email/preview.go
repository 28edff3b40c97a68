package email

import (
	"time"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

// PreviewData holds sample data for rendering each template locally.
var PreviewData = map[Template]any{
	TemplateReceipt:     previewBill(),
	TemplateDailyReport: previewReport(),
}

func previewBill() model.BillDetail {
	checkIn := time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)
	checkOut := checkIn.Add(75 * time.Minute)
	total, final, staff := 26.50, 23.85, 2

	return model.BillDetail{
		Bill: model.Bill{
			ID:           42,
			TableID:      3,
			DateCheckIn:  checkIn,
			DateCheckOut: &checkOut,
			Status:       model.BillPaid,
			Discount:     10,
			TotalAmount:  &total,
			FinalPrice:   &final,
			StaffID:      &staff,
		},
		TableName: "Table 3",
		Items: []model.MenuItem{
			{FoodID: 1, Name: "Spring rolls", Price: 4.50, Count: 2, Total: 9.00},
			{FoodID: 3, Name: "Beef noodle soup", Price: 9.75, Count: 1, Total: 9.75},
			{FoodID: 5, Name: "Iced coffee", Price: 2.50, Count: 3, Total: 7.50},
		},
	}
}

func previewReport() model.RevenueReport {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return model.RevenueReport{
		From:       from,
		To:         from.AddDate(0, 0, 1),
		BillCount:  2,
		GrossTotal: 44.25,
		NetTotal:   41.60,
		Bills: []model.RevenueEntry{
			{BillID: 41, TableName: "Table 1", DateCheckOut: from.Add(13 * time.Hour), TotalAmount: 17.75, FinalPrice: 17.75, StaffName: "Floor Staff"},
			{BillID: 42, TableName: "Table 3", Discount: 10, DateCheckOut: from.Add(19 * time.Hour), TotalAmount: 26.50, FinalPrice: 23.85, StaffName: "Floor Staff"},
		},
	}
}
