package model

import "time"

// BillStatus is 0 while the table is still ordering and 1 once paid.
type BillStatus int

const (
	BillUnpaid BillStatus = 0
	BillPaid   BillStatus = 1
)

type Bill struct {
	ID           int        `json:"id" db:"id"`
	TableID      int        `json:"table_id" db:"table_id"`
	DateCheckIn  time.Time  `json:"date_check_in" db:"date_check_in"`
	DateCheckOut *time.Time `json:"date_check_out" db:"date_check_out"`
	Status       BillStatus `json:"status" db:"status"`
	Discount     int        `json:"discount" db:"discount"`
	TotalAmount  *float64   `json:"total_amount" db:"total_amount"`
	FinalPrice   *float64   `json:"final_price" db:"final_price"`
	StaffID      *int       `json:"staff_id" db:"staff_id"`
}

func (b Bill) IsPaid() bool {
	return b.Status == BillPaid
}

// Total is the amount before discount, zero until the bill is paid.
func (b Bill) Total() float64 {
	if b.TotalAmount == nil {
		return 0
	}
	return *b.TotalAmount
}

// Final is the amount after discount, zero until the bill is paid.
func (b Bill) Final() float64 {
	if b.FinalPrice == nil {
		return 0
	}
	return *b.FinalPrice
}

// BillInfo is one line of a bill. (BillID, FoodID) is unique.
type BillInfo struct {
	ID     int `json:"id" db:"id"`
	BillID int `json:"bill_id" db:"bill_id"`
	FoodID int `json:"food_id" db:"food_id"`
	Count  int `json:"count" db:"count"`
}

// MenuItem is a bill line joined with its food.
type MenuItem struct {
	FoodID int     `json:"food_id" db:"food_id"`
	Name   string  `json:"name" db:"name"`
	Price  float64 `json:"price" db:"price"`
	Count  int     `json:"count" db:"count"`
	Total  float64 `json:"total" db:"total"`
}

// CheckOut carries the values written when a bill is paid.
type CheckOut struct {
	BillID       int
	Discount     int
	TotalAmount  float64
	FinalPrice   float64
	DateCheckOut time.Time
	StaffID      int
}

type BillDetail struct {
	Bill
	TableName string     `json:"table_name"`
	Items     []MenuItem `json:"items"`
}

// RevenueEntry is a paid bill as listed in a revenue report.
type RevenueEntry struct {
	BillID       int       `json:"bill_id" db:"bill_id"`
	TableID      int       `json:"table_id" db:"table_id"`
	TableName    string    `json:"table_name" db:"table_name"`
	DateCheckIn  time.Time `json:"date_check_in" db:"date_check_in"`
	DateCheckOut time.Time `json:"date_check_out" db:"date_check_out"`
	Discount     int       `json:"discount" db:"discount"`
	TotalAmount  float64   `json:"total_amount" db:"total_amount"`
	FinalPrice   float64   `json:"final_price" db:"final_price"`
	StaffName    string    `json:"staff_name" db:"staff_name"`
}

type RevenueReport struct {
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	BillCount  int            `json:"bill_count"`
	GrossTotal float64        `json:"gross_total"`
	NetTotal   float64        `json:"net_total"`
	Bills      []RevenueEntry `json:"bills"`
}
