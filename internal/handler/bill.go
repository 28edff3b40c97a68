package handler

import (
	"bytes"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/restaurant-pos/internal/middleware"
	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/server"
	"github.com/deppfellow/restaurant-pos/internal/service"
	"github.com/deppfellow/restaurant-pos/internal/validation"
)

type BillHandler struct {
	Handler
	bills *service.BillService
}

func NewBillHandler(s *server.Server, bills *service.BillService) *BillHandler {
	return &BillHandler{
		Handler: NewHandler(s),
		bills:   bills,
	}
}

func (h *BillHandler) GetBill(c echo.Context, req *IDRequest) (*model.BillDetail, error) {
	return h.bills.GetBillDetail(c.Request().Context(), req.ID)
}

type CheckOutRequest struct {
	ID           int    `param:"id" json:"-" validate:"required,min=1"`
	Discount     int    `json:"discount" validate:"gte=0,lte=100"`
	ReceiptEmail string `json:"receipt_email" validate:"omitempty,email"`
}

func (r *CheckOutRequest) Validate() error {
	return validation.Struct(r)
}

// CheckOut pays the bill on behalf of the logged-in account.
func (h *BillHandler) CheckOut(c echo.Context, req *CheckOutRequest) (*model.Bill, error) {
	return h.bills.CheckOut(c.Request().Context(), service.CheckOutInput{
		BillID:       req.ID,
		Discount:     req.Discount,
		StaffID:      middleware.GetUserID(c),
		ReceiptEmail: req.ReceiptEmail,
	})
}

const dateLayout = "2006-01-02"

// RevenueRequest selects whole days: From inclusive, To inclusive. To
// defaults to From.
type RevenueRequest struct {
	From string `query:"from" validate:"required,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`

	from, to time.Time
}

func (r *RevenueRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	r.from, _ = time.ParseInLocation(dateLayout, r.From, time.Local)
	r.to = r.from
	if r.To != "" {
		r.to, _ = time.ParseInLocation(dateLayout, r.To, time.Local)
	}
	if r.to.Before(r.from) {
		return validation.CustomValidationErrors{{Field: "to", Message: "must not be before from"}}
	}

	r.to = r.to.AddDate(0, 0, 1)
	return nil
}

func (h *BillHandler) RevenueReport(c echo.Context, req *RevenueRequest) (*model.RevenueReport, error) {
	return h.bills.RevenueReport(c.Request().Context(), req.from, req.to)
}

func (h *BillHandler) ExportRevenue(c echo.Context, req *RevenueRequest) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.bills.ExportRevenueCSV(c.Request().Context(), &buf, req.from, req.to); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
