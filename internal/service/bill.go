package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/repository"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

// BillService covers ordering, check-out and revenue reporting.
type BillService struct {
	server   *server.Server
	repos    *repository.Repositories
	receipts ReceiptQueue
}

// NewBillService builds the service. receipts may be nil, in which case
// receipt e-mails are never sent.
func NewBillService(s *server.Server, repos *repository.Repositories, receipts ReceiptQueue) *BillService {
	return &BillService{server: s, repos: repos, receipts: receipts}
}

// GetMenuListByTable returns the lines of the table's open bill, or an
// empty list when the table has none.
func (s *BillService) GetMenuListByTable(ctx context.Context, tableID int) ([]model.MenuItem, error) {
	bill, err := s.repos.Bills.FindOpenByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return []model.MenuItem{}, nil
	}
	return s.repos.BillInfos.ListItems(ctx, bill.ID)
}

// GetOpenBill returns the open bill of a table with its lines.
func (s *BillService) GetOpenBill(ctx context.Context, tableID int) (*model.BillDetail, error) {
	table, err := getTable(ctx, s.repos, tableID)
	if err != nil {
		return nil, err
	}

	bill, err := s.repos.Bills.FindOpenByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, ErrNoOpenBill.WithMessagef("Table %d has no open bill", tableID)
	}

	items, err := s.repos.BillInfos.ListItems(ctx, bill.ID)
	if err != nil {
		return nil, err
	}

	return &model.BillDetail{Bill: *bill, TableName: table.Name, Items: items}, nil
}

// AddFoodToBill orders count more of foodID on the table, opening a bill
// when the table has none.
func (s *BillService) AddFoodToBill(ctx context.Context, tableID, foodID, count int) error {
	if count < 1 {
		return ErrInvalidCount
	}

	return s.repos.InTx(ctx, func(repos *repository.Repositories) error {
		if _, err := getTable(ctx, repos, tableID); err != nil {
			return err
		}

		food, err := repos.Foods.GetByID(ctx, foodID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrFoodNotFound.WithMessagef("Food %d not found", foodID)
			}
			return err
		}
		if !food.IsActive {
			return ErrFoodInactive
		}

		bill, err := openBill(ctx, repos, tableID)
		if err != nil {
			return err
		}

		if err := repos.BillInfos.AddCount(ctx, bill.ID, foodID, count); err != nil {
			return err
		}

		return repos.Tables.SetStatus(ctx, tableID, model.TableOccupied)
	})
}

// RemoveFoodFromBill takes count of foodID off the table's open bill. The
// bill is dropped and the table freed once no line is left. Nothing to
// remove is not an error.
func (s *BillService) RemoveFoodFromBill(ctx context.Context, tableID, foodID, count int) error {
	if count < 1 {
		return ErrInvalidCount
	}

	return s.repos.InTx(ctx, func(repos *repository.Repositories) error {
		bill, err := repos.Bills.FindOpenByTable(ctx, tableID)
		if err != nil || bill == nil {
			return err
		}

		line, err := repos.BillInfos.Find(ctx, bill.ID, foodID)
		if err != nil || line == nil {
			return err
		}

		if remaining := line.Count - count; remaining > 0 {
			if err := repos.BillInfos.UpdateCount(ctx, line.ID, remaining); err != nil {
				return err
			}
		} else if err := repos.BillInfos.Delete(ctx, line.ID); err != nil {
			return err
		}

		left, err := repos.BillInfos.CountByBill(ctx, bill.ID)
		if err != nil {
			return err
		}
		if left > 0 {
			return nil
		}

		if err := repos.Bills.Delete(ctx, bill.ID); err != nil {
			return err
		}
		return repos.Tables.SetStatus(ctx, tableID, model.TableEmpty)
	})
}

type CheckOutInput struct {
	BillID   int
	Discount int
	StaffID  int
	// ReceiptEmail, when set, receives the receipt once the bill is paid.
	ReceiptEmail string
}

// CheckOut pays a bill: totals are computed from the current menu prices
// and the discount, the bill is closed and its table freed.
func (s *BillService) CheckOut(ctx context.Context, in CheckOutInput) (*model.Bill, error) {
	if in.Discount < 0 || in.Discount > 100 {
		return nil, ErrInvalidDiscount
	}

	var paid *model.Bill
	err := s.repos.InTx(ctx, func(repos *repository.Repositories) error {
		bill, err := getBill(ctx, repos, in.BillID)
		if err != nil {
			return err
		}
		if bill.IsPaid() {
			return ErrBillAlreadyPaid
		}

		items, err := repos.BillInfos.ListItems(ctx, bill.ID)
		if err != nil {
			return err
		}

		total, final := billTotals(items, in.Discount)
		checkOut := model.CheckOut{
			BillID:       bill.ID,
			Discount:     in.Discount,
			TotalAmount:  total,
			FinalPrice:   final,
			DateCheckOut: now(),
			StaffID:      in.StaffID,
		}

		if err := repos.Bills.CheckOut(ctx, checkOut); err != nil {
			return err
		}
		if err := repos.Tables.SetStatus(ctx, bill.TableID, model.TableEmpty); err != nil {
			return err
		}

		bill.Status = model.BillPaid
		bill.Discount = checkOut.Discount
		bill.TotalAmount = &checkOut.TotalAmount
		bill.FinalPrice = &checkOut.FinalPrice
		bill.DateCheckOut = &checkOut.DateCheckOut
		bill.StaffID = &checkOut.StaffID
		paid = bill
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := s.server.Logger.With().Int("bill_id", paid.ID).Logger()
	logger.Info().
		Float64("final_price", paid.Final()).
		Int("staff_id", in.StaffID).
		Msg("bill checked out")

	if in.ReceiptEmail != "" && s.receipts != nil {
		if err := s.receipts.EnqueueBillReceipt(ctx, paid.ID, in.ReceiptEmail); err != nil {
			logger.Error().Err(err).Msg("failed to enqueue receipt")
		}
	}

	return paid, nil
}

// billTotals returns the sum of the lines and that sum after a percentage
// discount, both rounded to cents.
func billTotals(items []model.MenuItem, discount int) (float64, float64) {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Count))))
	}

	final := total.
		Mul(decimal.NewFromInt(int64(100 - discount))).
		Div(decimal.NewFromInt(100))

	return total.Round(2).InexactFloat64(), final.Round(2).InexactFloat64()
}

// MergeTable moves every line of fromID's open bill onto toID's, opening
// one on toID when needed.
func (s *BillService) MergeTable(ctx context.Context, fromID, toID int) error {
	if fromID == toID {
		return ErrSameTable
	}

	err := s.repos.InTx(ctx, func(repos *repository.Repositories) error {
		if _, err := getTable(ctx, repos, fromID); err != nil {
			return err
		}
		if _, err := getTable(ctx, repos, toID); err != nil {
			return err
		}

		billFrom, err := repos.Bills.FindOpenByTable(ctx, fromID)
		if err != nil {
			return err
		}
		if billFrom == nil {
			return ErrNoOpenBill.WithMessagef("Table %d has no open bill", fromID)
		}

		billTo, err := openBill(ctx, repos, toID)
		if err != nil {
			return err
		}

		if err := mergeBills(ctx, repos, billFrom.ID, billTo.ID); err != nil {
			return err
		}

		if err := repos.Tables.SetStatus(ctx, fromID, model.TableEmpty); err != nil {
			return err
		}
		return repos.Tables.SetStatus(ctx, toID, model.TableOccupied)
	})
	if err != nil {
		return err
	}

	s.server.Logger.Info().Int("from_table", fromID).Int("to_table", toID).Msg("tables merged")
	return nil
}

func (s *BillService) GetBillDetail(ctx context.Context, billID int) (*model.BillDetail, error) {
	bill, err := getBill(ctx, s.repos, billID)
	if err != nil {
		return nil, err
	}

	detail := &model.BillDetail{Bill: *bill}

	table, err := s.repos.Tables.GetByID(ctx, bill.TableID)
	if err != nil {
		return nil, err
	}
	detail.TableName = table.Name

	if detail.Items, err = s.repos.BillInfos.ListItems(ctx, bill.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

// RevenueReport lists the bills paid in [from, to) with their sums.
func (s *BillService) RevenueReport(ctx context.Context, from, to time.Time) (*model.RevenueReport, error) {
	entries, err := s.repos.Bills.ListPaid(ctx, from, to)
	if err != nil {
		return nil, err
	}

	gross, net := decimal.Zero, decimal.Zero
	for _, e := range entries {
		gross = gross.Add(decimal.NewFromFloat(e.TotalAmount))
		net = net.Add(decimal.NewFromFloat(e.FinalPrice))
	}

	return &model.RevenueReport{
		From:       from,
		To:         to,
		BillCount:  len(entries),
		GrossTotal: gross.Round(2).InexactFloat64(),
		NetTotal:   net.Round(2).InexactFloat64(),
		Bills:      entries,
	}, nil
}

var revenueCSVHeader = []string{
	"bill_id", "table", "check_in", "check_out", "discount", "total_amount", "final_price", "staff",
}

// ExportRevenueCSV writes the bills of RevenueReport as CSV.
func (s *BillService) ExportRevenueCSV(ctx context.Context, w io.Writer, from, to time.Time) error {
	report, err := s.RevenueReport(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(revenueCSVHeader); err != nil {
		return err
	}

	for _, e := range report.Bills {
		record := []string{
			strconv.Itoa(e.BillID),
			e.TableName,
			e.DateCheckIn.Format(time.RFC3339),
			e.DateCheckOut.Format(time.RFC3339),
			strconv.Itoa(e.Discount),
			strconv.FormatFloat(e.TotalAmount, 'f', 2, 64),
			strconv.FormatFloat(e.FinalPrice, 'f', 2, 64),
			e.StaffName,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write bill %d: %w", e.BillID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func getBill(ctx context.Context, repos *repository.Repositories, id int) (*model.Bill, error) {
	bill, err := repos.Bills.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBillNotFound.WithMessagef("Bill %d not found", id)
		}
		return nil, err
	}
	return bill, nil
}

// openBill returns the open bill of a table, creating it when missing.
func openBill(ctx context.Context, repos *repository.Repositories, tableID int) (*model.Bill, error) {
	bill, err := repos.Bills.FindOpenByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if bill != nil {
		return bill, nil
	}
	return repos.Bills.Create(ctx, tableID, now())
}

// mergeBills moves the lines of bill from onto bill to, adding counts for
// foods present on both, and deletes from once it is empty.
func mergeBills(ctx context.Context, repos *repository.Repositories, from, to int) error {
	lines, err := repos.BillInfos.ListByBill(ctx, from)
	if err != nil {
		return err
	}

	for _, line := range lines {
		existing, err := repos.BillInfos.Find(ctx, to, line.FoodID)
		if err != nil {
			return err
		}

		if existing == nil {
			if err := repos.BillInfos.MoveToBill(ctx, line.ID, to); err != nil {
				return err
			}
			continue
		}

		if err := repos.BillInfos.UpdateCount(ctx, existing.ID, existing.Count+line.Count); err != nil {
			return err
		}
		if err := repos.BillInfos.Delete(ctx, line.ID); err != nil {
			return err
		}
	}

	left, err := repos.BillInfos.CountByBill(ctx, from)
	if err != nil {
		return err
	}
	if left > 0 {
		return nil
	}
	return repos.Bills.Delete(ctx, from)
}
