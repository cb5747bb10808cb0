package service

import (
	"context"
	"time"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/shopspring/decimal"
)

type ReportPeriod string

const (
	PeriodDaily   ReportPeriod = "daily"
	PeriodWeekly  ReportPeriod = "weekly"
	PeriodMonthly ReportPeriod = "monthly"
)

// Window is the [Start, End] range a report aggregates over, both bounds
// inclusive.
type Window struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// ReportSummary is the aggregate over completed transactions in a window.
type ReportSummary struct {
	TotalSales         decimal.Decimal `json:"total_sales"`
	TotalTransactions  int64           `json:"total_transactions"`
	AverageTransaction decimal.Decimal `json:"average_transaction"`
}

// SalesReport bundles the resolved window, the summary, and the per-day
// breakdown the dashboard charts consume.
type SalesReport struct {
	Period  ReportPeriod                `json:"period"`
	Window  Window                      `json:"window"`
	Summary ReportSummary               `json:"summary"`
	Daily   []repository.DailySalesData `json:"daily"`
}

// ResolveWindow computes the report range from a period keyword and
// optional explicit bounds. Priority order:
//
//  1. Both bounds given: used verbatim, no snapping.
//  2. Only start given: end is "now".
//  3. Only end given: start derived from the period relative to end; end
//     stays put for weekly/monthly, daily snaps end to 23:59:59.999.
//  4. Neither given: same as 3 anchored at "now", except weekly also snaps
//     end to Sunday 23:59:59.999 — a fully automatic window is a complete
//     period, an explicit end-only window stops at that instant.
func ResolveWindow(period ReportPeriod, startDate, endDate *time.Time, now time.Time) (Window, error) {
	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return Window{}, model.ErrInvalidPeriod
	}

	if startDate != nil && endDate != nil {
		return Window{Start: *startDate, End: *endDate}, nil
	}
	if startDate != nil {
		return Window{Start: *startDate, End: now}, nil
	}

	anchor := now
	snapWeekEnd := true
	if endDate != nil {
		anchor = *endDate
		snapWeekEnd = false
	}

	switch period {
	case PeriodDaily:
		start := startOfDay(anchor)
		return Window{Start: start, End: endOfDay(anchor)}, nil
	case PeriodWeekly:
		w := Window{Start: startOfWeek(anchor), End: anchor}
		if snapWeekEnd {
			w.End = endOfDay(w.Start.AddDate(0, 0, 6))
		}
		return w, nil
	default: // monthly
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		return Window{Start: start, End: anchor}, nil
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	// Built from calendar components rather than by adding a duration, so
	// DST transition days still end at 23:59:59.999 local time.
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// startOfWeek returns Monday 00:00:00.000 of the week containing t (ISO
// convention: Sunday belongs to the week started six days earlier).
func startOfWeek(t time.Time) time.Time {
	back := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		back = 6
	}
	return startOfDay(t.AddDate(0, 0, -back))
}

// Summarize aggregates the completed transactions whose created_at falls
// inside the window, both bounds inclusive. An empty set yields all zeros,
// never a division fault.
func Summarize(window Window, transactions []model.Transaction) ReportSummary {
	summary := ReportSummary{
		TotalSales:         decimal.Zero,
		AverageTransaction: decimal.Zero,
	}
	for _, tx := range transactions {
		if tx.Status != model.TxCompleted {
			continue
		}
		if tx.CreatedAt.Before(window.Start) || tx.CreatedAt.After(window.End) {
			continue
		}
		summary.TotalSales = summary.TotalSales.Add(tx.TotalAmount)
		summary.TotalTransactions++
	}
	if summary.TotalTransactions > 0 {
		summary.AverageTransaction = summary.TotalSales.
			Div(decimal.NewFromInt(summary.TotalTransactions)).
			Round(2)
	}
	return summary
}

type ReportService interface {
	GetSalesReport(ctx context.Context, period ReportPeriod, startDate, endDate *time.Time) (*SalesReport, error)
}

type reportService struct {
	txRepo repository.TransactionRepository
	now    func() time.Time
}

func NewReportService(txRepo repository.TransactionRepository, now func() time.Time) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{txRepo: txRepo, now: now}
}

func (s *reportService) GetSalesReport(ctx context.Context, period ReportPeriod, startDate, endDate *time.Time) (*SalesReport, error) {
	window, err := ResolveWindow(period, startDate, endDate, s.now())
	if err != nil {
		return nil, err
	}

	transactions, err := s.txRepo.FindCompletedBetween(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	daily, err := s.txRepo.GetDailySales(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		Period:  period,
		Window:  window,
		Summary: Summarize(window, transactions),
		Daily:   daily,
	}, nil
}
