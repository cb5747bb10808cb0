package service

import (
	"context"
	"time"

	"go-pos-inventory/internal/repository"
)

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
	GetDailySales(ctx context.Context, days int) ([]repository.DailySalesData, error)
}

type dashboardService struct {
	txRepo repository.TransactionRepository
	now    func() time.Time
}

func NewDashboardService(txRepo repository.TransactionRepository, now func() time.Time) DashboardService {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{txRepo: txRepo, now: now}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.txRepo.GetDashboardStats(ctx, s.now())
}

func (s *dashboardService) GetDailySales(ctx context.Context, days int) ([]repository.DailySalesData, error) {
	if days <= 0 {
		days = 7
	}
	end := s.now()
	// The oldest bucket covers its whole day, not just the slice after
	// the current time of day.
	start := startOfDay(end.AddDate(0, 0, -days))
	return s.txRepo.GetDailySales(ctx, start, end)
}
