package service

import (
	"context"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
	"bizledger/internal/repository"
)

const (
	defaultTopProducts = 5
	maxTopProducts     = 50
)

// PeriodQuery bounds a monthly report. Dates are inclusive YYYY-MM-DD.
type PeriodQuery struct {
	From string `form:"from" binding:"omitempty,isodate"`
	To   string `form:"to" binding:"omitempty,isodate"`
}

// StatisticsService answers the aggregate report queries
type StatisticsService interface {
	MonthlyTotals(ctx context.Context, q PeriodQuery) ([]model.PeriodTotals, error)
	TopProducts(ctx context.Context, limit int) ([]model.ProductRanking, error)
}

type statisticsService struct {
	reports repository.ReportRepository
}

func NewStatisticsService(reports repository.ReportRepository) StatisticsService {
	return &statisticsService{reports: reports}
}

func (s *statisticsService) MonthlyTotals(ctx context.Context, q PeriodQuery) ([]model.PeriodTotals, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	if q.From != "" && q.To != "" && q.From > q.To {
		return nil, apperr.Validation("from %s is after to %s", q.From, q.To)
	}
	return s.reports.MonthlyTotals(ctx, q.From, q.To)
}

func (s *statisticsService) TopProducts(ctx context.Context, limit int) ([]model.ProductRanking, error) {
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}
	return s.reports.TopProducts(ctx, limit)
}
