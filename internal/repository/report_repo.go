package repository

import (
	"context"

	"bizledger/internal/apperr"
	"bizledger/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository runs read-only aggregates over the ledger and sales tables
type ReportRepository interface {
	MonthlyTotals(ctx context.Context, from, to string) ([]model.PeriodTotals, error)
	TopProducts(ctx context.Context, limit int) ([]model.ProductRanking, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// amounts come back as text so postgres numeric and sqlite real scan the same way
type periodRow struct {
	Period  string
	Income  string
	Expense string
}

// MonthlyTotals groups ledger entries by YYYY-MM. Empty bounds are open.
func (r *reportRepository) MonthlyTotals(ctx context.Context, from, to string) ([]model.PeriodTotals, error) {
	q := GetDB(ctx, r.db).Table(model.TableLedgerEntries).
		Select("SUBSTR(date, 1, 7) AS period, "+
			"COALESCE(CAST(SUM(CASE WHEN type = ? THEN amount ELSE 0 END) AS TEXT), '0') AS income, "+
			"COALESCE(CAST(SUM(CASE WHEN type = ? THEN amount ELSE 0 END) AS TEXT), '0') AS expense",
			model.EntryIncome, model.EntryExpense)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var rows []periodRow
	if err := q.Group("SUBSTR(date, 1, 7)").Order("period").Scan(&rows).Error; err != nil {
		return nil, apperr.Persistence("query monthly totals", err)
	}

	out := make([]model.PeriodTotals, 0, len(rows))
	for _, row := range rows {
		income, expense := parseAmount(row.Income), parseAmount(row.Expense)
		out = append(out, model.PeriodTotals{
			Period:  row.Period,
			Income:  income,
			Expense: expense,
			Net:     income.Sub(expense),
		})
	}
	return out, nil
}

type rankingRow struct {
	ProductName   string
	TotalQuantity int
	TotalValue    string
}

// TopProducts ranks products by units sold
func (r *reportRepository) TopProducts(ctx context.Context, limit int) ([]model.ProductRanking, error) {
	var rows []rankingRow
	if err := GetDB(ctx, r.db).Table(model.TableSales).
		Select("product_name, SUM(quantity) AS total_quantity, COALESCE(CAST(SUM(total) AS TEXT), '0') AS total_value").
		Group("product_name").
		Order("total_quantity DESC, product_name").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, apperr.Persistence("query top products", err)
	}

	out := make([]model.ProductRanking, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.ProductRanking{
			ProductName:   row.ProductName,
			TotalQuantity: row.TotalQuantity,
			TotalValue:    parseAmount(row.TotalValue),
		})
	}
	return out, nil
}

func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Round(2)
}
