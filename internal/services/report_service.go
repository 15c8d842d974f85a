package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "github.com/Mugen-bitt/ai-finance-miniapp/internal/errors"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
)

const (
	minReportYear = 2020
	maxReportYear = 2100
)

// reportService builds aggregate views over a user's transactions.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetMonthlyReport totals the user's income and expenses for one calendar month,
// broken down by category.
func (s *reportService) GetMonthlyReport(ctx context.Context, userID uint, year, month int) (*MonthlyReport, error) {
	if year < minReportYear || year > maxReportYear {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("year must be between %d and %d", minReportYear, maxReportYear))
	}
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	start := models.NewDate(year, time.Month(month), 1)
	end := start.AddMonths(1)

	var income, expenses []CategorySummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.sumByCategory(gctx, userID, models.TransactionTypeIncome, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.sumByCategory(gctx, userID, models.TransactionTypeExpense, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totalIncome := sumTotals(income)
	totalExpense := sumTotals(expenses)

	return &MonthlyReport{
		Month:              fmt.Sprintf("%04d-%02d", year, month),
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Savings:            totalIncome.Sub(totalExpense),
		ExpensesByCategory: expenses,
		IncomeByCategory:   income,
	}, nil
}

// sumByCategory returns per-category totals of one transaction type in [start, end).
func (s *reportService) sumByCategory(ctx context.Context, userID uint, txType models.TransactionType, start, end models.Date) ([]CategorySummary, error) {
	summaries := []CategorySummary{}
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Where("user_id = ? AND type = ?", userID, txType).
		Where("transaction_date >= ? AND transaction_date < ?", start, end).
		Group("category").
		Order("category").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		summaries[i].Total = summaries[i].Total.Round(2)
	}
	return summaries, nil
}

func sumTotals(summaries []CategorySummary) decimal.Decimal {
	total := decimal.Zero
	for _, c := range summaries {
		total = total.Add(c.Total)
	}
	return total
}
