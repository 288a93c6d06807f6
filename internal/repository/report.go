package repository

import (
	"context"
	"fmt"

	"github.com/finledger/finledger/internal/model"
)

// ReportSummary aggregates invoice and expense totals for one owner.
// Sums run in NUMERIC and come back as exact decimal strings.
func (r *Repository) ReportSummary(ctx context.Context, ownerID int64) (*model.ReportSummary, error) {
	var summary model.ReportSummary

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)::text, COUNT(id)
		FROM invoices
		WHERE owner_id = $1
	`, ownerID).Scan(&summary.Invoices.Total, &summary.Invoices.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to sum invoices: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text, COUNT(id)
		FROM expenses
		WHERE owner_id = $1
	`, ownerID).Scan(&summary.Expenses.Total, &summary.Expenses.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return &summary, nil
}

// ReportMonthly breaks an owner's invoice and expense totals down by the
// month of created_at.
func (r *Repository) ReportMonthly(ctx context.Context, ownerID int64) (*model.MonthlyReport, error) {
	invoices, err := r.monthlyTotals(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, COALESCE(SUM(total), 0)::text
		FROM invoices
		WHERE owner_id = $1
		GROUP BY month
		ORDER BY month
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly invoices: %w", err)
	}

	expenses, err := r.monthlyTotals(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0)::text
		FROM expenses
		WHERE owner_id = $1
		GROUP BY month
		ORDER BY month
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly expenses: %w", err)
	}

	return &model.MonthlyReport{Invoices: invoices, Expenses: expenses}, nil
}

func (r *Repository) monthlyTotals(ctx context.Context, query string, ownerID int64) ([]model.MonthlyTotal, error) {
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []model.MonthlyTotal{}
	for rows.Next() {
		var t model.MonthlyTotal
		if err := rows.Scan(&t.Month, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}
