package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/finledger/finledger/internal/model"
)

// ErrExpenseNotFound indicates no expense matched the caller's id + owner.
var ErrExpenseNotFound = errors.New("expense not found")

const expenseColumns = `id, date, amount::text, currency, category, description, receipt_url, status, created_at, owner_id`

// CreateExpense inserts an expense and returns the stored row. A nil date
// defaults to now() in the database.
func (r *Repository) CreateExpense(ctx context.Context, ownerID int64, req model.ExpenseCreateRequest) (*model.Expense, error) {
	query := `
		INSERT INTO expenses (date, amount, currency, category, description, owner_id)
		VALUES (COALESCE($1, now()), $2::numeric, $3, $4, $5, $6)
		RETURNING ` + expenseColumns

	expense, err := scanExpense(r.pool.QueryRow(ctx, query,
		req.Date,
		req.Amount,
		req.Currency,
		req.Category,
		req.Description,
		ownerID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return expense, nil
}

// GetExpense retrieves an expense, scoped to the owner.
func (r *Repository) GetExpense(ctx context.Context, id, ownerID int64) (*model.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND owner_id = $2`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// ListExpenses retrieves all expenses for an owner, newest first.
func (r *Repository) ListExpenses(ctx context.Context, ownerID int64) ([]*model.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*model.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense applies a partial update; each patch field is applied only
// when present. Returns the updated row.
func (r *Repository) UpdateExpense(ctx context.Context, id, ownerID int64, patch model.ExpensePatch) (*model.Expense, error) {
	query := `
		UPDATE expenses
		SET status = COALESCE($3, status),
		    amount = COALESCE($4::numeric, amount)
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + expenseColumns

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id, ownerID, patch.Status, patch.Amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return expense, nil
}

// SetExpenseReceipt records the stored receipt object key on an expense.
func (r *Repository) SetExpenseReceipt(ctx context.Context, id, ownerID int64, receiptURL string) (*model.Expense, error) {
	query := `
		UPDATE expenses
		SET receipt_url = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + expenseColumns

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id, ownerID, receiptURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to set expense receipt: %w", err)
	}

	return expense, nil
}

// scanExpense scans one expense row.
func scanExpense(row pgx.Row) (*model.Expense, error) {
	var expense model.Expense
	err := row.Scan(
		&expense.ID,
		&expense.Date,
		&expense.Amount,
		&expense.Currency,
		&expense.Category,
		&expense.Description,
		&expense.ReceiptURL,
		&expense.Status,
		&expense.CreatedAt,
		&expense.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}
