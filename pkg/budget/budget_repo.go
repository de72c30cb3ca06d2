package budget

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// Upsert stores the budget for its category, replacing the amount when
	// the category already has one.
	Upsert(ctx context.Context, budget Budget) error
	GetAll(ctx context.Context) ([]Budget, error)
	// Delete removes the budget for the category. It returns false when no
	// such budget exists.
	Delete(ctx context.Context, category string) (bool, error)
	DeleteAll(ctx context.Context) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Upsert(ctx context.Context, budget Budget) error {
	query := `INSERT INTO budgets (category, monthly_amount) VALUES (?, ?)
				ON CONFLICT (category) DO UPDATE SET monthly_amount = excluded.monthly_amount`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, budget.Category, budget.MonthlyAmount.String()); err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}

	return nil
}

func (r *RepoImpl) GetAll(ctx context.Context) ([]Budget, error) {
	query := `SELECT category, monthly_amount FROM budgets ORDER BY category`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var budget Budget
		var amount string
		if err := rows.Scan(&budget.Category, &amount); err != nil {
			err := fmt.Errorf("could not scan budget: %w", err)
			log.Error(err)
			return nil, err
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			err := fmt.Errorf("could not parse monthly amount %q: %w", amount, err)
			log.Error(err)
			return nil, err
		}
		budget.MonthlyAmount = parsed
		budgets = append(budgets, budget)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return budgets, nil
}

func (r *RepoImpl) Delete(ctx context.Context, category string) (bool, error) {
	query := "DELETE FROM budgets WHERE category = ?"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, category)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM budgets"); err != nil {
		err := fmt.Errorf("could not clear budgets: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
