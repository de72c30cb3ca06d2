package quickexpense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// Store inserts a preset, replacing an existing row with the same id.
	Store(ctx context.Context, preset QuickExpense) (int64, error)
	// GetAll returns every preset ordered by name ascending.
	GetAll(ctx context.Context) ([]QuickExpense, error)
	FindByID(ctx context.Context, id int64) (QuickExpense, bool, error)
	// Delete removes a preset by id. It returns false when no such row
	// exists.
	Delete(ctx context.Context, id int64) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, preset QuickExpense) (int64, error) {
	query := `INSERT OR REPLACE INTO quick_expenses (id, name, amount, category) VALUES (?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	var idParam interface{}
	if preset.ID != 0 {
		idParam = preset.ID
	}

	result, err := stmt.ExecContext(ctx,
		idParam,
		preset.Name,
		preset.Amount.String(),
		preset.Category,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}

	return lastInsertID, nil
}

func (r *RepoImpl) GetAll(ctx context.Context) ([]QuickExpense, error) {
	query := `SELECT id, name, amount, category FROM quick_expenses ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query quick expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var presets []QuickExpense
	for rows.Next() {
		preset, err := scanPreset(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan quick expense: %w", err)
			log.Error(err)
			return nil, err
		}
		presets = append(presets, preset)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return presets, nil
}

func (r *RepoImpl) FindByID(ctx context.Context, id int64) (QuickExpense, bool, error) {
	query := `SELECT id, name, amount, category FROM quick_expenses WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	preset, err := scanPreset(row.Scan)
	if err == sql.ErrNoRows {
		return QuickExpense{}, false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not scan quick expense: %w", err)
		log.Error(err)
		return QuickExpense{}, false, err
	}
	return preset, true, nil
}

func (r *RepoImpl) Delete(ctx context.Context, id int64) (bool, error) {
	query := "DELETE FROM quick_expenses WHERE id = ?"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
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

func scanPreset(scan func(dest ...any) error) (QuickExpense, error) {
	var preset QuickExpense
	var amount string
	if err := scan(&preset.ID, &preset.Name, &amount, &preset.Category); err != nil {
		return QuickExpense{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return QuickExpense{}, fmt.Errorf("could not parse amount %q: %w", amount, err)
	}
	preset.Amount = parsed
	return preset, nil
}
