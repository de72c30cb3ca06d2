package transaction

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// Store stores a new Transaction and returns its assigned id.
	Store(ctx context.Context, tx Transaction) (int64, error)
	// Update replaces the row with tx.ID. It returns false when no such row
	// exists.
	Update(ctx context.Context, tx Transaction) (bool, error)
	// Delete removes the row with the given id. It returns false when no
	// such row exists.
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) error
	// GetAll returns every transaction ordered by occurred_at descending.
	GetAll(ctx context.Context) ([]Transaction, error)
	// FindForRange returns transactions with from <= occurred_at < to,
	// ordered by occurred_at descending.
	FindForRange(ctx context.Context, from, to time.Time) ([]Transaction, error)
	FindByID(ctx context.Context, id int64) (Transaction, bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, tx Transaction) (int64, error) {
	query := `INSERT INTO transactions (
                    amount,
                    type,
                    category,
                    notes,
                    occurred_at
				) VALUES (?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		tx.Amount.String(),
		string(tx.Type),
		tx.Category,
		tx.Notes,
		tx.OccurredAt.UnixMilli(),
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

func (r *RepoImpl) Update(ctx context.Context, tx Transaction) (bool, error) {
	query := `UPDATE transactions SET
                  amount = ?,
                  type = ?,
                  category = ?,
                  notes = ?,
                  occurred_at = ?
              WHERE id = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		tx.Amount.String(),
		string(tx.Type),
		tx.Category,
		tx.Notes,
		tx.OccurredAt.UnixMilli(),
		tx.ID,
	)
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

func (r *RepoImpl) Delete(ctx context.Context, id int64) (bool, error) {
	query := "DELETE FROM transactions WHERE id = ?"
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

func (r *RepoImpl) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		err := fmt.Errorf("could not clear transactions: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAll(ctx context.Context) ([]Transaction, error) {
	query := `SELECT id, amount, type, category, notes, occurred_at
				FROM transactions ORDER BY occurred_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *RepoImpl) FindForRange(ctx context.Context, from, to time.Time) ([]Transaction, error) {
	query := `SELECT id, amount, type, category, notes, occurred_at
				FROM transactions WHERE occurred_at >= ? AND occurred_at < ?
				ORDER BY occurred_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not query transactions for range: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *RepoImpl) FindByID(ctx context.Context, id int64) (Transaction, bool, error) {
	query := `SELECT id, amount, type, category, notes, occurred_at
				FROM transactions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	tx, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return Transaction{}, false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not scan transaction: %w", err)
		log.Error(err)
		return Transaction{}, false, err
	}
	return tx, true, nil
}

func scanTransactions(rows *sql.Rows) ([]Transaction, error) {
	var transactions []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan transaction: %w", err)
			log.Error(err)
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return transactions, nil
}

func scanTransaction(scan func(dest ...any) error) (Transaction, error) {
	var tx Transaction
	var amount string
	var txType string
	var occurredAt int64
	if err := scan(&tx.ID, &amount, &txType, &tx.Category, &tx.Notes, &occurredAt); err != nil {
		return Transaction{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("could not parse amount %q: %w", amount, err)
	}
	tx.Amount = parsed
	tx.Type = Type(txType)
	tx.OccurredAt = time.UnixMilli(occurredAt)
	return tx, nil
}
