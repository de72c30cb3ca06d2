package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Get(ctx context.Context, key string) (string, bool, error) {
	statement, err := r.db.PrepareContext(ctx, "SELECT value FROM settings WHERE key = ?")
	if err != nil {
		err = fmt.Errorf("could not prepare settings select statement: %w", err)
		log.Error(err)
		return "", false, err
	}
	defer statement.Close()

	var value string
	if err := statement.QueryRowContext(ctx, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		err = fmt.Errorf("could not read setting %q: %w", key, err)
		log.Error(err)
		return "", false, err
	}
	return value, true, nil
}

func (r *RepoImpl) Set(ctx context.Context, key, value string) error {
	statement, err := r.db.PrepareContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		err = fmt.Errorf("could not prepare settings upsert statement: %w", err)
		log.Error(err)
		return err
	}
	defer statement.Close()

	if _, err := statement.ExecContext(ctx, key, value); err != nil {
		err = fmt.Errorf("could not write setting %q: %w", key, err)
		log.Error(err)
		return err
	}
	return nil
}
