package mysql

import (
	"context"
	"database/sql"
	"errors"
)

// Storage keeps cart identifiers in a MySQL key/value table:
//
//	CREATE TABLE widget_identifiers (
//	    k VARCHAR(191) PRIMARY KEY,
//	    v TEXT NOT NULL
//	);
type Storage struct {
	db *sql.DB
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
        SELECT v FROM widget_identifiers WHERE k = ?
    `, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO widget_identifiers (k, v)
        VALUES (?, ?)
        ON DUPLICATE KEY UPDATE v = VALUES(v)
    `, key, value)
	return err
}
