package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Storage keeps cart identifiers in a Postgres key/value table:
//
//	CREATE TABLE widget_identifiers (
//	    k TEXT PRIMARY KEY,
//	    v TEXT NOT NULL
//	);
type Storage struct {
	conn *pgx.Conn
}

func NewStorage(conn *pgx.Conn) *Storage {
	return &Storage{conn: conn}
}

func (s *Storage) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn.QueryRow(ctx, `
        SELECT v FROM widget_identifiers WHERE k = $1
    `, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.conn.Exec(ctx, `
        INSERT INTO widget_identifiers (k, v)
        VALUES ($1, $2)
        ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v
    `, key, value)
	return err
}
