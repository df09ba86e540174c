// Package city resolves a station/city code to its display name using the
// relational city_info table. The table itself is filled by an offline
// province/city import, not by this service.
package city

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doomer-lab/info-center/internal/weather"
)

const schema = `
CREATE TABLE IF NOT EXISTS city_info (
	id            SERIAL PRIMARY KEY,
	province      TEXT NOT NULL,
	province_code TEXT NOT NULL,
	city          TEXT NOT NULL,
	city_code     TEXT NOT NULL,
	url           TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_city_info_city_code ON city_info (city_code);
`

// Store looks up cities in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the city_info table if missing. Safe to run on every
// startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure city_info schema: %w", err)
	}
	return nil
}

// CityName resolves a city code to its name. Unknown codes return
// weather.ErrCityNotFound.
func (s *Store) CityName(ctx context.Context, code string) (string, error) {
	var name string
	err := s.pool.QueryRow(ctx,
		`SELECT city FROM city_info WHERE city_code = $1`, code,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", weather.ErrCityNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up city %s: %w", code, err)
	}
	return name, nil
}
