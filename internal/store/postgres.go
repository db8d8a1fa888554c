package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the KV engine for shared deployments, on the same pgx pool
// the rest of the stack uses.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	p := &Postgres{pool: pool}
	for _, region := range Regions {
		if _, err := pool.Exec(ctx, fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (k BIGINT NOT NULL PRIMARY KEY, v BYTEA NOT NULL)`,
			tableName(region),
		)); err != nil {
			return nil, fmt.Errorf("create region %s: %w", region, err)
		}
	}
	return p, nil
}

func (p *Postgres) Get(region string, key uint64) ([]byte, bool, error) {
	var v []byte
	err := p.pool.QueryRow(context.Background(),
		fmt.Sprintf(`SELECT v FROM %s WHERE k = $1`, tableName(region)),
		int64(key),
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (p *Postgres) Insert(region string, key uint64, value []byte) error {
	_, err := p.pool.Exec(context.Background(),
		fmt.Sprintf(`INSERT INTO %s (k, v) VALUES ($1, $2)
		             ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`, tableName(region)),
		int64(key), value,
	)
	return err
}

func (p *Postgres) Remove(region string, key uint64) error {
	_, err := p.pool.Exec(context.Background(),
		fmt.Sprintf(`DELETE FROM %s WHERE k = $1`, tableName(region)),
		int64(key),
	)
	return err
}

func (p *Postgres) Iterate(region string, fn func(key uint64, value []byte) (bool, error)) error {
	rows, err := p.pool.Query(context.Background(),
		fmt.Sprintf(`SELECT k, v FROM %s ORDER BY k ASC`, tableName(region)),
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var k int64
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		cont, err := fn(uint64(k), v)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return rows.Err()
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
