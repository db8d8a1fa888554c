package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLite is the default durable KV engine: one kv_<region> table per
// region, value bytes stored as BLOB. Keys are persisted as int64; the id
// allocator issues from 1 upward so the conversion is lossless in practice.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single writer keeps "database is locked" errors out of the ledger.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	s := &SQLite{db: db}
	for _, region := range Regions {
		if _, err := db.Exec(fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (k INTEGER NOT NULL PRIMARY KEY, v BLOB NOT NULL)`,
			tableName(region),
		)); err != nil {
			db.Close()
			return nil, fmt.Errorf("create region %s: %w", region, err)
		}
	}
	return s, nil
}

// tableName maps a region constant to its table. Regions are code
// constants, never caller input.
func tableName(region string) string { return "kv_" + region }

func (s *SQLite) Get(region string, key uint64) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRow(
		fmt.Sprintf(`SELECT v FROM %s WHERE k = ?`, tableName(region)),
		int64(key),
	).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *SQLite) Insert(region string, key uint64, value []byte) error {
	_, err := s.db.Exec(
		fmt.Sprintf(`INSERT INTO %s (k, v) VALUES (?, ?)
		             ON CONFLICT(k) DO UPDATE SET v = excluded.v`, tableName(region)),
		int64(key), value,
	)
	return err
}

func (s *SQLite) Remove(region string, key uint64) error {
	_, err := s.db.Exec(
		fmt.Sprintf(`DELETE FROM %s WHERE k = ?`, tableName(region)),
		int64(key),
	)
	return err
}

func (s *SQLite) Iterate(region string, fn func(key uint64, value []byte) (bool, error)) error {
	rows, err := s.db.Query(
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

func (s *SQLite) Close() error { return s.db.Close() }
