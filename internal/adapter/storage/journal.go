package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"coinlisting/internal/domain/model"
	"coinlisting/internal/domain/port"
)

var _ port.JournalPort = (*SQLJournal)(nil)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS load_journal (
		id VARCHAR(36) PRIMARY KEY,
		site VARCHAR(64) NOT NULL,
		mode VARCHAR(16) NOT NULL,
		status VARCHAR(32) NOT NULL,
		http_status INTEGER NOT NULL DEFAULT 0,
		coin_count INTEGER NOT NULL DEFAULT 0,
		duration_ns BIGINT NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		at_unix_ms BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_load_journal_site_at ON load_journal(site, at_unix_ms)`,
}

// SQLJournal appends one row per load attempt. The same queries run on
// Postgres (lib/pq) and SQLite; only placeholders differ.
type SQLJournal struct {
	db     *sql.DB
	driver string
}

func NewSQLJournal(driver, dsn string) (*SQLJournal, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported journal driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent loads
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLJournal{db: db, driver: driver}, nil
}

func (j *SQLJournal) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := j.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to init journal schema: %w", err)
		}
	}
	return nil
}

func (j *SQLJournal) Record(ctx context.Context, rec model.LoadRecord) error {
	query := j.rebind(`
		INSERT INTO load_journal (id, site, mode, status, http_status, coin_count, duration_ns, error, at_unix_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := j.db.ExecContext(ctx, query,
		rec.ID.String(),
		rec.Site,
		rec.Mode,
		string(rec.Status),
		rec.HTTPStatus,
		rec.CoinCount,
		int64(rec.Duration),
		rec.Error,
		rec.At.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record load %s: %w", rec.ID, err)
	}
	return nil
}

func (j *SQLJournal) Recent(ctx context.Context, site string, limit int) ([]model.LoadRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := j.rebind(`
		SELECT id, site, mode, status, http_status, coin_count, duration_ns, error, at_unix_ms
		FROM load_journal
		WHERE site = ?
		ORDER BY at_unix_ms DESC
		LIMIT ?`)

	rows, err := j.db.QueryContext(ctx, query, site, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	records := make([]model.LoadRecord, 0, limit)
	for rows.Next() {
		var (
			rec      model.LoadRecord
			id       string
			status   string
			duration int64
			atMillis int64
		)
		if err := rows.Scan(&id, &rec.Site, &rec.Mode, &status, &rec.HTTPStatus,
			&rec.CoinCount, &duration, &rec.Error, &atMillis); err != nil {
			return nil, fmt.Errorf("failed to scan load record: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid load id %q: %w", id, err)
		}
		rec.Status = model.LoadStatus(status)
		rec.Duration = time.Duration(duration)
		rec.At = time.UnixMilli(atMillis).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

func (j *SQLJournal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

func (j *SQLJournal) Close() error {
	return j.db.Close()
}

// rebind rewrites ? placeholders to $n for Postgres.
func (j *SQLJournal) rebind(query string) string {
	if j.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
