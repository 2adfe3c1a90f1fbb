package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"treats/internal/models"

	json "github.com/goccy/go-json"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	sqlStateTable       = "treats_state"
	sqlStateKey         = "workspace"
	sqlOperationTimeout = 5 * time.Second
)

type sqlOpenFunc func(driverName, dsn string) (*sql.DB, error)

// sqlDialect holds the statements that differ between drivers.
type sqlDialect struct {
	driver      string
	createTable string
	selectState string
	upsertState string
}

var postgresDialect = sqlDialect{
	driver: "postgres",
	createTable: `CREATE TABLE IF NOT EXISTS ` + sqlStateTable + ` (
		state_key TEXT PRIMARY KEY,
		snapshot TEXT NOT NULL,
		revision BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	selectState: `SELECT snapshot FROM ` + sqlStateTable + ` WHERE state_key = $1`,
	upsertState: `INSERT INTO ` + sqlStateTable + ` (state_key, snapshot, revision, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (state_key)
		DO UPDATE SET snapshot = EXCLUDED.snapshot, revision = EXCLUDED.revision, updated_at = NOW()`,
}

var sqliteDialect = sqlDialect{
	driver: "sqlite",
	createTable: `CREATE TABLE IF NOT EXISTS ` + sqlStateTable + ` (
		state_key TEXT PRIMARY KEY,
		snapshot TEXT NOT NULL,
		revision INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	selectState: `SELECT snapshot FROM ` + sqlStateTable + ` WHERE state_key = ?`,
	upsertState: `INSERT INTO ` + sqlStateTable + ` (state_key, snapshot, revision, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (state_key)
		DO UPDATE SET snapshot = excluded.snapshot, revision = excluded.revision, updated_at = CURRENT_TIMESTAMP`,
}

// SQLBackend stores the snapshot as one JSON row. The table is created on
// first use.
type SQLBackend struct {
	dsn     string
	dialect sqlDialect
	openDB  sqlOpenFunc

	initOnce sync.Once
	initErr  error
	db       *sql.DB
}

func NewPostgresBackend(dsn string) (*SQLBackend, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrInvalidDSN
	}
	return &SQLBackend{dsn: dsn, dialect: postgresDialect, openDB: sql.Open}, nil
}

// NewSQLiteBackend accepts a file path or any DSN understood by
// modernc.org/sqlite.
func NewSQLiteBackend(path string) (*SQLBackend, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrInvalidDSN
	}
	if !strings.Contains(path, "?") {
		path += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return &SQLBackend{dsn: path, dialect: sqliteDialect, openDB: sql.Open}, nil
}

func (b *SQLBackend) Load() (*models.Snapshot, error) {
	if err := b.ensureReady(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqlOperationTimeout)
	defer cancel()

	var payload string
	err := b.db.QueryRowContext(ctx, b.dialect.selectState, sqlStateKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s load: %w", b.dialect.driver, err)
	}
	snapshot := models.NewSnapshot()
	if err := json.Unmarshal([]byte(payload), snapshot); err != nil {
		return nil, fmt.Errorf("%s decode: %w", b.dialect.driver, err)
	}
	return snapshot.Normalize(), nil
}

func (b *SQLBackend) Save(snapshot *models.Snapshot) error {
	if snapshot == nil {
		return nil
	}
	if err := b.ensureReady(); err != nil {
		return err
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqlOperationTimeout)
	defer cancel()

	if _, err := b.db.ExecContext(ctx, b.dialect.upsertState, sqlStateKey, string(payload), snapshot.Revision); err != nil {
		return fmt.Errorf("%s save: %w", b.dialect.driver, err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *SQLBackend) ensureReady() error {
	b.initOnce.Do(func() {
		db, err := b.openDB(b.dialect.driver, b.dsn)
		if err != nil {
			b.initErr = err
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), sqlOperationTimeout)
		defer cancel()

		if _, err := db.ExecContext(ctx, b.dialect.createTable); err != nil {
			_ = db.Close()
			b.initErr = fmt.Errorf("%s init: %w", b.dialect.driver, err)
			return
		}
		b.db = db
	})
	return b.initErr
}
