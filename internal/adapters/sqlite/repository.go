package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tickLabeler/internal/domain"
	"tickLabeler/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.LabelRepository using SQLite. Label results
// are write-once: the schema exposes inserts and reads, no updates.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/labeling.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS label_runs (
		run_id      TEXT PRIMARY KEY,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		config_json TEXT NOT NULL,
		stats_json  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS label_results (
		run_id          TEXT NOT NULL,
		event_index     INTEGER NOT NULL,
		side            TEXT NOT NULL,
		ret             REAL NOT NULL,
		label           INTEGER NOT NULL,
		entry_time_ns   INTEGER NOT NULL,
		exit_time_ns    INTEGER NOT NULL,
		entry_price     REAL NOT NULL,
		exit_price      REAL NOT NULL,
		hit_type        TEXT NOT NULL,
		volatility_used REAL NOT NULL,
		ambiguous       INTEGER NOT NULL,
		tick_refined    INTEGER NOT NULL,
		PRIMARY KEY (run_id, event_index),
		FOREIGN KEY (run_id) REFERENCES label_runs(run_id)
	);
	CREATE INDEX IF NOT EXISTS idx_label_results_label ON label_results(run_id, label);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// SaveRun stores a run's configuration snapshot and summary statistics.
func (r *Repository) SaveRun(ctx context.Context, runID string, configJSON string, statsJSON string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO label_runs (run_id, config_json, stats_json) VALUES (?, ?, ?)`,
		runID, configJSON, statsJSON)
	if err != nil {
		r.logger.Error(ctx, err, "Failed to save run", map[string]interface{}{"runID": runID})
		return fmt.Errorf("%w: saving run %s: %v", ports.ErrInsertFailed, runID, err)
	}
	return nil
}

// SaveResults stores the label results of a run in one transaction.
func (r *Repository) SaveResults(ctx context.Context, runID string, results []domain.LabelResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", ports.ErrInsertFailed, err)
	}
	defer tx.Rollback() // No-op after a successful commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO label_results (
			run_id, event_index, side, ret, label,
			entry_time_ns, exit_time_ns, entry_price, exit_price,
			hit_type, volatility_used, ambiguous, tick_refined
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %v", ports.ErrInsertFailed, err)
	}
	defer stmt.Close()

	for _, res := range results {
		_, err := stmt.ExecContext(ctx,
			runID, res.EventIndex, res.Side.String(), res.Return, res.Label,
			res.EntryTimeNs, res.ExitTimeNs, res.EntryPrice, res.ExitPrice,
			res.HitType.String(), res.VolatilityUsed, boolToInt(res.Ambiguous), boolToInt(res.TickRefined))
		if err != nil {
			r.logger.Error(ctx, err, "Failed to insert label result", map[string]interface{}{
				"runID": runID, "eventIndex": res.EventIndex})
			return fmt.Errorf("%w: inserting event %d: %v", ports.ErrInsertFailed, res.EventIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ports.ErrInsertFailed, err)
	}
	r.logger.Info(ctx, "Label results saved", map[string]interface{}{"runID": runID, "count": len(results)})
	return nil
}

// FindResults retrieves a run's results ordered by event index.
func (r *Repository) FindResults(ctx context.Context, runID string) ([]domain.LabelResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT event_index, side, ret, label,
		       entry_time_ns, exit_time_ns, entry_price, exit_price,
		       hit_type, volatility_used, ambiguous, tick_refined
		FROM label_results WHERE run_id = ? ORDER BY event_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying results for run %s: %v", ports.ErrQueryFailed, runID, err)
	}
	defer rows.Close()

	var results []domain.LabelResult
	for rows.Next() {
		var (
			res          domain.LabelResult
			sideStr      string
			hitStr       string
			ambiguousInt int
			refinedInt   int
		)
		if err := rows.Scan(&res.EventIndex, &sideStr, &res.Return, &res.Label,
			&res.EntryTimeNs, &res.ExitTimeNs, &res.EntryPrice, &res.ExitPrice,
			&hitStr, &res.VolatilityUsed, &ambiguousInt, &refinedInt); err != nil {
			return nil, fmt.Errorf("%w: scanning result row: %v", ports.ErrQueryFailed, err)
		}
		if res.Side, err = domain.ParseSide(sideStr); err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
		}
		if res.HitType, err = domain.ParseHitType(hitStr); err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
		}
		res.Ambiguous = ambiguousInt != 0
		res.TickRefined = refinedInt != 0
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating result rows: %v", ports.ErrQueryFailed, err)
	}
	return results, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
