package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/maloquacious/wastewater/internal/models"
	"github.com/maloquacious/wastewater/internal/store"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using modernc.org/sqlite.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

// New creates a new SQLiteStore.
func New(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Open opens the SQLite database with safe defaults.
func (s *SQLiteStore) Open() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Apply safe defaults
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema ensures the samples table and both indexes exist. The three
// statements share one transaction, so a failure leaves the store exactly
// as it was before the call.
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Verify returns the current state of the datastore.
func (s *SQLiteStore) Verify(ctx context.Context) (store.StoreState, error) {
	if s.db == nil {
		return store.StateMissing, fmt.Errorf("database not opened")
	}

	var tables int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='wastewater_samples'`).Scan(&tables)
	if err != nil {
		return store.StateUninitialized, fmt.Errorf("failed to check samples table: %w", err)
	}
	if tables == 0 {
		return store.StateUninitialized, nil
	}

	var indexes int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name IN (?, ?)`,
		pollTimestampIndex, dateUpdatedIndex).Scan(&indexes)
	if err != nil {
		return store.StatePartial, fmt.Errorf("failed to check indexes: %w", err)
	}
	if indexes < 2 {
		return store.StatePartial, nil
	}

	return store.StateReady, nil
}

const upsertSampleSQL = `
INSERT INTO wastewater_samples (
    sample_collection_date, site_name, county,
    pcr_pathogen_target, pcr_gene_target,
    normalized_pathogen_concentration, date_updated, poll_timestamp
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (sample_collection_date, site_name, county, pcr_pathogen_target, pcr_gene_target)
DO UPDATE SET
    normalized_pathogen_concentration = excluded.normalized_pathogen_concentration,
    date_updated = excluded.date_updated,
    poll_timestamp = excluded.poll_timestamp
`

// UpsertSamples writes samples in a single transaction, updating existing
// rows in place when the primary key matches.
func (s *SQLiteStore) UpsertSamples(ctx context.Context, samples []models.Sample) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	if len(samples) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSampleSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, sample := range samples {
		_, err := stmt.ExecContext(ctx,
			sample.CollectionDate.Format(time.DateOnly),
			sample.SiteName,
			sample.County,
			sample.PathogenTarget,
			sample.GeneTarget,
			sample.Concentration,
			sample.DateUpdated.Format(time.DateOnly),
			sample.PollTimestamp,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert sample %s/%s: %w", sample.SiteName, sample.PathogenTarget, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return written, nil
}

const sampleColumns = `
    sample_collection_date, site_name, county,
    pcr_pathogen_target, pcr_gene_target,
    normalized_pathogen_concentration, date_updated, poll_timestamp`

// GetSample returns the sample with the given identity, or nil if absent.
func (s *SQLiteStore) GetSample(ctx context.Context, key models.Key) (*models.Sample, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx, `SELECT`+sampleColumns+`
FROM wastewater_samples
WHERE sample_collection_date = ? AND site_name = ? AND county = ?
  AND pcr_pathogen_target = ? AND pcr_gene_target = ?`,
		key.CollectionDate, key.SiteName, key.County, key.PathogenTarget, key.GeneTarget)

	sample, err := scanSample(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sample: %w", err)
	}
	return &sample, nil
}

// PolledSince returns samples fetched at or after the given Unix time,
// oldest first. Served by the poll_timestamp index.
func (s *SQLiteStore) PolledSince(ctx context.Context, ts int64) ([]models.Sample, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT`+sampleColumns+`
FROM wastewater_samples
WHERE poll_timestamp >= ?
ORDER BY poll_timestamp`, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to query recently polled samples: %w", err)
	}
	defer rows.Close()

	return collectSamples(rows)
}

// UpdatedSince returns samples revised at the source on or after the given
// YYYY-MM-DD date, oldest first. Served by the date_updated index.
func (s *SQLiteStore) UpdatedSince(ctx context.Context, date string) ([]models.Sample, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT`+sampleColumns+`
FROM wastewater_samples
WHERE date_updated >= ?
ORDER BY date_updated`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query recently revised samples: %w", err)
	}
	defer rows.Close()

	return collectSamples(rows)
}

// CountSamples returns the total number of stored samples.
func (s *SQLiteStore) CountSamples(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wastewater_samples`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count samples: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (models.Sample, error) {
	var sample models.Sample
	var collected, updated string

	err := row.Scan(
		&collected,
		&sample.SiteName,
		&sample.County,
		&sample.PathogenTarget,
		&sample.GeneTarget,
		&sample.Concentration,
		&updated,
		&sample.PollTimestamp,
	)
	if err != nil {
		return models.Sample{}, err
	}

	sample.CollectionDate, err = time.Parse(time.DateOnly, collected)
	if err != nil {
		return models.Sample{}, fmt.Errorf("invalid sample_collection_date %q: %w", collected, err)
	}
	sample.DateUpdated, err = time.Parse(time.DateOnly, updated)
	if err != nil {
		return models.Sample{}, fmt.Errorf("invalid date_updated %q: %w", updated, err)
	}

	return sample, nil
}

func collectSamples(rows *sql.Rows) ([]models.Sample, error) {
	samples := make([]models.Sample, 0)
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}
