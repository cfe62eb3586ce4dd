// Package sink persists pipeline results: the SQLite research dataset and
// the JSON run report.
package sink

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cedarwud/orbit-engine-sub008/internal/pipeline"
)

// DB wraps a SQLite database holding the labeled research dataset.
type DB struct {
	db *sql.DB
}

// Open opens or creates the dataset database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open dataset database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		norad_id INTEGER NOT NULL,
		constellation TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		elevation_deg REAL NOT NULL,
		azimuth_deg REAL NOT NULL,
		range_km REAL NOT NULL,
		connectable INTEGER NOT NULL,
		threshold_deg REAL NOT NULL,
		received_power_dbm REAL,
		quality_index_db REAL,
		sinr_db REAL,
		signal_class TEXT
	);

	CREATE TABLE IF NOT EXISTS service_windows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		norad_id INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		duration_seconds REAL NOT NULL,
		connectable_count INTEGER NOT NULL,
		total_samples INTEGER NOT NULL,
		continuity_score REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS satellite_stats (
		norad_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		constellation TEXT NOT NULL,
		connectable_count INTEGER NOT NULL,
		mean_power_dbm REAL,
		mean_quality_db REAL,
		excellent_count INTEGER NOT NULL,
		good_count INTEGER NOT NULL,
		fair_count INTEGER NOT NULL,
		poor_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_norad ON samples(norad_id);
	CREATE INDEX IF NOT EXISTS idx_samples_timestamp ON samples(timestamp);
	CREATE INDEX IF NOT EXISTS idx_windows_norad ON service_windows(norad_id);
	`
	_, err := db.Exec(schema)
	return err
}

// WriteResult persists one successful satellite result in a single
// transaction. Failed satellites are never written.
func (d *DB) WriteResult(res pipeline.SatelliteResult) error {
	if res.Err != nil {
		return fmt.Errorf("refusing to persist failed satellite %d", res.NORADID)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	sampleStmt, err := tx.Prepare(`
		INSERT INTO samples (
			norad_id, constellation, timestamp, elevation_deg, azimuth_deg,
			range_km, connectable, threshold_deg, received_power_dbm,
			quality_index_db, sinr_db, signal_class
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare samples: %w", err)
	}
	defer sampleStmt.Close()

	// Quality samples are one-to-one with connectable visibility samples,
	// in the same time order.
	qi := 0
	for _, vs := range res.Visibility {
		var power, quality, sinr sql.NullFloat64
		var class sql.NullString
		if vs.Connectable && qi < len(res.Quality) {
			q := res.Quality[qi]
			qi++
			power = sql.NullFloat64{Float64: q.ReceivedPowerDBm, Valid: true}
			quality = sql.NullFloat64{Float64: q.QualityIndexDB, Valid: true}
			sinr = sql.NullFloat64{Float64: q.SINRDb, Valid: true}
			class = sql.NullString{String: string(q.Class), Valid: true}
		}

		if _, err := sampleStmt.Exec(
			res.NORADID, res.Constellation, vs.Time.UTC().Format(time.RFC3339Nano),
			vs.ElevationDeg, vs.AzimuthDeg, vs.RangeKm,
			vs.Connectable, vs.ThresholdDeg,
			power, quality, sinr, class,
		); err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}

	for _, w := range res.Windows {
		if _, err := tx.Exec(`
			INSERT INTO service_windows (
				norad_id, start_time, end_time, duration_seconds,
				connectable_count, total_samples, continuity_score
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			res.NORADID,
			w.Start.UTC().Format(time.RFC3339Nano),
			w.End.UTC().Format(time.RFC3339Nano),
			w.Duration.Seconds(),
			w.ConnectableCount, w.TotalSamples, w.ContinuityScore,
		); err != nil {
			return fmt.Errorf("insert window: %w", err)
		}
	}

	var meanPower, meanQuality sql.NullFloat64
	if res.Stats.MeanPowerDBm != nil {
		meanPower = sql.NullFloat64{Float64: *res.Stats.MeanPowerDBm, Valid: true}
	}
	if res.Stats.MeanQualityDB != nil {
		meanQuality = sql.NullFloat64{Float64: *res.Stats.MeanQualityDB, Valid: true}
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO satellite_stats (
			norad_id, name, constellation, connectable_count,
			mean_power_dbm, mean_quality_db,
			excellent_count, good_count, fair_count, poor_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.NORADID, res.Name, res.Constellation, res.Stats.ConnectableCount,
		meanPower, meanQuality,
		res.Stats.ClassCounts["excellent"], res.Stats.ClassCounts["good"],
		res.Stats.ClassCounts["fair"], res.Stats.ClassCounts["poor"],
	); err != nil {
		return fmt.Errorf("insert stats: %w", err)
	}

	return tx.Commit()
}
