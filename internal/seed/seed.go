// Package seed loads the embedded demo dataset: dimension reference data,
// the region adjacency relation, and the pre-aggregated fact tables.
package seed

import (
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

//go:embed data
var dataFS embed.FS

// manifest describes the embedded dataset: which CSV file feeds which
// table, and in which phase it loads.
type manifest struct {
	Attributes []datasetRef `yaml:"attributes"`
	Neighbors  datasetRef   `yaml:"neighbors"`
	Facts      []datasetRef `yaml:"facts"`
}

type datasetRef struct {
	Table string `yaml:"table"`
	File  string `yaml:"file"`
}

// Run loads the embedded dataset into db. Idempotent: when reference data
// is already present the load is skipped. Attribute tables load
// concurrently; adjacency and facts follow, since they reference them.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attr_bra`).Scan(&count); err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if count > 0 {
		logger.Debug("seed skipped, reference data already loaded")
		return nil
	}

	m, err := loadManifest()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range m.Attributes {
		ref := ref
		g.Go(func() error { return loadCSV(gctx, db, ref) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := loadCSV(ctx, db, m.Neighbors); err != nil {
		return err
	}
	// Self rows let the neighbor lookup include the anchor with one
	// range query.
	if _, err := db.ExecContext(ctx,
		`INSERT INTO bra_neighbors (bra_id, neighbor_id, distance) SELECT id, id, 0 FROM attr_bra`); err != nil {
		return fmt.Errorf("seed self neighbors: %w", err)
	}

	for _, ref := range m.Facts {
		if err := loadCSV(ctx, db, ref); err != nil {
			return err
		}
	}

	logger.Info("seed complete",
		"attributes", len(m.Attributes),
		"fact_tables", len(m.Facts))
	return nil
}

func loadManifest() (*manifest, error) {
	raw, err := dataFS.ReadFile("data/manifest.yaml")
	if err != nil {
		return nil, fmt.Errorf("read seed manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse seed manifest: %w", err)
	}
	return &m, nil
}

// loadCSV bulk-inserts one CSV file into its table inside a transaction.
// The CSV header names the target columns.
func loadCSV(ctx context.Context, db *sql.DB, ref datasetRef) error {
	f, err := dataFS.Open(ref.File)
	if err != nil {
		return fmt.Errorf("open %s: %w", ref.File, err)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read %s header: %w", ref.File, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ref.Table,
		strings.Join(header, ", "),
		strings.TrimSuffix(strings.Repeat("?,", len(header)), ","))
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("prepare insert for %s: %w", ref.Table, err)
	}
	defer stmt.Close() //nolint:errcheck

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", ref.File, err)
		}
		args := make([]interface{}, len(record))
		for i, v := range record {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", ref.Table, err)
		}
	}

	return tx.Commit()
}
