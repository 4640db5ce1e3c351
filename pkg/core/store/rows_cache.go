package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

// RowsCache caches the raw statement rows fetched from Socrata per
// (nit, statement category), so repeated analyses of the same company do not
// hammer datos.gov.co. DB is primary; the file directory is the fallback.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS statement_rows_cache (
//	  nit TEXT NOT NULL,
//	  dataset TEXT NOT NULL,
//	  rows_json JSONB NOT NULL,
//	  fetched_at TIMESTAMPTZ NOT NULL,
//	  PRIMARY KEY (nit, dataset)
//	);
type RowsCache struct {
	pool    *pgxpool.Pool
	fileDir string
	ttl     time.Duration
}

// NewRowsCache builds a cache. A nil pool with an empty dir is a no-op cache.
func NewRowsCache(pool *pgxpool.Pool, fileDir string, ttl time.Duration) *RowsCache {
	if fileDir != "" {
		if err := os.MkdirAll(fileDir, 0755); err != nil {
			log.Printf("[WARNING] rows cache dir %s: %v", fileDir, err)
			fileDir = ""
		}
	}
	return &RowsCache{pool: pool, fileDir: fileDir, ttl: ttl}
}

type cachedRows struct {
	FetchedAt time.Time             `json:"fetched_at"`
	Rows      []models.StatementRow `json:"rows"`
}

func (c *RowsCache) fresh(fetchedAt time.Time) bool {
	if c.ttl <= 0 {
		return true
	}
	return time.Since(fetchedAt) < c.ttl
}

// Get returns the cached rows for a company and statement category, and
// whether a fresh entry was found.
func (c *RowsCache) Get(ctx context.Context, nit, dataset string) ([]models.StatementRow, bool) {
	if c == nil {
		return nil, false
	}

	if c.pool != nil {
		query := `SELECT rows_json, fetched_at FROM statement_rows_cache WHERE nit = $1 AND dataset = $2`
		var rowsJSON []byte
		var fetchedAt time.Time
		if err := c.pool.QueryRow(ctx, query, nit, dataset).Scan(&rowsJSON, &fetchedAt); err == nil {
			if !c.fresh(fetchedAt) {
				return nil, false
			}
			var rows []models.StatementRow
			if err := json.Unmarshal(rowsJSON, &rows); err != nil {
				log.Printf("[WARNING] corrupt rows cache entry nit=%s dataset=%s: %v", nit, dataset, err)
				return nil, false
			}
			return rows, true
		}
		return nil, false
	}

	if c.fileDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.filePath(nit, dataset))
	if err != nil {
		return nil, false
	}
	var entry cachedRows
	if err := json.Unmarshal(data, &entry); err != nil || !c.fresh(entry.FetchedAt) {
		return nil, false
	}
	return entry.Rows, true
}

// Set stores the rows for a company and statement category.
func (c *RowsCache) Set(ctx context.Context, nit, dataset string, rows []models.StatementRow) error {
	if c == nil {
		return nil
	}

	if c.pool != nil {
		rowsJSON, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("marshal cached rows: %w", err)
		}
		query := `
			INSERT INTO statement_rows_cache (nit, dataset, rows_json, fetched_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (nit, dataset)
			DO UPDATE SET rows_json = EXCLUDED.rows_json, fetched_at = EXCLUDED.fetched_at;
		`
		if _, err := c.pool.Exec(ctx, query, nit, dataset, rowsJSON, time.Now()); err != nil {
			return fmt.Errorf("save rows cache: %w", err)
		}
		return nil
	}

	if c.fileDir == "" {
		return nil
	}
	data, err := json.Marshal(cachedRows{FetchedAt: time.Now(), Rows: rows})
	if err != nil {
		return fmt.Errorf("marshal cached rows: %w", err)
	}
	return os.WriteFile(c.filePath(nit, dataset), data, 0644)
}

func (c *RowsCache) filePath(nit, dataset string) string {
	return filepath.Join(c.fileDir, fmt.Sprintf("rows_%s_%s.json", nit, dataset))
}
