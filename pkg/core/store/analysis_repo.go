package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

// AnalysisRepo stores finished analysis packages so past results can be
// listed and re-opened without refetching.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS company_analysis (
//	  id UUID PRIMARY KEY,
//	  nit TEXT NOT NULL,
//	  razon_social TEXT,
//	  package_json JSONB NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL
//	);
type AnalysisRepo struct{}

// NewAnalysisRepo creates a repository instance.
func NewAnalysisRepo() *AnalysisRepo {
	return &AnalysisRepo{}
}

// Save persists a package under its uuid.
func (r *AnalysisRepo) Save(ctx context.Context, pkg *models.AnalysisPackage) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	packageJSON, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("marshal analysis package: %w", err)
	}

	query := `
		INSERT INTO company_analysis (id, nit, razon_social, package_json, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := pool.Exec(ctx, query, pkg.ID, pkg.Company.NIT, pkg.Company.RazonSocial, packageJSON, time.Now()); err != nil {
		return fmt.Errorf("save analysis package: %w", err)
	}
	return nil
}

// Load retrieves a package by id.
func (r *AnalysisRepo) Load(ctx context.Context, id string) (*models.AnalysisPackage, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var packageJSON []byte
	err := pool.QueryRow(ctx, `SELECT package_json FROM company_analysis WHERE id = $1`, id).Scan(&packageJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no analysis found for id %s", id)
		}
		return nil, fmt.Errorf("load analysis package: %w", err)
	}

	var pkg models.AnalysisPackage
	if err := json.Unmarshal(packageJSON, &pkg); err != nil {
		return nil, fmt.Errorf("unmarshal analysis package: %w", err)
	}
	return &pkg, nil
}

// AnalysisSummary is one row of the recent-analysis listing.
type AnalysisSummary struct {
	ID          string    `json:"id"`
	NIT         string    `json:"nit"`
	RazonSocial string    `json:"razon_social"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListRecent returns the most recent analyses, newest first.
func (r *AnalysisRepo) ListRecent(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := pool.Query(ctx,
		`SELECT id, nit, razon_social, created_at FROM company_analysis ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var summaries []AnalysisSummary
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.NIT, &s.RazonSocial, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
