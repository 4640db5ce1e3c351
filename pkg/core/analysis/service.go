// Package analysis orchestrates one company analysis: portal search, row
// fetching, normalization, year selection and per-year indicator snapshots.
package analysis

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/calc"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/errs"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/normalize"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/store"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/supersoc"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

// RowFetcher retrieves the raw statement rows for one company, keyed by
// statement category. The Socrata client is the live implementation.
type RowFetcher interface {
	FetchCompanyRows(ctx context.Context, nit string, lookbackYears int) (map[string][]models.StatementRow, error)
}

// CompanySearcher finds companies on the Supersociedades portal.
type CompanySearcher interface {
	Search(ctx context.Context, query, by string) ([]models.CompanyRecord, error)
	SearchByNIT(ctx context.Context, nit string) ([]models.CompanyRecord, error)
}

// Service wires the search and data collaborators into the analysis pipeline.
type Service struct {
	searcher  CompanySearcher
	fetcher   RowFetcher
	rowsCache *store.RowsCache
	lookback  int
}

var _ CompanySearcher = (*supersoc.Client)(nil)

// NewService builds the orchestrator. The rows cache may be nil.
func NewService(searcher CompanySearcher, fetcher RowFetcher, rowsCache *store.RowsCache, lookbackYears int) *Service {
	if lookbackYears <= 0 {
		lookbackYears = config.DefaultLookbackYears
	}
	return &Service{
		searcher:  searcher,
		fetcher:   fetcher,
		rowsCache: rowsCache,
		lookback:  lookbackYears,
	}
}

// SearchCompanies proxies a portal search.
func (s *Service) SearchCompanies(ctx context.Context, query, by string) ([]models.CompanyRecord, error) {
	return s.searcher.Search(ctx, query, by)
}

// FindCompanyByNIT returns the single company for a NIT.
func (s *Service) FindCompanyByNIT(ctx context.Context, nit string) (models.CompanyRecord, error) {
	companies, err := s.searcher.SearchByNIT(ctx, nit)
	if err != nil {
		return models.CompanyRecord{}, err
	}
	if len(companies) == 0 {
		return models.CompanyRecord{}, fmt.Errorf("%w: no se encontro una empresa con el NIT %s", errs.ErrCompanyNotFound, nit)
	}
	return companies[0], nil
}

// AnalyzeCompany runs the full pipeline for one company. selectedYears
// optionally restricts the output to a subset of the available years; an
// empty slice means every year in the lookback window.
func (s *Service) AnalyzeCompany(ctx context.Context, company models.CompanyRecord, selectedYears []int) (*models.AnalysisPackage, error) {
	rowsByCategory, err := s.fetchRows(ctx, company.NIT)
	if err != nil {
		return nil, err
	}

	incomeTable := normalize.StatementRows(rowsByCategory[config.StatementIncome])
	balanceTable := normalize.StatementRows(rowsByCategory[config.StatementBalance])
	cashflowTable := normalize.StatementRows(rowsByCategory[config.StatementCashflow])

	recentYears := normalize.SelectRecentYears(incomeTable, balanceTable, cashflowTable, s.lookback)
	if len(recentYears) == 0 {
		return nil, fmt.Errorf("%w: la empresa fue encontrada, pero no hay datos financieros recientes para analizar", errs.ErrDataUnavailable)
	}

	years := filterYears(recentYears, selectedYears)

	snapshots := make(map[int]*models.YearFinancialSnapshot, len(years))
	for _, year := range years {
		snapshot := calc.ComputeYearSnapshot(year,
			incomeTable.Year(year),
			balanceTable.Year(year),
			cashflowTable.Year(year))

		if incomeTable.Year(year).Len() == 0 {
			snapshot.Warnings = append(snapshot.Warnings, "No se encontro informacion del estado de resultados para este ano.")
		}
		if balanceTable.Year(year).Len() == 0 {
			snapshot.Warnings = append(snapshot.Warnings, "No se encontro informacion de balance general para este ano.")
		}
		if cashflowTable.Year(year).Len() == 0 {
			snapshot.Warnings = append(snapshot.Warnings, "No se encontro informacion de flujo de caja para este ano.")
		}

		snapshots[year] = snapshot
	}

	ascending := append([]int(nil), years...)
	sort.Ints(ascending)

	log.Printf("[ANALYSIS] complete nit=%s years=%s", company.NIT, joinYears(years))
	return &models.AnalysisPackage{
		ID:          uuid.NewString(),
		Company:     company,
		Years:       ascending,
		Snapshots:   snapshots,
		GeneratedAt: time.Now(),
	}, nil
}

// AnalyzeByNIT is the one-call entry used by the API and CLI.
func (s *Service) AnalyzeByNIT(ctx context.Context, nit string, selectedYears []int) (*models.AnalysisPackage, error) {
	company, err := s.FindCompanyByNIT(ctx, nit)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeCompany(ctx, company, selectedYears)
}

func (s *Service) fetchRows(ctx context.Context, nit string) (map[string][]models.StatementRow, error) {
	if s.rowsCache != nil {
		cached := make(map[string][]models.StatementRow, len(config.StatementCategories))
		complete := true
		for _, category := range config.StatementCategories {
			rows, ok := s.rowsCache.Get(ctx, nit, category)
			if !ok {
				complete = false
				break
			}
			cached[category] = rows
		}
		if complete {
			log.Printf("[ANALYSIS] rows served from cache nit=%s", nit)
			return cached, nil
		}
	}

	rowsByCategory, err := s.fetcher.FetchCompanyRows(ctx, nit, s.lookback)
	if err != nil {
		return nil, err
	}

	if s.rowsCache != nil {
		for category, rows := range rowsByCategory {
			if err := s.rowsCache.Set(ctx, nit, category, rows); err != nil {
				log.Printf("[WARNING] rows cache write nit=%s dataset=%s: %v", nit, category, err)
			}
		}
	}
	return rowsByCategory, nil
}

// filterYears keeps the requested years that are actually available,
// descending; an empty or fully-unavailable request falls back to all
// available years.
func filterYears(available, requested []int) []int {
	if len(requested) == 0 {
		return available
	}

	availableSet := make(map[int]struct{}, len(available))
	for _, year := range available {
		availableSet[year] = struct{}{}
	}

	requestedSet := make(map[int]struct{}, len(requested))
	for _, year := range requested {
		requestedSet[year] = struct{}{}
	}

	var years []int
	for year := range requestedSet {
		if _, ok := availableSet[year]; ok {
			years = append(years, year)
		}
	}
	if len(years) == 0 {
		return available
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, year := range years {
		parts[i] = fmt.Sprintf("%d", year)
	}
	return strings.Join(parts, ",")
}
