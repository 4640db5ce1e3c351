package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/analysis"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/calc"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/explain"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/logging"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/paths"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/socrata"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/store"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/supersoc"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"

	"github.com/joho/godotenv"
)

func main() {
	nit := flag.String("nit", "", "NIT de la empresa a analizar")
	query := flag.String("q", "", "Texto de busqueda de empresas")
	by := flag.String("by", "razon_social", "Modo de busqueda: nit o razon_social")
	yearsArg := flag.String("years", "", "Anios a incluir, separados por comas (vacio = ultimos disponibles)")
	report := flag.Bool("reporte", false, "Exportar el reporte explicado en markdown al escritorio")
	flag.Parse()

	godotenv.Load()
	if err := logging.Configure(); err != nil {
		fmt.Printf("[WARNING] Failed to configure log file: %v\n", err)
	}

	if *nit == "" && *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	settings := config.DefaultSettings()
	ctx := context.Background()

	var cacheDir string
	if dir, err := paths.CachePath(true); err == nil {
		cacheDir = dir
	}
	rowsCache := store.NewRowsCache(nil, cacheDir, settings.CacheTTL())

	searcher := supersoc.NewClient(settings)
	fetcher := socrata.NewClient(settings)
	svc := analysis.NewService(searcher, fetcher, rowsCache, settings.LookbackYears)

	if *nit == "" {
		runSearch(ctx, svc, *query, *by)
		return
	}

	years, err := parseYears(*yearsArg)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	runAnalysis(ctx, svc, *nit, years, *report)
}

func runSearch(ctx context.Context, svc *analysis.Service, query, by string) {
	results, err := svc.SearchCompanies(ctx, query, by)
	if err != nil {
		log.Fatalf("Error en la busqueda: %v", err)
	}
	if len(results) == 0 {
		fmt.Println("Sin resultados.")
		return
	}
	for _, company := range results {
		fmt.Println("  -", company.DisplayLabel())
	}
	fmt.Printf("%d resultado(s).\n", len(results))
}

func runAnalysis(ctx context.Context, svc *analysis.Service, nit string, years []int, exportReport bool) {
	pkg, err := svc.AnalyzeByNIT(ctx, nit, years)
	if err != nil {
		log.Fatalf("Error en el analisis: %v", err)
	}

	fmt.Printf("\n%s\n", pkg.Company.DisplayLabel())
	fmt.Printf("Anios analizados: %s\n\n", joinInts(pkg.Years))

	// Header row, then one row per metric.
	fmt.Printf("%-36s", "Indicador")
	for _, year := range pkg.Years {
		fmt.Printf("  %20d", year)
	}
	fmt.Println()

	for _, key := range config.DefaultMetrics {
		fmt.Printf("%-36s", config.MetricLabels[key])
		series := pkg.MetricSeries(key)
		for _, year := range pkg.Years {
			fmt.Printf("  %20s", formatMetric(key, series[year]))
		}
		fmt.Println()
	}

	lastYear := pkg.Years[len(pkg.Years)-1]
	if snap := pkg.Snapshots[lastYear]; snap != nil {
		zone := calc.ZAltmanZone(snap.Metrics["z_altman"])
		fmt.Printf("\nZona Z-Altman (%d): %s\n", lastYear, zone)
	}

	if warnings := pkg.AllWarnings(); len(warnings) > 0 {
		fmt.Println("\nAdvertencias:")
		for _, warning := range warnings {
			fmt.Println("  -", warning)
		}
	}

	if exportReport {
		reportsDir, err := paths.ReportsPath(true)
		if err != nil {
			log.Fatalf("Error preparando la carpeta de reportes: %v", err)
		}
		reportPath := filepath.Join(reportsDir, fmt.Sprintf("analisis_%s.md", pkg.Company.NIT))
		if err := os.WriteFile(reportPath, []byte(explain.RenderMarkdownReport(pkg)), 0644); err != nil {
			log.Fatalf("Error escribiendo el reporte: %v", err)
		}
		fmt.Printf("\nReporte exportado en %s\n", reportPath)
	}
}

// formatMetric renders z-scores and day counts as plain numbers and
// everything else as COP currency.
func formatMetric(key string, value *float64) string {
	switch key {
	case "z_altman":
		return utils.FormatNumber(value, 2)
	case "dias_capital_trabajo":
		return utils.FormatNumber(value, 1)
	default:
		return utils.FormatCurrency(value)
	}
}

func parseYears(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var years []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("anio invalido %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
