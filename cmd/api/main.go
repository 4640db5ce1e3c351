package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	apiAdvisor "github.com/martinechavarriaurrea-sys/analista-financiero/pkg/api/advisor"
	apiAnalysis "github.com/martinechavarriaurrea-sys/analista-financiero/pkg/api/analysis"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/api/companies"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/api/health"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	coreAdvisor "github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/advisor"
	coreAnalysis "github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/analysis"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/llm"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/logging"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/paths"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/socrata"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/store"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/supersoc"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	if err := logging.Configure(); err != nil {
		fmt.Printf("[WARNING] Failed to configure log file: %v\n", err)
	}

	settingsPath := os.Getenv("SETTINGS_PATH")
	if settingsPath == "" {
		settingsPath = "config/settings.yaml"
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		fmt.Printf("[WARNING] Failed to load %s: %v\n", settingsPath, err)
		fmt.Println("  Falling back to default settings")
		settings = config.DefaultSettings()
	}

	// Database is optional; without it the rows cache works on files and
	// analyses are not persisted.
	ctx := context.Background()
	var analysisRepo *store.AnalysisRepo
	if err := store.InitDB(ctx); err != nil {
		log.Printf("[WARNING] Database unavailable, using file cache only: %v", err)
	} else {
		analysisRepo = store.NewAnalysisRepo()
		defer store.Close()
	}

	cacheDir := settings.CacheDir
	if cacheDir == "" {
		if dir, err := paths.CachePath(true); err == nil {
			cacheDir = dir
		} else {
			log.Printf("[WARNING] Cache directory unavailable: %v", err)
		}
	}
	rowsCache := store.NewRowsCache(store.GetPool(), cacheDir, settings.CacheTTL())

	searcher := supersoc.NewClient(settings)
	fetcher := socrata.NewClient(settings)
	svc := coreAnalysis.NewService(searcher, fetcher, rowsCache, settings.LookbackYears)

	// The advisor route stays registered without a key; the handler answers
	// 503 until GEMINI_API_KEY is set.
	var adv *coreAdvisor.Advisor
	if os.Getenv("GEMINI_API_KEY") != "" {
		adv = coreAdvisor.New(&llm.GeminiProvider{Model: settings.AdvisorModel})
	} else {
		fmt.Println("[WARNING] GEMINI_API_KEY not set, advisor endpoint disabled")
	}

	http.HandleFunc("/api/health", health.HandleHealth)

	companiesHandler := companies.NewHandler(svc)
	http.HandleFunc("/api/companies/search", companiesHandler.HandleSearch)

	analysisHandler := apiAnalysis.NewHandler(svc, analysisRepo)
	http.HandleFunc("/api/analysis", analysisHandler.HandleAnalyze)
	http.HandleFunc("/api/analysis/explain", analysisHandler.HandleExplain)
	http.HandleFunc("/api/analysis/recent", analysisHandler.HandleRecent)
	http.HandleFunc("/api/analysis/saved", analysisHandler.HandleSaved)

	advisorHandler := apiAdvisor.NewHandler(svc, adv)
	http.HandleFunc("/api/advisor/ask", advisorHandler.HandleAsk)

	fmt.Printf("API server starting on %s...\n", settings.ListenAddr)
	fmt.Println("  - GET  /api/health")
	fmt.Println("  - GET  /api/companies/search")
	fmt.Println("  - GET  /api/analysis")
	fmt.Println("  - GET  /api/analysis/explain")
	fmt.Println("  - GET  /api/analysis/recent")
	fmt.Println("  - GET  /api/analysis/saved")
	fmt.Println("  - POST /api/advisor/ask")

	if err := http.ListenAndServe(settings.ListenAddr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
