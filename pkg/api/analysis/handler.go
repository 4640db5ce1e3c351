// Package analysis provides the HTTP handlers that run the financial
// analysis pipeline for a company and render its explained report.
package analysis

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/api/respond"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	coreAnalysis "github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/analysis"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/explain"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/store"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

// Handler serves analysis requests.
type Handler struct {
	svc  *coreAnalysis.Service
	repo *store.AnalysisRepo
}

// NewHandler creates a new analysis handler. repo may be nil when no
// database is configured; results are then not persisted.
func NewHandler(svc *coreAnalysis.Service, repo *store.AnalysisRepo) *Handler {
	return &Handler{svc: svc, repo: repo}
}

// HandleAnalyze handles GET /api/analysis?nit=...&years=2021,2022
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	respond.CORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pkg, ok := h.runAnalysis(w, r)
	if !ok {
		return
	}
	if h.repo != nil {
		if err := h.repo.Save(r.Context(), pkg); err != nil {
			log.Printf("[WARNING] persist analysis %s: %v", pkg.ID, err)
		}
	}
	respond.JSON(w, http.StatusOK, pkg)
}

// HandleExplain handles GET /api/analysis/explain?nit=...&format=html|markdown
// It runs the same pipeline and returns the narrated report, with every
// metric explained for a non-financial reader.
func (h *Handler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	respond.CORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pkg, ok := h.runAnalysis(w, r)
	if !ok {
		return
	}

	markdown := explain.RenderMarkdownReport(pkg)
	if strings.TrimSpace(r.URL.Query().Get("format")) == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(markdown))
		return
	}

	html, err := utils.RenderMarkdownHTML(markdown)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"id":           pkg.ID,
		"nit":          pkg.Company.NIT,
		"razon_social": pkg.Company.RazonSocial,
		"years":        pkg.Years,
		"explanations": explain.BuildExplanations(pkg, config.DefaultMetrics),
		"report_html":  html,
	})
}

// HandleRecent handles GET /api/analysis/recent?limit=20 over the stored
// analyses. It is only reachable when a database is configured.
func (h *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	respond.CORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.repo == nil {
		http.Error(w, "Analysis history requires a configured database", http.StatusServiceUnavailable)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	summaries, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"analyses": summaries})
}

// HandleSaved handles GET /api/analysis/saved?id=... and returns a stored
// package without re-running the pipeline.
func (h *Handler) HandleSaved(w http.ResponseWriter, r *http.Request) {
	respond.CORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.repo == nil {
		http.Error(w, "Analysis history requires a configured database", http.StatusServiceUnavailable)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "Missing query parameter 'id'", http.StatusBadRequest)
		return
	}
	pkg, err := h.repo.Load(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, pkg)
}

func (h *Handler) runAnalysis(w http.ResponseWriter, r *http.Request) (*models.AnalysisPackage, bool) {
	nit := strings.TrimSpace(r.URL.Query().Get("nit"))
	if nit == "" {
		http.Error(w, "Missing query parameter 'nit'", http.StatusBadRequest)
		return nil, false
	}

	years, err := parseYears(r.URL.Query().Get("years"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	pkg, err := h.svc.AnalyzeByNIT(r.Context(), nit, years)
	if err != nil {
		respond.Error(w, err)
		return nil, false
	}
	return pkg, true
}

// parseYears parses a comma-separated year list; empty means "all recent".
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
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}
