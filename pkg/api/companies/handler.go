// Package companies provides HTTP handlers for company search against the
// Supersociedades registry.
package companies

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/api/respond"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/analysis"
)

// Handler serves company search requests.
type Handler struct {
	svc *analysis.Service
}

// NewHandler creates a new companies handler
func NewHandler(svc *analysis.Service) *Handler {
	return &Handler{svc: svc}
}

// HandleSearch handles GET /api/companies/search?q=...&by=nit|razon_social
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	respond.CORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "Missing query parameter 'q'", http.StatusBadRequest)
		return
	}
	by := strings.TrimSpace(r.URL.Query().Get("by"))
	if by == "" {
		by = "razon_social"
	}
	if by != "nit" && by != "razon_social" {
		http.Error(w, fmt.Sprintf("Unsupported search mode %q", by), http.StatusBadRequest)
		return
	}

	results, err := h.svc.SearchCompanies(r.Context(), query, by)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"by":      by,
		"results": results,
	})
}
