// Package advisor exposes the conversational advisor endpoint backed by the
// analysis pipeline and an LLM provider.
package advisor

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/api/respond"
	coreAdvisor "github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/advisor"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/analysis"
)

// Handler serves advisor questions.
type Handler struct {
	svc     *analysis.Service
	advisor *coreAdvisor.Advisor
}

// NewHandler creates a new advisor handler
func NewHandler(svc *analysis.Service, adv *coreAdvisor.Advisor) *Handler {
	return &Handler{svc: svc, advisor: adv}
}

// AskRequest carries the company and the user's question.
type AskRequest struct {
	NIT      string `json:"nit"`
	Question string `json:"question"`
	Years    []int  `json:"years,omitempty"`
}

// HandleAsk handles POST /api/advisor/ask
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	respond.CORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.advisor == nil {
		http.Error(w, "Advisor is not configured (missing GEMINI_API_KEY)", http.StatusServiceUnavailable)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.NIT = strings.TrimSpace(req.NIT)
	req.Question = strings.TrimSpace(req.Question)
	if req.NIT == "" || req.Question == "" {
		http.Error(w, "Both 'nit' and 'question' are required", http.StatusBadRequest)
		return
	}

	pkg, err := h.svc.AnalyzeByNIT(r.Context(), req.NIT, req.Years)
	if err != nil {
		respond.Error(w, err)
		return
	}

	answer, err := h.advisor.Ask(r.Context(), pkg, req.Question)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, answer)
}
