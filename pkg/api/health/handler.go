// Package health exposes the liveness endpoint.
package health

import (
	"net/http"
	"time"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/api/respond"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
)

var startedAt = time.Now()

// HealthResponse reports service identity and uptime.
type HealthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// HandleHealth handles GET /api/health
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	respond.CORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Service:       config.AppName,
		UptimeSeconds: int64(time.Since(startedAt).Seconds()),
	})
}
