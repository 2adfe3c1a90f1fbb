package controllers

import (
	"fmt"
	"net/http"
	"time"
	"treats/internal/providers"
	"treats/internal/services"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	workspace services.WorkspaceInterface
	cache     providers.CacheProviderInterface
	logger    providers.Logger
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Revision      int64   `json:"revision"`
	Users         int     `json:"users"`
	Channels      int     `json:"channels"`
	Dms           int     `json:"dms"`
	Messages      int     `json:"messages"`

	Cache providers.CacheStats `json:"cache"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Cache:         hc.cache.Stats(),
	}
	status := http.StatusOK

	counts, err := hc.workspace.Counts()
	if err != nil {
		hc.logger.Errorf(providers.TypeApp, "Health check cannot load workspace: %s", err)
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	} else {
		resp.Revision = hc.workspace.Revision()
		resp.Users = counts.Users
		resp.Channels = counts.Channels
		resp.Dms = counts.Dms
		resp.Messages = counts.Messages
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(workspace services.WorkspaceInterface, cache providers.CacheProviderInterface, logger providers.Logger) *HealthController {
	return &HealthController{
		workspace: workspace,
		cache:     cache,
		logger:    logger,
		startTime: time.Now(),
	}
}
