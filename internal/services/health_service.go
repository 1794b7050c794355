package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	ws "nwcli/internal/websocket"
)

// HealthService provides health check functionality
type HealthService struct {
	version      string
	buildTime    string
	dataService  *DataService
	webSocketHub *ws.Hub
	startTime    time.Time
	logger       *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(version, buildTime string, dataService *DataService, webSocketHub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:      version,
		buildTime:    buildTime,
		dataService:  dataService,
		webSocketHub: webSocketHub,
		startTime:    time.Now(),
		logger:       logger,
	}
}

// Check reports overall service health. The service is degraded when the
// dataset has never loaded, healthy otherwise.
func (hs *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
		},
		Services: map[string]interface{}{},
	}

	if hs.dataService != nil {
		loaded, loadedAt, participants, lastErr := hs.dataService.Status()
		dataStatus := map[string]interface{}{
			"loaded":       loaded,
			"participants": participants,
		}
		if loaded {
			dataStatus["loaded_at"] = loadedAt.UTC().Format(time.RFC3339)
		} else {
			status.Status = "degraded"
		}
		if lastErr != nil {
			dataStatus["last_error"] = lastErr.Error()
		}
		status.Services["dataset"] = dataStatus
	}

	if hs.webSocketHub != nil {
		status.Services["websocket"] = map[string]interface{}{
			"clients": hs.webSocketHub.ClientCount(),
		}
	}

	return status
}

// Ready reports whether the service can answer data queries, i.e. a dataset
// has loaded at least once.
func (hs *HealthService) Ready() bool {
	if hs.dataService == nil {
		return false
	}
	loaded, _, _, _ := hs.dataService.Status()
	return loaded
}

// Version returns version metadata for the version endpoint.
func (hs *HealthService) Version() map[string]string {
	info := map[string]string{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"platform":   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if hs.buildTime != "" {
		info["build_time"] = hs.buildTime
	}
	return info
}
