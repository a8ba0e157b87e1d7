package handler

import (
	"log/slog"
	"net/http"

	"coinlisting/internal/domain/port"
)

type HealthHandler struct {
	journal port.JournalPort
	gate    port.RefreshGate
	logger  *slog.Logger
}

func NewHealthHandler(journal port.JournalPort, gate port.RefreshGate, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		journal: journal,
		gate:    gate,
		logger:  logger,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	journalStatus := "healthy"
	gateStatus := "healthy"
	overallStatus := "healthy"

	if err := h.journal.Ping(r.Context()); err != nil {
		journalStatus = "unhealthy"
		overallStatus = "degraded"
		h.logger.Warn("journal health check failed", "error", err)
	}

	if err := h.gate.Ping(r.Context()); err != nil {
		gateStatus = "unhealthy"
		overallStatus = "degraded"
		h.logger.Warn("refresh gate health check failed", "error", err)
	}

	response := map[string]interface{}{
		"status": overallStatus,
		"checks": map[string]string{
			"journal": journalStatus,
			"gate":    gateStatus,
		},
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, response)
}
