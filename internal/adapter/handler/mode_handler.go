package handler

import (
	"context"
	"log/slog"
	"net/http"

	"coinlisting/internal/application/service"
	"coinlisting/internal/domain/model"
)

type modeResponse struct {
	Status  string `json:"status"`
	Mode    string `json:"mode"`
	Message string `json:"message,omitempty"`
}

// ModeHandler switches the source used by subsequent loads. Views that
// are already loaded keep their data.
type ModeHandler struct {
	modeService *service.ModeService
	switchFn    func(context.Context, model.DataMode) error
	log         *slog.Logger
}

func NewModeHandler(ms *service.ModeService, switchFn func(context.Context, model.DataMode) error, log *slog.Logger) *ModeHandler {
	if switchFn == nil {
		switchFn = ms.SwitchMode
	}
	return &ModeHandler{
		modeService: ms,
		switchFn:    switchFn,
		log:         log,
	}
}

func (h *ModeHandler) SwitchToTest(w http.ResponseWriter, r *http.Request) {
	h.log.Info("received request to switch to test mode")
	h.switchMode(w, r, model.TestMode)
}

func (h *ModeHandler) SwitchToLive(w http.ResponseWriter, r *http.Request) {
	h.log.Info("received request to switch to live mode")
	h.switchMode(w, r, model.LiveMode)
}

func (h *ModeHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modeResponse{Status: "ok", Mode: h.modeService.GetCurrentMode().String()})
}

func (h *ModeHandler) switchMode(w http.ResponseWriter, r *http.Request, mode model.DataMode) {
	currentMode := h.modeService.GetCurrentMode()

	if currentMode == mode {
		h.log.Info("already in requested mode", "mode", mode)
		writeJSON(w, http.StatusOK, modeResponse{Status: "ok", Mode: mode.String(), Message: "already in requested mode"})
		return
	}

	h.log.Info("switching mode", "from", currentMode, "to", mode)

	if err := h.switchFn(r.Context(), mode); err != nil {
		h.log.Error("switch mode failed", "from", currentMode, "to", mode, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to switch mode")
		return
	}

	h.log.Info("mode switched successfully", "new_mode", mode)
	writeJSON(w, http.StatusOK, modeResponse{Status: "ok", Mode: mode.String()})
}
