package http

import (
	"net/http"
	"strconv"

	"github.com/chiwei-platform/serverless-engine/internal/service"
	"github.com/go-chi/chi/v5"
)

type LogHandler struct {
	svc *service.LogService
}

func NewLogHandler(svc *service.LogService) *LogHandler {
	return &LogHandler{svc: svc}
}

func (h *LogHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")

	var tailLines int64 = 100
	if raw := r.URL.Query().Get("tail_lines"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			tailLines = v
		}
	}

	result, err := h.svc.GetLogs(r.Context(), namespace, name, tailLines)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
