package http

import (
	"net/http"

	"github.com/chiwei-platform/serverless-engine/internal/service"
	"github.com/go-chi/chi/v5"
)

type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) GetTraffic(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")
	since := r.URL.Query().Get("since")

	stats, err := h.svc.GetTraffic(r.Context(), namespace, name, since)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
