package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
	"github.com/chiwei-platform/serverless-engine/internal/service"
	"github.com/go-chi/chi/v5"
)

type DeployHandler struct {
	svc *service.DeployService
}

func NewDeployHandler(svc *service.DeployService) *DeployHandler {
	return &DeployHandler{svc: svc}
}

func (h *DeployHandler) Deploy(w http.ResponseWriter, r *http.Request) {
	var req domain.DeploymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidInput)
		return
	}
	outcome, err := h.svc.Deploy(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if outcome.Action == domain.ActionCreated {
		status = http.StatusCreated
	}
	writeJSON(w, status, outcome)
}

func (h *DeployHandler) List(w http.ResponseWriter, r *http.Request) {
	namespace := r.URL.Query().Get("namespace")
	apps, err := h.svc.ListApps(r.Context(), namespace)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"apps": apps, "count": len(apps)})
}

func (h *DeployHandler) Get(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")
	app, err := h.svc.GetApp(r.Context(), namespace, name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *DeployHandler) Delete(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")
	if err := h.svc.Delete(r.Context(), namespace, name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":      name,
		"namespace": namespace,
		"status":    "deleted",
	})
}

func (h *DeployHandler) History(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	records, err := h.svc.History(r.Context(), namespace, name, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records, "count": len(records)})
}
