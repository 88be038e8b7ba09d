package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	deployH *DeployHandler,
	logH *LogHandler,
	statsH *StatsHandler,
	apiToken string,
	maxBodyBytes int64,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogMiddleware)
	r.Use(bodyLimitMiddleware(maxBodyBytes))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":  "serverless-engine",
			"platform": "Knative Serving",
			"endpoints": map[string]string{
				"health": "/healthz",
				"deploy": "/api/v1/deployments (POST)",
				"list":   "/api/v1/apps (GET)",
				"get":    "/api/v1/apps/{namespace}/{name} (GET)",
				"delete": "/api/v1/apps/{namespace}/{name} (DELETE)",
				"logs":   "/api/v1/apps/{namespace}/{name}/logs (GET)",
			},
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(apiToken))

		r.Post("/deployments", deployH.Deploy)

		r.Route("/apps", func(r chi.Router) {
			r.Get("/", deployH.List)
			r.Route("/{namespace}/{name}", func(r chi.Router) {
				r.Get("/", deployH.Get)
				r.Delete("/", deployH.Delete)
				r.Get("/logs", logH.GetLogs)
				r.Get("/stats", statsH.GetTraffic)
				r.Get("/history", deployH.History)
			})
		})
	})

	return r
}
