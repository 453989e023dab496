package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter wires the handler's endpoints under /api/v1 with CORS for
// the frontend origins.
func NewRouter(handler *Handler, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/state", handler.GetState).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", handler.GetDashboard).Methods(http.MethodGet)
	api.HandleFunc("/topics", handler.GetTopics).Methods(http.MethodGet)
	api.HandleFunc("/practice", handler.GetPractice).Methods(http.MethodGet)

	api.HandleFunc("/topics/{id}/progress", handler.SetProgress).Methods(http.MethodPost)
	api.HandleFunc("/topics/{id}/sessions", handler.AddSession).Methods(http.MethodPost)
	api.HandleFunc("/topics/{id}/note", handler.SetReviewNote).Methods(http.MethodPost)
	api.HandleFunc("/hours", handler.SetOverallHours).Methods(http.MethodPost)

	api.HandleFunc("/plan", handler.GetPlan).Methods(http.MethodGet)
	api.HandleFunc("/plan/generate", handler.GeneratePlan).Methods(http.MethodPost)
	api.HandleFunc("/plan/tasks", handler.GetTasks).Methods(http.MethodGet)
	api.HandleFunc("/plan/tasks", handler.SetTaskDone).Methods(http.MethodPost)

	api.HandleFunc("/explain", handler.Explain).Methods(http.MethodPost)

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         3600,
	}).Handler(router)
}
