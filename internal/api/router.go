package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaiwa-coach/memory-service/internal/service"
)

// NewRouter wires every endpoint of the inbound contract.
func NewRouter(svc *service.MemoryService, defaultRetentionDays int) *mux.Router {
	h := NewHandler(svc, defaultRetentionDays)
	r := mux.NewRouter()

	r.HandleFunc("/v0/health", h.Health).Methods(http.MethodGet)

	u := r.PathPrefix("/api/users/{userId}").Subrouter()
	u.HandleFunc("/classify", h.Classify).Methods(http.MethodPost)
	u.HandleFunc("/memories", h.SaveMemory).Methods(http.MethodPost)
	u.HandleFunc("/memories", h.ListMemories).Methods(http.MethodGet)
	u.HandleFunc("/memories/search", h.SearchMemories).Methods(http.MethodPost)
	u.HandleFunc("/retrieve", h.Retrieve).Methods(http.MethodPost)
	u.HandleFunc("/memories/{memoryId}/touch", h.TouchMemory).Methods(http.MethodPost)
	u.HandleFunc("/memories/{memoryId}/expire", h.ExpireMemory).Methods(http.MethodPost)
	u.HandleFunc("/memories/{memoryId}", h.DeleteMemory).Methods(http.MethodDelete)
	u.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
	u.HandleFunc("/cleanup", h.Cleanup).Methods(http.MethodPost)

	return r
}
