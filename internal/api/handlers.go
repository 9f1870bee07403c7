// Package api is the thin HTTP transport over the memory service. Each
// endpoint maps one-to-one onto an operation of the inbound contract.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kaiwa-coach/memory-service/internal/api/respond"
	"github.com/kaiwa-coach/memory-service/internal/api/validate"
	"github.com/kaiwa-coach/memory-service/internal/model"
	"github.com/kaiwa-coach/memory-service/internal/service"
)

// Handler handles memory-related HTTP requests.
type Handler struct {
	svc *service.MemoryService

	// defaultRetentionDays applies when a cleanup request omits its own
	// window.
	defaultRetentionDays int
}

// NewHandler creates a handler over the service.
func NewHandler(svc *service.MemoryService, defaultRetentionDays int) *Handler {
	return &Handler{svc: svc, defaultRetentionDays: defaultRetentionDays}
}

// Classify handles POST /api/users/{userId}/classify.
// With "save": true the positive decision is persisted in the same call.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId,omitempty"`
		Save      bool   `json:"save,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Message(req.Message); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	if !req.Save {
		dec := h.svc.Classify(r.Context(), req.Message, userID)
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"decision": dec})
		return
	}

	dec, mem, err := h.svc.ClassifyAndSave(r.Context(), req.Message, userID, req.SessionID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	body := map[string]interface{}{"decision": dec}
	if mem != nil {
		body["memory"] = mem
	}
	respond.WriteJSON(w, http.StatusOK, body)
}

// SaveMemory handles POST /api/users/{userId}/memories. The body is a
// memory-without-id; the server assigns id, timestamp and accessed.
func (h *Handler) SaveMemory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	var req struct {
		SessionID string           `json:"sessionId,omitempty"`
		Type      model.MemoryType `json:"type"`
		Content   json.RawMessage  `json:"content"`
		Relevance float64          `json:"relevance"`
		Tags      []string         `json:"tags,omitempty"`
		ExpiresAt *time.Time       `json:"expiresAt,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.MemoryType(req.Type); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Relevance(req.Relevance); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	content, err := model.DecodeContent(req.Type, req.Content)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	mem, err := h.svc.Save(r.Context(), &model.Memory{
		UserID:    userID,
		SessionID: req.SessionID,
		Type:      req.Type,
		Content:   content,
		Relevance: req.Relevance,
		Tags:      req.Tags,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, mem)
}

// ListMemories handles GET /api/users/{userId}/memories.
func (h *Handler) ListMemories(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	memories, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"memories": memories,
		"count":    len(memories),
	})
}

// SearchMemories handles POST /api/users/{userId}/memories/search.
func (h *Handler) SearchMemories(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	var criteria model.SearchCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	criteria.UserID = userID

	memories, err := h.svc.Search(r.Context(), criteria)
	if err != nil {
		if errors.Is(err, model.ErrUserIDRequired) {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"memories": memories,
		"count":    len(memories),
	})
}

// Retrieve handles POST /api/users/{userId}/retrieve. An optional "now"
// timestamp pins the reference instant; it defaults to the server clock.
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	var req struct {
		Message string     `json:"message"`
		Now     *time.Time `json:"now,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Message(req.Message); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	now := time.Now().UTC()
	if req.Now != nil {
		now = req.Now.UTC()
	}

	result, err := h.svc.Retrieve(r.Context(), req.Message, userID, now)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, result)
}

// TouchMemory handles POST /api/users/{userId}/memories/{memoryId}/touch.
func (h *Handler) TouchMemory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, memoryID := vars["userId"], vars["memoryId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.svc.Touch(r.Context(), userID, memoryID); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExpireMemory handles POST /api/users/{userId}/memories/{memoryId}/expire.
func (h *Handler) ExpireMemory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, memoryID := vars["userId"], vars["memoryId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.svc.Expire(r.Context(), userID, memoryID); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMemory handles DELETE /api/users/{userId}/memories/{memoryId}.
func (h *Handler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, memoryID := vars["userId"], vars["memoryId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	found, err := h.svc.Delete(r.Context(), userID, memoryID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if !found {
		respond.WriteNotFound(w, model.ErrNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/users/{userId}/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	st, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, st)
}

// Cleanup handles POST /api/users/{userId}/cleanup.
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	req := struct {
		RetentionDays int `json:"retentionDays,omitempty"`
	}{RetentionDays: h.defaultRetentionDays}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteBadRequest(w, "Invalid JSON")
			return
		}
	}
	if err := validate.RetentionDays(req.RetentionDays); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	removed, err := h.svc.Cleanup(r.Context(), userID, req.RetentionDays)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

// Health handles GET /v0/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.HealthCheck(r.Context()); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
