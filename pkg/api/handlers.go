package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fanchat/fanchat/pkg/chat"
	"github.com/gorilla/mux"
)

// QuestionRequest is the body of POST /api/sessions/{id}/questions
type QuestionRequest struct {
	Question string `json:"question"`
}

// QuestionResponse carries the question the widget should submit next
type QuestionResponse struct {
	Question string       `json:"question"`
	Session  chat.Session `json:"session"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, chat.ErrEmptyMessage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CreateSessionHandler handles POST /api/sessions
func (h *Handlers) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Create()
	writeJSON(w, http.StatusCreated, s)
}

// GetSessionHandler handles GET /api/sessions/{id}
func (h *Handlers) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSettingsHandler handles PATCH /api/sessions/{id}/settings
func (h *Handlers) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var update chat.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if update.Theme != nil && !update.Theme.Valid() {
		http.Error(w, "Invalid theme", http.StatusBadRequest)
		return
	}

	s, err := h.Sessions.UpdateSettings(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// ResetSessionHandler handles POST /api/sessions/{id}/reset
func (h *Handlers) ResetSessionHandler(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DismissErrorHandler handles DELETE /api/sessions/{id}/error
func (h *Handlers) DismissErrorHandler(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.DismissError(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// SelectQuestionHandler handles POST /api/sessions/{id}/questions. Picking a
// suggested question closes the FAQ panel.
func (h *Handlers) SelectQuestionHandler(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	q, err := h.Sessions.SelectQuestion(r.Context(), id, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	s, err := h.Sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuestionResponse{Question: q, Session: s})
}

// FAQsHandler handles GET /api/faqs
func (h *Handlers) FAQsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": chat.FAQs()})
}

// RegisterRoutes registers the API routes on a router
func RegisterRoutes(router *mux.Router, h *Handlers) {
	router.HandleFunc("/api/chat", h.ChatHandler).Methods("POST")
	router.HandleFunc("/api/layout", h.LayoutHandler).Methods("POST")
	router.HandleFunc("/api/faqs", h.FAQsHandler).Methods("GET")

	router.HandleFunc("/api/sessions", h.CreateSessionHandler).Methods("POST")
	router.HandleFunc("/api/sessions/{id}", h.GetSessionHandler).Methods("GET")
	router.HandleFunc("/api/sessions/{id}/settings", h.UpdateSettingsHandler).Methods("PATCH")
	router.HandleFunc("/api/sessions/{id}/reset", h.ResetSessionHandler).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/error", h.DismissErrorHandler).Methods("DELETE")
	router.HandleFunc("/api/sessions/{id}/questions", h.SelectQuestionHandler).Methods("POST")

	router.HandleFunc("/api/settings/config", h.GetSettingsHandler).Methods("GET")
	router.HandleFunc("/api/settings/config", h.UpdateAppSettingsHandler).Methods("PUT")
	router.HandleFunc("/api/settings/status", h.GetSetupStatusHandler).Methods("GET")
	router.HandleFunc("/api/providers/{providerId}/models", h.ListProviderModelsHandler).Methods("GET")

	router.HandleFunc("/ws/window", h.WindowSocketHandler)
}
