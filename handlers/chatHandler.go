package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"schooltutor/config"
	"schooltutor/logger"
	"schooltutor/models"
	"schooltutor/services"
	"schooltutor/services/chat"

	"github.com/gorilla/mux"
)

type MessageDispatcher interface {
	HandleMessage(ctx context.Context, sessionID, message string) (*models.ChatResponse, error)
}

type SessionStore interface {
	AddUserData(sessionID string, profile models.SessionProfile)
	GetHistory(sessionID string, limit int) []models.Message
	Clear(sessionID string)
}

type ChatHandler struct {
	dispatcher MessageDispatcher
	sessions   SessionStore
	timeout    time.Duration
	log        *logger.Logger
}

func NewChatHandler(dispatcher MessageDispatcher, sessions SessionStore, timeout time.Duration, log *logger.Logger) *ChatHandler {
	return &ChatHandler{dispatcher: dispatcher, sessions: sessions, timeout: timeout, log: log}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/chat", h.Chat).Methods("POST")
	router.HandleFunc("/api/chat/user", h.SetUserData).Methods("POST")
	router.HandleFunc("/api/chat/history", h.GetHistory).Methods("GET")
	router.HandleFunc("/api/chat/clear", h.Clear).Methods("POST")
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeErrorResponse(w, http.StatusBadRequest, "No message provided")
			return
		}
		h.log.Warn("Failed to decode chat request JSON", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Message == nil {
		writeErrorResponse(w, http.StatusBadRequest, "No message provided")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	sessionID := sessionOrDefault(req.SessionID)
	resp, err := h.dispatcher.HandleMessage(ctx, sessionID, *req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			writeErrorResponse(w, http.StatusBadRequest, "Empty message")
			return
		}
		h.log.Error("Error in chat endpoint", "session_id", sessionID, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

func (h *ChatHandler) SetUserData(w http.ResponseWriter, r *http.Request) {
	var req models.UserDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	h.sessions.AddUserData(sessionOrDefault(req.SessionID), models.SessionProfile{
		Name:     req.Name,
		Standard: req.Standard,
		Stream:   req.Stream,
	})

	writeJSONResponse(w, http.StatusOK, models.StatusResponse{Message: "User data stored successfully"})
}

func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := services.DefaultHistoryLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, services.MaxHistory)
	}

	history := h.sessions.GetHistory(sessionOrDefault(query.Get("session_id")), limit)
	writeJSONResponse(w, http.StatusOK, models.HistoryResponse{History: history})
}

func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	h.sessions.Clear(sessionOrDefault(req.SessionID))
	writeJSONResponse(w, http.StatusOK, models.StatusResponse{Message: "Conversation cleared successfully"})
}

func sessionOrDefault(sessionID string) string {
	if sessionID == "" {
		return config.DefaultSessionID
	}
	return sessionID
}
