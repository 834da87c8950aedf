// Package server exposes the chat engine over HTTP. Turns stream back as
// server-sent events; everything else is plain JSON.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/lexdraft-ai/lexdraft/internal/agent"
	"github.com/lexdraft-ai/lexdraft/internal/store"
)

// Server wires the turn agent and the store into HTTP handlers.
type Server struct {
	agent *agent.Agent
	store store.Store
	log   *zap.Logger
}

func New(a *agent.Agent, st store.Store, log *zap.Logger) *Server {
	return &Server{agent: a, store: st, log: log}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/chats", s.handleCreateChat)
	mux.HandleFunc("GET /api/chats/{session_id}", s.handleListChats)
	mux.HandleFunc("GET /api/chats/{session_id}/{chat_id}", s.handleGetChat)
	mux.HandleFunc("DELETE /api/chats/{session_id}/{chat_id}", s.handleDeleteChat)
	mux.HandleFunc("POST /api/chats/{session_id}/{chat_id}/edit", s.handleEditMessage)
	mux.HandleFunc("DELETE /api/conversations/{session_id}", s.handleClearSession)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type chatRequest struct {
	Message    string `json:"message"`
	SessionID  string `json:"session_id"`
	ChatID     string `json:"chat_id"`
	Regenerate bool   `json:"regenerate"`
}

// handleChat runs one turn and streams its events as SSE. The stream always
// ends with a [DONE] sentinel, including on mid-stream failure.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	chatID, events, err := s.agent.RunTurn(r.Context(), agent.TurnRequest{
		SessionID:  req.SessionID,
		ChatID:     req.ChatID,
		Message:    req.Message,
		Regenerate: req.Regenerate,
	})
	if err != nil {
		var ve *agent.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Reason)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	s.log.Info("turn started",
		zap.String("session_id", req.SessionID),
		zap.String("chat_id", chatID),
		zap.Bool("regenerate", req.Regenerate))

	for ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			s.log.Error("encode stream event", zap.Error(err))
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

type createChatRequest struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if r.Body != nil {
		// An empty body is a valid request for a default chat.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	chat := s.store.CreateChat(req.SessionID, req.Title)
	writeJSON(w, http.StatusOK, map[string]any{
		"chat_id":    chat.ID,
		"title":      chat.Title,
		"created_at": chat.CreatedAt,
	})
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats := s.store.ListChats(r.PathValue("session_id"))
	writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := s.store.GetChat(r.PathValue("session_id"), r.PathValue("chat_id"), false)
	if err != nil {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chat": map[string]any{
		"id":       chat.ID,
		"title":    chat.Title,
		"messages": chat.Messages,
	}})
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteChat(r.PathValue("session_id"), r.PathValue("chat_id")); err != nil {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

type editMessageRequest struct {
	MessageIndex *int   `json:"message_index"`
	NewContent   string `json:"new_content"`
}

func (s *Server) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	chatID := r.PathValue("chat_id")

	var req editMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.MessageIndex == nil {
		writeError(w, http.StatusBadRequest, "message_index required")
		return
	}
	newContent := strings.TrimSpace(req.NewContent)
	if newContent == "" {
		writeError(w, http.StatusBadRequest, "new_content required")
		return
	}

	messages, err := s.store.EditMessage(sessionID, chatID, *req.MessageIndex, newContent)
	if err != nil {
		var nf *store.NotFoundError
		if errors.As(err, &nf) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	chat, err := s.store.GetChat(sessionID, chatID, false)
	if err != nil {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	title := chat.Title
	// Editing the first message changes what the thread is about.
	if *req.MessageIndex == 0 {
		if newTitle, err := s.agent.RetitleChat(r.Context(), sessionID, chatID, newContent); err == nil && newTitle != "" {
			title = newTitle
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": messages,
		"title":    title,
	})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	s.store.ClearSession(r.PathValue("session_id"))
	writeJSON(w, http.StatusOK, map[string]any{"status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are gone at this point, nothing better to do than log.
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
