package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"react-assistant/internal/app"
)

const apiVersion = "3.0.0"

// Server exposes the chat service over HTTP and WebSocket.
type Server struct {
	chat *app.ChatService
	log  *app.Logger

	mu      sync.Mutex
	sockets map[string]struct{}
}

func New(chat *app.ChatService, log *app.Logger) *Server {
	return &Server{
		chat:    chat,
		log:     log,
		sockets: make(map[string]struct{}),
	}
}

// Handler builds the full route table with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /history/{session_id}", s.handleHistory)
	mux.HandleFunc("GET /code/{session_id}", s.handleCode)
	mux.HandleFunc("GET /models", s.handleModels)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws/{session_id}", s.handleWebSocket)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return withCORS(mux)
}

// withCORS allows any origin. The service fronts local editor plugins and
// browser clients; there is no cookie auth to protect.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleChat accepts either a JSON body or a multipart form. The form variant
// exists for editor clients that upload open files directly: each text upload
// becomes an open-file context entry, binary uploads are skipped.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req app.ChatRequest

	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType == "multipart/form-data" {
		parsed, err := s.chatRequestFromForm(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req = parsed
	} else if !readJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	resp, err := s.chat.ProcessChat(r.Context(), req)
	if err != nil {
		http.Error(w, fmt.Sprintf("API Error: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) chatRequestFromForm(r *http.Request) (app.ChatRequest, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return app.ChatRequest{}, fmt.Errorf("invalid multipart form: %w", err)
	}

	req := app.ChatRequest{
		Query:     r.FormValue("query"),
		SessionID: r.FormValue("session_id"),
		ModelName: r.FormValue("model_name"),
	}

	var ctx app.ChatContext
	if raw := r.FormValue("workspace_tree"); raw != "" {
		var tree app.WorkspaceTree
		if err := json.Unmarshal([]byte(raw), &tree); err != nil {
			return app.ChatRequest{}, fmt.Errorf("invalid workspace_tree JSON: %w", err)
		}
		ctx.WorkspaceTree = &tree
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				continue
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil || !utf8.Valid(content) {
				s.log.Info("skipping unreadable upload", map[string]interface{}{"file": header.Filename})
				continue
			}
			ctx.OpenFiles = append(ctx.OpenFiles, app.FileContext{
				Path:    header.Filename,
				Content: string(content),
			})
		}
	}

	if ctx.HasContent() {
		req.Context = &ctx
	}
	return req, nil
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	req := resetRequest{SessionID: "default"}
	if !readJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}
	s.chat.Store.Reset(req.SessionID)
	writeJSON(w, map[string]string{
		"message": fmt.Sprintf("Session %s reset successfully", req.SessionID),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	provider := app.Provider(r.URL.Query().Get("provider"))
	if provider == "" {
		provider = app.ProviderClaude
	}

	messages := s.chat.Store.History(sessionID, provider)
	if messages == nil {
		writeJSON(w, map[string]interface{}{
			"messages": []app.Message{},
			"has_code": false,
			"provider": provider,
		})
		return
	}
	writeJSON(w, map[string]interface{}{
		"messages":        messages,
		"session_id":      sessionID,
		"has_code":        s.chat.Store.LastGeneratedCode(sessionID) != "",
		"examples_cached": s.chat.Store.ExamplesInjected(sessionID, provider),
		"provider":        provider,
	})
}

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	code := s.chat.Store.LastGeneratedCode(sessionID)
	if code == "" {
		writeJSON(w, map[string]interface{}{
			"code":    nil,
			"message": "No code generated yet",
		})
		return
	}
	writeJSON(w, map[string]interface{}{
		"code":       code,
		"session_id": sessionID,
	})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]interface{}{
		"claude":         s.chat.Claude.Models(),
		"openai":         s.chat.OpenAI.Models(),
		"default_claude": s.chat.Claude.DefaultModel(),
		"default_openai": s.chat.OpenAI.DefaultModel(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	activeSockets := len(s.sockets)
	s.mu.Unlock()

	writeJSON(w, map[string]interface{}{
		"status":            "healthy",
		"timestamp":         time.Now().Format(time.RFC3339),
		"active_sessions":   s.chat.Store.Len(),
		"active_websockets": activeSockets,
		"providers":         []app.Provider{app.ProviderClaude, app.ProviderOpenAI},
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]interface{}{
		"message": "React Code Assistant API - Multi-Provider",
		"version": apiVersion,
		"providers": map[string]interface{}{
			"claude": map[string]interface{}{
				"models":       s.chat.Claude.Models(),
				"optimization": "XML-structured prompts with explicit caching",
			},
			"openai": map[string]interface{}{
				"models":       s.chat.OpenAI.Models(),
				"optimization": "Markdown-structured prompts with automatic caching",
			},
		},
		"websocket": "/ws/{session_id}",
	})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// An empty body means no fields supplied; callers keep their defaults.
		if errors.Is(err, io.EOF) {
			return true
		}
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encoding response: %v", err), http.StatusInternalServerError)
	}
}
