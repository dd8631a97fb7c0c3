// Package server exposes the HTTP surface: the provider webhook, the
// liveness probe, and self-hosted media artifacts.
package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/thirdeye/pkg/adapter"
	"github.com/m-mizutani/thirdeye/pkg/model"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
)

// MessageHandler is the router entry point the server dispatches to. It
// never fails; internal errors surface as apology replies.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *model.InboundMessage) *model.Reply
}

type Server struct {
	handler   MessageHandler
	storage   adapter.Storage
	publicURL string
}

// NewInput contains the dependencies for the HTTP server.
type NewInput struct {
	Handler MessageHandler
	Storage adapter.Storage

	// PublicURL overrides the externally reachable base URL. When empty
	// it is derived per request from the Host header.
	PublicURL string
}

// New builds the HTTP handler tree.
func New(input NewInput) http.Handler {
	s := &Server{
		handler:   input.Handler,
		storage:   input.Storage,
		publicURL: strings.TrimSuffix(input.PublicURL, "/"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/whatsapp", s.handleWebhook)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/media/", s.handleMedia)
	mux.HandleFunc("/", s.handleRoot)

	return withRequestLog(mux)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	msg := &model.InboundMessage{
		From:    model.ConversationID(r.PostFormValue("From")),
		Body:    strings.TrimSpace(r.PostFormValue("Body")),
		BaseURL: s.baseURL(r),
	}

	if r.PostFormValue("NumMedia") != "" && r.PostFormValue("NumMedia") != "0" {
		contentType := r.PostFormValue("MediaContentType0")
		msg.Media = &model.Media{
			Kind:        model.KindOfContentType(contentType),
			ContentType: contentType,
			URL:         r.PostFormValue("MediaUrl0"),
		}
	}

	reply := s.handler.HandleMessage(r.Context(), msg)

	body, err := renderTwiML(reply)
	if err != nil {
		logging.From(r.Context()).Error("failed to render reply", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(body)
}

// baseURL picks the configured public URL or derives one from the
// request. The provider only fetches media over HTTPS.
func (s *Server) baseURL(r *http.Request) string {
	if s.publicURL != "" {
		return s.publicURL
	}
	return "https://" + r.Host
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte("OK"))
	}
}

// handleRoot serves the provider's HEAD liveness ping on "/".
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleMedia streams a stored artifact (synthesized audio, saved image
// or document) back to the provider.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.storage == nil {
		http.NotFound(w, r)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/media/")
	if key == "" || strings.Contains(key, "..") {
		http.NotFound(w, r)
		return
	}

	reader, err := s.storage.Get(r.Context(), key)
	if err != nil {
		logging.From(r.Context()).Warn("media not found", "key", key, "error", err)
		http.NotFound(w, r)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentTypeOfKey(key))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, reader); err != nil {
		logging.From(r.Context()).Warn("failed to stream media", "key", key, "error", err)
	}
}

func contentTypeOfKey(key string) string {
	switch {
	case strings.HasSuffix(key, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(key, ".jpg"), strings.HasSuffix(key, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".pdf"):
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// withRequestLog logs one line per request with status and latency.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logging.From(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
