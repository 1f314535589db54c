package server

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

var playerPage = template.Must(template.New("player").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.VideoID}} - youtube-pip</title>
<style>
  html, body { margin: 0; height: 100%; background: #000; }
  #player { position: fixed; inset: 0; width: 100%; height: 100%; border: 0; }
  #controls { position: fixed; top: 12px; right: 12px; z-index: 1; opacity: .3; transition: opacity .2s; }
  #controls:hover { opacity: 1; }
  button { font: 14px sans-serif; padding: 6px 12px; border: 0; border-radius: 4px; background: #ff0000; color: #fff; cursor: pointer; }
</style>
</head>
<body>
<iframe id="player"
  src="{{.EmbedURL}}"
  title="YouTube video player"
  allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share; fullscreen"
  referrerpolicy="strict-origin-when-cross-origin"
  allowfullscreen></iframe>
<div id="controls">
{{- if .Fullscreen}}
  <button id="fullscreen" type="button">Fullscreen</button>
{{- end}}
</div>
<script>
(function () {
  var button = document.getElementById("fullscreen");
  if (!button) { return; }
  button.addEventListener("click", function () {
    var player = document.getElementById("player");
    var request = player.requestFullscreen || player.webkitRequestFullscreen;
    if (request) { request.call(player); }
  });
})();
</script>
</body>
</html>
`))

type playerPageData struct {
	VideoID    string
	EmbedURL   string
	Fullscreen bool
}

type PlayerServer interface {
	// Start binds the configured address; port 0 picks a free one.
	Start() error
	// URL is the page address for a video, or "" when the server is not
	// running.
	URL(videoID string, opts domain.PlayerOptions) string
	Handler() http.Handler
	Shutdown(ctx context.Context) error
}

type playerServerImpl struct {
	addr   string
	logger ports.LoggerPort
	router chi.Router

	mu      sync.Mutex
	server  *http.Server
	baseURL string
}

func NewPlayerServer(addr string, logger ports.LoggerPort) PlayerServer {
	s := &playerServerImpl{
		addr:   addr,
		logger: logger,
	}
	s.router = s.routes()

	return s
}

func (s *playerServerImpl) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(securityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Get("/watch/{videoID}", s.handleWatch)

	return r
}

func (s *playerServerImpl) Handler() http.Handler {
	return s.router
}

func (s *playerServerImpl) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("could not bind player server on %s: %w", s.addr, err)
	}

	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.baseURL = "http://" + listener.Addr().String()

	server := s.server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("player server stopped unexpectedly", err)
		}
	}()

	s.logger.Info("Player server listening on " + s.baseURL)

	return nil
}

func (s *playerServerImpl) URL(videoID string, opts domain.PlayerOptions) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseURL == "" {
		return ""
	}

	target := s.baseURL + "/watch/" + videoID
	if query := opts.Query().Encode(); query != "" {
		target += "?" + query
	}

	return target
}

func (s *playerServerImpl) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.baseURL = ""
	s.mu.Unlock()

	if server == nil {
		return nil
	}

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error while shutting down player server: %w", err)
	}

	return nil
}

func (s *playerServerImpl) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

func (s *playerServerImpl) handleWatch(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	if !domain.IsValidVideoID(videoID) {
		s.logger.Warning(fmt.Sprintf("Player page requested for invalid id %q", videoID))
		http.Error(w, "invalid video id", http.StatusBadRequest)
		return
	}

	opts := domain.ParsePlayerOptions(r.URL.Query())

	data := playerPageData{
		VideoID:    videoID,
		EmbedURL:   domain.EmbedURL(videoID, opts),
		Fullscreen: opts.Fullscreen,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := playerPage.Execute(w, data); err != nil {
		s.logger.Error("failed to render player page", err)
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
