package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/ringmap/pkg/pipeline"
	"github.com/matzehuels/ringmap/pkg/theme"
)

// defaultDebounce coalesces the event bursts editors produce on save.
const defaultDebounce = 500 * time.Millisecond

// WatchConfig configures watch mode: the files to watch and the pipeline
// options used for each re-render.
type WatchConfig struct {
	GraphPath string
	ThemePath string // optional
	Options   pipeline.Options
	Debounce  time.Duration
}

// watchHub holds the latest rendered SVG and the websocket connections of
// open viewer pages.
type watchHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	svg   []byte
}

func newWatchHub() *watchHub {
	return &watchHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// EnableWatch renders the watched map once and registers the viewer routes.
// Must be called before Start; Watch then runs the file-watch loop.
func (s *Server) EnableWatch(cfg WatchConfig) error {
	if cfg.GraphPath == "" {
		return fmt.Errorf("watch mode requires a graph file")
	}

	svg, err := s.renderWatched(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("initial render: %w", err)
	}

	hub := newWatchHub()
	hub.setSVG(svg)
	s.watch = hub

	s.router.Get("/watch", s.handleWatchPage)
	s.router.Get("/watch/svg", s.handleWatchSVG)
	s.router.Get("/watch/ws", s.handleWatchWS)
	return nil
}

// Watch blocks watching the configured files, re-rendering on change and
// telling connected viewers to reload. It returns when the context is
// cancelled. Relayout happens once per saved edit, never continuously.
func (s *Server) Watch(ctx context.Context, cfg WatchConfig) error {
	if s.watch == nil {
		return fmt.Errorf("watch mode not enabled")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the containing directories so editor save-by-rename is seen.
	watched := map[string]bool{filepath.Clean(cfg.GraphPath): true}
	dirs := map[string]bool{filepath.Dir(cfg.GraphPath): true}
	if cfg.ThemePath != "" {
		watched[filepath.Clean(cfg.ThemePath)] = true
		dirs[filepath.Dir(cfg.ThemePath)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	s.logger.Info("watching for changes", "graph", cfg.GraphPath, "theme", cfg.ThemePath)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				s.reloadWatched(ctx, cfg)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "err", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reloadWatched re-renders the watched map and notifies viewers. A broken
// intermediate save keeps the previous render on screen.
func (s *Server) reloadWatched(ctx context.Context, cfg WatchConfig) {
	svg, err := s.renderWatched(ctx, cfg)
	if err != nil {
		s.logger.Warn("re-render failed, keeping previous view", "err", err)
		return
	}
	s.watch.setSVG(svg)
	s.watch.broadcast("reload")
	s.logger.Info("re-rendered", "graph", cfg.GraphPath, "viewers", s.watch.viewerCount())
}

// renderWatched runs the pipeline on the watched files and returns the
// interactive SVG.
func (s *Server) renderWatched(ctx context.Context, cfg WatchConfig) ([]byte, error) {
	m, err := s.runner.Load(ctx, cfg.GraphPath)
	if err != nil {
		return nil, err
	}

	opts := cfg.Options
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Interactive = true
	if cfg.ThemePath != "" {
		t, err := theme.Load(cfg.ThemePath)
		if err != nil {
			return nil, err
		}
		opts.Theme = t
	}

	result, err := s.runner.Execute(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	return result.Artifacts[pipeline.FormatSVG], nil
}

// =============================================================================
// Watch Handlers
// =============================================================================

func (s *Server) handleWatchPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(watchPage))
}

func (s *Server) handleWatchSVG(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(s.watch.currentSVG())
}

func (s *Server) handleWatchWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.watch.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	s.watch.add(conn)

	// Reader loop: viewers never send anything meaningful, but reading is
	// what detects the peer going away.
	go func() {
		defer s.watch.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// =============================================================================
// Hub State
// =============================================================================

func (h *watchHub) setSVG(svg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.svg = svg
}

func (h *watchHub) currentSVG() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.svg
}

func (h *watchHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *watchHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		_ = conn.Close()
	}
}

func (h *watchHub) viewerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// broadcast sends a text message to every viewer, dropping connections that
// fail to accept it.
func (h *watchHub) broadcast(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

func (h *watchHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}

// watchPage is the embedded viewer. It shows the current SVG and reloads it
// whenever the server pushes a message.
const watchPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>ringmap</title>
  <style>
    body { margin: 0; background: #1b1b1f; display: flex; justify-content: center; }
    #map { max-width: 100vw; max-height: 100vh; }
    #map svg { display: block; width: 100%; height: auto; }
  </style>
</head>
<body>
  <div id="map"></div>
  <script>
    const target = document.getElementById('map');
    async function refresh() {
      const resp = await fetch('/watch/svg', { cache: 'no-store' });
      target.innerHTML = await resp.text();
    }
    function connect() {
      const proto = location.protocol === 'https:' ? 'wss' : 'ws';
      const ws = new WebSocket(proto + '://' + location.host + '/watch/ws');
      ws.onmessage = refresh;
      ws.onclose = () => setTimeout(connect, 1000);
    }
    refresh();
    connect();
  </script>
</body>
</html>
`
