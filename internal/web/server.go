package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/stickerpack/internal/logger"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/vault"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// newHandlers wires the route handlers around a vault and settings store.
func newHandlers(v *vault.Vault, store settings.Store, version string) *Handlers {
	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("failed to create template sub-FS: %v", err))
	}

	return &Handlers{
		vault:    v,
		store:    store,
		renderer: NewRenderer(templateSub, version),
		sessions: newSessionTable(MaxOpenSessions),
		markdown: newMarkdown(),
	}
}

// NewServer creates and configures the HTTP server for the sticker web UI.
func NewServer(v *vault.Vault, store settings.Store, version, bind string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           newHandlers(v, store, version).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// routes builds the mux wrapped in security headers.
func (h *Handlers) routes() http.Handler {
	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static sub-FS: %v", err))
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/picker", http.StatusFound)
	})
	mux.HandleFunc("GET /picker", h.HandlePicker)
	mux.HandleFunc("GET /picker/{id}/results", h.HandlePickerResults)
	mux.HandleFunc("POST /picker/{id}/choose", h.HandlePickerChoose)
	mux.HandleFunc("DELETE /picker/{id}", h.HandlePickerClose)
	mux.HandleFunc("GET /vault/{path...}", h.HandleVaultFile)
	mux.HandleFunc("GET /settings", h.HandleSettings)
	mux.HandleFunc("POST /settings", h.HandleSettingsUpdate)
	mux.HandleFunc("GET /documents", h.HandleDocument)

	// Static file server
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return securityHeaders(mux)
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Fprintf(os.Stderr, "stickerpack UI running at http://%s\n", srv.Addr)
	logger.Info("web ui started", "addr", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		fmt.Fprintln(os.Stderr, "WARNING: Server is binding to all interfaces and may be accessible from the network")
		logger.Warn("web ui bound to all interfaces", "addr", srv.Addr)
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("web ui shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
