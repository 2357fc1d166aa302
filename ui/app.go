// Package ui exposes the reconciliation pipeline over HTTP.
package ui

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"aceintel/app"
	"aceintel/domain/core"
	"aceintel/domain/run"
	"aceintel/internal/report"
	"aceintel/ports"
)

// App represents the HTTP application
type App struct {
	router   *chi.Mux
	pipeline *app.PipelineService
	runs     ports.RunRepository
	diag     ports.Diagnostics

	mu   sync.RWMutex
	last *run.Result
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates the HTTP application. The run repository may be nil;
// run lookups then fall back to the in-memory last result.
func NewApp(pipeline *app.PipelineService, runs ports.RunRepository, diag ports.Diagnostics) *App {
	if diag == nil {
		diag = ports.NopDiagnostics{}
	}
	a := &App{
		router:   chi.NewRouter(),
		pipeline: pipeline,
		runs:     runs,
		diag:     diag,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Post("/api/runs", a.handleTriggerRun)
	a.router.Get("/api/runs/latest", a.handleLatestRun)
	a.router.Get("/api/runs/latest/report", a.handleLatestReport)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
}

// Start starts the HTTP server
func (a *App) Start(cfg Config) error {
	addr := ":" + cfg.Port
	a.diag.Info("starting reconciler server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the handler for tests and embedding
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTriggerRun executes the pipeline synchronously and returns the
// run summary. The full merged record set is available per run ID.
func (a *App) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	result, err := a.pipeline.Execute(r.Context())
	if err != nil {
		a.diag.Error("pipeline run failed: %v", err)
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.mu.Lock()
	a.last = result
	a.mu.Unlock()

	a.writeJSON(w, http.StatusOK, map[string]any{
		"run_id":      result.RunID,
		"fingerprint": result.Fingerprint,
		"duration":    result.Duration.String(),
		"summary":     result.Summary,
	})
}

func (a *App) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	result, err := a.latest(r)
	if err != nil {
		a.writeError(w, http.StatusNotFound, "no runs recorded")
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a.mu.RLock()
	last := a.last
	a.mu.RUnlock()
	if last != nil && last.RunID == id {
		a.writeJSON(w, http.StatusOK, last)
		return
	}

	if a.runs == nil {
		a.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	result, err := a.runs.GetByID(r.Context(), id)
	if err != nil {
		a.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

// handleLatestReport renders the latest run as an HTML report
func (a *App) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	result, err := a.latest(r)
	if err != nil {
		a.writeError(w, http.StatusNotFound, "no runs recorded")
		return
	}

	md := report.Markdown(result)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	out := markdown.ToHTML([]byte(md), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// latest prefers the in-memory result and falls back to the repository
func (a *App) latest(r *http.Request) (*run.Result, error) {
	a.mu.RLock()
	last := a.last
	a.mu.RUnlock()
	if last != nil {
		return last, nil
	}
	if a.runs == nil {
		return nil, core.ErrNoData
	}
	return a.runs.Latest(r.Context())
}

func (a *App) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.diag.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"error": msg})
}
