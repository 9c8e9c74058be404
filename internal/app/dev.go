package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"reactants/internal/devtools"
	"reactants/internal/game"
)

func (a *App) setDevState(state, demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Rendered = true
	a.devState.Pending = false
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevPending(state, demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Rendered = false
	a.devState.Pending = true
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevError(state, demo, errText string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Rendered = false
	a.devState.Pending = false
	a.devState.Error = errText
	a.devState.RenderSeq++
}

func (a *App) getDevState() map[string]any {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	return map[string]any{
		"ok":         true,
		"state":      a.devState.State,
		"demo":       a.devState.Demo,
		"render_seq": a.devState.RenderSeq,
		"rendered":   a.devState.Rendered,
		"pending":    a.devState.Pending,
		"error":      a.devState.Error,
	}
}

// runDemoScenario returns the engine to settings and replays the named
// scenario so the view lands on a known screen.
func (a *App) runDemoScenario(ctx context.Context, requested string) (string, error) {
	sc, err := a.demo.Resolve(requested)
	if err != nil {
		a.logger.Warn("dev.demo.unknown", map[string]any{"requested": requested})
		return "", err
	}
	a.logger.Info("dev.demo.dispatch.begin", map[string]any{"requested": requested, "resolved": sc.Name})
	a.setDevPending(sc.Name, requested)

	a.demoMu.Lock()
	defer a.demoMu.Unlock()

	if err := a.resetToSettings(); err != nil {
		a.setDevError(sc.Name, requested, err.Error())
		return sc.Name, err
	}
	if _, err := a.RunScript(ctx, sc.Script); err != nil {
		a.logger.Error("dev.demo.dispatch.apply_failed", map[string]any{"requested": requested, "resolved": sc.Name, "error": err.Error()})
		a.setDevError(sc.Name, requested, err.Error())
		return sc.Name, err
	}
	a.logger.Info("dev.demo.dispatch.done", map[string]any{"requested": requested, "resolved": sc.Name})
	a.setDevState(sc.Name, requested)
	return sc.Name, nil
}

func (a *App) resetToSettings() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.engine.Phase().Get() {
	case game.PhasePlay:
		return a.engine.BackToSettings()
	case game.PhaseResults:
		return a.engine.NewGame()
	}
	return nil
}

func (a *App) devHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(jsonContentType)

	r.Get("/__dev/ready", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(a.getDevState())
	})
	r.Post("/__dev/demo", a.handleDemo)
	return r
}

func (a *App) handleDemo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Demo string `json:"demo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDevError(w, http.StatusBadRequest, "invalid json", "")
		return
	}
	req.Demo = strings.TrimSpace(req.Demo)
	if req.Demo == "" {
		writeDevError(w, http.StatusBadRequest, "demo is required", "")
		return
	}
	a.logger.Info("dev.demo.request", map[string]any{"demo": req.Demo})

	resolved, err := a.runDemoScenario(r.Context(), req.Demo)
	switch {
	case errors.Is(err, devtools.ErrUnknownScenario):
		writeDevError(w, http.StatusBadRequest, err.Error(), "")
		return
	case err != nil:
		writeDevError(w, http.StatusInternalServerError, err.Error(), resolved)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "state": resolved, "requested": req.Demo})
}

func writeDevError(w http.ResponseWriter, status int, msg, state string) {
	w.WriteHeader(status)
	body := map[string]any{"ok": false, "error": msg}
	if state != "" {
		body["state"] = state
	}
	_ = json.NewEncoder(w).Encode(body)
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (a *App) startDevHTTP() error {
	a.devServer = &http.Server{Addr: a.cfg.DevHTTP, Handler: a.devHandler(), ReadHeaderTimeout: 5 * time.Second}
	a.setDevState("settings", a.cfg.DemoScenario)
	go func() {
		if err := a.devServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("dev_http.listen_failed", map[string]any{"error": err.Error(), "addr": a.cfg.DevHTTP})
		}
	}()
	return nil
}
