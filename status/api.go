// Package status serves live playback statistics over HTTP.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/mengelbart/termplay/playback"
	"golang.org/x/sync/errgroup"
)

type StatsService interface {
	Snapshot() playback.Snapshot
}

type API struct {
	logger *slog.Logger
	stats  StatsService
}

func NewAPI(stats StatsService) *API {
	return &API{
		logger: slog.Default().With("component", "status"),
		stats:  stats,
	}
}

func (a *API) RegisterRoutes(mux *httprouter.Router) {
	mux.HandlerFunc("GET", "/api/v1/status", a.GetStatus)
	mux.HandlerFunc("GET", "/api/v1/health", a.GetHealth)
}

func (a *API) Handler() http.Handler {
	mux := httprouter.New()
	a.RegisterRoutes(mux)
	return mux
}

func (a *API) GetStatus(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.stats.Snapshot())
}

func (a *API) GetHealth(w http.ResponseWriter, r *http.Request) {
	snap := a.stats.Snapshot()
	code := http.StatusOK
	if snap.State == playback.Terminated {
		code = http.StatusServiceUnavailable
	}
	a.writeJSON(w, code, map[string]any{"state": snap.State})
}

func (a *API) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to write response", "error", err)
	}
}

// Serve runs an HTTP server for handler on ln until ctx is done.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		slog.Info("serving status API", "address", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
