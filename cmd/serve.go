package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/dataquality-cli/internal/ingest"
	"github.com/sells-group/dataquality-cli/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server for triggering runs and reading results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		api := &apiServer{env: e}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", api.health)
		r.Post("/api/run/excel", api.runExcel)
		r.Post("/api/run/db", api.runDB)
		r.Get("/api/logs", api.logs)
		r.Get("/api/report", api.report)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			return srv.Shutdown(ctx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// apiServer guards against concurrent runs: only one batch may be in
// flight at a time.
type apiServer struct {
	env     *env
	running atomic.Bool

	mu         sync.Mutex
	lastReport *pipeline.Report
}

func (a *apiServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *apiServer) runExcel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input  string `json:"input"`
		Output string `json:"output"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Input == "" {
		req.Input = cfg.Input.ExcelPath
	}
	src := &ingest.XLSXSource{Path: req.Input, Headers: configuredHeaders()}
	a.startRun(w, r, src, req.Output, "Excel")
}

func (a *apiServer) runDB(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit  int    `json:"limit"`
		Output string `json:"output"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Limit <= 0 {
		req.Limit = cfg.Batch.Limit
	}
	src := &ingest.TableSource{Target: a.env.Store, Limit: req.Limit}
	a.startRun(w, r, src, req.Output, "DB")
}

func (a *apiServer) startRun(w http.ResponseWriter, r *http.Request, src pipeline.Source, output, mode string) {
	if !a.running.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a run is already in progress"})
		return
	}

	if output == "" {
		output = cfg.Report.OutputPath
	}

	ctx := r.Context()
	go func() {
		defer a.running.Store(false)

		// The run outlives the triggering request; detach from its context.
		rep, err := runAndReport(context.WithoutCancel(ctx), a.env, src, output, mode)
		if err != nil {
			zap.L().Error("run failed", zap.String("mode", mode), zap.Error(err))
			return
		}
		a.mu.Lock()
		a.lastReport = rep
		a.mu.Unlock()
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "mode": mode})
}

func (a *apiServer) logs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"events":  a.env.Log.Drain(),
		"dropped": a.env.Log.Dropped(),
	})
}

func (a *apiServer) report(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	rep := a.lastReport
	a.mu.Unlock()
	if rep == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no completed run"})
		return
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, rep)
		return
	}

	f, err := os.Open(cfg.Report.OutputPath)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report file not found"})
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="ValidationReport.xlsx"`)
	http.ServeContent(w, r, "ValidationReport.xlsx", statModTime(f), f)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func statModTime(f *os.File) time.Time {
	if info, err := f.Stat(); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}
