package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/agent-miner/internal/model"
	"github.com/sells-group/agent-miner/internal/store"
)

// maxAnalyzeBody caps the size of a POST /analyze payload.
const maxAnalyzeBody = 10 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		router := newRouter(env, routerOptions{
			Origins:      cfg.Server.CORSOrigins,
			TopN:         cfg.Export.TopAgents,
			AnalyzeRate:  cfg.Server.AnalyzeRate,
			AnalyzeBurst: cfg.Server.AnalyzeBurst,
		})
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// routerOptions configures newRouter.
type routerOptions struct {
	Origins []string
	// TopN bounds the ranking stored with runs started through POST /analyze.
	TopN int
	// AnalyzeRate limits POST /analyze in requests per second; 0 disables.
	AnalyzeRate  float64
	AnalyzeBurst int
}

// newRouter builds the HTTP API over env.
func newRouter(env *minerEnv, opts routerOptions) http.Handler {
	origins := opts.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &apiHandler{env: env, topN: opts.TopN}
	r.Get("/health", h.health)
	r.Get("/reports", h.listReports)
	r.Get("/reports/{ref}", h.getReport)

	if opts.AnalyzeRate > 0 {
		burst := max(opts.AnalyzeBurst, 1)
		r.With(rateLimit(rate.NewLimiter(rate.Limit(opts.AnalyzeRate), burst))).Post("/analyze", h.analyze)
	} else {
		r.Post("/analyze", h.analyze)
	}
	return r
}

// rateLimit rejects requests with 429 once l has no tokens left.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type apiHandler struct {
	env  *minerEnv
	topN int
}

func (h *apiHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *apiHandler) listReports(w http.ResponseWriter, r *http.Request) {
	if h.env.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is disabled")
		return
	}

	q := r.URL.Query()
	filter := store.ReportFilter{
		RunID:  q.Get("run"),
		Agency: q.Get("agency"),
		Agent:  q.Get("agent"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}

	reports, err := h.env.Store.ListReports(r.Context(), filter)
	if err != nil {
		zap.L().Error("serve: list reports", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list reports failed")
		return
	}
	if reports == nil {
		reports = []model.StoredReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *apiHandler) getReport(w http.ResponseWriter, r *http.Request) {
	if h.env.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is disabled")
		return
	}

	ref, err := url.PathUnescape(chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid agency reference")
		return
	}

	report, err := h.env.Store.GetReport(r.Context(), ref)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		zap.L().Error("serve: get report", zap.String("ref", ref), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get report failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// analyzeRequest is the POST /analyze body: one agency dump.
type analyzeRequest struct {
	AgencyName string   `json:"agency_name"`
	AgencyRef  string   `json:"agency_ref"`
	Reviews    []string `json:"reviews"`
}

func (h *apiHandler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AgencyName = strings.TrimSpace(req.AgencyName)
	if req.AgencyName == "" {
		writeError(w, http.StatusBadRequest, "agency_name is required")
		return
	}

	agencies := []model.AgencyReviews{{
		Agency:  model.Agency{Name: req.AgencyName, Ref: strings.TrimSpace(req.AgencyRef)},
		Reviews: req.Reviews,
	}}

	res, err := runAnalysis(r.Context(), h.env.Store, []string{"api"}, agencies, 1, h.topN, h.env.Aggregator.Aggregate)
	if err != nil {
		zap.L().Error("serve: analyze", zap.String("agency", req.AgencyName), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	if len(res.Reports) == 0 {
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	if res.RunID != "" {
		w.Header().Set("X-Run-ID", res.RunID)
	}
	writeJSON(w, http.StatusOK, res.Reports[0])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
