// Package preview serves rendered charts over HTTP so they can be viewed in a browser.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/gorilla/mux"
	"github.com/huangsam/churnviz/core"
	"github.com/huangsam/churnviz/core/chart"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
)

// Server renders charts on demand from a table loaded once at startup.
type Server struct {
	cfg        *contract.Config
	table      *schema.Table
	exp        *schema.Experiment
	router     *mux.Router
	httpServer *http.Server
}

// New creates a Server. The experiment may be nil, in which case the score routes answer 404.
func New(cfg *contract.Config, table *schema.Table, exp *schema.Experiment) *Server {
	s := &Server{
		cfg:    cfg,
		table:  table,
		exp:    exp,
		router: mux.NewRouter(),
	}
	s.setupRoutes()

	addr := cfg.Addr
	if addr == "" {
		addr = contract.DefaultAddr
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/fields", s.handleFields).Methods("GET")

	s.router.HandleFunc("/bar/{field}", s.tableHandler(core.BuildBar)).Methods("GET")
	s.router.HandleFunc("/pie/{field}", s.tableHandler(core.BuildPie)).Methods("GET")
	s.router.HandleFunc("/box/{field}", s.tableHandler(core.BuildBox)).Methods("GET")
	s.router.HandleFunc("/hist/{field}", s.tableHandler(core.BuildHist)).Methods("GET")
	s.router.HandleFunc("/corr", s.tableHandler(core.BuildCorr)).Methods("GET")

	s.router.HandleFunc("/models/{metric}", s.scoreHandler(core.BuildModels)).Methods("GET")
	s.router.HandleFunc("/compare/{metric}", s.scoreHandler(core.BuildCompare)).Methods("GET")

	s.router.HandleFunc("/", s.handlePage).Methods("GET")
}

// Start listens on the configured address until Stop is called.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rows":   s.table.NumRows(),
		"scores": s.exp != nil,
	})
}

func (s *Server) handleFields(w http.ResponseWriter, _ *http.Request) {
	var numeric []string
	for _, col := range s.table.NumericColumns() {
		numeric = append(numeric, col.Name)
	}
	fields := map[string][]string{
		"fields":  s.table.Names(),
		"numeric": numeric,
	}
	if s.exp != nil {
		fields["metrics"] = s.exp.Metrics()
	}
	respondJSON(w, http.StatusOK, fields)
}

func (s *Server) tableHandler(build core.TableBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rendering, err := build(s.table, s.cfg.WithField(mux.Vars(r)["field"]))
		if err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}
		respondChart(w, rendering.Chart)
	}
}

func (s *Server) scoreHandler(build core.ScoreBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.exp == nil {
			respondError(w, http.StatusNotFound, "no scores loaded, start the server with --scores or --experiment")
			return
		}
		cfg := s.cfg.WithMetric(mux.Vars(r)["metric"])
		query := r.URL.Query()
		if models := query["model"]; len(models) > 0 {
			cfg.Models = models
		}
		if baseline := query.Get("baseline"); baseline != "" {
			cfg.BaselineModel = baseline
		}
		if balanced := query.Get("balanced"); balanced != "" {
			cfg.BalancedModel = balanced
		}
		rendering, err := build(*s.exp, cfg)
		if err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}
		respondChart(w, rendering.Chart)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	renderings, err := core.BuildPage(s.table, s.exp, s.cfg)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	page := chart.Page("churnviz", chartsOf(renderings)...)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.Render(w, page); err != nil {
		contract.LogWarn("Error rendering page", err)
	}
}

func chartsOf(renderings []*core.Rendering) []components.Charter {
	charters := make([]components.Charter, 0, len(renderings))
	for _, r := range renderings {
		charters = append(charters, r.Chart)
	}
	return charters
}

// statusFor maps lookup failures to 404 and everything else to 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrUnknownField),
		errors.Is(err, schema.ErrUnknownMetric),
		errors.Is(err, schema.ErrUnknownModel):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func respondChart(w http.ResponseWriter, c core.Chart) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.Render(w, c); err != nil {
		contract.LogWarn("Error rendering chart", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		contract.LogWarn("Error encoding response", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
