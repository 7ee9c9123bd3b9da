package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"web-navigator/internal/application/port/input"
	"web-navigator/internal/application/port/output"
	"web-navigator/internal/domain/entity"
	"web-navigator/internal/domain/profile"
	"web-navigator/internal/usecase/executor"
	"web-navigator/internal/usecase/extractor"
	"web-navigator/internal/usecase/normalizer"
	"web-navigator/internal/usecase/resolver"
	"web-navigator/internal/usecase/runner"
)

// Server exposes the navigation engine over HTTP. Each /navigate request
// gets its own executor and runner because the site profile is chosen per
// request; the browser and planner are shared.
type Server struct {
	planner  input.Planner
	browser  output.BrowserPort
	profiles *profile.Registry
	logger   output.LoggerPort

	// CaptureOnFailure attaches screenshots to failed step results.
	CaptureOnFailure bool
}

func NewServer(planner input.Planner, browser output.BrowserPort, profiles *profile.Registry, logger output.LoggerPort) *Server {
	return &Server{
		planner:  planner,
		browser:  browser,
		profiles: profiles,
		logger:   logger,
	}
}

// Router builds the chi router with request logging and panic recovery.
func (s *Server) Router() http.Handler {
	reqLogger := httplog.NewLogger("web-navigator", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(reqLogger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/navigate", s.handleNavigate)
	r.Post("/process", s.handleProcess)
	r.Post("/extract", s.handleExtract)

	return r
}

type navigateRequest struct {
	Instruction string                 `json:"instruction"`
	Format      *entity.ExpectedFormat `json:"expected_format,omitempty"`
}

type navigateResponse struct {
	Success       bool                   `json:"success"`
	TaskID        string                 `json:"task_id"`
	Data          []entity.ExtractedItem `json:"data"`
	Message       string                 `json:"message,omitempty"`
	Site          string                 `json:"site,omitempty"`
	ContentType   string                 `json:"content_type,omitempty"`
	Steps         []entity.StepResult    `json:"steps"`
	ExecutionTime float64                `json:"execution_time"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Instruction == "" {
		respondError(w, http.StatusBadRequest, "instruction is required")
		return
	}

	start := time.Now()
	intent := s.planner.ParseIntent(r.Context(), req.Instruction)
	prof := s.profiles.ForSite(intent.Site)
	plan := s.planner.BuildPlan(intent)

	s.logger.Info("navigate request",
		"instruction", req.Instruction,
		"site", intent.Site,
		"profile", prof.Name,
		"steps", len(plan),
	)

	res := resolver.New(s.logger)
	exec := executor.New(res, prof, s.logger)
	run := runner.New(s.browser, exec, s.logger)
	run.CaptureOnFailure = s.CaptureOnFailure

	outcome, err := run.Run(r.Context(), plan)
	if err != nil && outcome == nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	format := s.expectedFormat(req.Format, intent)
	items := normalizer.Process(outcome.Items, format)

	resp := navigateResponse{
		Success:       len(items) > 0,
		TaskID:        outcome.TaskID,
		Data:          items,
		Site:          intent.Site,
		ContentType:   intent.ContentType,
		Steps:         outcome.Steps,
		ExecutionTime: time.Since(start).Seconds(),
	}
	if err != nil {
		resp.Message = err.Error()
	} else if len(items) == 0 {
		resp.Message = "no items matched"
	}
	respondJSON(w, http.StatusOK, resp)
}

// expectedFormat prefers the caller's explicit format and falls back to one
// derived from the parsed intent.
func (s *Server) expectedFormat(explicit *entity.ExpectedFormat, intent entity.Intent) entity.ExpectedFormat {
	if explicit != nil {
		return *explicit
	}
	format := entity.ExpectedFormat{
		Filters: intent.Filters,
		Limit:   intent.Limit,
	}
	if intent.Filters != nil && intent.Filters.Price != nil {
		format.SortBy = "price"
	}
	return format
}

type processRequest struct {
	Items  []entity.ExtractedItem `json:"items"`
	Format entity.ExpectedFormat  `json:"expected_format"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := normalizer.Process(req.Items, req.Format)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

type extractRequest struct {
	HTML      string   `json:"html"`
	BaseURL   string   `json:"base_url,omitempty"`
	Site      string   `json:"site,omitempty"`
	Target    string   `json:"target,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	MinFields int      `json:"min_fields,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.HTML == "" {
		respondError(w, http.StatusBadRequest, "html is required")
		return
	}

	prof := s.profiles.ForSite(req.Site)
	items, err := extractor.FromHTML(extractor.StaticRequest{
		HTML:      req.HTML,
		BaseURL:   req.BaseURL,
		Target:    req.Target,
		Fields:    req.Fields,
		Limit:     req.Limit,
		MinFields: req.MinFields,
	}, prof)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": prof.Name,
		"data":    items,
		"count":   len(items),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"profiles": s.profiles.Names(),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
