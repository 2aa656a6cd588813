package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appins "github.com/bryanwahyu/salvage-vision/internal/application/inspections"
	domai "github.com/bryanwahyu/salvage-vision/internal/domain/ai"
	domauth "github.com/bryanwahyu/salvage-vision/internal/domain/auth"
	"github.com/bryanwahyu/salvage-vision/internal/domain/inspection"
	"github.com/bryanwahyu/salvage-vision/internal/middleware"
)

type Router struct {
	svc *appins.Service
	log *zap.SugaredLogger
}

// Options configures the HTTP surface around the inspection service.
type Options struct {
	Verifier          domauth.Verifier
	Health            http.HandlerFunc
	RateLimitCapacity int
	RateLimitRefill   int
}

func NewRouter(svc *appins.Service, log *zap.SugaredLogger, opts Options) http.Handler {
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	// Permissive CORS: the analysis API is called straight from browsers.
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RequestLogging(log))
	mux.Use(middleware.Metrics)
	if opts.RateLimitCapacity > 0 {
		mux.Use(middleware.RateLimit(opts.RateLimitCapacity, opts.RateLimitRefill))
	}
	if opts.Verifier != nil {
		mux.Use(middleware.OptionalBearerAuth(opts.Verifier, log))
	}

	if opts.Health != nil {
		mux.Get("/health", opts.Health)
	} else {
		mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})
	}
	mux.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/inspections", r.wrap(r.handleHistory))
		rt.Get("/inspections/{id}", r.wrap(r.handleGet))
		rt.Post("/inspections/{id}/feedback", r.wrap(r.handleFeedback))
		rt.Get("/parts", r.wrap(r.handleParts))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// errUnauthorized marks handlers that require a signed-in caller.
var errUnauthorized = errors.New("authentication required")

// wrap converts handler error returns into the HTTP error taxonomy. This is
// the single place a failure is classified into a status code.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, inspection.ErrInvalidURL),
			errors.Is(err, inspection.ErrNoFetchableImages):
			respondError(w, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, inspection.ErrManualInputRequired):
			respondError(w, http.StatusUnprocessableEntity,
				"Unable to extract images automatically. Anti-bot protection may be active on the scraper.",
				"MANUAL_INPUT_REQUIRED")
		case errors.Is(err, errUnauthorized):
			respondError(w, http.StatusUnauthorized, err.Error(), "")
		case errors.Is(err, inspection.ErrNotFound), errors.Is(err, sql.ErrNoRows):
			respondError(w, http.StatusNotFound, "not found", "")
		case errors.Is(err, domai.ErrNotConfigured):
			respondError(w, http.StatusInternalServerError, "AI service not configured.", "")
		default:
			r.log.Errorw("request failed", "path", req.URL.Path, "err", err)
			respondError(w, http.StatusInternalServerError, err.Error(), "")
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondError(w http.ResponseWriter, status int, msg, code string) {
	respondJSON(w, status, errorResponse{Error: msg, Code: code})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// POST /v1/analyze
// Body: {"url": "...", "imageUrls": ["..."]}, optional bearer token.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		URL       string   `json:"url"`
		ImageURLs []string `json:"imageUrls"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "")
		return nil
	}
	if body.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required", "")
		return nil
	}

	start := time.Now()
	result, err := r.svc.Analyze(req.Context(), appins.AnalyzeCommand{
		URL:       body.URL,
		ImageURLs: body.ImageURLs,
		UserID:    middleware.UserIDFromContext(req.Context()),
	})
	middleware.ObserveAnalysisDuration(time.Since(start).Seconds())
	middleware.CountAnalysis(analysisOutcome(err))
	if err != nil {
		return err
	}

	respondJSON(w, http.StatusOK, result)
	return nil
}

func analysisOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, inspection.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, inspection.ErrManualInputRequired):
		return "manual_input_required"
	case errors.Is(err, inspection.ErrNoFetchableImages):
		return "no_images"
	case errors.Is(err, domai.ErrUnparsableReply):
		return "parse_error"
	case errors.Is(err, domai.ErrGateway), errors.Is(err, domai.ErrNotConfigured):
		return "ai_error"
	default:
		return "internal"
	}
}

// GET /v1/inspections?limit=50
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.svc.History(req.Context(), middleware.UserIDFromContext(req.Context()), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*inspection.Inspection{}
	}
	respondJSON(w, http.StatusOK, list)
	return nil
}

// GET /v1/inspections/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	ins, err := r.svc.Get(req.Context(), middleware.UserIDFromContext(req.Context()), inspection.InspectionID(id))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, ins)
	return nil
}

// POST /v1/inspections/{id}/feedback
// Body: {"partCode": "HOD", "rating": true, "comment": "..."}
func (r *Router) handleFeedback(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.UserIDFromContext(req.Context())
	if userID == "" {
		return errUnauthorized
	}

	var body struct {
		PartCode string `json:"partCode"`
		Rating   bool   `json:"rating"`
		Comment  string `json:"comment"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "")
		return nil
	}

	fb := &inspection.Feedback{
		InspectionID: inspection.InspectionID(chi.URLParam(req, "id")),
		PartCode:     inspection.PartCode(body.PartCode),
		UserID:       userID,
		Rating:       body.Rating,
		Comment:      body.Comment,
	}
	if err := r.svc.SaveFeedback(req.Context(), fb); err != nil {
		if _, ok := inspection.LookupPart(fb.PartCode); !ok {
			respondError(w, http.StatusBadRequest, err.Error(), "")
			return nil
		}
		return err
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	return nil
}

// GET /v1/parts — the fixed 27-point catalog driving the part-map UI.
func (r *Router) handleParts(w http.ResponseWriter, req *http.Request) error {
	respondJSON(w, http.StatusOK, inspection.Catalog)
	return nil
}
