// Package v1alpha1 serves the kingdom JSON API over net/http
package v1alpha1

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/orchestrators/kingdom"
)

const maxBodyBytes = 1 << 16

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	KingdomService kingdom.Service

	// Events serves /v1alpha1/events; nil disables the route
	Events http.Handler

	// AllowedOrigins lists CORS origins; empty disables CORS headers
	AllowedOrigins []string
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.KingdomService == nil {
		return errors.InvalidArgument("kingdom service is required")
	}
	return nil
}

// Handler implements the kingdom HTTP API
type Handler struct {
	kingdomService kingdom.Service
	events         http.Handler
	allowedOrigins map[string]bool
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = true
	}

	return &Handler{
		kingdomService: cfg.KingdomService,
		events:         cfg.Events,
		allowedOrigins: origins,
	}, nil
}

// Routes returns the API mux wrapped in logging and CORS middleware
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("POST /v1alpha1/kingdoms", h.Register)
	mux.HandleFunc("GET /v1alpha1/kingdoms/{id}", h.GetKingdom)
	mux.HandleFunc("GET /v1alpha1/kingdoms/{id}/buildings/{building_id}/quote", h.QuoteUpgrade)
	mux.HandleFunc("POST /v1alpha1/kingdoms/{id}/buildings/{building_id}/upgrade", h.StartUpgrade)
	mux.HandleFunc("POST /v1alpha1/kingdoms/{id}/army/recruit", h.Recruit)
	mux.HandleFunc("GET /v1alpha1/leaderboard", h.Leaderboard)
	if h.events != nil {
		mux.Handle("GET /v1alpha1/events", h.events)
	}

	return h.cors(logRequests(mux))
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Register creates a kingdom
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.kingdomService.Register(r.Context(), &kingdom.RegisterInput{
		Username:    req.Username,
		KingdomName: req.KingdomName,
		Faction:     entities.Faction(req.Faction),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, &KingdomResponse{Kingdom: out.Kingdom})
}

// GetKingdom returns a kingdom with its current per-tick production
func (h *Handler) GetKingdom(w http.ResponseWriter, r *http.Request) {
	out, err := h.kingdomService.GetKingdom(r.Context(), &kingdom.GetKingdomInput{
		KingdomID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &KingdomResponse{
		Kingdom:    out.Kingdom,
		Production: out.Production,
	})
}

// QuoteUpgrade prices a building's next level
func (h *Handler) QuoteUpgrade(w http.ResponseWriter, r *http.Request) {
	out, err := h.kingdomService.QuoteUpgrade(r.Context(), &kingdom.QuoteUpgradeInput{
		KingdomID:  r.PathValue("id"),
		BuildingID: r.PathValue("building_id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &QuoteResponse{Quote: out.Quote})
}

// StartUpgrade pays for and queues a building's next level
func (h *Handler) StartUpgrade(w http.ResponseWriter, r *http.Request) {
	out, err := h.kingdomService.StartUpgrade(r.Context(), &kingdom.StartUpgradeInput{
		KingdomID:  r.PathValue("id"),
		BuildingID: r.PathValue("building_id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, &UpgradeResponse{
		Kingdom: out.Kingdom,
		Entry:   out.Entry,
		Cost:    out.Cost,
	})
}

// Recruit buys army units
func (h *Handler) Recruit(w http.ResponseWriter, r *http.Request) {
	var req RecruitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.kingdomService.Recruit(r.Context(), &kingdom.RecruitInput{
		KingdomID: r.PathValue("id"),
		UnitType:  entities.UnitType(req.UnitType),
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &RecruitResponse{Kingdom: out.Kingdom, Cost: out.Cost})
}

// Leaderboard ranks kingdoms by power
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, errors.InvalidArgumentf("limit must be a positive integer, got %q", raw))
			return
		}
		limit = n
	}

	out, err := h.kingdomService.Leaderboard(r.Context(), &kingdom.LeaderboardInput{Limit: limit})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &LeaderboardResponse{Entries: out.Entries})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()

	body := &ErrorBody{
		Code:    string(code),
		Message: errors.Messages(err),
		Reason:  errors.GetReason(err),
		Meta:    errors.GetMeta(err),
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		body.Message = "internal error"
		body.Meta = nil
	}

	writeJSON(w, status, &ErrorResponse{Error: body})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Hijack passes through so the events route can upgrade to a websocket
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.Internal("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.DebugContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func (h *Handler) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if h.allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
