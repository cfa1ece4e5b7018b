package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/voxnote/transcript_agent/internal/config"
	"github.com/voxnote/transcript_agent/internal/extract"
)

// Session is one exclusively-owned browser tab. Close must be called
// exactly once per acquired session, on every exit path.
type Session interface {
	extract.Page
	Close()
}

// SessionManager hands out isolated browser sessions.
type SessionManager interface {
	Acquire(ctx context.Context) (Session, error)
}

// Extractor runs the transcript-panel flow against an open page.
type Extractor interface {
	Extract(ctx context.Context, p extract.Page, url string) ([]string, error)
}

type handler struct {
	sessions  SessionManager
	extractor Extractor
}

// NewServer builds the full HTTP handler: perimeter middleware chain,
// the transcript route under /api, and the huma-served health/docs surface.
func NewServer(cfg *config.Config, sessions SessionManager, extractor Extractor) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestSize(cfg.MaxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "x-api-key"},
		MaxAge:         300,
	}))

	humaAPI := humachi.New(router, huma.DefaultConfig("Transcript Agent API", "1.0.0"))
	registerHealth(humaAPI)

	h := &handler{sessions: sessions, extractor: extractor}

	router.Route("/api", func(r chi.Router) {
		r.Use(httprate.Limit(cfg.RateLimit, cfg.RateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited),
		))
		r.Use(requireAPIKey(cfg.APIKey))
		r.Get("/transcript", h.getTranscript)
	})

	return router
}

// getTranscript is the single client-facing operation: validate the url
// parameter, run one browser session through extraction, and reply with
// the {ok, transcript|error} envelope.
func (h *handler) getTranscript(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "Missing URL parameter")
		return
	}

	sess, err := h.sessions.Acquire(r.Context())
	if err != nil {
		slog.Error("browser session acquire failed", "url", url, "error", err,
			"request_id", middleware.GetReqID(r.Context()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer sess.Close()

	transcript, err := h.extractor.Extract(r.Context(), sess, url)
	if err != nil {
		slog.Error("transcript extraction failed", "url", url, "error", err,
			"request_id", middleware.GetReqID(r.Context()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeTranscript(w, transcript)
}

func registerHealth(api huma.API) {
	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			return out, nil
		})
}
