package public

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	publicapp "github.com/smartsurvey/survey-services/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger                 *log.Logger
	surveyQueries          publicapp.SurveyQueryService
	responseCommands       publicapp.ResponseCommandService
	location               *time.Location
	respondentCookieSecret []byte
	respondentCookieSecure bool
	httpClient             *http.Client
	notifyWebhookURL       string
	adminBaseURL           string
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger                 *log.Logger
	SurveyQueries          publicapp.SurveyQueryService
	ResponseCommands       publicapp.ResponseCommandService
	Location               *time.Location
	RespondentCookieSecret []byte
	RespondentCookieSecure bool
	HTTPClient             *http.Client
	NotifyWebhookURL       string
	AdminBaseURL           string
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:                 cfg.Logger,
		surveyQueries:          cfg.SurveyQueries,
		responseCommands:       cfg.ResponseCommands,
		location:               cfg.Location,
		respondentCookieSecret: cfg.RespondentCookieSecret,
		respondentCookieSecure: cfg.RespondentCookieSecure,
		httpClient:             cfg.HTTPClient,
		notifyWebhookURL:       cfg.NotifyWebhookURL,
		adminBaseURL:           cfg.AdminBaseURL,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys", h.surveyListHandler())
	r.Get("/surveys/{id}", h.surveyDetailHandler())
	r.Post("/surveys/{id}/responses", h.responseCreateHandler())
}
