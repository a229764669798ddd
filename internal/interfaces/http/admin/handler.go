package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/smartsurvey/survey-services/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger        *log.Logger
	surveyService adminapp.SurveyService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger        *log.Logger
	SurveyService adminapp.SurveyService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:        cfg.Logger,
		surveyService: cfg.SurveyService,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys", h.surveyListHandler())
	r.Post("/surveys", h.surveyCreateHandler())
	r.Get("/surveys/{id}", h.surveyDetailHandler())
	r.Put("/surveys/{id}", h.surveyUpdateHandler())
	r.Patch("/surveys/{id}/status", h.surveyStatusHandler())
	r.Get("/surveys/{id}/responses", h.responseListHandler())
}
