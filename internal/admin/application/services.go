package application

import (
	"context"
	"time"

	publicdomain "github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// SurveyRepository exposes CRUD for admin surveys, drafts included.
type SurveyRepository interface {
	Find(ctx context.Context, filter SurveyFilter, paging Paging) ([]publicdomain.Survey, int64, error)
	FindByID(ctx context.Context, id string) (*publicdomain.Survey, error)
	Create(ctx context.Context, survey *publicdomain.Survey) error
	Update(ctx context.Context, survey *publicdomain.Survey) error
	UpdateStatus(ctx context.Context, id string, status publicdomain.SurveyStatus, now time.Time) (*publicdomain.Survey, error)
}

// ResponseRepository exposes read access to stored responses.
type ResponseRepository interface {
	FindBySurvey(ctx context.Context, surveyID string, paging Paging) ([]publicdomain.Response, int64, error)
}

// SurveyFilter expresses admin search criteria.
type SurveyFilter struct {
	Status  string
	Keyword string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// SurveyService describes admin survey use-cases.
// SurveyService はアンケートの作成・編集・ライフサイクル遷移と回答閲覧を提供する。
type SurveyService interface {
	List(ctx context.Context, filter SurveyFilter, paging Paging) ([]publicdomain.Survey, int64, error)
	Detail(ctx context.Context, id string) (*publicdomain.Survey, error)
	Create(ctx context.Context, cmd UpsertSurveyCommand) (*publicdomain.Survey, error)
	Update(ctx context.Context, id string, cmd UpsertSurveyCommand) (*publicdomain.Survey, error)
	ChangeStatus(ctx context.Context, id string, status publicdomain.SurveyStatus) (*publicdomain.Survey, error)
	Responses(ctx context.Context, surveyID string, paging Paging) ([]publicdomain.Response, int64, error)
}

// UpsertSurveyCommand contains inputs for creating/updating surveys.
type UpsertSurveyCommand struct {
	OwnerID     string
	Title       string
	Description string
	Questions   []publicdomain.Question
	Settings    publicdomain.PublishSettings
}
