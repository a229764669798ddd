package application

import (
	"context"
	"time"

	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// SurveyRepository abstracts read access to surveys.
// SurveyRepository は Public コンテキストでアンケート定義を読み取るためのポート。
type SurveyRepository interface {
	FindPublished(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, int64, error)
	FindByID(ctx context.Context, id string) (*domain.Survey, error)
}

// ResponseRepository persists responses and answers duplicate lookups.
// CreateWithStats は回答の挿入とアンケート統計の加算を単一トランザクションで行う。
type ResponseRepository interface {
	CreateWithStats(ctx context.Context, response *domain.Response) error
	FindRecent(ctx context.Context, surveyID string, criteria DuplicateCriteria, window time.Duration) (*domain.Response, error)
}

// SurveyFilter expresses search criteria for published surveys.
type SurveyFilter struct {
	Keyword string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// SurveyQueryService describes survey read use-cases.
// SurveyQueryService は公開中アンケートの参照ユースケースを提供するリーダーモデル。
type SurveyQueryService interface {
	List(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, int64, error)
	Detail(ctx context.Context, id string) (*domain.Survey, error)
}

// ResponseCommandService runs the submission pipeline.
type ResponseCommandService interface {
	Submit(ctx context.Context, cmd SubmitResponseCommand) (*domain.Response, error)
}

// SubmitResponseCommand captures one schema-validated submission.
type SubmitResponseCommand struct {
	SurveyID    string
	Answers     map[string]any
	StartedAt   time.Time
	CompletedAt time.Time
	Metadata    map[string]string
	ClientIP    string
	UserAgent   string
	Fingerprint string
}
