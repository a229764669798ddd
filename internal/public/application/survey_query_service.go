package application

import (
	"context"

	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// surveyQueryService implements SurveyQueryService.
type surveyQueryService struct {
	repo SurveyRepository
}

// NewSurveyQueryService creates a new SurveyQueryService.
func NewSurveyQueryService(repo SurveyRepository) SurveyQueryService {
	return &surveyQueryService{repo: repo}
}

func (s *surveyQueryService) List(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, int64, error) {
	if paging.Page <= 0 {
		paging.Page = 1
	}
	if paging.Limit <= 0 {
		paging.Limit = 10
	}
	return s.repo.FindPublished(ctx, filter, paging)
}

// Detail returns the survey only when it is visible to respondents.
// 非公開状態は存在自体を伏せるため NotFound と同じ扱い。
func (s *surveyQueryService) Detail(ctx context.Context, id string) (*domain.Survey, error) {
	survey, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.Status != domain.StatusPublished && survey.Status != domain.StatusPaused {
		return nil, ErrSurveyNotFound
	}
	return survey, nil
}
