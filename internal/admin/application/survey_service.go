package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	admindomain "github.com/smartsurvey/survey-services/api/internal/admin/domain"
	publicdomain "github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// ErrSurveyNotEditable is returned when a non-draft survey is updated.
var ErrSurveyNotEditable = errors.New("下書き状態のアンケートのみ編集できます")

type surveyService struct {
	surveys   SurveyRepository
	responses ResponseRepository
}

func NewSurveyService(surveys SurveyRepository, responses ResponseRepository) SurveyService {
	return &surveyService{surveys: surveys, responses: responses}
}

func (s *surveyService) List(ctx context.Context, filter SurveyFilter, paging Paging) ([]publicdomain.Survey, int64, error) {
	if paging.Page <= 0 {
		paging.Page = 1
	}
	if paging.Limit <= 0 {
		paging.Limit = 20
	}
	return s.surveys.Find(ctx, filter, paging)
}

func (s *surveyService) Detail(ctx context.Context, id string) (*publicdomain.Survey, error) {
	return s.surveys.FindByID(ctx, id)
}

func (s *surveyService) Create(ctx context.Context, cmd UpsertSurveyCommand) (*publicdomain.Survey, error) {
	survey, err := buildSurveyFromCommand(cmd)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	survey.Status = publicdomain.StatusDraft
	survey.CreatedAt = now
	survey.UpdatedAt = now
	if err := s.surveys.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// Update replaces the definition of a draft survey. 公開後の定義変更は
// 既存回答との整合が壊れるため許可しない。
func (s *surveyService) Update(ctx context.Context, id string, cmd UpsertSurveyCommand) (*publicdomain.Survey, error) {
	current, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != publicdomain.StatusDraft {
		return nil, ErrSurveyNotEditable
	}

	survey, err := buildSurveyFromCommand(cmd)
	if err != nil {
		return nil, err
	}
	survey.ID = id
	survey.Status = current.Status
	survey.Stats = current.Stats
	survey.CreatedAt = current.CreatedAt
	survey.UpdatedAt = time.Now().UTC()
	if err := s.surveys.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *surveyService) ChangeStatus(ctx context.Context, id string, status publicdomain.SurveyStatus) (*publicdomain.Survey, error) {
	current, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admindomain.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%s から %s への遷移はできません", current.Status, status)
	}
	if status == publicdomain.StatusPublished {
		if err := admindomain.ValidateForPublish(current); err != nil {
			return nil, err
		}
	}
	return s.surveys.UpdateStatus(ctx, id, status, time.Now().UTC())
}

func (s *surveyService) Responses(ctx context.Context, surveyID string, paging Paging) ([]publicdomain.Response, int64, error) {
	if paging.Page <= 0 {
		paging.Page = 1
	}
	if paging.Limit <= 0 {
		paging.Limit = 20
	}
	if _, err := s.surveys.FindByID(ctx, surveyID); err != nil {
		return nil, 0, err
	}
	return s.responses.FindBySurvey(ctx, surveyID, paging)
}

func buildSurveyFromCommand(cmd UpsertSurveyCommand) (*publicdomain.Survey, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, errors.New("タイトルは必須です")
	}
	if err := admindomain.ValidateQuestions(cmd.Questions); err != nil {
		return nil, err
	}
	if cmd.Settings.StartDate != nil && cmd.Settings.EndDate != nil &&
		cmd.Settings.EndDate.Before(*cmd.Settings.StartDate) {
		return nil, errors.New("終了日時は開始日時より後にしてください")
	}
	if cmd.Settings.ResponseLimit != nil && *cmd.Settings.ResponseLimit <= 0 {
		return nil, errors.New("回答上限は1以上で指定してください")
	}

	return &publicdomain.Survey{
		OwnerID:     strings.TrimSpace(cmd.OwnerID),
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		Questions:   append([]publicdomain.Question{}, cmd.Questions...),
		Settings:    cmd.Settings,
	}, nil
}
