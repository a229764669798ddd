package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

type mockSurveyRepository struct {
	mock.Mock
}

func (m *mockSurveyRepository) FindPublished(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, int64, error) {
	args := m.Called(ctx, filter, paging)
	return args.Get(0).([]domain.Survey), args.Get(1).(int64), args.Error(2)
}

func (m *mockSurveyRepository) FindByID(ctx context.Context, id string) (*domain.Survey, error) {
	args := m.Called(ctx, id)
	if survey := args.Get(0); survey != nil {
		return survey.(*domain.Survey), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockResponseRepository struct {
	mock.Mock
}

func (m *mockResponseRepository) CreateWithStats(ctx context.Context, response *domain.Response) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *mockResponseRepository) FindRecent(ctx context.Context, surveyID string, criteria DuplicateCriteria, window time.Duration) (*domain.Response, error) {
	args := m.Called(ctx, surveyID, criteria, window)
	if response := args.Get(0); response != nil {
		return response.(*domain.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(surveys SurveyRepository, responses ResponseRepository, strategy DuplicateStrategy) *responseCommandService {
	return &responseCommandService{
		surveys:   surveys,
		responses: responses,
		strategy:  strategy,
		window:    24 * time.Hour,
		now:       func() time.Time { return fixedNow },
	}
}

func publishedSurvey() *domain.Survey {
	return &domain.Survey{
		ID:     "5f1e2d3c4b5a69788796a5b4",
		Title:  "満足度調査",
		Status: domain.StatusPublished,
		Questions: []domain.Question{
			question("q1", domain.QuestionNPS, true, domain.QuestionConfig{}),
			question("q2", domain.QuestionLongText, false, domain.QuestionConfig{}),
		},
	}
}

func submitCommand(surveyID string) SubmitResponseCommand {
	return SubmitResponseCommand{
		SurveyID:    surveyID,
		Answers:     map[string]any{"q1": float64(9), "q2": "とても良い"},
		StartedAt:   fixedNow.Add(-2 * time.Minute),
		CompletedAt: fixedNow.Add(-10 * time.Second),
		ClientIP:    "203.0.113.7",
		UserAgent:   "test-agent",
		Fingerprint: "fp-123",
	}
}

func TestSubmitSuccess(t *testing.T) {
	survey := publishedSurvey()
	surveys := new(mockSurveyRepository)
	responses := new(mockResponseRepository)
	surveys.On("FindByID", mock.Anything, survey.ID).Return(survey, nil)
	responses.On("FindRecent", mock.Anything, survey.ID, mock.Anything, 24*time.Hour).Return(nil, nil)
	responses.On("CreateWithStats", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(surveys, responses, StrategyClient)
	response, err := service.Submit(context.Background(), submitCommand(survey.ID))

	assert.NoError(t, err)
	if assert.NotNil(t, response) {
		assert.NotEmpty(t, response.ID)
		assert.Equal(t, survey.ID, response.SurveyID)
		assert.Equal(t, domain.ResponseSubmitted, response.Status)
		assert.Equal(t, fixedNow, response.SubmittedAt)
		// 回答は質問定義の並び順
		assert.Equal(t, "q1", response.Answers[0].QuestionID)
		assert.Equal(t, "q2", response.Answers[1].QuestionID)
		assert.Equal(t, 110, response.Duration)
		assert.Equal(t, "fp-123", response.Metadata.Fingerprint)
		assert.NotEmpty(t, response.Metadata.AnswersHash)
	}
	responses.AssertExpectations(t)
}

func TestSubmitSurveyNotFound(t *testing.T) {
	surveys := new(mockSurveyRepository)
	responses := new(mockResponseRepository)
	surveys.On("FindByID", mock.Anything, "missing").Return(nil, ErrSurveyNotFound)

	service := newTestService(surveys, responses, StrategyClient)
	_, err := service.Submit(context.Background(), submitCommand("missing"))

	assert.ErrorIs(t, err, ErrSurveyNotFound)
	responses.AssertNotCalled(t, "CreateWithStats", mock.Anything, mock.Anything)
}

func TestSubmitUnavailableSurvey(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Survey)
		reason domain.UnavailableReason
	}{
		{
			name:   "下書き",
			mutate: func(s *domain.Survey) { s.Status = domain.StatusDraft },
			reason: domain.ReasonNotPublished,
		},
		{
			name: "終了済み",
			mutate: func(s *domain.Survey) {
				ended := fixedNow.Add(-time.Hour)
				s.Settings.EndDate = &ended
			},
			reason: domain.ReasonClosed,
		},
		{
			name: "回答上限",
			mutate: func(s *domain.Survey) {
				limit := 10
				s.Settings.ResponseLimit = &limit
				s.Stats.TotalResponses = 10
			},
			reason: domain.ReasonFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			survey := publishedSurvey()
			tt.mutate(survey)

			surveys := new(mockSurveyRepository)
			responses := new(mockResponseRepository)
			surveys.On("FindByID", mock.Anything, survey.ID).Return(survey, nil)

			service := newTestService(surveys, responses, StrategyClient)
			_, err := service.Submit(context.Background(), submitCommand(survey.ID))

			var unavailable *UnavailableError
			if assert.ErrorAs(t, err, &unavailable) {
				assert.Equal(t, tt.reason, unavailable.Reason)
			}
			responses.AssertNotCalled(t, "CreateWithStats", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	survey := publishedSurvey()
	surveys := new(mockSurveyRepository)
	responses := new(mockResponseRepository)
	surveys.On("FindByID", mock.Anything, survey.ID).Return(survey, nil)

	cmd := submitCommand(survey.ID)
	cmd.Answers = map[string]any{"q2": "必須のq1が未回答"}

	service := newTestService(surveys, responses, StrategyClient)
	_, err := service.Submit(context.Background(), cmd)

	var validation *ValidationError
	if assert.ErrorAs(t, err, &validation) {
		assert.False(t, validation.Result.QuestionResults["q1"].IsValid)
	}
	responses.AssertNotCalled(t, "FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	responses.AssertNotCalled(t, "CreateWithStats", mock.Anything, mock.Anything)
}

func TestSubmitDuplicateDetected(t *testing.T) {
	survey := publishedSurvey()
	existing := &domain.Response{ID: "existing-uuid"}

	surveys := new(mockSurveyRepository)
	responses := new(mockResponseRepository)
	surveys.On("FindByID", mock.Anything, survey.ID).Return(survey, nil)
	responses.On("FindRecent", mock.Anything, survey.ID, mock.Anything, 24*time.Hour).Return(existing, nil)

	service := newTestService(surveys, responses, StrategyClient)
	_, err := service.Submit(context.Background(), submitCommand(survey.ID))

	var duplicate *DuplicateError
	if assert.ErrorAs(t, err, &duplicate) {
		assert.Equal(t, "existing-uuid", duplicate.ExistingResponseID)
		assert.Equal(t, StrategyClient, duplicate.Criteria.Strategy)
		assert.Equal(t, "203.0.113.7", duplicate.Criteria.ClientIP)
		assert.Equal(t, "fp-123", duplicate.Criteria.Fingerprint)
	}
	responses.AssertNotCalled(t, "CreateWithStats", mock.Anything, mock.Anything)
}

func TestSubmitContentStrategyCriteria(t *testing.T) {
	survey := publishedSurvey()
	surveys := new(mockSurveyRepository)
	responses := new(mockResponseRepository)
	surveys.On("FindByID", mock.Anything, survey.ID).Return(survey, nil)

	var captured DuplicateCriteria
	responses.On("FindRecent", mock.Anything, survey.ID, mock.MatchedBy(func(criteria DuplicateCriteria) bool {
		captured = criteria
		return true
	}), 24*time.Hour).Return(nil, nil)
	responses.On("CreateWithStats", mock.Anything, mock.Anything).Return(nil)

	cmd := submitCommand(survey.ID)
	service := newTestService(surveys, responses, StrategyContent)
	_, err := service.Submit(context.Background(), cmd)

	assert.NoError(t, err)
	assert.Equal(t, StrategyContent, captured.Strategy)
	assert.Equal(t, AnswersHash(survey.ID, cmd.Answers), captured.AnswersHash)
	assert.Empty(t, captured.ClientIP)
}

func TestSubmitAllowMultipleSkipsDuplicateCheck(t *testing.T) {
	survey := publishedSurvey()
	survey.Settings.AllowMultipleResponses = true

	surveys := new(mockSurveyRepository)
	responses := new(mockResponseRepository)
	surveys.On("FindByID", mock.Anything, survey.ID).Return(survey, nil)
	responses.On("CreateWithStats", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(surveys, responses, StrategyClient)
	_, err := service.Submit(context.Background(), submitCommand(survey.ID))

	assert.NoError(t, err)
	responses.AssertNotCalled(t, "FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitWriteFailure(t *testing.T) {
	survey := publishedSurvey()
	surveys := new(mockSurveyRepository)
	responses := new(mockResponseRepository)
	surveys.On("FindByID", mock.Anything, survey.ID).Return(survey, nil)
	responses.On("FindRecent", mock.Anything, survey.ID, mock.Anything, 24*time.Hour).Return(nil, nil)

	storeErr := errors.New("transaction aborted")
	responses.On("CreateWithStats", mock.Anything, mock.Anything).Return(storeErr)

	service := newTestService(surveys, responses, StrategyClient)
	_, err := service.Submit(context.Background(), submitCommand(survey.ID))

	var write *WriteError
	if assert.ErrorAs(t, err, &write) {
		assert.ErrorIs(t, write, storeErr)
	}
}

func TestSubmitDurationClampedAtZero(t *testing.T) {
	survey := publishedSurvey()
	surveys := new(mockSurveyRepository)
	responses := new(mockResponseRepository)
	surveys.On("FindByID", mock.Anything, survey.ID).Return(survey, nil)
	responses.On("FindRecent", mock.Anything, survey.ID, mock.Anything, 24*time.Hour).Return(nil, nil)
	responses.On("CreateWithStats", mock.Anything, mock.Anything).Return(nil)

	cmd := submitCommand(survey.ID)
	// 時計ずれで終了時刻が開始時刻より前
	cmd.StartedAt = fixedNow
	cmd.CompletedAt = fixedNow.Add(-time.Minute)

	service := newTestService(surveys, responses, StrategyClient)
	response, err := service.Submit(context.Background(), cmd)

	assert.NoError(t, err)
	assert.Equal(t, 0, response.Duration)
}
