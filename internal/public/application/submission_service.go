package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// responseCommandService implements ResponseCommandService: the linear
// submission pipeline. 利用可否 → 回答検証 → 重複判定 → トランザクション
// 書き込みの順で進み、いずれかの段で失敗すると型付きエラーで打ち切る。
type responseCommandService struct {
	surveys   SurveyRepository
	responses ResponseRepository
	strategy  DuplicateStrategy
	window    time.Duration
	now       func() time.Time
}

// NewResponseCommandService constructs the submission pipeline.
func NewResponseCommandService(surveys SurveyRepository, responses ResponseRepository, strategy DuplicateStrategy, window time.Duration) ResponseCommandService {
	return &responseCommandService{
		surveys:   surveys,
		responses: responses,
		strategy:  strategy,
		window:    window,
		now:       time.Now,
	}
}

func (s *responseCommandService) Submit(ctx context.Context, cmd SubmitResponseCommand) (*domain.Response, error) {
	survey, err := s.surveys.FindByID(ctx, cmd.SurveyID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if unavailable := survey.Availability(now); unavailable != nil {
		return nil, &UnavailableError{Reason: unavailable.Reason, Message: unavailable.Message}
	}

	if result := ValidateAnswers(survey, cmd.Answers); !result.IsValid {
		return nil, &ValidationError{Result: result}
	}

	criteria := buildDuplicateCriteria(s.strategy, cmd, s.window.String())
	if !survey.Settings.AllowMultipleResponses {
		existing, err := s.responses.FindRecent(ctx, cmd.SurveyID, criteria, s.window)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &DuplicateError{ExistingResponseID: existing.ID, Criteria: criteria}
		}
	}

	response := s.buildResponse(survey, cmd, now)
	if err := s.responses.CreateWithStats(ctx, response); err != nil {
		return nil, &WriteError{Err: err}
	}
	return response, nil
}

// buildResponse assembles the response aggregate in survey question order.
// 回答は質問定義の並び順で格納する。
func (s *responseCommandService) buildResponse(survey *domain.Survey, cmd SubmitResponseCommand, now time.Time) *domain.Response {
	answers := make([]domain.Answer, 0, len(cmd.Answers))
	for _, question := range survey.Questions {
		value, ok := cmd.Answers[question.ID]
		if !ok {
			continue
		}
		answers = append(answers, domain.Answer{
			QuestionID:   question.ID,
			QuestionType: question.Type,
			Value:        value,
			AnsweredAt:   now,
		})
	}

	return &domain.Response{
		ID:          uuid.NewString(),
		SurveyID:    survey.ID,
		Status:      domain.ResponseSubmitted,
		Answers:     answers,
		StartedAt:   cmd.StartedAt,
		CompletedAt: cmd.CompletedAt,
		Duration:    domain.DurationSeconds(cmd.StartedAt, cmd.CompletedAt),
		Metadata: domain.ResponseMetadata{
			ClientIP:    cmd.ClientIP,
			UserAgent:   cmd.UserAgent,
			Fingerprint: cmd.Fingerprint,
			AnswersHash: AnswersHash(survey.ID, cmd.Answers),
			Extra:       cmd.Metadata,
		},
		SubmittedAt: now,
		CreatedAt:   now,
	}
}
