package admin

import (
	"errors"
	"strings"
	"time"

	adminapp "github.com/smartsurvey/survey-services/api/internal/admin/application"
	publicdomain "github.com/smartsurvey/survey-services/api/internal/public/domain"
)

type choiceOptionPayload struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type questionConfigPayload struct {
	Options      []choiceOptionPayload `json:"options,omitempty"`
	MinLength    *int                  `json:"minLength,omitempty"`
	MaxLength    *int                  `json:"maxLength,omitempty"`
	Pattern      string                `json:"pattern,omitempty"`
	Min          *float64              `json:"min,omitempty"`
	Max          *float64              `json:"max,omitempty"`
	AllowDecimal bool                  `json:"allowDecimal,omitempty"`
	MinChoices   *int                  `json:"minChoices,omitempty"`
	MaxChoices   *int                  `json:"maxChoices,omitempty"`
	AllowOther   bool                  `json:"allowOther,omitempty"`
	MinDate      *time.Time            `json:"minDate,omitempty"`
	MaxDate      *time.Time            `json:"maxDate,omitempty"`
	MaxFiles     *int                  `json:"maxFiles,omitempty"`
}

type questionPayload struct {
	ID       string                `json:"id"`
	Type     string                `json:"type"`
	Title    string                `json:"title"`
	Required bool                  `json:"required"`
	Config   questionConfigPayload `json:"config"`
}

type publishSettingsPayload struct {
	Visibility             string     `json:"visibility,omitempty"`
	Password               string     `json:"password,omitempty"`
	StartDate              *time.Time `json:"startDate,omitempty"`
	EndDate                *time.Time `json:"endDate,omitempty"`
	ResponseLimit          *int       `json:"responseLimit,omitempty"`
	AllowAnonymous         bool       `json:"allowAnonymous"`
	AllowMultipleResponses bool       `json:"allowMultipleResponses"`
}

// upsertSurveyRequest は作成・更新 API の共通リクエストボディ。
type upsertSurveyRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Questions   []questionPayload      `json:"questions"`
	Settings    publishSettingsPayload `json:"settings"`
}

type surveyStatsResponse struct {
	TotalResponses     int        `json:"totalResponses"`
	CompletedResponses int        `json:"completedResponses"`
	LastResponseAt     *time.Time `json:"lastResponseAt,omitempty"`
}

// adminSurveyResponse は管理画面向けのアンケート全量表現。
type adminSurveyResponse struct {
	ID          string                 `json:"id"`
	OwnerID     string                 `json:"ownerId,omitempty"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Status      string                 `json:"status"`
	Questions   []questionPayload      `json:"questions"`
	Settings    publishSettingsPayload `json:"settings"`
	Stats       surveyStatsResponse    `json:"stats"`
	PublishedAt *time.Time             `json:"publishedAt,omitempty"`
	ClosedAt    *time.Time             `json:"closedAt,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

type adminSurveyListResponse struct {
	Surveys []adminSurveyResponse `json:"surveys"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
}

type answerResponse struct {
	QuestionID   string    `json:"questionId"`
	QuestionType string    `json:"questionType"`
	Value        any       `json:"value"`
	AnsweredAt   time.Time `json:"answeredAt"`
}

type responseMetadataResponse struct {
	ClientIP    string            `json:"clientIp,omitempty"`
	UserAgent   string            `json:"userAgent,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	AnswersHash string            `json:"answersHash,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

type adminResponseResponse struct {
	ID          string                   `json:"id"`
	SurveyID    string                   `json:"surveyId"`
	Status      string                   `json:"status"`
	Answers     []answerResponse         `json:"answers"`
	StartedAt   time.Time                `json:"startedAt"`
	CompletedAt time.Time                `json:"completedAt"`
	Duration    int                      `json:"duration"`
	Metadata    responseMetadataResponse `json:"metadata"`
	SubmittedAt time.Time                `json:"submittedAt"`
}

type adminResponseListResponse struct {
	Responses []adminResponseResponse `json:"responses"`
	Total     int64                   `json:"total"`
	Page      int                     `json:"page"`
	Limit     int                     `json:"limit"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (req *upsertSurveyRequest) toCommand(ownerID string) (adminapp.UpsertSurveyCommand, error) {
	questions := make([]publicdomain.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questionType := strings.TrimSpace(q.Type)
		if questionType == "" {
			return adminapp.UpsertSurveyCommand{}, errors.New("質問タイプは必須です")
		}
		questions = append(questions, publicdomain.Question{
			ID:       strings.TrimSpace(q.ID),
			Type:     publicdomain.QuestionType(questionType),
			Title:    strings.TrimSpace(q.Title),
			Required: q.Required,
			Config:   mapConfigPayload(q.Config),
		})
	}
	return adminapp.UpsertSurveyCommand{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Questions:   questions,
		Settings: publicdomain.PublishSettings{
			Visibility:             strings.TrimSpace(req.Settings.Visibility),
			Password:               req.Settings.Password,
			StartDate:              req.Settings.StartDate,
			EndDate:                req.Settings.EndDate,
			ResponseLimit:          req.Settings.ResponseLimit,
			AllowAnonymous:         req.Settings.AllowAnonymous,
			AllowMultipleResponses: req.Settings.AllowMultipleResponses,
		},
	}, nil
}

func mapConfigPayload(c questionConfigPayload) publicdomain.QuestionConfig {
	options := make([]publicdomain.ChoiceOption, 0, len(c.Options))
	for _, o := range c.Options {
		options = append(options, publicdomain.ChoiceOption{
			Value:    strings.TrimSpace(o.Value),
			Label:    strings.TrimSpace(o.Label),
			ImageURL: strings.TrimSpace(o.ImageURL),
		})
	}
	if len(options) == 0 {
		options = nil
	}
	return publicdomain.QuestionConfig{
		Options:      options,
		MinLength:    c.MinLength,
		MaxLength:    c.MaxLength,
		Pattern:      strings.TrimSpace(c.Pattern),
		Min:          c.Min,
		Max:          c.Max,
		AllowDecimal: c.AllowDecimal,
		MinChoices:   c.MinChoices,
		MaxChoices:   c.MaxChoices,
		AllowOther:   c.AllowOther,
		MinDate:      c.MinDate,
		MaxDate:      c.MaxDate,
		MaxFiles:     c.MaxFiles,
	}
}

func mapSurveyToAdminResponse(s *publicdomain.Survey) adminSurveyResponse {
	questions := make([]questionPayload, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, questionPayload{
			ID:       q.ID,
			Type:     string(q.Type),
			Title:    q.Title,
			Required: q.Required,
			Config:   mapConfigToPayload(q.Config),
		})
	}
	return adminSurveyResponse{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Title:       s.Title,
		Description: s.Description,
		Status:      string(s.Status),
		Questions:   questions,
		Settings: publishSettingsPayload{
			Visibility:             s.Settings.Visibility,
			Password:               s.Settings.Password,
			StartDate:              s.Settings.StartDate,
			EndDate:                s.Settings.EndDate,
			ResponseLimit:          s.Settings.ResponseLimit,
			AllowAnonymous:         s.Settings.AllowAnonymous,
			AllowMultipleResponses: s.Settings.AllowMultipleResponses,
		},
		Stats: surveyStatsResponse{
			TotalResponses:     s.Stats.TotalResponses,
			CompletedResponses: s.Stats.CompletedResponses,
			LastResponseAt:     s.Stats.LastResponseAt,
		},
		PublishedAt: s.PublishedAt,
		ClosedAt:    s.ClosedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func mapConfigToPayload(c publicdomain.QuestionConfig) questionConfigPayload {
	options := make([]choiceOptionPayload, 0, len(c.Options))
	for _, o := range c.Options {
		options = append(options, choiceOptionPayload{Value: o.Value, Label: o.Label, ImageURL: o.ImageURL})
	}
	if len(options) == 0 {
		options = nil
	}
	return questionConfigPayload{
		Options:      options,
		MinLength:    c.MinLength,
		MaxLength:    c.MaxLength,
		Pattern:      c.Pattern,
		Min:          c.Min,
		Max:          c.Max,
		AllowDecimal: c.AllowDecimal,
		MinChoices:   c.MinChoices,
		MaxChoices:   c.MaxChoices,
		AllowOther:   c.AllowOther,
		MinDate:      c.MinDate,
		MaxDate:      c.MaxDate,
		MaxFiles:     c.MaxFiles,
	}
}

func mapResponseToAdminResponse(response *publicdomain.Response) adminResponseResponse {
	answers := make([]answerResponse, 0, len(response.Answers))
	for _, answer := range response.Answers {
		answers = append(answers, answerResponse{
			QuestionID:   answer.QuestionID,
			QuestionType: string(answer.QuestionType),
			Value:        answer.Value,
			AnsweredAt:   answer.AnsweredAt,
		})
	}
	return adminResponseResponse{
		ID:          response.ID,
		SurveyID:    response.SurveyID,
		Status:      string(response.Status),
		Answers:     answers,
		StartedAt:   response.StartedAt,
		CompletedAt: response.CompletedAt,
		Duration:    response.Duration,
		Metadata: responseMetadataResponse{
			ClientIP:    response.Metadata.ClientIP,
			UserAgent:   response.Metadata.UserAgent,
			Fingerprint: response.Metadata.Fingerprint,
			AnswersHash: response.Metadata.AnswersHash,
			Extra:       response.Metadata.Extra,
		},
		SubmittedAt: response.SubmittedAt,
	}
}
