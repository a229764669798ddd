package public

import (
	"time"

	publicdomain "github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// surveySummaryResponse は一覧 API の 1 件分のレスポンス。
type surveySummaryResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	QuestionCount int        `json:"questionCount"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
}

// surveyListResponse は一覧 API のレスポンス。
type surveyListResponse struct {
	Surveys []surveySummaryResponse `json:"surveys"`
	Total   int64                   `json:"total"`
	Page    int                     `json:"page"`
	Limit   int                     `json:"limit"`
}

type choiceOptionResponse struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type questionConfigResponse struct {
	Options      []choiceOptionResponse `json:"options,omitempty"`
	MinLength    *int                   `json:"minLength,omitempty"`
	MaxLength    *int                   `json:"maxLength,omitempty"`
	Pattern      string                 `json:"pattern,omitempty"`
	Min          *float64               `json:"min,omitempty"`
	Max          *float64               `json:"max,omitempty"`
	AllowDecimal bool                   `json:"allowDecimal,omitempty"`
	MinChoices   *int                   `json:"minChoices,omitempty"`
	MaxChoices   *int                   `json:"maxChoices,omitempty"`
	AllowOther   bool                   `json:"allowOther,omitempty"`
	MinDate      *time.Time             `json:"minDate,omitempty"`
	MaxDate      *time.Time             `json:"maxDate,omitempty"`
	MaxFiles     *int                   `json:"maxFiles,omitempty"`
}

type questionResponse struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Required bool                   `json:"required"`
	Config   questionConfigResponse `json:"config"`
}

// surveyDetailResponse は詳細 API のレスポンス。回答画面の描画に必要な情報を返す。
type surveyDetailResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	Questions   []questionResponse `json:"questions"`
	StartDate   *time.Time         `json:"startDate,omitempty"`
	EndDate     *time.Time         `json:"endDate,omitempty"`
}

// submitResponseRequest は回答送信 API のリクエストボディ。
type submitResponseRequest struct {
	SurveyID  string            `json:"surveyId,omitempty"`
	Answers   map[string]any    `json:"answers"`
	StartTime string            `json:"startTime,omitempty"`
	EndTime   string            `json:"endTime,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// submitResponseResult は回答送信成功時のレスポンス。
type submitResponseResult struct {
	Success     bool      `json:"success"`
	ResponseID  string    `json:"responseId"`
	SubmittedAt time.Time `json:"submittedAt"`
	Message     string    `json:"message"`
}

func mapSurveySummary(s *publicdomain.Survey) surveySummaryResponse {
	return surveySummaryResponse{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		Status:        string(s.Status),
		QuestionCount: len(s.Questions),
		PublishedAt:   s.PublishedAt,
		EndDate:       s.Settings.EndDate,
	}
}

func mapSurveyDetail(s *publicdomain.Survey) surveyDetailResponse {
	questions := make([]questionResponse, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, questionResponse{
			ID:       q.ID,
			Type:     string(q.Type),
			Title:    q.Title,
			Required: q.Required,
			Config:   mapQuestionConfig(q.Config),
		})
	}
	return surveyDetailResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Status:      string(s.Status),
		Questions:   questions,
		StartDate:   s.Settings.StartDate,
		EndDate:     s.Settings.EndDate,
	}
}

func mapQuestionConfig(c publicdomain.QuestionConfig) questionConfigResponse {
	options := make([]choiceOptionResponse, 0, len(c.Options))
	for _, o := range c.Options {
		options = append(options, choiceOptionResponse{Value: o.Value, Label: o.Label, ImageURL: o.ImageURL})
	}
	if len(options) == 0 {
		options = nil
	}
	return questionConfigResponse{
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
