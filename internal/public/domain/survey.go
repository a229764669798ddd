package domain

import "time"

// SurveyStatus is the lifecycle state of a survey.
type SurveyStatus string

const (
	StatusDraft     SurveyStatus = "draft"
	StatusPublished SurveyStatus = "published"
	StatusPaused    SurveyStatus = "paused"
	StatusClosed    SurveyStatus = "closed"
	StatusArchived  SurveyStatus = "archived"
)

// QuestionType identifies the input widget and validation rules of a question.
type QuestionType string

const (
	QuestionShortText      QuestionType = "short_text"
	QuestionLongText       QuestionType = "long_text"
	QuestionEmail          QuestionType = "email"
	QuestionNumber         QuestionType = "number"
	QuestionURL            QuestionType = "url"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionDropdown       QuestionType = "dropdown"
	QuestionRating         QuestionType = "rating"
	QuestionScale          QuestionType = "scale"
	QuestionNPS            QuestionType = "nps"
	QuestionDate           QuestionType = "date"
	QuestionTime           QuestionType = "time"
	QuestionDatetime       QuestionType = "datetime"
	QuestionFileUpload     QuestionType = "file_upload"
	QuestionImageChoice    QuestionType = "image_choice"
	QuestionMatrix         QuestionType = "matrix"
	QuestionRanking        QuestionType = "ranking"
)

// ChoiceOption is one selectable option of a choice-type question.
type ChoiceOption struct {
	Value    string
	Label    string
	ImageURL string
}

// QuestionConfig carries the type-specific validation settings of a question.
// どのフィールドが意味を持つかは QuestionType に依存する。
type QuestionConfig struct {
	Options      []ChoiceOption
	MinLength    *int
	MaxLength    *int
	Pattern      string
	Min          *float64
	Max          *float64
	AllowDecimal bool
	MinChoices   *int
	MaxChoices   *int
	AllowOther   bool
	MinDate      *time.Time
	MaxDate      *time.Time
	MaxFiles     *int
}

// Question is one typed input field within a survey.
type Question struct {
	ID       string
	Type     QuestionType
	Title    string
	Required bool
	Config   QuestionConfig
}

// PublishSettings controls who may answer and when.
type PublishSettings struct {
	Visibility             string
	Password               string
	StartDate              *time.Time
	EndDate                *time.Time
	ResponseLimit          *int
	AllowAnonymous         bool
	AllowMultipleResponses bool
}

// SurveyStats holds the running response counters of a survey.
// カウンタはレスポンス書き込みトランザクション内でのみ更新される。
type SurveyStats struct {
	TotalResponses     int
	CompletedResponses int
	LastResponseAt     *time.Time
}

// Survey is the aggregate root: an ordered form definition with publish
// settings and running statistics.
type Survey struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      SurveyStatus
	Questions   []Question
	Settings    PublishSettings
	Stats       SurveyStats
	PublishedAt *time.Time
	ClosedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Question returns the question with the given identifier, or nil.
func (s *Survey) Question(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// UnavailableReason classifies why a survey does not accept responses.
type UnavailableReason string

const (
	ReasonNotPublished UnavailableReason = "not_published"
	ReasonNotYetOpen   UnavailableReason = "not_yet_open"
	ReasonClosed       UnavailableReason = "closed"
	ReasonFull         UnavailableReason = "full"
)

// Unavailability explains a rejected submission window.
type Unavailability struct {
	Reason  UnavailableReason
	Message string
}

// Availability reports whether the survey accepts new responses at the given
// instant. nil means the survey is open. 各条件は個別の理由を返す。
func (s *Survey) Availability(now time.Time) *Unavailability {
	if s.Status != StatusPublished {
		return &Unavailability{Reason: ReasonNotPublished, Message: "このアンケートは現在公開されていません"}
	}
	if s.Settings.StartDate != nil && now.Before(*s.Settings.StartDate) {
		return &Unavailability{Reason: ReasonNotYetOpen, Message: "このアンケートはまだ開始されていません"}
	}
	if s.Settings.EndDate != nil && now.After(*s.Settings.EndDate) {
		return &Unavailability{Reason: ReasonClosed, Message: "このアンケートは回答期間を終了しました"}
	}
	if s.Settings.ResponseLimit != nil && s.Stats.TotalResponses >= *s.Settings.ResponseLimit {
		return &Unavailability{Reason: ReasonFull, Message: "このアンケートは回答数の上限に到達しました"}
	}
	return nil
}
