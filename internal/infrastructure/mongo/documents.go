package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChoiceOptionDocument は選択肢1件分の埋め込みドキュメント。
type ChoiceOptionDocument struct {
	Value    string `bson:"value"`
	Label    string `bson:"label,omitempty"`
	ImageURL string `bson:"imageUrl,omitempty"`
}

// QuestionConfigDocument は質問タイプ別の検証設定を格納する。
type QuestionConfigDocument struct {
	Options      []ChoiceOptionDocument `bson:"options,omitempty"`
	MinLength    *int                   `bson:"minLength,omitempty"`
	MaxLength    *int                   `bson:"maxLength,omitempty"`
	Pattern      string                 `bson:"pattern,omitempty"`
	Min          *float64               `bson:"min,omitempty"`
	Max          *float64               `bson:"max,omitempty"`
	AllowDecimal bool                   `bson:"allowDecimal,omitempty"`
	MinChoices   *int                   `bson:"minChoices,omitempty"`
	MaxChoices   *int                   `bson:"maxChoices,omitempty"`
	AllowOther   bool                   `bson:"allowOther,omitempty"`
	MinDate      *time.Time             `bson:"minDate,omitempty"`
	MaxDate      *time.Time             `bson:"maxDate,omitempty"`
	MaxFiles     *int                   `bson:"maxFiles,omitempty"`
}

// QuestionDocument はアンケート内の質問1問分の埋め込みドキュメント。
// questionId は回答と突き合わせるアンケート内ローカルな識別子。
type QuestionDocument struct {
	QuestionID string                 `bson:"questionId"`
	Type       string                 `bson:"type"`
	Title      string                 `bson:"title"`
	Required   bool                   `bson:"required,omitempty"`
	Config     QuestionConfigDocument `bson:"config,omitempty"`
}

// PublishSettingsDocument は公開設定の埋め込みドキュメント。
type PublishSettingsDocument struct {
	Visibility             string     `bson:"visibility,omitempty"`
	Password               string     `bson:"password,omitempty"`
	StartDate              *time.Time `bson:"startDate,omitempty"`
	EndDate                *time.Time `bson:"endDate,omitempty"`
	ResponseLimit          *int       `bson:"responseLimit,omitempty"`
	AllowAnonymous         bool       `bson:"allowAnonymous,omitempty"`
	AllowMultipleResponses bool       `bson:"allowMultipleResponses,omitempty"`
}

// SurveyStatsDocument は回答数カウンタの埋め込みドキュメント。
// totalResponses/completedResponses はトランザクション内の $inc でのみ増える。
type SurveyStatsDocument struct {
	TotalResponses     int        `bson:"totalResponses"`
	CompletedResponses int        `bson:"completedResponses"`
	LastResponseAt     *time.Time `bson:"lastResponseAt,omitempty"`
}

// SurveyDocument は MongoDB 上でのアンケートスキーマを Go 構造体として表現したもの。
type SurveyDocument struct {
	ID          primitive.ObjectID      `bson:"_id"`
	OwnerID     string                  `bson:"ownerId,omitempty"`
	Title       string                  `bson:"title"`
	Description string                  `bson:"description,omitempty"`
	Status      string                  `bson:"status"`
	Questions   []QuestionDocument      `bson:"questions"`
	Settings    PublishSettingsDocument `bson:"settings"`
	Stats       SurveyStatsDocument     `bson:"stats"`
	PublishedAt *time.Time              `bson:"publishedAt,omitempty"`
	ClosedAt    *time.Time              `bson:"closedAt,omitempty"`
	CreatedAt   time.Time               `bson:"createdAt"`
	UpdatedAt   time.Time               `bson:"updatedAt"`
}

// AnswerDocument は回答1問分の埋め込みドキュメント。
type AnswerDocument struct {
	QuestionID   string    `bson:"questionId"`
	QuestionType string    `bson:"questionType"`
	Value        any       `bson:"value"`
	AnsweredAt   time.Time `bson:"answeredAt"`
}

// ResponseMetadataDocument はリクエストコンテキスト由来のメタデータ。
type ResponseMetadataDocument struct {
	ClientIP    string            `bson:"clientIp,omitempty"`
	UserAgent   string            `bson:"userAgent,omitempty"`
	Fingerprint string            `bson:"fingerprint,omitempty"`
	AnswersHash string            `bson:"answersHash,omitempty"`
	Extra       map[string]string `bson:"extra,omitempty"`
}

// ResponseDocument は提出済み回答のスキーマ。responseId は外部共有用の
// UUID で、ストレージ主キー (_id) とは別に持つ。
type ResponseDocument struct {
	ID          primitive.ObjectID       `bson:"_id"`
	ResponseID  string                   `bson:"responseId"`
	SurveyID    primitive.ObjectID       `bson:"surveyId"`
	Status      string                   `bson:"status"`
	Answers     []AnswerDocument         `bson:"answers"`
	StartedAt   time.Time                `bson:"startedAt"`
	CompletedAt time.Time                `bson:"completedAt"`
	Duration    int                      `bson:"duration"`
	Metadata    ResponseMetadataDocument `bson:"metadata"`
	SubmittedAt time.Time                `bson:"submittedAt"`
	CreatedAt   time.Time                `bson:"createdAt"`
}
