package domain

import "time"

// ResponseStatus is the submission state of a response. The public pipeline
// only ever produces submitted responses.
type ResponseStatus string

const ResponseSubmitted ResponseStatus = "submitted"

// Answer is one respondent-supplied value for a single question.
type Answer struct {
	QuestionID   string
	QuestionType QuestionType
	Value        any
	AnsweredAt   time.Time
}

// ResponseMetadata keeps request-context attributes of a submission.
type ResponseMetadata struct {
	ClientIP    string
	UserAgent   string
	Fingerprint string
	AnswersHash string
	Extra       map[string]string
}

// Response is one completed submission to a survey. ID は外部共有可能な
// UUID で、ストレージの主キーとは別に採番される。
type Response struct {
	ID          string
	SurveyID    string
	Status      ResponseStatus
	Answers     []Answer
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    int
	Metadata    ResponseMetadata
	SubmittedAt time.Time
	CreatedAt   time.Time
}

// DurationSeconds computes the whole-second duration between start and end,
// clamped at zero so clock skew never yields a negative value.
func DurationSeconds(start, end time.Time) int {
	seconds := int(end.Sub(start) / time.Second)
	if seconds < 0 {
		return 0
	}
	return seconds
}
