package application

import (
	"errors"
	"fmt"

	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// ErrSurveyNotFound is returned when no survey exists for the given ID.
var ErrSurveyNotFound = errors.New("アンケートが見つかりません")

// UnavailableError reports a survey that exists but does not accept
// responses right now.
type UnavailableError struct {
	Reason  domain.UnavailableReason
	Message string
}

func (e *UnavailableError) Error() string {
	return e.Message
}

// ValidationError carries the full per-question validation outcome so the
// caller can surface every invalid field in one round trip.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("回答内容が不正です (%d件のエラー)", e.Result.ErrorCount())
}

// DuplicateError reports a suppressed repeat submission. ExistingResponseID
// is revealed so the client can show "already submitted".
type DuplicateError struct {
	ExistingResponseID string
	Criteria           DuplicateCriteria
}

func (e *DuplicateError) Error() string {
	return "このアンケートには既に回答済みです"
}

// WriteError wraps a failed transactional write.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("回答の保存に失敗しました: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
