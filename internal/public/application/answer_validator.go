package application

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// QuestionResult is the validation outcome for one question.
type QuestionResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidationResult aggregates per-question and survey-wide validation errors.
type ValidationResult struct {
	IsValid         bool                      `json:"isValid"`
	GlobalErrors    []string                  `json:"globalErrors,omitempty"`
	QuestionResults map[string]QuestionResult `json:"questionResults"`
}

// ErrorCount returns the total number of collected errors.
func (r ValidationResult) ErrorCount() int {
	count := len(r.GlobalErrors)
	for _, qr := range r.QuestionResults {
		count += len(qr.Errors)
	}
	return count
}

const (
	ratingDefaultMin = 1
	ratingDefaultMax = 5
	scaleDefaultMin  = 1
	scaleDefaultMax  = 10
	npsMin           = 0
	npsMax           = 10
	maxUploadDefault = 10
)

// ValidateAnswers checks every submitted answer against the survey's
// question definitions. 全質問を必ず評価し、最初のエラーで打ち切らない。
// 未知の質問タイプは前方互換のため常に妥当として通す。
func ValidateAnswers(survey *domain.Survey, answers map[string]any) ValidationResult {
	result := ValidationResult{
		IsValid:         true,
		QuestionResults: make(map[string]QuestionResult, len(survey.Questions)),
	}

	known := make(map[string]struct{}, len(survey.Questions))
	for i := range survey.Questions {
		question := &survey.Questions[i]
		known[question.ID] = struct{}{}

		value, submitted := answers[question.ID]
		errs := validateQuestionAnswer(question, value, submitted)
		if len(errs) > 0 {
			result.IsValid = false
			result.QuestionResults[question.ID] = QuestionResult{IsValid: false, Errors: errs}
			continue
		}
		result.QuestionResults[question.ID] = QuestionResult{IsValid: true}
	}

	for id := range answers {
		if _, ok := known[id]; !ok {
			result.IsValid = false
			result.GlobalErrors = append(result.GlobalErrors,
				fmt.Sprintf("質問 %s はこのアンケートに存在しません", id))
		}
	}

	return result
}

func validateQuestionAnswer(question *domain.Question, value any, submitted bool) []string {
	if !submitted || answerEmpty(question.Type, value) {
		if question.Required {
			return []string{"この質問は必須です"}
		}
		return nil
	}

	switch question.Type {
	case domain.QuestionShortText, domain.QuestionLongText:
		return validateText(question.Config, value)
	case domain.QuestionEmail:
		return validateEmail(value)
	case domain.QuestionURL:
		return validateURL(value)
	case domain.QuestionNumber:
		return validateNumber(question.Config, value)
	case domain.QuestionSingleChoice, domain.QuestionDropdown, domain.QuestionImageChoice:
		return validateSingleChoice(question.Config, value)
	case domain.QuestionMultipleChoice:
		return validateMultipleChoice(question.Config, value)
	case domain.QuestionRating:
		return validateRange(value, configMinOr(question.Config, ratingDefaultMin), configMaxOr(question.Config, ratingDefaultMax), "評価")
	case domain.QuestionScale:
		return validateRange(value, configMinOr(question.Config, scaleDefaultMin), configMaxOr(question.Config, scaleDefaultMax), "スケール")
	case domain.QuestionNPS:
		return validateRange(value, npsMin, npsMax, "NPS")
	case domain.QuestionDate:
		return validateDate(question.Config, value, "2006-01-02")
	case domain.QuestionTime:
		return validateTime(value)
	case domain.QuestionDatetime:
		return validateDate(question.Config, value, time.RFC3339)
	case domain.QuestionFileUpload:
		return validateFileUpload(question.Config, value)
	default:
		// matrix・ranking を含む未対応タイプはパススルー。
		return nil
	}
}

// answerEmpty reports whether a submitted value counts as "no answer" for
// required-field purposes: whitespace-only text, empty arrays, nil.
func answerEmpty(questionType domain.QuestionType, value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		_ = questionType
		return false
	}
}

func validateText(cfg domain.QuestionConfig, value any) []string {
	text, ok := value.(string)
	if !ok {
		return []string{"テキストで入力してください"}
	}

	var errs []string
	length := utf8.RuneCountInString(text)
	if cfg.MinLength != nil && length < *cfg.MinLength {
		errs = append(errs, fmt.Sprintf("%d文字以上で入力してください", *cfg.MinLength))
	}
	if cfg.MaxLength != nil && length > *cfg.MaxLength {
		errs = append(errs, fmt.Sprintf("%d文字以内で入力してください", *cfg.MaxLength))
	}
	if cfg.Pattern != "" {
		if pattern, err := regexp.Compile(cfg.Pattern); err == nil && !pattern.MatchString(text) {
			errs = append(errs, "入力形式が正しくありません")
		}
	}
	return errs
}

func validateEmail(value any) []string {
	text, ok := value.(string)
	if !ok {
		return []string{"メールアドレスをテキストで入力してください"}
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 254 {
		return []string{"メールアドレスは254文字以内で入力してください"}
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return []string{"メールアドレスの形式が正しくありません"}
	}
	return nil
}

func validateURL(value any) []string {
	text, ok := value.(string)
	if !ok {
		return []string{"URLをテキストで入力してください"}
	}
	parsed, err := url.ParseRequestURI(strings.TrimSpace(text))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return []string{"URLの形式が正しくありません"}
	}
	return nil
}

func validateNumber(cfg domain.QuestionConfig, value any) []string {
	number, ok := numericValue(value)
	if !ok {
		return []string{"数値で入力してください"}
	}

	var errs []string
	if !cfg.AllowDecimal && number != math.Trunc(number) {
		errs = append(errs, "整数で入力してください")
	}
	if cfg.Min != nil && number < *cfg.Min {
		errs = append(errs, fmt.Sprintf("%sより小さい値は入力できません", formatNumber(*cfg.Min)))
	}
	if cfg.Max != nil && number > *cfg.Max {
		errs = append(errs, fmt.Sprintf("%sより大きい値は入力できません", formatNumber(*cfg.Max)))
	}
	return errs
}

func validateSingleChoice(cfg domain.QuestionConfig, value any) []string {
	selected, ok := value.(string)
	if !ok {
		return []string{"選択肢から1つ選んでください"}
	}
	if optionExists(cfg.Options, selected) {
		return nil
	}
	if cfg.AllowOther && strings.TrimSpace(selected) != "" {
		return nil
	}
	return []string{"有効な選択肢ではありません"}
}

func validateMultipleChoice(cfg domain.QuestionConfig, value any) []string {
	selected, ok := stringSlice(value)
	if !ok {
		return []string{"選択肢の配列で回答してください"}
	}

	var errs []string
	for _, item := range selected {
		if optionExists(cfg.Options, item) {
			continue
		}
		if cfg.AllowOther && strings.TrimSpace(item) != "" {
			continue
		}
		errs = append(errs, fmt.Sprintf("%q は有効な選択肢ではありません", item))
	}
	if cfg.MinChoices != nil && len(selected) < *cfg.MinChoices {
		errs = append(errs, fmt.Sprintf("%d個以上選択してください", *cfg.MinChoices))
	}
	if cfg.MaxChoices != nil && len(selected) > *cfg.MaxChoices {
		errs = append(errs, fmt.Sprintf("選択できるのは%d個までです", *cfg.MaxChoices))
	}
	return errs
}

func validateRange(value any, min, max float64, label string) []string {
	number, ok := numericValue(value)
	if !ok {
		return []string{fmt.Sprintf("%sは数値で入力してください", label)}
	}
	if number != math.Trunc(number) {
		return []string{fmt.Sprintf("%sは整数で入力してください", label)}
	}
	if number < min || number > max {
		return []string{fmt.Sprintf("%sは%d〜%dの範囲で入力してください", label, int(min), int(max))}
	}
	return nil
}

func validateDate(cfg domain.QuestionConfig, value any, layout string) []string {
	text, ok := value.(string)
	if !ok {
		return []string{"日付をテキストで入力してください"}
	}
	parsed, err := time.Parse(layout, strings.TrimSpace(text))
	if err != nil {
		return []string{"日付の形式が正しくありません"}
	}

	var errs []string
	if cfg.MinDate != nil && parsed.Before(*cfg.MinDate) {
		errs = append(errs, fmt.Sprintf("%s以降の日付を指定してください", cfg.MinDate.Format("2006-01-02")))
	}
	if cfg.MaxDate != nil && parsed.After(*cfg.MaxDate) {
		errs = append(errs, fmt.Sprintf("%s以前の日付を指定してください", cfg.MaxDate.Format("2006-01-02")))
	}
	return errs
}

func validateTime(value any) []string {
	text, ok := value.(string)
	if !ok {
		return []string{"時刻をテキストで入力してください"}
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(text)); err != nil {
		return []string{"時刻の形式が正しくありません (HH:MM)"}
	}
	return nil
}

// validateFileUpload checks the file count only. 内容・サイズの検証は
// アップロード側のコラボレータで事前に済んでいる前提。
func validateFileUpload(cfg domain.QuestionConfig, value any) []string {
	files, ok := stringSlice(value)
	if !ok {
		return []string{"ファイル参照の配列で回答してください"}
	}
	limit := maxUploadDefault
	if cfg.MaxFiles != nil {
		limit = *cfg.MaxFiles
	}
	if len(files) > limit {
		return []string{fmt.Sprintf("ファイルは最大%d件までです", limit)}
	}
	return nil
}

func optionExists(options []domain.ChoiceOption, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}

// numericValue coerces JSON numbers and numeric strings to float64.
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return number, true
	default:
		return 0, false
	}
}

// stringSlice accepts both []string and the []any a JSON decoder produces.
func stringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			text, ok := item.(string)
			if !ok {
				return nil, false
			}
			result = append(result, text)
		}
		return result, true
	default:
		return nil, false
	}
}

func configMinOr(cfg domain.QuestionConfig, fallback float64) float64 {
	if cfg.Min != nil {
		return *cfg.Min
	}
	return fallback
}

func configMaxOr(cfg domain.QuestionConfig, fallback float64) float64 {
	if cfg.Max != nil {
		return *cfg.Max
	}
	return fallback
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
