package domain

import (
	"fmt"

	publicdomain "github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// 許可するライフサイクル遷移。アーカイブは終端で、削除の代わりに使う。
var allowedTransitions = map[publicdomain.SurveyStatus][]publicdomain.SurveyStatus{
	publicdomain.StatusDraft:     {publicdomain.StatusPublished, publicdomain.StatusArchived},
	publicdomain.StatusPublished: {publicdomain.StatusPaused, publicdomain.StatusClosed, publicdomain.StatusArchived},
	publicdomain.StatusPaused:    {publicdomain.StatusPublished, publicdomain.StatusClosed, publicdomain.StatusArchived},
	publicdomain.StatusClosed:    {publicdomain.StatusArchived},
	publicdomain.StatusArchived:  {},
}

// CanTransition reports whether a status change is permitted.
func CanTransition(from, to publicdomain.SurveyStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status string.
func ParseStatus(value string) (publicdomain.SurveyStatus, error) {
	switch publicdomain.SurveyStatus(value) {
	case publicdomain.StatusDraft, publicdomain.StatusPublished, publicdomain.StatusPaused,
		publicdomain.StatusClosed, publicdomain.StatusArchived:
		return publicdomain.SurveyStatus(value), nil
	default:
		return "", fmt.Errorf("不明なステータスです: %s", value)
	}
}

// ValidateForPublish checks the structural rules a survey must satisfy
// before it can accept responses: at least one question, unique question
// identifiers, and at least two options on every choice-type question.
func ValidateForPublish(survey *publicdomain.Survey) error {
	if len(survey.Questions) == 0 {
		return fmt.Errorf("公開には1問以上の質問が必要です")
	}

	seen := make(map[string]struct{}, len(survey.Questions))
	for _, question := range survey.Questions {
		if question.ID == "" {
			return fmt.Errorf("質問IDが未設定の質問があります")
		}
		if _, ok := seen[question.ID]; ok {
			return fmt.Errorf("質問ID %s が重複しています", question.ID)
		}
		seen[question.ID] = struct{}{}

		if isChoiceType(question.Type) && len(question.Config.Options) < 2 {
			return fmt.Errorf("質問 %s には2件以上の選択肢が必要です", question.ID)
		}
	}
	return nil
}

// ValidateQuestions applies the weaker draft-time rules: unique IDs and at
// least one option on choice questions.
func ValidateQuestions(questions []publicdomain.Question) error {
	seen := make(map[string]struct{}, len(questions))
	for _, question := range questions {
		if question.ID == "" {
			return fmt.Errorf("質問IDは必須です")
		}
		if _, ok := seen[question.ID]; ok {
			return fmt.Errorf("質問ID %s が重複しています", question.ID)
		}
		seen[question.ID] = struct{}{}

		if isChoiceType(question.Type) && len(question.Config.Options) < 1 {
			return fmt.Errorf("質問 %s には1件以上の選択肢が必要です", question.ID)
		}
	}
	return nil
}

func isChoiceType(questionType publicdomain.QuestionType) bool {
	switch questionType {
	case publicdomain.QuestionSingleChoice, publicdomain.QuestionMultipleChoice,
		publicdomain.QuestionDropdown, publicdomain.QuestionImageChoice:
		return true
	default:
		return false
	}
}
