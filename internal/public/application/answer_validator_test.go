package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func question(id string, qt domain.QuestionType, required bool, cfg domain.QuestionConfig) domain.Question {
	return domain.Question{ID: id, Type: qt, Title: id, Required: required, Config: cfg}
}

func choiceOptions(values ...string) []domain.ChoiceOption {
	options := make([]domain.ChoiceOption, 0, len(values))
	for _, v := range values {
		options = append(options, domain.ChoiceOption{Value: v, Label: v})
	}
	return options
}

func TestValidateAnswersRequiredQuestions(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionShortText, true, domain.QuestionConfig{}),
		question("q2", domain.QuestionNPS, true, domain.QuestionConfig{}),
		question("q3", domain.QuestionLongText, false, domain.QuestionConfig{}),
	}}

	result := ValidateAnswers(survey, map[string]any{})

	assert.False(t, result.IsValid)
	assert.False(t, result.QuestionResults["q1"].IsValid)
	assert.False(t, result.QuestionResults["q2"].IsValid)
	// 任意の質問は未回答でも妥当
	assert.True(t, result.QuestionResults["q3"].IsValid)
	assert.Equal(t, 2, result.ErrorCount())
}

func TestValidateAnswersWhitespaceCountsAsEmpty(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionShortText, true, domain.QuestionConfig{}),
	}}

	result := ValidateAnswers(survey, map[string]any{"q1": "   "})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.QuestionResults["q1"].Errors, "この質問は必須です")
}

func TestValidateAnswersCollectsAllErrors(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionEmail, true, domain.QuestionConfig{}),
		question("q2", domain.QuestionNumber, true, domain.QuestionConfig{Min: floatPtr(1)}),
		question("q3", domain.QuestionShortText, true, domain.QuestionConfig{}),
	}}

	result := ValidateAnswers(survey, map[string]any{
		"q1": "not-an-email",
		"q2": float64(0),
		"q3": "ok",
	})

	// 最初のエラーで打ち切らず全質問を評価する
	assert.False(t, result.IsValid)
	assert.False(t, result.QuestionResults["q1"].IsValid)
	assert.False(t, result.QuestionResults["q2"].IsValid)
	assert.True(t, result.QuestionResults["q3"].IsValid)
	assert.Equal(t, 2, result.ErrorCount())
}

func TestValidateAnswersOrphanAnswers(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionShortText, false, domain.QuestionConfig{}),
	}}

	result := ValidateAnswers(survey, map[string]any{
		"q1":      "hello",
		"ghost-q": "value",
	})

	assert.False(t, result.IsValid)
	assert.Len(t, result.GlobalErrors, 1)
	assert.Contains(t, result.GlobalErrors[0], "ghost-q")
}

func TestValidateAnswersIdempotent(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionShortText, true, domain.QuestionConfig{MaxLength: intPtr(5)}),
		question("q2", domain.QuestionRating, true, domain.QuestionConfig{}),
	}}
	answers := map[string]any{"q1": "too long answer", "q2": float64(3)}

	first := ValidateAnswers(survey, answers)
	second := ValidateAnswers(survey, answers)

	assert.Equal(t, first, second)
}

func TestValidateTextLengthAndPattern(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionShortText, true, domain.QuestionConfig{
			MinLength: intPtr(3),
			MaxLength: intPtr(5),
			Pattern:   `^[a-z]+$`,
		}),
	}}

	tests := []struct {
		name   string
		value  any
		errors int
	}{
		{"妥当", "abcde", 0},
		{"短すぎる", "ab", 1},
		{"長すぎる", "abcdef", 1},
		{"パターン不一致", "ABC", 1},
		{"短すぎてパターン不一致", "A", 2},
		{"テキスト以外", float64(1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAnswers(survey, map[string]any{"q1": tt.value})
			assert.Len(t, result.QuestionResults["q1"].Errors, tt.errors)
		})
	}
}

func TestValidateNumber(t *testing.T) {
	cfg := domain.QuestionConfig{Min: floatPtr(1), Max: floatPtr(10)}
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionNumber, true, cfg),
	}}

	tests := []struct {
		name  string
		value any
		valid bool
	}{
		{"範囲内", float64(5), true},
		{"数値文字列", "7", true},
		{"下限未満", float64(0), false},
		{"上限超過", float64(11), false},
		{"整数指定で小数", 5.5, false},
		{"数値でない", "abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAnswers(survey, map[string]any{"q1": tt.value})
			assert.Equal(t, tt.valid, result.IsValid)
		})
	}

	t.Run("小数許可", func(t *testing.T) {
		decimalCfg := domain.QuestionConfig{Min: floatPtr(1), Max: floatPtr(10), AllowDecimal: true}
		decimalSurvey := &domain.Survey{Questions: []domain.Question{
			question("q1", domain.QuestionNumber, true, decimalCfg),
		}}
		result := ValidateAnswers(decimalSurvey, map[string]any{"q1": 5.5})
		assert.True(t, result.IsValid)
	})
}

func TestValidateSingleChoice(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionSingleChoice, true, domain.QuestionConfig{
			Options: choiceOptions("red", "blue"),
		}),
	}}

	assert.True(t, ValidateAnswers(survey, map[string]any{"q1": "red"}).IsValid)
	assert.False(t, ValidateAnswers(survey, map[string]any{"q1": "green"}).IsValid)

	t.Run("その他入力を許可", func(t *testing.T) {
		other := &domain.Survey{Questions: []domain.Question{
			question("q1", domain.QuestionSingleChoice, true, domain.QuestionConfig{
				Options:    choiceOptions("red", "blue"),
				AllowOther: true,
			}),
		}}
		assert.True(t, ValidateAnswers(other, map[string]any{"q1": "green"}).IsValid)
	})
}

func TestValidateMultipleChoice(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionMultipleChoice, true, domain.QuestionConfig{
			Options:    choiceOptions("a", "b", "c"),
			MinChoices: intPtr(1),
			MaxChoices: intPtr(2),
		}),
	}}

	tests := []struct {
		name  string
		value any
		valid bool
	}{
		{"JSONデコーダ形式の配列", []any{"a", "b"}, true},
		{"文字列スライス", []string{"c"}, true},
		{"無効な選択肢", []any{"a", "zzz"}, false},
		{"上限超過", []any{"a", "b", "c"}, false},
		{"配列でない", "a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAnswers(survey, map[string]any{"q1": tt.value})
			assert.Equal(t, tt.valid, result.IsValid)
		})
	}
}

func TestValidateRangeQuestions(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("rating", domain.QuestionRating, false, domain.QuestionConfig{}),
		question("scale", domain.QuestionScale, false, domain.QuestionConfig{}),
		question("nps", domain.QuestionNPS, false, domain.QuestionConfig{}),
	}}

	assert.True(t, ValidateAnswers(survey, map[string]any{
		"rating": float64(5), "scale": float64(10), "nps": float64(0),
	}).IsValid)

	result := ValidateAnswers(survey, map[string]any{
		"rating": float64(6), "scale": float64(11), "nps": float64(-1),
	})
	assert.False(t, result.IsValid)
	assert.Equal(t, 3, result.ErrorCount())

	// 小数の評価値は拒否
	assert.False(t, ValidateAnswers(survey, map[string]any{"nps": 7.5}).IsValid)
}

func TestValidateRatingHonorsConfiguredMin(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("rating", domain.QuestionRating, false, domain.QuestionConfig{
			Min: floatPtr(0),
			Max: floatPtr(5),
		}),
	}}

	// 設定した下限が既定の 1 より優先される
	assert.True(t, ValidateAnswers(survey, map[string]any{"rating": float64(0)}).IsValid)
	assert.False(t, ValidateAnswers(survey, map[string]any{"rating": float64(-1)}).IsValid)

	raised := &domain.Survey{Questions: []domain.Question{
		question("rating", domain.QuestionRating, false, domain.QuestionConfig{Min: floatPtr(2)}),
	}}
	assert.False(t, ValidateAnswers(raised, map[string]any{"rating": float64(1)}).IsValid)
}

func TestValidateDateAndTime(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("date", domain.QuestionDate, false, domain.QuestionConfig{}),
		question("time", domain.QuestionTime, false, domain.QuestionConfig{}),
		question("datetime", domain.QuestionDatetime, false, domain.QuestionConfig{}),
	}}

	assert.True(t, ValidateAnswers(survey, map[string]any{
		"date":     "2026-03-15",
		"time":     "14:30",
		"datetime": "2026-03-15T14:30:00Z",
	}).IsValid)

	assert.False(t, ValidateAnswers(survey, map[string]any{"date": "15/03/2026"}).IsValid)
	assert.False(t, ValidateAnswers(survey, map[string]any{"time": "25:99"}).IsValid)
	assert.False(t, ValidateAnswers(survey, map[string]any{"datetime": "2026-03-15"}).IsValid)
}

func TestValidateFileUpload(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionFileUpload, false, domain.QuestionConfig{MaxFiles: intPtr(2)}),
	}}

	assert.True(t, ValidateAnswers(survey, map[string]any{"q1": []any{"f1", "f2"}}).IsValid)
	assert.False(t, ValidateAnswers(survey, map[string]any{"q1": []any{"f1", "f2", "f3"}}).IsValid)
}

func TestValidateUnknownTypePassesThrough(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("q1", domain.QuestionMatrix, false, domain.QuestionConfig{}),
		question("q2", domain.QuestionRanking, false, domain.QuestionConfig{}),
		question("q3", domain.QuestionType("hologram"), false, domain.QuestionConfig{}),
	}}

	result := ValidateAnswers(survey, map[string]any{
		"q1": map[string]any{"row1": "col2"},
		"q2": []any{"b", "a"},
		"q3": "anything",
	})
	assert.True(t, result.IsValid)
}

func TestValidateEmailAndURL(t *testing.T) {
	survey := &domain.Survey{Questions: []domain.Question{
		question("email", domain.QuestionEmail, false, domain.QuestionConfig{}),
		question("url", domain.QuestionURL, false, domain.QuestionConfig{}),
	}}

	assert.True(t, ValidateAnswers(survey, map[string]any{
		"email": "user@example.com",
		"url":   "https://example.com/page",
	}).IsValid)

	assert.False(t, ValidateAnswers(survey, map[string]any{"email": "nope"}).IsValid)
	assert.False(t, ValidateAnswers(survey, map[string]any{"url": "ftp://example.com"}).IsValid)
}
