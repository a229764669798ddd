package public

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	publicapp "github.com/smartsurvey/survey-services/api/internal/public/application"
	publicdomain "github.com/smartsurvey/survey-services/api/internal/public/domain"
)

type stubSurveyQueries struct {
	listSurveys []publicdomain.Survey
	listTotal   int64
	detail      *publicdomain.Survey
	err         error
}

func (s *stubSurveyQueries) List(ctx context.Context, filter publicapp.SurveyFilter, paging publicapp.Paging) ([]publicdomain.Survey, int64, error) {
	return s.listSurveys, s.listTotal, s.err
}

func (s *stubSurveyQueries) Detail(ctx context.Context, id string) (*publicdomain.Survey, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

type stubResponseCommands struct {
	response *publicdomain.Response
	err      error
	gotCmd   publicapp.SubmitResponseCommand
}

func (s *stubResponseCommands) Submit(ctx context.Context, cmd publicapp.SubmitResponseCommand) (*publicdomain.Response, error) {
	s.gotCmd = cmd
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func newTestRouter(queries publicapp.SurveyQueryService, commands publicapp.ResponseCommandService) chi.Router {
	handler := NewHandler(Config{
		Logger:                 log.New(bytes.NewBuffer(nil), "", 0),
		SurveyQueries:          queries,
		ResponseCommands:       commands,
		Location:               time.UTC,
		RespondentCookieSecret: []byte("test-secret"),
		HTTPClient:             &http.Client{Timeout: time.Second},
	})
	router := chi.NewRouter()
	handler.Register(router)
	return router
}

func postResponse(t *testing.T, router chi.Router, surveyID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/surveys/"+surveyID+"/responses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestResponseCreateSuccess(t *testing.T) {
	submittedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	commands := &stubResponseCommands{response: &publicdomain.Response{
		ID:          "resp-uuid",
		SurveyID:    "survey-1",
		SubmittedAt: submittedAt,
	}}
	router := newTestRouter(&stubSurveyQueries{}, commands)

	rec := postResponse(t, router, "survey-1", map[string]any{
		"answers":   map[string]any{"q1": float64(9)},
		"startTime": "2026-03-15T11:58:00Z",
		"endTime":   "2026-03-15T12:00:00Z",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, time.Date(2026, 3, 15, 11, 58, 0, 0, time.UTC), commands.gotCmd.StartedAt)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "resp-uuid", body["responseId"])

	// 回答者クッキーが発行される
	cookies := rec.Result().Cookies()
	found := false
	for _, cookie := range cookies {
		if cookie.Name == respondentCookieName {
			found = true
			assert.True(t, cookie.HttpOnly)
		}
	}
	assert.True(t, found)
	assert.NotEmpty(t, commands.gotCmd.Fingerprint)
	assert.Equal(t, "survey-1", commands.gotCmd.SurveyID)
}

func TestResponseCreateSchemaErrors(t *testing.T) {
	router := newTestRouter(&stubSurveyQueries{}, &stubResponseCommands{})

	t.Run("answers 無し", func(t *testing.T) {
		rec := postResponse(t, router, "survey-1", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("surveyId の不一致", func(t *testing.T) {
		rec := postResponse(t, router, "survey-1", map[string]any{
			"surveyId":  "other-survey",
			"answers":   map[string]any{"q1": "x"},
			"startTime": "2026-03-15T11:58:00Z",
			"endTime":   "2026-03-15T12:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("startTime と endTime は必須", func(t *testing.T) {
		rec := postResponse(t, router, "survey-1", map[string]any{
			"answers": map[string]any{"q1": "x"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].(map[string]any)
		assert.Contains(t, data["errors"], "startTime は必須です")
		assert.Contains(t, data["errors"], "endTime は必須です")
	})

	t.Run("全スキーマエラーをまとめて返す", func(t *testing.T) {
		// surveyId 不一致・answers 無し・startTime 形式不正・endTime 欠落の4件
		rec := postResponse(t, router, "survey-1", map[string]any{
			"surveyId":  "other-survey",
			"startTime": "not-a-time",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].(map[string]any)
		assert.Len(t, data["errors"], 4)
	})

	t.Run("未知フィールドは拒否", func(t *testing.T) {
		rec := postResponse(t, router, "survey-1", map[string]any{
			"answers":   map[string]any{"q1": "x"},
			"startTime": "2026-03-15T11:58:00Z",
			"endTime":   "2026-03-15T12:00:00Z",
			"bogus":     true,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResponseCreateErrorMapping(t *testing.T) {
	validAnswers := map[string]any{
		"answers":   map[string]any{"q1": float64(5)},
		"startTime": "2026-03-15T11:58:00Z",
		"endTime":   "2026-03-15T12:00:00Z",
	}

	t.Run("アンケート未存在は404", func(t *testing.T) {
		router := newTestRouter(&stubSurveyQueries{}, &stubResponseCommands{err: publicapp.ErrSurveyNotFound})
		rec := postResponse(t, router, "missing", validAnswers)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("受付不可は404と理由", func(t *testing.T) {
		router := newTestRouter(&stubSurveyQueries{}, &stubResponseCommands{err: &publicapp.UnavailableError{
			Reason:  publicdomain.ReasonClosed,
			Message: "このアンケートは回答期間を終了しました",
		}})
		rec := postResponse(t, router, "survey-1", validAnswers)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].(map[string]any)
		assert.Equal(t, "closed", data["reason"])
	})

	t.Run("回答検証エラーは422と全設問結果", func(t *testing.T) {
		router := newTestRouter(&stubSurveyQueries{}, &stubResponseCommands{err: &publicapp.ValidationError{
			Result: publicapp.ValidationResult{
				IsValid: false,
				QuestionResults: map[string]publicapp.QuestionResult{
					"q1": {IsValid: false, Errors: []string{"この質問は必須です"}},
					"q2": {IsValid: true},
				},
			},
		}})
		rec := postResponse(t, router, "survey-1", validAnswers)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].(map[string]any)
		results := data["questionResults"].(map[string]any)
		assert.Len(t, results, 2)
	})

	t.Run("重複は409と判定根拠", func(t *testing.T) {
		router := newTestRouter(&stubSurveyQueries{}, &stubResponseCommands{err: &publicapp.DuplicateError{
			ExistingResponseID: "prev-uuid",
			Criteria: publicapp.DuplicateCriteria{
				Strategy: publicapp.StrategyClient,
				ClientIP: "203.0.113.9",
				Window:   "24h0m0s",
			},
		}})
		rec := postResponse(t, router, "survey-1", validAnswers)
		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].(map[string]any)
		assert.Equal(t, "prev-uuid", data["existingResponseId"])
		criteria := data["checkCriteria"].(map[string]any)
		assert.Equal(t, "client", criteria["strategy"])
	})

	t.Run("保存失敗は500で詳細を隠す", func(t *testing.T) {
		router := newTestRouter(&stubSurveyQueries{}, &stubResponseCommands{err: &publicapp.WriteError{Err: assert.AnError}})
		rec := postResponse(t, router, "survey-1", validAnswers)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func TestRespondentCookieRoundTrip(t *testing.T) {
	commands := &stubResponseCommands{response: &publicdomain.Response{ID: "r1"}}
	router := newTestRouter(&stubSurveyQueries{}, commands)

	rec := postResponse(t, router, "survey-1", map[string]any{
		"answers":   map[string]any{"q1": "x"},
		"startTime": "2026-03-15T11:58:00Z",
		"endTime":   "2026-03-15T12:00:00Z",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	firstFingerprint := commands.gotCmd.Fingerprint

	// 2回目は同じクッキーを送ると同じフィンガープリントに解決される
	payload, _ := json.Marshal(map[string]any{
		"answers":   map[string]any{"q1": "y"},
		"startTime": "2026-03-15T11:58:00Z",
		"endTime":   "2026-03-15T12:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/surveys/survey-1/responses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	second := httptest.NewRecorder()
	router.ServeHTTP(second, req)

	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, firstFingerprint, commands.gotCmd.Fingerprint)
}

func TestSurveyDetailNotFound(t *testing.T) {
	router := newTestRouter(&stubSurveyQueries{err: publicapp.ErrSurveyNotFound}, &stubResponseCommands{})

	req := httptest.NewRequest(http.MethodGet, "/surveys/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSurveyListShape(t *testing.T) {
	queries := &stubSurveyQueries{
		listSurveys: []publicdomain.Survey{
			{ID: "s1", Title: "調査1", Status: publicdomain.StatusPublished, Questions: []publicdomain.Question{{ID: "q1"}}},
		},
		listTotal: 1,
	}
	router := newTestRouter(queries, &stubResponseCommands{})

	req := httptest.NewRequest(http.MethodGet, "/surveys?page=2&limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(5), body["limit"])
	surveys := body["surveys"].([]any)
	first := surveys[0].(map[string]any)
	assert.Equal(t, float64(1), first["questionCount"])
}
