package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smartsurvey/survey-services/api/internal/interfaces/http/common"
	publicapp "github.com/smartsurvey/survey-services/api/internal/public/application"
)

const maxResponseRequestBody = 1 << 20

// validateSchema は送信ボディの構造検査。全エラーを集めて返す。
// ビジネスルール（設問単位の検証）は application 層が担う。
func (req *submitResponseRequest) validateSchema(pathSurveyID string) (startedAt, completedAt time.Time, errs []string) {
	if bodyID := strings.TrimSpace(req.SurveyID); bodyID != "" && bodyID != pathSurveyID {
		errs = append(errs, "surveyId がURLと一致しません")
	}
	if len(req.Answers) == 0 {
		errs = append(errs, "answers は必須です")
	}
	for questionID := range req.Answers {
		if strings.TrimSpace(questionID) == "" {
			errs = append(errs, "answers のキーに空の質問IDが含まれています")
			break
		}
	}

	if raw := strings.TrimSpace(req.StartTime); raw == "" {
		errs = append(errs, "startTime は必須です")
	} else if t, err := time.Parse(time.RFC3339, raw); err != nil {
		errs = append(errs, "startTime は RFC3339 形式で指定してください")
	} else {
		startedAt = t.UTC()
	}
	if raw := strings.TrimSpace(req.EndTime); raw == "" {
		errs = append(errs, "endTime は必須です")
	} else if t, err := time.Parse(time.RFC3339, raw); err != nil {
		errs = append(errs, "endTime は RFC3339 形式で指定してください")
	} else {
		completedAt = t.UTC()
	}
	return startedAt, completedAt, errs
}

// responseCreateHandler は回答送信パイプラインの入口。
// スキーマ検査 → 受付可否 → 回答検証 → 重複検知 → 保存 の順で評価し、
// 各段階の失敗を対応するステータスコードへ写像する。
func (h *Handler) responseCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := strings.TrimSpace(chi.URLParam(r, "id"))
		if surveyID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません", nil)
			return
		}

		defer r.Body.Close()

		var req submitResponseRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, maxResponseRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest,
				fmt.Sprintf("リクエストの形式が不正です: %v", err), nil)
			return
		}

		startedAt, completedAt, schemaErrs := req.validateSchema(surveyID)
		if len(schemaErrs) > 0 {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエスト内容が不正です", map[string]any{
				"errors": schemaErrs,
			})
			return
		}

		fingerprint, err := h.ensureRespondentID(w, r)
		if err != nil {
			h.logger.Printf("respondent cookie error: %v", err)
			fingerprint = ""
		}

		cmd := publicapp.SubmitResponseCommand{
			SurveyID:    surveyID,
			Answers:     req.Answers,
			StartedAt:   startedAt,
			CompletedAt: completedAt,
			Metadata:    req.Metadata,
			ClientIP:    clientIP(r),
			UserAgent:   r.UserAgent(),
			Fingerprint: fingerprint,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		response, err := h.responseCommands.Submit(ctx, cmd)
		if err != nil {
			h.writeSubmitError(w, surveyID, err)
			return
		}

		go h.notifyResponseReceipt(context.Background(), response)

		common.WriteJSON(h.logger, w, http.StatusCreated, submitResponseResult{
			Success:     true,
			ResponseID:  response.ID,
			SubmittedAt: response.SubmittedAt,
			Message:     "ご回答ありがとうございました",
		})
	}
}

// writeSubmitError はパイプラインのエラー種別を HTTP ステータスへ写像する。
func (h *Handler) writeSubmitError(w http.ResponseWriter, surveyID string, err error) {
	var unavailable *publicapp.UnavailableError
	var validation *publicapp.ValidationError
	var duplicate *publicapp.DuplicateError

	switch {
	case errors.Is(err, publicapp.ErrSurveyNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません", nil)
	case errors.As(err, &unavailable):
		common.WriteError(h.logger, w, http.StatusNotFound, unavailable.Message, map[string]any{
			"reason": string(unavailable.Reason),
		})
	case errors.As(err, &validation):
		common.WriteError(h.logger, w, http.StatusUnprocessableEntity, "回答内容にエラーがあります", map[string]any{
			"questionResults": validation.Result.QuestionResults,
			"globalErrors":    validation.Result.GlobalErrors,
		})
	case errors.As(err, &duplicate):
		common.WriteError(h.logger, w, http.StatusConflict, "このアンケートには既に回答済みです", map[string]any{
			"existingResponseId": duplicate.ExistingResponseID,
			"checkCriteria":      duplicate.Criteria,
		})
	default:
		h.logger.Printf("回答の保存に失敗: survey=%s err=%v", surveyID, err)
		common.WriteError(h.logger, w, http.StatusInternalServerError, "回答の保存に失敗しました", nil)
	}
}
