package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/smartsurvey/survey-services/api/internal/admin/application"
	admindomain "github.com/smartsurvey/survey-services/api/internal/admin/domain"
	"github.com/smartsurvey/survey-services/api/internal/interfaces/http/common"
	publicapp "github.com/smartsurvey/survey-services/api/internal/public/application"
)

const maxSurveyRequestBody = 1 << 20

func (h *Handler) surveyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := adminapp.SurveyFilter{
			Status:  strings.TrimSpace(query.Get("status")),
			Keyword: strings.TrimSpace(query.Get("keyword")),
		}
		paging := adminapp.Paging{
			Page:  common.ParsePositiveInt(query.Get("page"), 1),
			Limit: common.ParsePositiveInt(query.Get("limit"), 20),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		surveys, total, err := h.surveyService.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("admin survey list fetch failed: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケート一覧の取得に失敗しました", nil)
			return
		}

		items := make([]adminSurveyResponse, 0, len(surveys))
		for i := range surveys {
			items = append(items, mapSurveyToAdminResponse(&surveys[i]))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminSurveyListResponse{
			Surveys: items,
			Total:   total,
			Page:    paging.Page,
			Limit:   paging.Limit,
		})
	}
}

func (h *Handler) surveyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveyService.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, publicapp.ErrSurveyNotFound) {
				common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません", nil)
				return
			}
			h.logger.Printf("admin survey detail fetch failed id=%s err=%v", id, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケートの取得に失敗しました", nil)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, mapSurveyToAdminResponse(survey))
	}
}

func (h *Handler) surveyCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusInternalServerError, "認証情報を取得できませんでした", nil)
			return
		}

		defer r.Body.Close()

		var req upsertSurveyRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, maxSurveyRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です", nil)
			return
		}

		cmd, err := req.toCommand(user.ID)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error(), nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		created, err := h.surveyService.Create(ctx, cmd)
		if err != nil {
			h.logger.Printf("admin survey create failed: %v", err)
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error(), nil)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, mapSurveyToAdminResponse(created))
	}
}

func (h *Handler) surveyUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません", nil)
			return
		}
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusInternalServerError, "認証情報を取得できませんでした", nil)
			return
		}

		defer r.Body.Close()

		var req upsertSurveyRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, maxSurveyRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です", nil)
			return
		}

		cmd, err := req.toCommand(user.ID)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error(), nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		updated, err := h.surveyService.Update(ctx, id, cmd)
		if err != nil {
			switch {
			case errors.Is(err, publicapp.ErrSurveyNotFound):
				common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません", nil)
			case errors.Is(err, adminapp.ErrSurveyNotEditable):
				common.WriteError(h.logger, w, http.StatusConflict, err.Error(), nil)
			default:
				h.logger.Printf("admin survey update failed id=%s err=%v", id, err)
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error(), nil)
			}
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, mapSurveyToAdminResponse(updated))
	}
}

// surveyStatusHandler はライフサイクル遷移の唯一の入口。
// 遷移可否のルールは admin domain 側で判定する。
func (h *Handler) surveyStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません", nil)
			return
		}

		defer r.Body.Close()

		var req changeStatusRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1024)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です", nil)
			return
		}

		status, err := admindomain.ParseStatus(req.Status)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error(), nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		updated, err := h.surveyService.ChangeStatus(ctx, id, status)
		if err != nil {
			if errors.Is(err, publicapp.ErrSurveyNotFound) {
				common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません", nil)
				return
			}
			h.logger.Printf("admin survey status change failed id=%s status=%s err=%v", id, status, err)
			common.WriteError(h.logger, w, http.StatusConflict, err.Error(), nil)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, mapSurveyToAdminResponse(updated))
	}
}
