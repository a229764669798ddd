package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smartsurvey/survey-services/api/internal/interfaces/http/common"
	publicapp "github.com/smartsurvey/survey-services/api/internal/public/application"
)

// surveyListHandler は回答者向けの公開アンケート一覧 API。
// DDD では Query Service を介して読み取り専用ユースケースを実現する。
func (h *Handler) surveyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()
		filter := publicapp.SurveyFilter{
			Keyword: strings.TrimSpace(query.Get("keyword")),
		}
		paging := publicapp.Paging{
			Page:  common.ParsePositiveInt(query.Get("page"), 1),
			Limit: common.ParsePositiveInt(query.Get("limit"), 10),
		}

		surveys, total, err := h.surveyQueries.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("公開アンケート一覧の取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケート一覧の取得に失敗しました", nil)
			return
		}

		items := make([]surveySummaryResponse, 0, len(surveys))
		for i := range surveys {
			items = append(items, mapSurveySummary(&surveys[i]))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, surveyListResponse{
			Surveys: items,
			Total:   total,
			Page:    paging.Page,
			Limit:   paging.Limit,
		})
	}
}

// surveyDetailHandler は回答画面の描画に必要なアンケート定義を返す。
func (h *Handler) surveyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveyQueries.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, publicapp.ErrSurveyNotFound) {
				common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません", nil)
				return
			}
			h.logger.Printf("アンケート詳細の取得に失敗: id=%s err=%v", id, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケートの取得に失敗しました", nil)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, mapSurveyDetail(survey))
	}
}
