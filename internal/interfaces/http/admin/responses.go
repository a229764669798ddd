package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/smartsurvey/survey-services/api/internal/admin/application"
	"github.com/smartsurvey/survey-services/api/internal/interfaces/http/common"
	publicapp "github.com/smartsurvey/survey-services/api/internal/public/application"
)

// responseListHandler は回答の閲覧 API。回答は管理画面からは読み取り専用。
func (h *Handler) responseListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := strings.TrimSpace(chi.URLParam(r, "id"))
		if surveyID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません", nil)
			return
		}

		query := r.URL.Query()
		paging := adminapp.Paging{
			Page:  common.ParsePositiveInt(query.Get("page"), 1),
			Limit: common.ParsePositiveInt(query.Get("limit"), 50),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		responses, total, err := h.surveyService.Responses(ctx, surveyID, paging)
		if err != nil {
			if errors.Is(err, publicapp.ErrSurveyNotFound) {
				common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません", nil)
				return
			}
			h.logger.Printf("admin response list fetch failed survey=%s err=%v", surveyID, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "回答一覧の取得に失敗しました", nil)
			return
		}

		items := make([]adminResponseResponse, 0, len(responses))
		for i := range responses {
			items = append(items, mapResponseToAdminResponse(&responses[i]))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminResponseListResponse{
			Responses: items,
			Total:     total,
			Page:      paging.Page,
			Limit:     paging.Limit,
		})
	}
}
