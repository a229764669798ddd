package public

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	publicdomain "github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// notifyResponseReceipt は新着回答を運営向け Webhook に通知する。
// 通知失敗は回答の受付結果に影響させない。
func (h *Handler) notifyResponseReceipt(ctx context.Context, response *publicdomain.Response) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := strings.TrimSpace(h.notifyWebhookURL)
	if endpoint == "" || response == nil {
		return
	}

	message := buildResponseReceiptMessage(h.adminBaseURL, response)
	if err := h.sendWebhookMessage(ctx, endpoint, message); err != nil && h.logger != nil {
		h.logger.Printf("回答通知の送信に失敗: survey=%s response=%s err=%v", response.SurveyID, response.ID, err)
	}
}

func buildResponseReceiptMessage(adminBaseURL string, response *publicdomain.Response) string {
	var builder strings.Builder
	builder.WriteString("新しいアンケート回答が届きました。\n")
	builder.WriteString(fmt.Sprintf("- アンケート: %s\n", response.SurveyID))
	builder.WriteString(fmt.Sprintf("- 回答ID: %s\n", response.ID))
	builder.WriteString(fmt.Sprintf("- 設問数: %d\n", len(response.Answers)))
	builder.WriteString(fmt.Sprintf("- 回答時間: %d秒\n", response.Duration))
	if base := strings.TrimRight(strings.TrimSpace(adminBaseURL), "/"); base != "" {
		builder.WriteString(fmt.Sprintf("[管理画面で確認](%s/surveys/%s/responses)\n", base, response.SurveyID))
	}
	return builder.String()
}

func (h *Handler) sendWebhookMessage(ctx context.Context, endpoint, text string) error {
	payload := map[string]any{"text": text}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("通知ペイロードの作成に失敗: %w", err)
	}

	timeout := h.httpClient.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("通知リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("通知リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("通知先がエラーを返しました: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}
