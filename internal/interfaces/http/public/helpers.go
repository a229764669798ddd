package public

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	respondentCookieName   = "ssp_respondent"
	respondentCookieTTL    = 180 * 24 * time.Hour
	respondentCookieMaxAge = int(respondentCookieTTL / time.Second)
)

// ensureRespondentID resolves the HMAC-signed respondent cookie, issuing a
// fresh one when missing, expired or tampered with.
// 回答者フィンガープリントは重複判定の材料になる。
func (h *Handler) ensureRespondentID(w http.ResponseWriter, r *http.Request) (string, error) {
	if len(h.respondentCookieSecret) == 0 {
		return "", errors.New("respondent cookie secret not configured")
	}
	if cookie, err := r.Cookie(respondentCookieName); err == nil {
		if respondentID, issuedAt, ok := h.parseRespondentCookie(cookie.Value); ok && time.Since(issuedAt) < respondentCookieTTL {
			return respondentID, nil
		}
	}
	respondentID := uuid.NewString()
	h.issueRespondentCookie(w, respondentID)
	return respondentID, nil
}

func (h *Handler) issueRespondentCookie(w http.ResponseWriter, respondentID string) {
	value := h.signRespondentCookie(respondentID, time.Now().UTC())
	http.SetCookie(w, &http.Cookie{
		Name:     respondentCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.respondentCookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   respondentCookieMaxAge,
	})
}

func (h *Handler) signRespondentCookie(respondentID string, issuedAt time.Time) string {
	payload := fmt.Sprintf("v=%s&ts=%d", respondentID, issuedAt.Unix())
	mac := hmac.New(sha256.New, h.respondentCookieSecret)
	mac.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return payload + "&sig=" + sig
}

func (h *Handler) parseRespondentCookie(raw string) (string, time.Time, bool) {
	parts := strings.Split(raw, "&")
	if len(parts) < 3 {
		return "", time.Time{}, false
	}
	values := make(map[string]string, len(parts))
	for _, part := range parts {
		keyValue := strings.SplitN(part, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		values[keyValue[0]] = keyValue[1]
	}
	respondentID := values["v"]
	timestamp := values["ts"]
	sig := values["sig"]
	if respondentID == "" || timestamp == "" || sig == "" {
		return "", time.Time{}, false
	}

	payload := fmt.Sprintf("v=%s&ts=%s", respondentID, timestamp)
	mac := hmac.New(sha256.New, h.respondentCookieSecret)
	mac.Write([]byte(payload))
	expectedSig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expectedSig), []byte(sig)) {
		return "", time.Time{}, false
	}

	tsInt, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return "", time.Time{}, false
	}
	return respondentID, time.Unix(tsInt, 0), true
}

// clientIP は RealIP ミドルウェア適用後の RemoteAddr からホスト部を取り出す。
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
