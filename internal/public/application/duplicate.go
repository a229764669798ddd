package application

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// DuplicateStrategy selects how repeat submissions are matched.
type DuplicateStrategy string

const (
	// StrategyClient matches by client IP plus the respondent cookie
	// fingerprint when one is present.
	StrategyClient DuplicateStrategy = "client"
	// StrategyContent matches by a hash over the submitted answer values.
	StrategyContent DuplicateStrategy = "content"
)

// ParseDuplicateStrategy normalizes a configured strategy name, falling back
// to the client strategy.
func ParseDuplicateStrategy(value string) DuplicateStrategy {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(StrategyContent):
		return StrategyContent
	default:
		return StrategyClient
	}
}

// DuplicateCriteria records the exact matching inputs the detector used.
// 判定根拠は観測可能性のためレスポンスでも返す。
type DuplicateCriteria struct {
	Strategy    DuplicateStrategy `json:"strategy"`
	ClientIP    string            `json:"clientIp,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	AnswersHash string            `json:"answersHash,omitempty"`
	Window      string            `json:"window"`
}

// AnswersHash derives a stable content hash over the submitted answers.
// キー順に依存しないよう質問IDでソートしてから連結する。
func AnswersHash(surveyID string, answers map[string]any) string {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	hasher := sha256.New()
	fmt.Fprintf(hasher, "%s\n", surveyID)
	for _, id := range ids {
		fmt.Fprintf(hasher, "%s=%v\n", id, answers[id])
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// buildDuplicateCriteria assembles the lookup criteria for one submission.
func buildDuplicateCriteria(strategy DuplicateStrategy, cmd SubmitResponseCommand, window string) DuplicateCriteria {
	criteria := DuplicateCriteria{Strategy: strategy, Window: window}
	switch strategy {
	case StrategyContent:
		criteria.AnswersHash = AnswersHash(cmd.SurveyID, cmd.Answers)
	default:
		criteria.ClientIP = cmd.ClientIP
		criteria.Fingerprint = cmd.Fingerprint
	}
	return criteria
}
