package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuplicateStrategy(t *testing.T) {
	assert.Equal(t, StrategyContent, ParseDuplicateStrategy("content"))
	assert.Equal(t, StrategyContent, ParseDuplicateStrategy(" Content "))
	assert.Equal(t, StrategyClient, ParseDuplicateStrategy("client"))
	assert.Equal(t, StrategyClient, ParseDuplicateStrategy(""))
	assert.Equal(t, StrategyClient, ParseDuplicateStrategy("unknown"))
}

func TestAnswersHashStableAcrossKeyOrder(t *testing.T) {
	first := AnswersHash("survey-1", map[string]any{"q1": "a", "q2": float64(3)})
	second := AnswersHash("survey-1", map[string]any{"q2": float64(3), "q1": "a"})

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestAnswersHashDistinguishesContent(t *testing.T) {
	base := AnswersHash("survey-1", map[string]any{"q1": "a"})

	assert.NotEqual(t, base, AnswersHash("survey-1", map[string]any{"q1": "b"}))
	assert.NotEqual(t, base, AnswersHash("survey-2", map[string]any{"q1": "a"}))
}
