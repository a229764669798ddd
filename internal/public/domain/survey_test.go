package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestSurveyAvailability(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		survey Survey
		reason UnavailableReason
		open   bool
	}{
		{
			name:   "公開中は回答可能",
			survey: Survey{Status: StatusPublished},
			open:   true,
		},
		{
			name:   "下書きは受付不可",
			survey: Survey{Status: StatusDraft},
			reason: ReasonNotPublished,
		},
		{
			name:   "一時停止は受付不可",
			survey: Survey{Status: StatusPaused},
			reason: ReasonNotPublished,
		},
		{
			name: "開始前は受付不可",
			survey: Survey{
				Status:   StatusPublished,
				Settings: PublishSettings{StartDate: timePtr(now.Add(time.Hour))},
			},
			reason: ReasonNotYetOpen,
		},
		{
			name: "終了後は受付不可",
			survey: Survey{
				Status:   StatusPublished,
				Settings: PublishSettings{EndDate: timePtr(now.Add(-time.Hour))},
			},
			reason: ReasonClosed,
		},
		{
			name: "回答上限到達で受付不可",
			survey: Survey{
				Status:   StatusPublished,
				Settings: PublishSettings{ResponseLimit: intPtr(100)},
				Stats:    SurveyStats{TotalResponses: 100},
			},
			reason: ReasonFull,
		},
		{
			name: "上限未満なら受付可能",
			survey: Survey{
				Status:   StatusPublished,
				Settings: PublishSettings{ResponseLimit: intPtr(100)},
				Stats:    SurveyStats{TotalResponses: 99},
			},
			open: true,
		},
		{
			name: "期間内は受付可能",
			survey: Survey{
				Status: StatusPublished,
				Settings: PublishSettings{
					StartDate: timePtr(now.Add(-time.Hour)),
					EndDate:   timePtr(now.Add(time.Hour)),
				},
			},
			open: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.survey.Availability(now)
			if tt.open {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.reason, got.Reason)
				assert.NotEmpty(t, got.Message)
			}
		})
	}
}

func TestSurveyQuestionLookup(t *testing.T) {
	survey := Survey{Questions: []Question{
		{ID: "q1", Type: QuestionShortText},
		{ID: "q2", Type: QuestionNPS},
	}}

	assert.Equal(t, QuestionNPS, survey.Question("q2").Type)
	assert.Nil(t, survey.Question("missing"))
}

func TestDurationSeconds(t *testing.T) {
	start := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 90, DurationSeconds(start, start.Add(90*time.Second)))
	assert.Equal(t, 0, DurationSeconds(start, start))
	// 時計ずれで終了が開始より前でも負値にはならない
	assert.Equal(t, 0, DurationSeconds(start, start.Add(-10*time.Second)))
}
