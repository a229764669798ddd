package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

func TestSurveyQueryListAppliesPagingDefaults(t *testing.T) {
	repo := new(mockSurveyRepository)
	repo.On("FindPublished", mock.Anything, SurveyFilter{}, Paging{Page: 1, Limit: 10}).
		Return([]domain.Survey{}, int64(0), nil)

	service := NewSurveyQueryService(repo)
	_, _, err := service.List(context.Background(), SurveyFilter{}, Paging{})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSurveyQueryDetailHidesNonPublicStatuses(t *testing.T) {
	tests := []struct {
		status  domain.SurveyStatus
		visible bool
	}{
		{domain.StatusPublished, true},
		{domain.StatusPaused, true},
		{domain.StatusDraft, false},
		{domain.StatusClosed, false},
		{domain.StatusArchived, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			repo := new(mockSurveyRepository)
			repo.On("FindByID", mock.Anything, "id-1").
				Return(&domain.Survey{ID: "id-1", Status: tt.status}, nil)

			service := NewSurveyQueryService(repo)
			survey, err := service.Detail(context.Background(), "id-1")

			if tt.visible {
				assert.NoError(t, err)
				assert.NotNil(t, survey)
			} else {
				assert.ErrorIs(t, err, ErrSurveyNotFound)
			}
		})
	}
}
