package mongo

import (
	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// mapSurveyDocument は Mongo ドキュメントをドメイン Survey へマッピングする。
func mapSurveyDocument(doc SurveyDocument) domain.Survey {
	questions := make([]domain.Question, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		questions = append(questions, domain.Question{
			ID:       q.QuestionID,
			Type:     domain.QuestionType(q.Type),
			Title:    q.Title,
			Required: q.Required,
			Config:   mapQuestionConfig(q.Config),
		})
	}

	return domain.Survey{
		ID:          doc.ID.Hex(),
		OwnerID:     doc.OwnerID,
		Title:       doc.Title,
		Description: doc.Description,
		Status:      domain.SurveyStatus(doc.Status),
		Questions:   questions,
		Settings: domain.PublishSettings{
			Visibility:             doc.Settings.Visibility,
			Password:               doc.Settings.Password,
			StartDate:              doc.Settings.StartDate,
			EndDate:                doc.Settings.EndDate,
			ResponseLimit:          doc.Settings.ResponseLimit,
			AllowAnonymous:         doc.Settings.AllowAnonymous,
			AllowMultipleResponses: doc.Settings.AllowMultipleResponses,
		},
		Stats: domain.SurveyStats{
			TotalResponses:     doc.Stats.TotalResponses,
			CompletedResponses: doc.Stats.CompletedResponses,
			LastResponseAt:     doc.Stats.LastResponseAt,
		},
		PublishedAt: doc.PublishedAt,
		ClosedAt:    doc.ClosedAt,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func mapQuestionConfig(doc QuestionConfigDocument) domain.QuestionConfig {
	options := make([]domain.ChoiceOption, 0, len(doc.Options))
	for _, option := range doc.Options {
		options = append(options, domain.ChoiceOption{
			Value:    option.Value,
			Label:    option.Label,
			ImageURL: option.ImageURL,
		})
	}
	if len(options) == 0 {
		options = nil
	}
	return domain.QuestionConfig{
		Options:      options,
		MinLength:    doc.MinLength,
		MaxLength:    doc.MaxLength,
		Pattern:      doc.Pattern,
		Min:          doc.Min,
		Max:          doc.Max,
		AllowDecimal: doc.AllowDecimal,
		MinChoices:   doc.MinChoices,
		MaxChoices:   doc.MaxChoices,
		AllowOther:   doc.AllowOther,
		MinDate:      doc.MinDate,
		MaxDate:      doc.MaxDate,
		MaxFiles:     doc.MaxFiles,
	}
}

// mapSurveyToDocument はドメイン Survey を Mongo ドキュメントへ変換する。
// _id は呼び出し側で採番する。
func mapSurveyToDocument(survey *domain.Survey) SurveyDocument {
	questions := make([]QuestionDocument, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		questions = append(questions, QuestionDocument{
			QuestionID: q.ID,
			Type:       string(q.Type),
			Title:      q.Title,
			Required:   q.Required,
			Config:     mapQuestionConfigToDocument(q.Config),
		})
	}

	return SurveyDocument{
		OwnerID:     survey.OwnerID,
		Title:       survey.Title,
		Description: survey.Description,
		Status:      string(survey.Status),
		Questions:   questions,
		Settings: PublishSettingsDocument{
			Visibility:             survey.Settings.Visibility,
			Password:               survey.Settings.Password,
			StartDate:              survey.Settings.StartDate,
			EndDate:                survey.Settings.EndDate,
			ResponseLimit:          survey.Settings.ResponseLimit,
			AllowAnonymous:         survey.Settings.AllowAnonymous,
			AllowMultipleResponses: survey.Settings.AllowMultipleResponses,
		},
		Stats: SurveyStatsDocument{
			TotalResponses:     survey.Stats.TotalResponses,
			CompletedResponses: survey.Stats.CompletedResponses,
			LastResponseAt:     survey.Stats.LastResponseAt,
		},
		PublishedAt: survey.PublishedAt,
		ClosedAt:    survey.ClosedAt,
		CreatedAt:   survey.CreatedAt,
		UpdatedAt:   survey.UpdatedAt,
	}
}

func mapQuestionConfigToDocument(cfg domain.QuestionConfig) QuestionConfigDocument {
	options := make([]ChoiceOptionDocument, 0, len(cfg.Options))
	for _, option := range cfg.Options {
		options = append(options, ChoiceOptionDocument{
			Value:    option.Value,
			Label:    option.Label,
			ImageURL: option.ImageURL,
		})
	}
	if len(options) == 0 {
		options = nil
	}
	return QuestionConfigDocument{
		Options:      options,
		MinLength:    cfg.MinLength,
		MaxLength:    cfg.MaxLength,
		Pattern:      cfg.Pattern,
		Min:          cfg.Min,
		Max:          cfg.Max,
		AllowDecimal: cfg.AllowDecimal,
		MinChoices:   cfg.MinChoices,
		MaxChoices:   cfg.MaxChoices,
		AllowOther:   cfg.AllowOther,
		MinDate:      cfg.MinDate,
		MaxDate:      cfg.MaxDate,
		MaxFiles:     cfg.MaxFiles,
	}
}

// mapResponseDocument は Mongo の回答ドキュメントをドメイン Response へ復元する。
func mapResponseDocument(doc ResponseDocument) domain.Response {
	answers := make([]domain.Answer, 0, len(doc.Answers))
	for _, answer := range doc.Answers {
		answers = append(answers, domain.Answer{
			QuestionID:   answer.QuestionID,
			QuestionType: domain.QuestionType(answer.QuestionType),
			Value:        answer.Value,
			AnsweredAt:   answer.AnsweredAt,
		})
	}

	return domain.Response{
		ID:          doc.ResponseID,
		SurveyID:    doc.SurveyID.Hex(),
		Status:      domain.ResponseStatus(doc.Status),
		Answers:     answers,
		StartedAt:   doc.StartedAt,
		CompletedAt: doc.CompletedAt,
		Duration:    doc.Duration,
		Metadata: domain.ResponseMetadata{
			ClientIP:    doc.Metadata.ClientIP,
			UserAgent:   doc.Metadata.UserAgent,
			Fingerprint: doc.Metadata.Fingerprint,
			AnswersHash: doc.Metadata.AnswersHash,
			Extra:       doc.Metadata.Extra,
		},
		SubmittedAt: doc.SubmittedAt,
		CreatedAt:   doc.CreatedAt,
	}
}
