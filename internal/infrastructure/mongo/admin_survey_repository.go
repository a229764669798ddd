package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminapp "github.com/smartsurvey/survey-services/api/internal/admin/application"
	"github.com/smartsurvey/survey-services/api/internal/public/application"
	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// AdminSurveyRepository は管理コンテキスト向けにドラフトを含む全アンケートを扱う。
type AdminSurveyRepository struct {
	surveys *mongo.Collection
}

// NewAdminSurveyRepository は管理用アンケートリポジトリを構築する。
func NewAdminSurveyRepository(db *mongo.Database, surveyCollection string) *AdminSurveyRepository {
	return &AdminSurveyRepository{surveys: db.Collection(surveyCollection)}
}

// Find はステータス・キーワード条件でアンケートを検索する。
func (r *AdminSurveyRepository) Find(ctx context.Context, filter adminapp.SurveyFilter, paging adminapp.Paging) ([]domain.Survey, int64, error) {
	mongoFilter := bson.M{}
	if status := strings.TrimSpace(filter.Status); status != "" {
		mongoFilter["status"] = status
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	total, err := r.surveys.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(int64((paging.Page - 1) * paging.Limit)).
		SetLimit(int64(paging.Limit))

	cursor, err := r.surveys.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	surveys := make([]domain.Survey, 0)
	for cursor.Next(ctx) {
		var doc SurveyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		surveys = append(surveys, mapSurveyDocument(doc))
	}
	return surveys, total, cursor.Err()
}

// FindByID はドラフト含め任意ステータスのアンケートを返す。
func (r *AdminSurveyRepository) FindByID(ctx context.Context, id string) (*domain.Survey, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrSurveyNotFound
	}

	var doc SurveyDocument
	if err := r.surveys.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrSurveyNotFound
		}
		return nil, err
	}

	survey := mapSurveyDocument(doc)
	return &survey, nil
}

// Create はアンケートを新規登録し、採番された ID をドメインモデルへ反映する。
func (r *AdminSurveyRepository) Create(ctx context.Context, survey *domain.Survey) error {
	doc := mapSurveyToDocument(survey)
	doc.ID = primitive.NewObjectID()

	if _, err := r.surveys.InsertOne(ctx, doc); err != nil {
		return err
	}
	survey.ID = doc.ID.Hex()
	return nil
}

// Update はドラフトの定義全体を置き換える。統計カウンタは上書きしない。
func (r *AdminSurveyRepository) Update(ctx context.Context, survey *domain.Survey) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(survey.ID))
	if err != nil {
		return application.ErrSurveyNotFound
	}

	doc := mapSurveyToDocument(survey)
	update := bson.M{"$set": bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"questions":   doc.Questions,
		"settings":    doc.Settings,
		"updatedAt":   doc.UpdatedAt,
	}}

	result, err := r.surveys.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrSurveyNotFound
	}
	return nil
}

// UpdateStatus はライフサイクル遷移を適用し、更新後のアンケートを返す。
// published/closed への遷移時はそれぞれのタイムスタンプも記録する。
func (r *AdminSurveyRepository) UpdateStatus(ctx context.Context, id string, status domain.SurveyStatus, now time.Time) (*domain.Survey, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrSurveyNotFound
	}

	set := bson.M{
		"status":    string(status),
		"updatedAt": now,
	}
	switch status {
	case domain.StatusPublished:
		set["publishedAt"] = now
	case domain.StatusClosed, domain.StatusArchived:
		set["closedAt"] = now
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc SurveyDocument
	if err := r.surveys.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrSurveyNotFound
		}
		return nil, err
	}

	survey := mapSurveyDocument(doc)
	return &survey, nil
}
