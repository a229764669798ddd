package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartsurvey/survey-services/api/internal/public/application"
	"github.com/smartsurvey/survey-services/api/internal/public/domain"
)

// SurveyRepository はパブリック向けアンケート集約を MongoDB で扱う実装リポジトリ。
type SurveyRepository struct {
	surveys *mongo.Collection
}

// NewSurveyRepository はアンケートコレクションを束縛したリポジトリを構築する。
func NewSurveyRepository(db *mongo.Database, surveyCollection string) *SurveyRepository {
	return &SurveyRepository{surveys: db.Collection(surveyCollection)}
}

// FindPublished は公開中アンケートをキーワード条件付きで検索する。
func (r *SurveyRepository) FindPublished(ctx context.Context, filter application.SurveyFilter, paging application.Paging) ([]domain.Survey, int64, error) {
	mongoFilter := bson.M{"status": string(domain.StatusPublished)}
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
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
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

// FindByID はアンケート ID から単一ドキュメントを取得しドメイン Survey を返す。
// ID 形式不正と未登録はいずれも ErrSurveyNotFound に正規化する。
func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*domain.Survey, error) {
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
