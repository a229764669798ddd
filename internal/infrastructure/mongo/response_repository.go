package mongo

import (
	"context"
	"errors"
	"fmt"
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

// ResponseRepository は回答ドキュメントとアンケート統計を MongoDB で扱う
// 実装リポジトリ。書き込みはレプリカセットのトランザクションを前提とする。
type ResponseRepository struct {
	client    *mongo.Client
	responses *mongo.Collection
	surveys   *mongo.Collection
}

// NewResponseRepository は回答・アンケート両コレクションを束縛したリポジトリを構築する。
func NewResponseRepository(db *mongo.Database, responseCollection, surveyCollection string) *ResponseRepository {
	return &ResponseRepository{
		client:    db.Client(),
		responses: db.Collection(responseCollection),
		surveys:   db.Collection(surveyCollection),
	}
}

// CreateWithStats は回答の挿入と親アンケートの統計カウンタ加算を単一
// トランザクションで実行する。どちらかが失敗した場合は両方ロールバック
// され、集計の部分適用は起こらない。
func (r *ResponseRepository) CreateWithStats(ctx context.Context, response *domain.Response) error {
	surveyID, err := primitive.ObjectIDFromHex(strings.TrimSpace(response.SurveyID))
	if err != nil {
		return fmt.Errorf("アンケートIDの形式が不正です: %w", err)
	}

	doc := mapResponseToDocument(response, surveyID)

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("セッションの開始に失敗: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := r.responses.InsertOne(sc, doc); err != nil {
			return nil, err
		}

		update := bson.M{
			"$inc": bson.M{
				"stats.totalResponses":     1,
				"stats.completedResponses": 1,
			},
			"$set": bson.M{
				"stats.lastResponseAt": response.SubmittedAt,
			},
		}
		result, err := r.surveys.UpdateByID(sc, surveyID, update)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, fmt.Errorf("統計更新対象のアンケートが見つかりません: %s", response.SurveyID)
		}
		return nil, nil
	})
	return err
}

// FindRecent は重複判定条件に一致する直近の回答を返す。該当なしは
// (nil, nil)。判定はヒューリスティックであり、厳密な排他は提供しない。
func (r *ResponseRepository) FindRecent(ctx context.Context, surveyID string, criteria application.DuplicateCriteria, window time.Duration) (*domain.Response, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(surveyID))
	if err != nil {
		return nil, application.ErrSurveyNotFound
	}

	filter := recentFilter(objectID, criteria, window, time.Now().UTC())

	opts := options.FindOne().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	var doc ResponseDocument
	if err := r.responses.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	response := mapResponseDocument(doc)
	return &response, nil
}

// recentFilter は重複判定クエリの条件を組み立てる。window が 0 以下の場合は
// 期間を限定せず全期間を対象とする。
func recentFilter(surveyID primitive.ObjectID, criteria application.DuplicateCriteria, window time.Duration, now time.Time) bson.M {
	filter := bson.M{"surveyId": surveyID}
	if window > 0 {
		filter["submittedAt"] = bson.M{"$gte": now.Add(-window)}
	}

	switch criteria.Strategy {
	case application.StrategyContent:
		filter["metadata.answersHash"] = criteria.AnswersHash
	default:
		clauses := bson.A{bson.M{"metadata.clientIp": criteria.ClientIP}}
		if criteria.Fingerprint != "" {
			clauses = append(clauses, bson.M{"metadata.fingerprint": criteria.Fingerprint})
		}
		filter["$or"] = clauses
	}
	return filter
}

// FindBySurvey は管理画面向けに回答を新しい順でページングして返す。
func (r *ResponseRepository) FindBySurvey(ctx context.Context, surveyID string, paging adminapp.Paging) ([]domain.Response, int64, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(surveyID))
	if err != nil {
		return nil, 0, application.ErrSurveyNotFound
	}

	filter := bson.M{"surveyId": objectID}
	total, err := r.responses.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetSkip(int64((paging.Page - 1) * paging.Limit)).
		SetLimit(int64(paging.Limit))

	cursor, err := r.responses.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	responses := make([]domain.Response, 0)
	for cursor.Next(ctx) {
		var doc ResponseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		responses = append(responses, mapResponseDocument(doc))
	}
	return responses, total, cursor.Err()
}

// mapResponseToDocument はドメイン Response を挿入用ドキュメントへ変換する。
func mapResponseToDocument(response *domain.Response, surveyID primitive.ObjectID) ResponseDocument {
	answers := make([]AnswerDocument, 0, len(response.Answers))
	for _, answer := range response.Answers {
		answers = append(answers, AnswerDocument{
			QuestionID:   answer.QuestionID,
			QuestionType: string(answer.QuestionType),
			Value:        answer.Value,
			AnsweredAt:   answer.AnsweredAt,
		})
	}

	return ResponseDocument{
		ID:          primitive.NewObjectID(),
		ResponseID:  response.ID,
		SurveyID:    surveyID,
		Status:      string(response.Status),
		Answers:     answers,
		StartedAt:   response.StartedAt,
		CompletedAt: response.CompletedAt,
		Duration:    response.Duration,
		Metadata: ResponseMetadataDocument{
			ClientIP:    response.Metadata.ClientIP,
			UserAgent:   response.Metadata.UserAgent,
			Fingerprint: response.Metadata.Fingerprint,
			AnswersHash: response.Metadata.AnswersHash,
			Extra:       response.Metadata.Extra,
		},
		SubmittedAt: response.SubmittedAt,
		CreatedAt:   response.CreatedAt,
	}
}
