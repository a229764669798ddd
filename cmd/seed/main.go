package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	surveyCount     int
	responseCount   int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	surveys   string
	responses string
}

type choiceOptionDocument struct {
	Value string `bson:"value"`
	Label string `bson:"label,omitempty"`
}

type questionConfigDocument struct {
	Options   []choiceOptionDocument `bson:"options,omitempty"`
	MaxLength *int                   `bson:"maxLength,omitempty"`
	Min       *float64               `bson:"min,omitempty"`
	Max       *float64               `bson:"max,omitempty"`
}

type questionDocument struct {
	QuestionID string                 `bson:"questionId"`
	Type       string                 `bson:"type"`
	Title      string                 `bson:"title"`
	Required   bool                   `bson:"required,omitempty"`
	Config     questionConfigDocument `bson:"config,omitempty"`
}

type publishSettingsDocument struct {
	Visibility             string     `bson:"visibility,omitempty"`
	StartDate              *time.Time `bson:"startDate,omitempty"`
	EndDate                *time.Time `bson:"endDate,omitempty"`
	ResponseLimit          *int       `bson:"responseLimit,omitempty"`
	AllowAnonymous         bool       `bson:"allowAnonymous,omitempty"`
	AllowMultipleResponses bool       `bson:"allowMultipleResponses,omitempty"`
}

type surveyStatsDocument struct {
	TotalResponses     int        `bson:"totalResponses"`
	CompletedResponses int        `bson:"completedResponses"`
	LastResponseAt     *time.Time `bson:"lastResponseAt,omitempty"`
}

type surveyDocument struct {
	ID          primitive.ObjectID      `bson:"_id"`
	OwnerID     string                  `bson:"ownerId,omitempty"`
	Title       string                  `bson:"title"`
	Description string                  `bson:"description,omitempty"`
	Status      string                  `bson:"status"`
	Questions   []questionDocument      `bson:"questions"`
	Settings    publishSettingsDocument `bson:"settings"`
	Stats       surveyStatsDocument     `bson:"stats"`
	PublishedAt *time.Time              `bson:"publishedAt,omitempty"`
	CreatedAt   time.Time               `bson:"createdAt"`
	UpdatedAt   time.Time               `bson:"updatedAt"`
}

type answerDocument struct {
	QuestionID   string    `bson:"questionId"`
	QuestionType string    `bson:"questionType"`
	Value        any       `bson:"value"`
	AnsweredAt   time.Time `bson:"answeredAt"`
}

type responseMetadataDocument struct {
	ClientIP    string `bson:"clientIp,omitempty"`
	UserAgent   string `bson:"userAgent,omitempty"`
	Fingerprint string `bson:"fingerprint,omitempty"`
	AnswersHash string `bson:"answersHash,omitempty"`
}

type responseDocument struct {
	ID          primitive.ObjectID       `bson:"_id"`
	ResponseID  string                   `bson:"responseId"`
	SurveyID    primitive.ObjectID       `bson:"surveyId"`
	Status      string                   `bson:"status"`
	Answers     []answerDocument         `bson:"answers"`
	StartedAt   time.Time                `bson:"startedAt"`
	CompletedAt time.Time                `bson:"completedAt"`
	Duration    int                      `bson:"duration"`
	Metadata    responseMetadataDocument `bson:"metadata"`
	SubmittedAt time.Time                `bson:"submittedAt"`
	CreatedAt   time.Time                `bson:"createdAt"`
}

func main() {
	opts := parseFlags()

	cfg := collections{
		surveys:   envOrDefault("SURVEY_COLLECTION", "surveys"),
		responses: envOrDefault("RESPONSE_COLLECTION", "responses"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "smartsurvey")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		if err := dropCollections(ctx, db, cfg); err != nil {
			log.Fatalf("コレクション削除に失敗しました: %v", err)
		}
		log.Printf("既存コレクションを削除しました")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))

	surveyDocs := generateSurveys(rng, opts.surveyCount)
	if len(surveyDocs) == 0 {
		log.Fatal("survey docs が生成されませんでした")
	}
	if err := insertMany(ctx, db.Collection(cfg.surveys), toAnySlice(surveyDocs)); err != nil {
		log.Fatalf("アンケートデータの挿入に失敗しました: %v", err)
	}

	responseDocs := generateResponses(rng, surveyDocs, opts.responseCount)
	if len(responseDocs) > 0 {
		if err := insertMany(ctx, db.Collection(cfg.responses), toAnySlice(responseDocs)); err != nil {
			log.Fatalf("回答データの挿入に失敗しました: %v", err)
		}
	}

	if err := applyStats(ctx, db.Collection(cfg.surveys), responseDocs); err != nil {
		log.Fatalf("アンケート統計の更新に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: surveys=%d responses=%d", len(surveyDocs), len(responseDocs))
	log.Printf("Mongo: %s / %s", mongoURI, dbName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.IntVar(&opts.surveyCount, "surveys", 5, "生成するアンケート数")
	flag.IntVar(&opts.responseCount, "responses", 50, "生成する回答総数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.surveyCount <= 0 {
		log.Fatal("surveys は 1 以上を指定してください")
	}
	if opts.responseCount < 0 {
		opts.responseCount = 0
	}
	return opts
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) error {
	for _, name := range []string{cfg.surveys, cfg.responses} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	surveyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "publishedAt", Value: -1}},
			Options: options.Index().SetName("idx_survey_status_published"),
		},
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("idx_survey_text"),
		},
	}
	if _, err := db.Collection(cfg.surveys).Indexes().CreateMany(ctx, surveyIndexes); err != nil {
		return err
	}

	responseIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "surveyId", Value: 1}, {Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("idx_response_survey_submitted"),
		},
		{
			Keys:    bson.D{{Key: "surveyId", Value: 1}, {Key: "metadata.answersHash", Value: 1}},
			Options: options.Index().SetName("idx_response_answers_hash"),
		},
		{
			Keys:    bson.D{{Key: "responseId", Value: 1}},
			Options: options.Index().SetName("uniq_response_id").SetUnique(true),
		},
	}
	if _, err := db.Collection(cfg.responses).Indexes().CreateMany(ctx, responseIndexes); err != nil {
		return err
	}
	return nil
}

var surveyTemplates = []struct {
	title       string
	description string
}{
	{"カスタマー満足度調査", "サービス全体の満足度についてお聞かせください。"},
	{"新機能フィードバック", "先月リリースした新機能の使い勝手を教えてください。"},
	{"社内イベントアンケート", "次回イベントの企画の参考にします。"},
	{"Web サイト利用調査", "サイトの使いやすさについての調査です。"},
	{"製品改善アンケート", "今後の製品改善のためのご意見をお寄せください。"},
}

func generateSurveys(rng *rand.Rand, count int) []surveyDocument {
	now := time.Now().UTC()
	docs := make([]surveyDocument, 0, count)

	for i := 0; i < count; i++ {
		tpl := surveyTemplates[i%len(surveyTemplates)]
		createdAt := now.Add(-time.Duration(rng.Intn(60)+1) * 24 * time.Hour)

		maxComment := 500
		npsMin := float64(0)
		npsMax := float64(10)
		questions := []questionDocument{
			{
				QuestionID: "q1",
				Type:       "nps",
				Title:      "このサービスを友人に薦める可能性はどのくらいありますか？",
				Required:   true,
				Config:     questionConfigDocument{Min: &npsMin, Max: &npsMax},
			},
			{
				QuestionID: "q2",
				Type:       "single_choice",
				Title:      "利用頻度を教えてください",
				Required:   true,
				Config: questionConfigDocument{
					Options: []choiceOptionDocument{
						{Value: "daily", Label: "毎日"},
						{Value: "weekly", Label: "週に数回"},
						{Value: "monthly", Label: "月に数回"},
						{Value: "rarely", Label: "ほとんど使わない"},
					},
				},
			},
			{
				QuestionID: "q3",
				Type:       "long_text",
				Title:      "改善してほしい点があればご記入ください",
				Config:     questionConfigDocument{MaxLength: &maxComment},
			},
		}

		// 先頭の1件だけ下書きにして管理画面の動作確認に使う
		status := "published"
		var publishedAt *time.Time
		if i == 0 && count > 1 {
			status = "draft"
		} else {
			t := createdAt.Add(24 * time.Hour)
			publishedAt = &t
		}

		docs = append(docs, surveyDocument{
			ID:          primitive.NewObjectID(),
			OwnerID:     fmt.Sprintf("owner-%02d", i%3+1),
			Title:       fmt.Sprintf("%s #%d", tpl.title, i+1),
			Description: tpl.description,
			Status:      status,
			Questions:   questions,
			Settings: publishSettingsDocument{
				Visibility:     "public",
				AllowAnonymous: true,
			},
			PublishedAt: publishedAt,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		})
	}
	return docs
}

func generateResponses(rng *rand.Rand, surveys []surveyDocument, count int) []responseDocument {
	published := make([]surveyDocument, 0, len(surveys))
	for _, s := range surveys {
		if s.Status == "published" {
			published = append(published, s)
		}
	}
	if len(published) == 0 || count == 0 {
		return nil
	}

	frequencies := []string{"daily", "weekly", "monthly", "rarely"}
	comments := []string{
		"全体的に満足しています。",
		"検索機能が遅いのが気になります。",
		"モバイル対応を強化してほしいです。",
		"",
	}

	docs := make([]responseDocument, 0, count)
	for i := 0; i < count; i++ {
		survey := published[rng.Intn(len(published))]
		submittedAt := time.Now().UTC().Add(-time.Duration(rng.Intn(72)) * time.Hour)
		duration := rng.Intn(240) + 30
		startedAt := submittedAt.Add(-time.Duration(duration) * time.Second)

		answers := []answerDocument{
			{QuestionID: "q1", QuestionType: "nps", Value: rng.Intn(11), AnsweredAt: submittedAt},
			{QuestionID: "q2", QuestionType: "single_choice", Value: frequencies[rng.Intn(len(frequencies))], AnsweredAt: submittedAt},
		}
		if comment := comments[rng.Intn(len(comments))]; comment != "" {
			answers = append(answers, answerDocument{
				QuestionID: "q3", QuestionType: "long_text", Value: comment, AnsweredAt: submittedAt,
			})
		}

		docs = append(docs, responseDocument{
			ID:          primitive.NewObjectID(),
			ResponseID:  uuid.NewString(),
			SurveyID:    survey.ID,
			Status:      "submitted",
			Answers:     answers,
			StartedAt:   startedAt,
			CompletedAt: submittedAt,
			Duration:    duration,
			Metadata: responseMetadataDocument{
				ClientIP:    fmt.Sprintf("203.0.113.%d", rng.Intn(254)+1),
				UserAgent:   "seed-agent/1.0",
				Fingerprint: uuid.NewString(),
			},
			SubmittedAt: submittedAt,
			CreatedAt:   submittedAt,
		})
	}
	return docs
}

// applyStats は投入した回答数をアンケート側のカウンタへ反映する。
func applyStats(ctx context.Context, col *mongo.Collection, responses []responseDocument) error {
	type agg struct {
		count int
		last  time.Time
	}
	stats := make(map[primitive.ObjectID]*agg)
	for _, r := range responses {
		a, ok := stats[r.SurveyID]
		if !ok {
			a = &agg{}
			stats[r.SurveyID] = a
		}
		a.count++
		if r.SubmittedAt.After(a.last) {
			a.last = r.SubmittedAt
		}
	}

	for id, a := range stats {
		update := bson.M{
			"$set": bson.M{
				"stats.totalResponses":     a.count,
				"stats.completedResponses": a.count,
				"stats.lastResponseAt":     a.last,
				"updatedAt":                time.Now().UTC(),
			},
		}
		if _, err := col.UpdateByID(ctx, id, update); err != nil {
			return err
		}
	}
	return nil
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}
