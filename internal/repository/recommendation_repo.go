package repository

import (
	"context"
	"time"

	"github.com/HoaiNhu/RCM-System/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecommendationRepository persiste la última lista servida por usuario
// (precálculo opcional; una fila por usuario, se pisa con upsert).
type RecommendationRepository struct {
	col *mongo.Collection
}

func NewRecommendationRepository(db *mongo.Database) *RecommendationRepository {
	return &RecommendationRepository{col: db.Collection("recommendations")}
}

func (r *RecommendationRepository) Upsert(ctx context.Context, userID string, recommended []string, source string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	_, err = r.col.UpdateOne(ctx,
		bson.M{"userId": oid},
		bson.M{"$set": bson.M{
			"recommended": recommended,
			"source":      source,
			"updatedAt":   time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *RecommendationRepository) FindByUser(ctx context.Context, userID string) (*models.RecommendationDoc, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	var d models.RecommendationDoc
	err = r.col.FindOne(ctx, bson.M{"userId": oid}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &d, err
}
