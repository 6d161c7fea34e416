package repository

import (
	"context"
	"time"

	"github.com/HoaiNhu/RCM-System/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ModelMetadataRepository guarda el timestamp del último entrenamiento
// (documento único type=last_update en `model_metadata`).
type ModelMetadataRepository struct {
	col *mongo.Collection
}

func NewModelMetadataRepository(db *mongo.Database) *ModelMetadataRepository {
	return &ModelMetadataRepository{col: db.Collection("model_metadata")}
}

func (r *ModelMetadataRepository) LastUpdate(ctx context.Context) (*time.Time, error) {
	var d models.ModelMetadataDoc
	err := r.col.FindOne(ctx, bson.M{"type": "last_update"}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d.Timestamp, nil
}

func (r *ModelMetadataRepository) SetLastUpdate(ctx context.Context, t time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"type": "last_update"},
		bson.M{"$set": bson.M{"timestamp": t}},
		options.Update().SetUpsert(true),
	)
	return err
}
