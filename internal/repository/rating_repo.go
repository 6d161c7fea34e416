package repository

import (
	"context"
	"time"

	"github.com/HoaiNhu/RCM-System/internal/models"
	"github.com/HoaiNhu/RCM-System/internal/recommender"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{col: db.Collection("ratings")}
}

func toRating(d models.RatingDoc) recommender.Rating {
	r := recommender.Rating{
		Value:     d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
	}
	if !d.UserID.IsZero() {
		r.UserID = d.UserID.Hex()
	}
	if !d.ProductID.IsZero() {
		r.ProductID = d.ProductID.Hex()
	}
	return r
}

func (r *RatingRepository) All(ctx context.Context, since *time.Time) ([]recommender.Rating, error) {
	filter := bson.M{}
	if since != nil {
		filter["createdAt"] = bson.M{"$gt": *since}
	}
	return r.findRatings(ctx, filter)
}

func (r *RatingRepository) ByUser(ctx context.Context, userID string) ([]recommender.Rating, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	return r.findRatings(ctx, bson.M{"userId": oid})
}

func (r *RatingRepository) findRatings(ctx context.Context, filter bson.M) ([]recommender.Rating, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []recommender.Rating
	for cur.Next(ctx) {
		var d models.RatingDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, toRating(d))
	}
	return out, cur.Err()
}
