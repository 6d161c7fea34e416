package repository

import (
	"context"

	"github.com/HoaiNhu/RCM-System/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuizRepository struct {
	col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{col: db.Collection("quizzes")}
}

func (r *QuizRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.QuizDoc, error) {
	var q models.QuizDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &q, err
}

type QuizResponseRepository struct {
	col *mongo.Collection
}

func NewQuizResponseRepository(db *mongo.Database) *QuizResponseRepository {
	return &QuizResponseRepository{col: db.Collection("quiz_responses")}
}

// BySession devuelve las respuestas completadas de una sesión de quiz.
func (r *QuizResponseRepository) BySession(ctx context.Context, userID, sessionID string) ([]models.QuizResponseDoc, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	cur, err := r.col.Find(ctx, bson.M{
		"userId":    oid,
		"sessionId": sessionID,
		"completed": true,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.QuizResponseDoc
	for cur.Next(ctx) {
		var d models.QuizResponseDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, cur.Err()
}
