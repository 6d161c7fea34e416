package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuizDoc es el documento de la colección `quizzes` (preguntas de preferencia).
type QuizDoc struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type     string             `json:"type" bson:"type"` // mood | memory
	Question string             `json:"question,omitempty" bson:"question,omitempty"`
}

// QuizResponseDoc es el documento de la colección `quiz_responses`.
type QuizResponseDoc struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	SessionID    string             `json:"sessionId" bson:"sessionId"`
	QuizID       primitive.ObjectID `json:"quizId" bson:"quizId"`
	Answer       string             `json:"answer" bson:"answer"`
	CustomAnswer string             `json:"customAnswer,omitempty" bson:"customAnswer,omitempty"`
	Completed    bool               `json:"completed" bson:"completed"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
