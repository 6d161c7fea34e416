package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingDoc es el documento de la colección `ratings`.
// El comentario se usa para el análisis de sentimiento al armar
// la matriz de interacciones.
type RatingDoc struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Rating    float64            `json:"rating" bson:"rating"`
	Comment   string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
