package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SearchResult struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
}

// SearchHistoryDoc es el documento de la colección `searchHistory`.
// Guarda la query libre del usuario y los productos que devolvió la búsqueda.
type SearchHistoryDoc struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	SearchQuery string             `json:"searchQuery" bson:"searchQuery"`
	Results     []SearchResult     `json:"results,omitempty" bson:"results,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
