package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductDoc es el documento de la colección `products` (catálogo de la tienda).
type ProductDoc struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description" bson:"description"`
	Category      primitive.ObjectID `json:"productCategory" bson:"productCategory,omitempty"`
	Price         float64            `json:"price" bson:"price"`
	AverageRating float64            `json:"averageRating" bson:"averageRating"`
	TotalRatings  int                `json:"totalRatings" bson:"totalRatings"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt,omitempty"`
}
