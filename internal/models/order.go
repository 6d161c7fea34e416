package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Quantity int                `json:"quantity" bson:"quantity"`
	Price    float64            `json:"price" bson:"price"`
}

// OrderDoc es el documento de la colección `orders`.
// Las órdenes generadas por scripts de datos sintéticos llevan synthetic=true
// y se excluyen de la evaluación mientras existan órdenes reales.
type OrderDoc struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	OrderItems []OrderItem        `json:"orderItems" bson:"orderItems"`
	Synthetic  bool               `json:"synthetic,omitempty" bson:"synthetic,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}
