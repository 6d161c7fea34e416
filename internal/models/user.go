package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type UserDoc struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	Role         string             `json:"role" bson:"role"`
	CreatedAt    string             `json:"createdAt" bson:"createdAt"`
	UpdatedAt    string             `json:"updatedAt" bson:"updatedAt"`
}
