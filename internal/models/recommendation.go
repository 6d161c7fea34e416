package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecommendationDoc es la fila persistida por usuario en `recommendations`
// (precálculo opcional, se pisa con upsert en cada request servido).
type RecommendationDoc struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Recommended []string           `json:"recommended" bson:"recommended"`
	Source      string             `json:"source" bson:"source"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ModelMetadataDoc guarda el timestamp del último entrenamiento
// (colección `model_metadata`, documento type=last_update).
type ModelMetadataDoc struct {
	Type      string    `json:"type" bson:"type"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// ===== Respuestas del API =====

type RecommendationResponse struct {
	Recommendations []string `json:"recommendations"`
	Source          string   `json:"source"`
	UserID          string   `json:"userId"`
}

type EvaluationResponse struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Message   string  `json:"message"`
}

type StrategyStatusResponse struct {
	LatentReady  bool   `json:"latent_ready"`
	ContentReady bool   `json:"content_ready"`
	HybridReady  bool   `json:"hybrid_ready"`
	State        string `json:"state"`
}
