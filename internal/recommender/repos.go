package recommender

import (
	"context"
	"time"
)

// Tipos de dominio que consume el motor. Los adaptadores de Mongo
// (internal/repository) traducen sus documentos a estos structs, así el
// motor no conoce bson ni ObjectIDs: trabaja con ids en hex plano.

type Product struct {
	ID            string
	Name          string
	Description   string
	Category      string
	Price         float64
	AverageRating float64
	TotalRatings  int
}

type OrderLine struct {
	ProductID string
	Quantity  int
	Price     float64
}

type Order struct {
	UserID    string
	Lines     []OrderLine
	Synthetic bool
	CreatedAt time.Time
}

type Rating struct {
	UserID    string
	ProductID string
	Value     float64
	Comment   string
	CreatedAt time.Time
}

type Search struct {
	UserID     string
	Query      string
	ProductIDs []string
	CreatedAt  time.Time
}

// ===== Interfaces angostas sobre el almacenamiento =====
// Una por entidad, solo con las consultas que el motor necesita.

type ProductCatalog interface {
	// FindByID devuelve nil, nil si el producto no existe.
	FindByID(ctx context.Context, id string) (*Product, error)
	All(ctx context.Context) ([]Product, error)
	// ByCategory ordena por rating desc y luego totalRatings desc.
	ByCategory(ctx context.Context, category string, limit int) ([]Product, error)
	// Popular aplica el piso de rating y ordena igual que ByCategory.
	Popular(ctx context.Context, limit int, minRating float64) ([]Product, error)
}

type OrderHistory interface {
	All(ctx context.Context, since *time.Time) ([]Order, error)
	ByUser(ctx context.Context, userID string) ([]Order, error)
	// RecentTest devuelve la fracción más reciente de órdenes (por createdAt
	// desc) para la evaluación offline. Siempre al menos una si existen.
	RecentTest(ctx context.Context, ratio float64) ([]Order, error)
}

type RatingHistory interface {
	All(ctx context.Context, since *time.Time) ([]Rating, error)
	ByUser(ctx context.Context, userID string) ([]Rating, error)
}

type SearchHistory interface {
	All(ctx context.Context, since *time.Time) ([]Search, error)
	// Keywords junta los términos únicos de todas las búsquedas del usuario.
	Keywords(ctx context.Context, userID string) ([]string, error)
}

// TrainStamp guarda el timestamp del último entrenamiento publicado.
type TrainStamp interface {
	LastUpdate(ctx context.Context) (*time.Time, error)
	SetLastUpdate(ctx context.Context, t time.Time) error
}
