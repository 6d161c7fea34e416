package repository

import (
	"context"

	"github.com/HoaiNhu/RCM-System/internal/models"
	"github.com/HoaiNhu/RCM-System/internal/recommender"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository adapta la colección `products` a la interfaz angosta
// que consume el motor (recommender.ProductCatalog).
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection("products")}
}

func toProduct(d models.ProductDoc) recommender.Product {
	category := ""
	if !d.Category.IsZero() {
		category = d.Category.Hex()
	}
	return recommender.Product{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		Category:      category,
		Price:         d.Price,
		AverageRating: d.AverageRating,
		TotalRatings:  d.TotalRatings,
	}
}

// FindByID devuelve nil, nil si el id no existe o no es un ObjectID válido.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*recommender.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var d models.ProductDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := toProduct(d)
	return &p, nil
}

// All devuelve el catálogo completo en orden de inserción (_id asc),
// que es el orden que usa el motor para desempates deterministas.
func (r *ProductRepository) All(ctx context.Context) ([]recommender.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.findProducts(ctx, bson.M{}, opts)
}

func (r *ProductRepository) ByCategory(ctx context.Context, category string, limit int) ([]recommender.Product, error) {
	oid, err := primitive.ObjectIDFromHex(category)
	if err != nil {
		return nil, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "averageRating", Value: -1}, {Key: "totalRatings", Value: -1}}).
		SetLimit(int64(limit))
	return r.findProducts(ctx, bson.M{"productCategory": oid}, opts)
}

func (r *ProductRepository) Popular(ctx context.Context, limit int, minRating float64) ([]recommender.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "averageRating", Value: -1}, {Key: "totalRatings", Value: -1}}).
		SetLimit(int64(limit))
	return r.findProducts(ctx, bson.M{"averageRating": bson.M{"$gte": minRating}}, opts)
}

// SearchByKeywords busca por regex en nombre y descripción (lo usa el
// camino de recomendación por quiz).
func (r *ProductRepository) SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]recommender.Product, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	var ors []bson.M
	for _, k := range keywords {
		if k == "" {
			continue
		}
		ors = append(ors,
			bson.M{"name": bson.M{"$regex": k, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": k, "$options": "i"}},
		)
	}
	if len(ors) == 0 {
		return nil, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "averageRating", Value: -1}}).
		SetLimit(int64(limit))
	return r.findProducts(ctx, bson.M{"$or": ors}, opts)
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *ProductRepository) findProducts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]recommender.Product, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []recommender.Product
	for cur.Next(ctx) {
		var d models.ProductDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, toProduct(d))
	}
	return out, cur.Err()
}
