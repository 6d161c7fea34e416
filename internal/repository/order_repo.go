package repository

import (
	"context"
	"time"

	"github.com/HoaiNhu/RCM-System/internal/models"
	"github.com/HoaiNhu/RCM-System/internal/recommender"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection("orders")}
}

func toOrder(d models.OrderDoc) recommender.Order {
	o := recommender.Order{
		Synthetic: d.Synthetic,
		CreatedAt: d.CreatedAt,
	}
	if !d.UserID.IsZero() {
		o.UserID = d.UserID.Hex()
	}
	for _, it := range d.OrderItems {
		if it.Product.IsZero() {
			continue
		}
		o.Lines = append(o.Lines, recommender.OrderLine{
			ProductID: it.Product.Hex(),
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return o
}

func (r *OrderRepository) All(ctx context.Context, since *time.Time) ([]recommender.Order, error) {
	filter := bson.M{}
	if since != nil {
		filter["createdAt"] = bson.M{"$gt": *since}
	}
	return r.findOrders(ctx, filter, nil)
}

func (r *OrderRepository) ByUser(ctx context.Context, userID string) ([]recommender.Order, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOrders(ctx, bson.M{"userId": oid}, opts)
}

// RecentTest devuelve la fracción más reciente de órdenes para la evaluación
// offline: al menos una si la colección no está vacía.
func (r *OrderRepository) RecentTest(ctx context.Context, ratio float64) ([]recommender.Order, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	size := int64(ratio * float64(total))
	if size < 1 {
		size = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(size)
	return r.findOrders(ctx, bson.M{}, opts)
}

func (r *OrderRepository) findOrders(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]recommender.Order, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.col.Find(ctx, filter, opts)
	} else {
		cur, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []recommender.Order
	for cur.Next(ctx) {
		var d models.OrderDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, toOrder(d))
	}
	return out, cur.Err()
}
