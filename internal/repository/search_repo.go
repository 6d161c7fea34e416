package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/HoaiNhu/RCM-System/internal/models"
	"github.com/HoaiNhu/RCM-System/internal/recommender"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// límite de búsquedas por usuario al extraer keywords (las más recientes)
const maxSearchesPerUser = 50

type SearchHistoryRepository struct {
	col *mongo.Collection
}

func NewSearchHistoryRepository(db *mongo.Database) *SearchHistoryRepository {
	return &SearchHistoryRepository{col: db.Collection("searchHistory")}
}

func toSearch(d models.SearchHistoryDoc) recommender.Search {
	s := recommender.Search{
		Query:     d.SearchQuery,
		CreatedAt: d.CreatedAt,
	}
	if !d.UserID.IsZero() {
		s.UserID = d.UserID.Hex()
	}
	for _, res := range d.Results {
		if !res.ProductID.IsZero() {
			s.ProductIDs = append(s.ProductIDs, res.ProductID.Hex())
		}
	}
	return s
}

func (r *SearchHistoryRepository) All(ctx context.Context, since *time.Time) ([]recommender.Search, error) {
	filter := bson.M{}
	if since != nil {
		filter["createdAt"] = bson.M{"$gt": *since}
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []recommender.Search
	for cur.Next(ctx) {
		var d models.SearchHistoryDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, toSearch(d))
	}
	return out, cur.Err()
}

// Keywords junta los términos únicos de las búsquedas recientes del usuario,
// ordenados para que la query proyectada sea determinista.
func (r *SearchHistoryRepository) Keywords(ctx context.Context, userID string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(maxSearchesPerUser)
	cur, err := r.col.Find(ctx, bson.M{"userId": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	seen := make(map[string]bool)
	for cur.Next(ctx) {
		var d models.SearchHistoryDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		for _, w := range strings.Fields(strings.ToLower(d.SearchQuery)) {
			seen[w] = true
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	keywords := make([]string, 0, len(seen))
	for w := range seen {
		keywords = append(keywords, w)
	}
	sort.Strings(keywords)
	return keywords, nil
}
