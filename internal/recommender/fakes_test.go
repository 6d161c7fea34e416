package recommender

import (
	"context"
	"sort"
	"time"
)

// Fakes en memoria de las interfaces de storage, para probar el motor
// sin Mongo.

type fakeCatalog struct {
	products []Product
	err      error
}

func (f *fakeCatalog) FindByID(ctx context.Context, id string) (*Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) All(ctx context.Context) ([]Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) ByCategory(ctx context.Context, category string, limit int) ([]Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Product
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	sortByPopularity(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCatalog) Popular(ctx context.Context, limit int, minRating float64) ([]Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Product
	for _, p := range f.products {
		if p.AverageRating >= minRating {
			out = append(out, p)
		}
	}
	sortByPopularity(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortByPopularity(ps []Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].AverageRating != ps[j].AverageRating {
			return ps[i].AverageRating > ps[j].AverageRating
		}
		return ps[i].TotalRatings > ps[j].TotalRatings
	})
}

type fakeOrders struct {
	orders []Order
	test   []Order // lo que devuelve RecentTest
	err    error
}

func (f *fakeOrders) All(ctx context.Context, since *time.Time) ([]Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

func (f *fakeOrders) ByUser(ctx context.Context, userID string) ([]Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) RecentTest(ctx context.Context, ratio float64) ([]Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.test, nil
}

type fakeRatings struct {
	ratings []Rating
	err     error
}

func (f *fakeRatings) All(ctx context.Context, since *time.Time) ([]Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ratings, nil
}

func (f *fakeRatings) ByUser(ctx context.Context, userID string) ([]Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Rating
	for _, r := range f.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSearches struct {
	searches []Search
	keywords map[string][]string
	err      error
}

func (f *fakeSearches) All(ctx context.Context, since *time.Time) ([]Search, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.searches, nil
}

func (f *fakeSearches) Keywords(ctx context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.keywords[userID], nil
}

type fakeStamp struct {
	last *time.Time
}

func (f *fakeStamp) LastUpdate(ctx context.Context) (*time.Time, error) {
	return f.last, nil
}

func (f *fakeStamp) SetLastUpdate(ctx context.Context, t time.Time) error {
	f.last = &t
	return nil
}
