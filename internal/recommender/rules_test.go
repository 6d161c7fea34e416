package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesApply_BoostsQualityAndPopularity(t *testing.T) {
	r := NewRulesEngine()
	products := map[string]Product{
		"plain": {ID: "plain", Category: "a", AverageRating: 3.8, TotalRatings: 1},
		"star":  {ID: "star", Category: "b", AverageRating: 4.7, TotalRatings: 15},
	}

	// "star" entra último pero sus boosts (1.4 × 1.2) lo suben
	out := r.Apply([]string{"plain", "star"}, products, nil)
	assert.Equal(t, []string{"star", "plain"}, out)
}

func TestRulesApply_PenalizesLowRatedWithEnoughReviews(t *testing.T) {
	r := NewRulesEngine()
	products := map[string]Product{
		"bad":   {ID: "bad", AverageRating: 2.0, TotalRatings: 5},
		"noisy": {ID: "noisy", AverageRating: 2.0, TotalRatings: 2}, // pocas reviews: sin penalizar
	}

	out := r.Apply([]string{"bad", "noisy"}, products, nil)
	// bad: 1.1 (popular) × 0.5 = 0.55; noisy: 1.0
	assert.Equal(t, []string{"noisy", "bad"}, out)
}

func TestRulesApply_ContextBoosts(t *testing.T) {
	r := NewRulesEngine()
	products := map[string]Product{
		"same":  {ID: "same", Category: "tortas", Price: 100},
		"other": {ID: "other", Category: "panes", Price: 500},
	}
	rctx := &Context{
		ViewedCategory: "tortas",
		PriceMin:       80,
		PriceMax:       120,
	}

	out := r.Apply([]string{"other", "same"}, products, rctx)
	// same: 1.5 (categoría) × 1.3 (precio) = 1.95
	assert.Equal(t, []string{"same", "other"}, out)
}

func TestRulesApply_StableOnTies(t *testing.T) {
	r := NewRulesEngine()
	products := map[string]Product{
		"a": {ID: "a"},
		"b": {ID: "b"},
		"c": {ID: "c"},
	}

	// mismos boosts para todos: el orden de entrada se conserva
	out := r.Apply([]string{"b", "c", "a"}, products, nil)
	assert.Equal(t, []string{"b", "c", "a"}, out)
}

func TestRulesApply_SkipsUnknownProducts(t *testing.T) {
	r := NewRulesEngine()
	products := map[string]Product{"a": {ID: "a"}}

	out := r.Apply([]string{"fantasma", "a"}, products, nil)
	assert.Equal(t, []string{"a"}, out)
}

func TestRulesDiversify_CapsPerCategory(t *testing.T) {
	r := NewRulesEngine()
	products := map[string]Product{
		"a": {ID: "a", Category: "tortas"},
		"b": {ID: "b", Category: "tortas"},
		"c": {ID: "c", Category: "tortas"},
		"d": {ID: "d", Category: "panes"},
	}

	out := r.Diversify([]string{"a", "b", "c", "d"}, products)
	assert.Equal(t, []string{"a", "b", "d"}, out)
}

func TestRulesDiversify_BackfillsWhenTooAggressive(t *testing.T) {
	r := NewRulesEngine()
	products := map[string]Product{
		"a": {ID: "a", Category: "tortas"},
		"b": {ID: "b", Category: "tortas"},
		"c": {ID: "c", Category: "tortas"},
		"d": {ID: "d", Category: "tortas"},
		"e": {ID: "e", Category: "tortas"},
		"f": {ID: "f", Category: "tortas"},
	}

	// el tope dejaría 2 de 6 (menos de la mitad): se rellena con los
	// excluidos en su orden original
	out := r.Diversify([]string{"a", "b", "c", "d", "e", "f"}, products)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, out)
}

func TestRulesUserContext(t *testing.T) {
	r := NewRulesEngine()
	products := map[string]Product{
		"p1": {ID: "p1", Category: "tortas"},
		"p2": {ID: "p2", Category: "tortas"},
		"p3": {ID: "p3", Category: "panes"},
		"p4": {ID: "p4", Category: "bebidas"},
	}
	orders := []Order{
		{UserID: "u1", Lines: []OrderLine{
			{ProductID: "p1", Price: 100},
			{ProductID: "p2", Price: 100},
			{ProductID: "p3", Price: 100},
		}},
	}
	ratings := []Rating{
		{UserID: "u1", ProductID: "p4", Value: 5}, // positiva: cuenta
		{UserID: "u1", ProductID: "p3", Value: 2}, // negativa: no cuenta
	}

	rctx := r.UserContext(orders, ratings, products)
	require.NotNil(t, rctx)

	// tortas=2, panes=1, bebidas=1 → top-2 con desempate alfabético
	assert.Equal(t, []string{"tortas", "bebidas"}, rctx.FavoriteCategories)

	// banda de precios: promedio 100 ± 30%
	assert.InDelta(t, 70.0, rctx.PriceMin, 1e-9)
	assert.InDelta(t, 130.0, rctx.PriceMax, 1e-9)
}

func TestRulesUserContext_EmptyHistory(t *testing.T) {
	r := NewRulesEngine()
	rctx := r.UserContext(nil, nil, nil)
	require.NotNil(t, rctx)
	assert.Empty(t, rctx.FavoriteCategories)
	assert.Zero(t, rctx.PriceMax)
}
