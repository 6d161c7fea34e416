package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// engineFixture arma un motor completo sobre fakes: 4 usuarios en dos
// grupos de gustos disjuntos y un catálogo de 6 productos.
func engineFixture(t *testing.T) (*Engine, *fakeCatalog, *fakeOrders) {
	t.Helper()

	orders := &fakeOrders{orders: []Order{
		{UserID: "u1", Lines: []OrderLine{
			{ProductID: "i1", Quantity: 3, Price: 10},
			{ProductID: "i2", Quantity: 1, Price: 10},
			{ProductID: "i3", Quantity: 1, Price: 10},
		}},
		{UserID: "u2", Lines: []OrderLine{
			{ProductID: "i1", Quantity: 1, Price: 10},
			{ProductID: "i2", Quantity: 2, Price: 10},
		}},
		{UserID: "u3", Lines: []OrderLine{
			{ProductID: "i4", Quantity: 2, Price: 10},
			{ProductID: "i5", Quantity: 1, Price: 10},
		}},
		{UserID: "u4", Lines: []OrderLine{
			{ProductID: "i5", Quantity: 2, Price: 10},
			{ProductID: "i6", Quantity: 1, Price: 10},
		}},
	}}
	ratings := &fakeRatings{}
	searches := &fakeSearches{}
	catalog := &fakeCatalog{products: []Product{
		{ID: "i1", Name: "torta uno", Category: "c1", Price: 10},
		{ID: "i2", Name: "torta dos", Category: "c2", Price: 10},
		{ID: "i3", Name: "torta tres", Category: "c3", Price: 10},
		{ID: "i4", Name: "pan cuatro", Category: "c4", Price: 10},
		{ID: "i5", Name: "pan cinco", Category: "c5", Price: 10},
		{ID: "i6", Name: "pan seis", Category: "c6", Price: 10},
	}}

	agg := NewAggregator(orders, ratings, searches)
	latent := NewLatentStrategy(agg, nil, "", 2, 200)
	content := NewContentStrategy(catalog, searches, 200, 0)
	engine := NewEngine(latent, content, catalog, orders, ratings, NewRulesEngine(), Params{
		CFWeight:       0.7,
		ContentWeight:  0.3,
		ConsensusBoost: 1.2,
		MinRating:      0,
		TestRatio:      0.2,
		EvalTopK:       2,
	})
	return engine, catalog, orders
}

func TestEngineTrain_ReportsState(t *testing.T) {
	engine, _, _ := engineFixture(t)
	require.True(t, engine.Train(context.Background(), true))

	st := engine.Status()
	assert.True(t, st.LatentReady)
	assert.True(t, st.ContentReady)
	assert.True(t, st.HybridReady)
	assert.Equal(t, StateHybrid, engine.State("u1"))
	assert.Equal(t, StateColdStart, engine.State("desconocido"))
}

func TestEngineState_Degraded(t *testing.T) {
	agg := NewAggregator(&fakeOrders{}, &fakeRatings{}, &fakeSearches{})
	latent := NewLatentStrategy(agg, nil, "", 2, 50)
	content := NewContentStrategy(&fakeCatalog{}, &fakeSearches{}, 200, 0)
	engine := NewEngine(latent, content, &fakeCatalog{}, &fakeOrders{}, &fakeRatings{}, NewRulesEngine(), Params{})

	assert.Equal(t, StateDegraded, engine.State("u1"))
	assert.False(t, engine.Ready())
}

func TestEngineRecommend_BasicContract(t *testing.T) {
	engine, _, _ := engineFixture(t)
	require.True(t, engine.Train(context.Background(), true))

	recs := engine.Recommend(context.Background(), "u1", 3, nil)
	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 3)

	seen := make(map[string]bool)
	for _, id := range recs {
		assert.False(t, seen[id], "id duplicado %s", id)
		seen[id] = true
	}
}

func TestEngineRecommend_ExcludesContextProduct(t *testing.T) {
	engine, _, _ := engineFixture(t)
	require.True(t, engine.Train(context.Background(), true))

	recs := engine.Recommend(context.Background(), "u1", 5, &Context{CurrentProductID: "i1"})
	assert.NotContains(t, recs, "i1")
}

func TestEngineRecommend_FallbackToPopularity(t *testing.T) {
	// ninguna estrategia lista: cascada de fallback por popularidad
	agg := NewAggregator(&fakeOrders{}, &fakeRatings{}, &fakeSearches{})
	latent := NewLatentStrategy(agg, nil, "", 2, 50)
	catalog := &fakeCatalog{products: []Product{
		{ID: "low", AverageRating: 3.0},
		{ID: "high", AverageRating: 4.9},
		{ID: "mid", AverageRating: 4.0},
	}}
	content := NewContentStrategy(catalog, &fakeSearches{}, 200, 0)
	engine := NewEngine(latent, content, catalog, &fakeOrders{}, &fakeRatings{}, NewRulesEngine(), Params{MinRating: 2.0})

	recs := engine.Recommend(context.Background(), "u1", 2, nil)
	assert.Equal(t, []string{"high", "mid"}, recs)
}

func TestEngineRecommend_FallbackToSameCategory(t *testing.T) {
	agg := NewAggregator(&fakeOrders{}, &fakeRatings{}, &fakeSearches{})
	latent := NewLatentStrategy(agg, nil, "", 2, 50)
	catalog := &fakeCatalog{products: []Product{
		{ID: "ctx", Category: "tortas", AverageRating: 4.0},
		{ID: "hermano", Category: "tortas", AverageRating: 4.5},
		{ID: "ajeno", Category: "panes", AverageRating: 5.0},
	}}
	content := NewContentStrategy(catalog, &fakeSearches{}, 200, 0)
	engine := NewEngine(latent, content, catalog, &fakeOrders{}, &fakeRatings{}, NewRulesEngine(), Params{MinRating: 2.0})

	recs := engine.Recommend(context.Background(), "u1", 2, &Context{CurrentProductID: "ctx"})
	// misma categoría que el producto de contexto, sin incluirlo
	assert.Equal(t, []string{"hermano"}, recs)
}

func TestEngineRecommend_NeverPanics(t *testing.T) {
	// catálogo roto: todo falla, la respuesta es una lista vacía explícita
	agg := NewAggregator(&fakeOrders{}, &fakeRatings{}, &fakeSearches{})
	latent := NewLatentStrategy(agg, nil, "", 2, 50)
	broken := &fakeCatalog{err: errors.New("mongo caído")}
	content := NewContentStrategy(broken, &fakeSearches{}, 200, 0)
	engine := NewEngine(latent, content, broken, &fakeOrders{err: errors.New("mongo caído")}, &fakeRatings{}, NewRulesEngine(), Params{})

	recs := engine.Recommend(context.Background(), "u1", 5, nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestHybridScore_ConsensusBoost(t *testing.T) {
	engine, _, _ := engineFixture(t)

	// ambas señales > 0: el boost aplica
	both := engine.hybridScore(0.5, 0.5)
	assert.InDelta(t, (0.7*0.5+0.3*0.5)*1.2, both, 1e-9)

	// una sola señal: sin boost
	single := engine.hybridScore(0.5, 0)
	assert.InDelta(t, 0.7*0.5, single, 1e-9)

	// misma suma ponderada (0.7×0.5 + 0.3×0.5 = 0.7×c): el candidato con
	// consenso queda arriba
	c := (0.7*0.5 + 0.3*0.5) / 0.7
	assert.Greater(t, engine.hybridScore(0.5, 0.5), engine.hybridScore(c, 0))
}

func TestNormalizeScores(t *testing.T) {
	out := normalizeScores(map[string]float64{"a": 2, "b": 4, "c": 6})
	assert.InDelta(t, 0.0, out["a"], 1e-9)
	assert.InDelta(t, 0.5, out["b"], 1e-9)
	assert.InDelta(t, 1.0, out["c"], 1e-9)
}

func TestNormalizeScores_AllEqual(t *testing.T) {
	// todos iguales y positivos: señal binaria en 1.0
	out := normalizeScores(map[string]float64{"a": 3, "b": 3})
	assert.Equal(t, 1.0, out["a"])
	assert.Equal(t, 1.0, out["b"])

	// todos cero: sin señal
	out = normalizeScores(map[string]float64{"a": 0, "b": 0})
	assert.Equal(t, 0.0, out["a"])
	assert.Equal(t, 0.0, out["b"])

	assert.Empty(t, normalizeScores(nil))
}

func TestUnionDedup(t *testing.T) {
	out := unionDedup([]string{"a", "b", "a"}, []string{"b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, out)
}

func TestRemoveID(t *testing.T) {
	out := removeID([]string{"a", "b", "c"}, "b")
	assert.Equal(t, []string{"a", "c"}, out)
}
