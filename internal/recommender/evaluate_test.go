package recommender

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_NotReady(t *testing.T) {
	agg := NewAggregator(&fakeOrders{}, &fakeRatings{}, &fakeSearches{})
	latent := NewLatentStrategy(agg, nil, "", 2, 50)
	content := NewContentStrategy(&fakeCatalog{}, &fakeSearches{}, 200, 0)
	engine := NewEngine(latent, content, &fakeCatalog{}, &fakeOrders{}, &fakeRatings{}, NewRulesEngine(), Params{})

	assert.Equal(t, Metrics{}, engine.Evaluate(context.Background()))
}

func TestEvaluate_NoTestOrders(t *testing.T) {
	engine, _, orders := engineFixture(t)
	require.True(t, engine.Train(context.Background(), true))

	orders.test = nil
	assert.Equal(t, Metrics{}, engine.Evaluate(context.Background()))
}

func TestEvaluate_ComputesMetrics(t *testing.T) {
	engine, _, orders := engineFixture(t)
	require.True(t, engine.Train(context.Background(), true))

	// una orden de test de u1 con i1, su producto más comprado: el top-2
	// recomendado tiene que contenerlo
	orders.test = []Order{
		{UserID: "u1", Lines: []OrderLine{{ProductID: "i1", Quantity: 1}}},
	}

	m := engine.Evaluate(context.Background())
	assert.InDelta(t, 0.5, m.Precision, 1e-9) // 1 relevante de top-2
	assert.InDelta(t, 1.0, m.Recall, 1e-9)    // el único comprado fue recomendado
	assert.InDelta(t, 2.0/3.0, m.F1, 1e-9)
}

func TestEvaluate_ExcludesSyntheticOrders(t *testing.T) {
	engine, _, orders := engineFixture(t)
	require.True(t, engine.Train(context.Background(), true))

	orders.test = []Order{
		{UserID: "u1", Lines: []OrderLine{{ProductID: "i1", Quantity: 1}}},
		// sintética apuntando al otro grupo: si entrara, arruinaría el recall
		{UserID: "u1", Synthetic: true, Lines: []OrderLine{{ProductID: "i6", Quantity: 1}}},
	}

	m := engine.Evaluate(context.Background())
	assert.InDelta(t, 1.0, m.Recall, 1e-9)
}

func TestEvaluate_SyntheticOnlyFallsBack(t *testing.T) {
	engine, _, orders := engineFixture(t)
	require.True(t, engine.Train(context.Background(), true))

	// solo sintéticas: se usan igual antes que no evaluar nada
	orders.test = []Order{
		{UserID: "u1", Synthetic: true, Lines: []OrderLine{{ProductID: "i1", Quantity: 1}}},
	}

	m := engine.Evaluate(context.Background())
	assert.Greater(t, m.Recall, 0.0)
}

// 10 usuarios × 20 productos en dos grupos de gustos perfectamente
// separables: el F1 tiene que salir alto.
func TestEvaluate_SeparablePreferences(t *testing.T) {
	const perGroup = 10

	var products []Product
	var allOrders []Order
	group := func(g int) []string {
		ids := make([]string, perGroup)
		for i := range ids {
			ids[i] = fmt.Sprintf("g%d-i%02d", g, i)
		}
		return ids
	}
	for g := 1; g <= 2; g++ {
		for _, id := range group(g) {
			products = append(products, Product{
				ID:       id,
				Name:     fmt.Sprintf("producto %s", id),
				Category: fmt.Sprintf("cat-%s", id),
				Price:    10,
			})
		}
	}
	basket := func(user string, items []string) Order {
		lines := make([]OrderLine, len(items))
		for i, id := range items {
			lines[i] = OrderLine{ProductID: id, Quantity: 1 + i%3, Price: 10}
		}
		return Order{UserID: user, Lines: lines}
	}
	for u := 0; u < 5; u++ {
		allOrders = append(allOrders, basket(fmt.Sprintf("u1-%d", u), group(1)))
		allOrders = append(allOrders, basket(fmt.Sprintf("u2-%d", u), group(2)))
	}

	orders := &fakeOrders{orders: allOrders}
	catalog := &fakeCatalog{products: products}
	agg := NewAggregator(orders, &fakeRatings{}, &fakeSearches{})
	latent := NewLatentStrategy(agg, nil, "", 2, 200)
	content := NewContentStrategy(catalog, &fakeSearches{}, 200, 0)
	engine := NewEngine(latent, content, catalog, orders, &fakeRatings{}, NewRulesEngine(), Params{
		CFWeight:       0.7,
		ContentWeight:  0.3,
		ConsensusBoost: 1.2,
		TestRatio:      0.2,
		EvalTopK:       perGroup,
	})
	require.True(t, engine.Train(context.Background(), true))

	// órdenes de test: la canasta completa de su grupo
	orders.test = []Order{
		basket("u1-0", group(1)),
		basket("u2-0", group(2)),
	}

	m := engine.Evaluate(context.Background())
	assert.Greater(t, m.F1, 0.5)
}

func TestEvaluate_SkipsUnknownUsers(t *testing.T) {
	engine, _, orders := engineFixture(t)
	require.True(t, engine.Train(context.Background(), true))

	orders.test = []Order{
		{UserID: "nunca-compró", Lines: []OrderLine{{ProductID: "i1", Quantity: 1}}},
	}

	assert.Equal(t, Metrics{}, engine.Evaluate(context.Background()))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.InDelta(t, 2.0, mean([]float64{1, 2, 3}), 1e-9)
}
