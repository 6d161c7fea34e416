package recommender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: []Product{
		{ID: "p1", Name: "bánh chocolate", Description: "bánh ngọt vị chocolate đậm", Category: "cat-cake", AverageRating: 4.5},
		{ID: "p2", Name: "brownie chocolate", Description: "brownie chocolate mềm", Category: "cat-cake", AverageRating: 4.0},
		{ID: "p3", Name: "trà vải", Description: "trà trái cây thanh mát", Category: "cat-drink", AverageRating: 4.2},
	}}
}

func TestBuildContentIndex_EmptyCatalog(t *testing.T) {
	_, err := buildContentIndex(nil, 200)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestBuildContentIndex_DropsUniversalTerms(t *testing.T) {
	// "banh" aparece en los 3 documentos: df=3 > maxDF=int(0.8×3)=2
	products := []Product{
		{ID: "a", Name: "banh kem"},
		{ID: "b", Name: "banh mi"},
		{ID: "c", Name: "banh bao"},
	}
	idx, err := buildContentIndex(products, 200)
	require.NoError(t, err)

	assert.NotContains(t, idx.vocab, "banh")
	assert.Contains(t, idx.vocab, "kem")
	assert.Contains(t, idx.vocab, "mi")
	assert.Contains(t, idx.vocab, "bao")
}

func TestBuildContentIndex_VocabularyCap(t *testing.T) {
	// "kem" está en 2 documentos, el resto en 1: el cap a 2 se queda con
	// "kem" y el primer término alfabético de los df=1
	products := []Product{
		{ID: "a", Name: "kem dau"},
		{ID: "b", Name: "kem socola"},
		{ID: "c", Name: "xoai"},
	}
	idx, err := buildContentIndex(products, 2)
	require.NoError(t, err)

	require.Len(t, idx.vocab, 2)
	assert.Contains(t, idx.vocab, "kem")
	assert.Contains(t, idx.vocab, "dau")
}

func TestBuildContentIndex_ColumnsAlphabetical(t *testing.T) {
	products := []Product{
		{ID: "a", Name: "zebra mango"},
		{ID: "b", Name: "avena"},
	}
	idx, err := buildContentIndex(products, 200)
	require.NoError(t, err)

	assert.Equal(t, 0, idx.vocab["avena"])
	assert.Equal(t, 1, idx.vocab["mango"])
	assert.Equal(t, 2, idx.vocab["zebra"])
}

func TestContentRecommend_SimilarToContextProduct(t *testing.T) {
	s := NewContentStrategy(cakeCatalog(), &fakeSearches{}, 200, 0)
	require.NoError(t, s.Build(context.Background()))
	require.True(t, s.Ready())

	recs := s.Recommend(context.Background(), "u1", 2, &Context{CurrentProductID: "p1"})
	require.NotEmpty(t, recs)
	// nunca se recomienda a sí mismo y el más parecido va primero
	assert.NotContains(t, recs, "p1")
	assert.Equal(t, "p2", recs[0])
}

func TestContentRecommend_AppliesRatingFloor(t *testing.T) {
	catalog := cakeCatalog()
	catalog.products[1].AverageRating = 1.5 // p2 cae del piso

	s := NewContentStrategy(catalog, &fakeSearches{}, 200, 2.0)
	require.NoError(t, s.Build(context.Background()))

	recs := s.Recommend(context.Background(), "u1", 3, &Context{CurrentProductID: "p1"})
	assert.NotContains(t, recs, "p2")
	assert.Contains(t, recs, "p3")
}

func TestContentRecommend_FromSearchKeywords(t *testing.T) {
	searches := &fakeSearches{keywords: map[string][]string{
		"u1": {"chocolate"},
	}}
	s := NewContentStrategy(cakeCatalog(), searches, 200, 0)
	require.NoError(t, s.Build(context.Background()))

	recs := s.Recommend(context.Background(), "u1", 2, nil)
	require.Len(t, recs, 2)
	assert.ElementsMatch(t, []string{"p1", "p2"}, recs)
}

func TestContentRecommend_NoKeywordsNoContext(t *testing.T) {
	s := NewContentStrategy(cakeCatalog(), &fakeSearches{}, 200, 0)
	require.NoError(t, s.Build(context.Background()))

	assert.Empty(t, s.Recommend(context.Background(), "u1", 3, nil))
}

func TestContentScores_NoRatingFloor(t *testing.T) {
	catalog := cakeCatalog()
	catalog.products[1].AverageRating = 1.0 // bajo el piso

	s := NewContentStrategy(catalog, &fakeSearches{}, 200, 2.0)
	require.NoError(t, s.Build(context.Background()))

	// el piso es solo para generar candidatos: al puntuar, p2 conserva
	// su similitud real
	scores := s.Scores(context.Background(), "u1", []string{"p2", "p3"}, &Context{CurrentProductID: "p1"})
	assert.Greater(t, scores["p2"], scores["p3"])
}

func TestContentCatalogPosition(t *testing.T) {
	s := NewContentStrategy(cakeCatalog(), &fakeSearches{}, 200, 0)
	assert.Equal(t, -1, s.CatalogPosition("p1")) // sin índice todavía

	require.NoError(t, s.Build(context.Background()))
	assert.Equal(t, 0, s.CatalogPosition("p1"))
	assert.Equal(t, 2, s.CatalogPosition("p3"))
	assert.Equal(t, -1, s.CatalogPosition("no-existe"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"bánh", "kem", "2", "tầng"}, tokenize("Bánh kem, 2 tầng!"))
	assert.Empty(t, tokenize("  ...  "))
}
