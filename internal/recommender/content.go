package recommender

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/viterin/vek"
)

// Parámetros del vocabulario TF-IDF.
const (
	minDocFreq    = 1   // un término tiene que aparecer en al menos 1 documento
	maxDocFreqPct = 0.8 // y en no más del 80% (términos casi universales fuera)
)

// contentIndex es una foto inmutable del catálogo vectorizado: vocabulario
// acotado, un vector TF-IDF denso por producto y los metadatos mínimos
// (rating, categoría) para el filtro de calidad. Se reemplaza entero al
// reconstruir, igual que las generaciones del modelo latente.
type contentIndex struct {
	items    []string // orden de inserción del catálogo: desempata el ranking
	index    map[string]int
	vocab    map[string]int
	idf      []float64
	vectors  [][]float64
	ratings  []float64
	category []string
}

func buildContentIndex(products []Product, maxFeatures int) (*contentIndex, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	// Documento por producto: nombre duplicado (pesa más), descripción y categoría.
	docs := make([][]string, len(products))
	for i, p := range products {
		text := p.Name + " " + p.Name + " " + p.Description + " " + p.Category
		docs[i] = tokenize(text)
	}

	// Frecuencia documental por término.
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, t := range doc {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	n := len(docs)
	maxDF := int(maxDocFreqPct * float64(n))
	if maxDF < 1 {
		maxDF = 1
	}

	type termDF struct {
		term string
		df   int
	}
	kept := make([]termDF, 0, len(df))
	for t, d := range df {
		if d >= minDocFreq && d <= maxDF {
			kept = append(kept, termDF{t, d})
		}
	}
	// Cap del vocabulario: nos quedamos con los términos más frecuentes,
	// desempate alfabético para que el índice sea determinista.
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].df != kept[j].df {
			return kept[i].df > kept[j].df
		}
		return kept[i].term < kept[j].term
	})
	if maxFeatures > 0 && len(kept) > maxFeatures {
		kept = kept[:maxFeatures]
	}
	// Columnas en orden alfabético, como las asigna cualquier vectorizador.
	sort.Slice(kept, func(i, j int) bool { return kept[i].term < kept[j].term })

	idx := &contentIndex{
		items:    make([]string, len(products)),
		index:    make(map[string]int, len(products)),
		vocab:    make(map[string]int, len(kept)),
		idf:      make([]float64, len(kept)),
		vectors:  make([][]float64, len(products)),
		ratings:  make([]float64, len(products)),
		category: make([]string, len(products)),
	}
	for col, t := range kept {
		idx.vocab[t.term] = col
		// idf suavizado: ln((1+n)/(1+df)) + 1
		idx.idf[col] = math.Log(float64(1+n)/float64(1+t.df)) + 1
	}

	for i, p := range products {
		idx.items[i] = p.ID
		idx.index[p.ID] = i
		idx.ratings[i] = p.AverageRating
		idx.category[i] = p.Category
		idx.vectors[i] = idx.vectorizeTokens(docs[i])
	}

	return idx, nil
}

// vectorizeTokens proyecta una lista de tokens al espacio del vocabulario:
// conteo de términos × idf, normalizado L2.
func (c *contentIndex) vectorizeTokens(tokens []string) []float64 {
	vec := make([]float64, len(c.idf))
	for _, t := range tokens {
		if col, ok := c.vocab[t]; ok {
			vec[col] += c.idf[col]
		}
	}
	if norm := vek.Norm(vec); norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// similarTo devuelve la similitud coseno del producto contra todo el catálogo.
func (c *contentIndex) similarTo(productID string) []float64 {
	i, ok := c.index[productID]
	if !ok {
		return nil
	}
	return c.similarities(c.vectors[i])
}

// queryScores proyecta una query libre al vocabulario y compara por coseno.
func (c *contentIndex) queryScores(query string) []float64 {
	return c.similarities(c.vectorizeTokens(tokenize(query)))
}

func (c *contentIndex) similarities(vec []float64) []float64 {
	if vek.Norm(vec) == 0 {
		return make([]float64, len(c.items))
	}
	out := make([]float64, len(c.items))
	for i, v := range c.vectors {
		if vek.Norm(v) == 0 {
			continue
		}
		out[i] = vek.CosineSimilarity(vec, v)
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// ContentStrategy es la estrategia de contenido: similitud de texto entre
// productos. No requiere entrenamiento, solo (re)construir el índice sobre
// una foto del catálogo.
type ContentStrategy struct {
	products ProductCatalog
	searches SearchHistory

	maxFeatures int
	minRating   float64 // piso duro de calidad al generar candidatos

	current atomic.Pointer[contentIndex]
}

func NewContentStrategy(products ProductCatalog, searches SearchHistory, maxFeatures int, minRating float64) *ContentStrategy {
	return &ContentStrategy{
		products:    products,
		searches:    searches,
		maxFeatures: maxFeatures,
		minRating:   minRating,
	}
}

// Build reconstruye el índice desde el catálogo completo y lo publica.
func (s *ContentStrategy) Build(ctx context.Context) error {
	products, err := s.products.All(ctx)
	if err != nil {
		return err
	}
	idx, err := buildContentIndex(products, s.maxFeatures)
	if err != nil {
		return err
	}
	s.current.Store(idx)
	log.Printf("[content] índice construido: %d productos, vocabulario=%d", len(idx.items), len(idx.vocab))
	return nil
}

func (s *ContentStrategy) Ready() bool {
	idx := s.current.Load()
	return idx != nil && len(idx.items) > 0
}

// CatalogPosition devuelve la posición del producto en el orden de inserción
// del catálogo (para desempates deterministas), o -1 si no está indexado.
func (s *ContentStrategy) CatalogPosition(productID string) int {
	idx := s.current.Load()
	if idx == nil {
		return -1
	}
	if i, ok := idx.index[productID]; ok {
		return i
	}
	return -1
}

// Recommend genera candidatos por contenido. Con producto en contexto usa
// similitud item-a-item (excluyéndose a sí mismo); si no, proyecta las
// keywords del historial de búsqueda del usuario. El piso de rating se
// aplica acá, al generar candidatos, no al puntuar.
func (s *ContentStrategy) Recommend(ctx context.Context, userID string, n int, rctx *Context) []string {
	idx := s.current.Load()
	if idx == nil {
		return nil
	}

	var scores []float64
	selfID := ""
	if rctx != nil && rctx.CurrentProductID != "" {
		if _, ok := idx.index[rctx.CurrentProductID]; ok {
			scores = idx.similarTo(rctx.CurrentProductID)
			selfID = rctx.CurrentProductID
		}
	}
	if scores == nil {
		keywords, err := s.searches.Keywords(ctx, userID)
		if err != nil {
			log.Printf("[content] error leyendo búsquedas de %s: %v", userID, err)
			return nil
		}
		if len(keywords) == 0 {
			return nil
		}
		scores = idx.queryScores(strings.Join(keywords, " "))
	}

	return idx.topFiltered(scores, n, selfID, s.minRating)
}

// topFiltered ordena por score desc (empate por posición de catálogo),
// filtra el piso de rating y el propio producto, y trunca a n.
func (c *contentIndex) topFiltered(scores []float64, n int, selfID string, minRating float64) []string {
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(scores))
	for i, sc := range scores {
		ranked[i] = scored{idx: i, score: sc}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]string, 0, n)
	for _, r := range ranked {
		if len(out) >= n {
			break
		}
		pid := c.items[r.idx]
		if pid == selfID {
			continue
		}
		if c.ratings[r.idx] < minRating {
			continue
		}
		out = append(out, pid)
	}
	return out
}

// Scores devuelve el score de contenido crudo para cada producto pedido:
// similitud contra el producto del contexto si hay, o contra las keywords
// de búsqueda del usuario. Productos fuera del índice puntúan 0.
func (s *ContentStrategy) Scores(ctx context.Context, userID string, productIDs []string, rctx *Context) map[string]float64 {
	out := make(map[string]float64, len(productIDs))
	for _, pid := range productIDs {
		out[pid] = 0
	}

	idx := s.current.Load()
	if idx == nil {
		return out
	}

	var scores []float64
	if rctx != nil && rctx.CurrentProductID != "" {
		scores = idx.similarTo(rctx.CurrentProductID)
	}
	if scores == nil {
		keywords, err := s.searches.Keywords(ctx, userID)
		if err != nil || len(keywords) == 0 {
			return out
		}
		scores = idx.queryScores(strings.Join(keywords, " "))
	}

	for _, pid := range productIDs {
		if i, ok := idx.index[pid]; ok {
			out[pid] = scores[i]
		}
	}
	return out
}
