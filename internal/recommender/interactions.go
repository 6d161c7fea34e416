package recommender

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Pesos de cada fuente de señal al armar la matriz de interacciones.
const (
	orderWeightPerUnit = 2.0 // por unidad comprada
	ratingValueWeight  = 0.6
	ratingCommentWt    = 0.4
	searchWeight       = 0.5 // por producto buscado (una vez, no por búsqueda)
	matrixScale        = 5.0 // la matriz se reescala para que su máximo sea 5
)

// InteractionMatrix es la matriz densa usuario×producto que alimenta al NMF,
// junto con los mapeos id↔índice en ambas direcciones.
type InteractionMatrix struct {
	Users     []string
	Items     []string
	UserIndex map[string]int
	ItemIndex map[string]int
	Data      [][]float64 // filas = usuarios, columnas = productos
}

func (m *InteractionMatrix) NumUsers() int { return len(m.Users) }
func (m *InteractionMatrix) NumItems() int { return len(m.Items) }

// Aggregator convierte órdenes, ratings y búsquedas crudas en la matriz de
// interacciones. Solo lee: nunca escribe en el storage.
type Aggregator struct {
	orders   OrderHistory
	ratings  RatingHistory
	searches SearchHistory
}

func NewAggregator(orders OrderHistory, ratings RatingHistory, searches SearchHistory) *Aggregator {
	return &Aggregator{orders: orders, ratings: ratings, searches: searches}
}

// Build arma la matriz con todas las interacciones posteriores a `since`
// (nil = historia completa). Devuelve ErrInsufficientData si el conjunto de
// usuarios o de productos queda vacío.
//
// Los usuarios y productos se juntan de las tres fuentes: un usuario que solo
// buscó igual queda indexado (aunque su fila tenga poca señal), para que el
// camino de contenido pueda atenderlo.
func (a *Aggregator) Build(ctx context.Context, since *time.Time) (*InteractionMatrix, error) {
	orders, err := a.orders.All(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("leyendo órdenes: %w", err)
	}
	ratings, err := a.ratings.All(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("leyendo ratings: %w", err)
	}
	searches, err := a.searches.All(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("leyendo búsquedas: %w", err)
	}

	userSet := make(map[string]bool)
	itemSet := make(map[string]bool)

	for _, o := range orders {
		if o.UserID == "" {
			continue
		}
		userSet[o.UserID] = true
		for _, l := range o.Lines {
			if l.ProductID != "" {
				itemSet[l.ProductID] = true
			}
		}
	}
	for _, r := range ratings {
		if r.UserID == "" || r.ProductID == "" {
			continue
		}
		userSet[r.UserID] = true
		itemSet[r.ProductID] = true
	}
	for _, s := range searches {
		if s.UserID == "" {
			continue
		}
		userSet[s.UserID] = true
		for _, pid := range s.ProductIDs {
			if pid != "" {
				itemSet[pid] = true
			}
		}
	}

	if len(userSet) == 0 || len(itemSet) == 0 {
		return nil, ErrInsufficientData
	}

	// Orden determinista: los índices salen de los ids ordenados.
	users := sortedKeys(userSet)
	items := sortedKeys(itemSet)

	m := &InteractionMatrix{
		Users:     users,
		Items:     items,
		UserIndex: make(map[string]int, len(users)),
		ItemIndex: make(map[string]int, len(items)),
		Data:      make([][]float64, len(users)),
	}
	for i, u := range users {
		m.UserIndex[u] = i
		m.Data[i] = make([]float64, len(items))
	}
	for j, p := range items {
		m.ItemIndex[p] = j
	}

	// Compras: quantity × 2.0
	for _, o := range orders {
		ui, ok := m.UserIndex[o.UserID]
		if !ok {
			continue
		}
		for _, l := range o.Lines {
			pi, ok := m.ItemIndex[l.ProductID]
			if !ok {
				continue
			}
			qty := l.Quantity
			if qty <= 0 {
				qty = 1
			}
			m.Data[ui][pi] += float64(qty) * orderWeightPerUnit
		}
	}

	// Ratings: valor × 0.6 + sentimiento del comentario × 0.4, nunca negativo.
	for _, r := range ratings {
		ui, okU := m.UserIndex[r.UserID]
		pi, okP := m.ItemIndex[r.ProductID]
		if !okU || !okP {
			continue
		}
		w := r.Value*ratingValueWeight + CommentSentiment(r.Comment)*ratingCommentWt
		if w < 0 {
			w = 0
		}
		m.Data[ui][pi] += w
	}

	// Búsquedas: +0.5 por producto distinto que el usuario buscó.
	seen := make(map[[2]string]bool)
	for _, s := range searches {
		ui, ok := m.UserIndex[s.UserID]
		if !ok {
			continue
		}
		for _, pid := range s.ProductIDs {
			pi, ok := m.ItemIndex[pid]
			if !ok {
				continue
			}
			key := [2]string{s.UserID, pid}
			if seen[key] {
				continue
			}
			seen[key] = true
			m.Data[ui][pi] += searchWeight
		}
	}

	// Reescala lineal para que el máximo sea 5.0.
	var max float64
	for _, row := range m.Data {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	if max > 0 {
		for _, row := range m.Data {
			for j := range row {
				row[j] = row[j] / max * matrixScale
			}
		}
	}

	return m, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Léxico de sentimiento para los comentarios de los ratings.
// El dataset de la tienda está en vietnamita, así que las palabras también.
var (
	positiveWords = []string{"tốt", "ngon", "tuyệt", "xuất sắc", "hài lòng", "thích", "đẹp", "chất lượng"}
	negativeWords = []string{"tệ", "dở", "kém", "không ngon", "tồi", "không thích", "xấu"}
)

// CommentSentiment cuenta palabras positivas menos negativas en el comentario.
func CommentSentiment(comment string) float64 {
	if comment == "" {
		return 0
	}
	c := strings.ToLower(comment)

	var score float64
	for _, w := range positiveWords {
		if strings.Contains(c, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(c, w) {
			score--
		}
	}
	return score
}
