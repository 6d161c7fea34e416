package recommender

import "sort"

// RulesEngine aplica reglas de negocio deterministas sobre una lista ya
// puntuada: boosts multiplicativos por calidad, popularidad y contexto,
// una penalización suave para productos mal calificados y un pase de
// diversidad por categoría. Acá va la penalización suave; el corte duro
// de rating vive en la generación de candidatos por contenido.
type RulesEngine struct {
	SameCategoryBoost float64
	PriceRangeBoost   float64
	PopularBoost      float64
	HighRatingBoost   float64
	FavoriteBoost     float64

	MinRating      float64 // por debajo de esto (con reviews suficientes) se penaliza
	PriceTolerance float64 // banda de precio = promedio ± 30%
	MaxPerCategory int
}

func NewRulesEngine() *RulesEngine {
	return &RulesEngine{
		SameCategoryBoost: 1.5,
		PriceRangeBoost:   1.3,
		PopularBoost:      1.2,
		HighRatingBoost:   1.4,
		FavoriteBoost:     1.3,
		MinRating:         3.5,
		PriceTolerance:    0.3,
		MaxPerCategory:    2,
	}
}

// Apply re-rankea los ids multiplicando boosts sobre un score base de 1.0.
// El orden de entrada se respeta en los empates (sort estable), así el
// ranking híbrido previo sigue mandando entre productos con el mismo
// ajuste de reglas.
func (r *RulesEngine) Apply(recommendations []string, products map[string]Product, rctx *Context) []string {
	if len(recommendations) == 0 {
		return nil
	}

	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(recommendations))

	for _, pid := range recommendations {
		p, ok := products[pid]
		if !ok {
			continue
		}
		score := 1.0

		// Regla 1: rating alto
		switch {
		case p.AverageRating >= 4.5:
			score *= r.HighRatingBoost
		case p.AverageRating >= 4.0:
			score *= 1.2
		}

		// Regla 2: popularidad por volumen de reviews
		switch {
		case p.TotalRatings >= 10:
			score *= r.PopularBoost
		case p.TotalRatings >= 5:
			score *= 1.1
		}

		// Reglas de contexto
		if rctx != nil {
			if rctx.ViewedCategory != "" && p.Category == rctx.ViewedCategory {
				score *= r.SameCategoryBoost
			}
			if rctx.inPriceRange(p.Price) {
				score *= r.PriceRangeBoost
			}
			if rctx.isFavoriteCategory(p.Category) {
				score *= r.FavoriteBoost
			}
		}

		// Regla 6: penalización suave para productos mal calificados con
		// volumen suficiente para que el promedio signifique algo.
		if p.AverageRating < r.MinRating && p.TotalRatings >= 3 {
			score *= 0.5
		}

		ranked = append(ranked, scored{id: pid, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.id
	}
	return out
}

// Diversify limita cuántos productos por categoría entran a la lista final.
// Si el tope recortó más de la mitad, rellena con los excluidos en su orden
// original hasta recuperar el largo.
func (r *RulesEngine) Diversify(recommendations []string, products map[string]Product) []string {
	maxPer := r.MaxPerCategory
	if maxPer <= 0 {
		maxPer = 2
	}

	perCategory := make(map[string]int)
	diversified := make([]string, 0, len(recommendations))
	kept := make(map[string]bool, len(recommendations))

	for _, pid := range recommendations {
		p, ok := products[pid]
		if !ok {
			continue
		}
		cat := p.Category
		if cat == "" {
			cat = "unknown"
		}
		if perCategory[cat] < maxPer {
			diversified = append(diversified, pid)
			kept[pid] = true
			perCategory[cat]++
		}
	}

	if len(diversified) < len(recommendations)/2 {
		for _, pid := range recommendations {
			if len(diversified) >= len(recommendations) {
				break
			}
			if !kept[pid] {
				diversified = append(diversified, pid)
				kept[pid] = true
			}
		}
	}

	return diversified
}

// UserContext deriva el contexto implícito del usuario a partir de su
// historial: sus 2 categorías más compradas/mejor valoradas y la banda de
// precios en la que suele comprar.
func (r *RulesEngine) UserContext(orders []Order, ratings []Rating, products map[string]Product) *Context {
	rctx := &Context{}

	categoryCounts := make(map[string]int)
	var prices []float64

	for _, o := range orders {
		for _, l := range o.Lines {
			if p, ok := products[l.ProductID]; ok && p.Category != "" {
				categoryCounts[p.Category]++
			}
			prices = append(prices, l.Price)
		}
	}
	for _, rt := range ratings {
		if rt.Value < 4 {
			continue // solo las valoraciones positivas marcan preferencia
		}
		if p, ok := products[rt.ProductID]; ok && p.Category != "" {
			categoryCounts[p.Category]++
		}
	}

	if len(categoryCounts) > 0 {
		type catCount struct {
			cat   string
			count int
		}
		cats := make([]catCount, 0, len(categoryCounts))
		for c, n := range categoryCounts {
			cats = append(cats, catCount{c, n})
		}
		sort.Slice(cats, func(i, j int) bool {
			if cats[i].count != cats[j].count {
				return cats[i].count > cats[j].count
			}
			return cats[i].cat < cats[j].cat
		})
		if len(cats) > 2 {
			cats = cats[:2]
		}
		for _, c := range cats {
			rctx.FavoriteCategories = append(rctx.FavoriteCategories, c.cat)
		}
	}

	if len(prices) > 0 {
		var sum float64
		for _, p := range prices {
			sum += p
		}
		avg := sum / float64(len(prices))
		tol := avg * r.PriceTolerance
		rctx.PriceMin = avg - tol
		rctx.PriceMax = avg + tol
	}

	return rctx
}
