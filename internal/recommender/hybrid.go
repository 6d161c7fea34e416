package recommender

import (
	"context"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Params agrupa los pesos y umbrales del motor híbrido.
type Params struct {
	CFWeight       float64
	ContentWeight  float64
	ConsensusBoost float64
	MinRating      float64
	DefaultNItems  int
	TestRatio      float64
	EvalTopK       int
}

// Engine combina la estrategia latente y la de contenido en un solo ranking,
// le aplica las reglas de negocio y degrada con la cascada de fallback cuando
// falta estado. Es el único punto de entrada de recomendación: el serving y
// la evaluación offline pasan por el mismo Recommend.
type Engine struct {
	latent   *LatentStrategy
	content  *ContentStrategy
	products ProductCatalog
	orders   OrderHistory
	ratings  RatingHistory
	rules    *RulesEngine
	params   Params
}

func NewEngine(
	latent *LatentStrategy,
	content *ContentStrategy,
	products ProductCatalog,
	orders OrderHistory,
	ratings RatingHistory,
	rules *RulesEngine,
	params Params,
) *Engine {
	if params.DefaultNItems <= 0 {
		params.DefaultNItems = 5
	}
	if params.EvalTopK <= 0 {
		params.EvalTopK = 10
	}
	if params.TestRatio <= 0 {
		params.TestRatio = 0.2
	}
	return &Engine{
		latent:   latent,
		content:  content,
		products: products,
		orders:   orders,
		ratings:  ratings,
		rules:    rules,
		params:   params,
	}
}

// Train entrena el modelo latente y (re)construye el índice de contenido.
// Devuelve true si al menos una estrategia quedó lista.
func (e *Engine) Train(ctx context.Context, force bool) bool {
	cfOK := e.latent.Train(ctx, force)

	if force || !e.content.Ready() {
		if err := e.content.Build(ctx); err != nil {
			log.Printf("[engine] índice de contenido no disponible: %v", err)
		}
	}

	switch {
	case cfOK && e.content.Ready():
		log.Println("[engine] híbrido listo: latente + contenido")
	case cfOK:
		log.Println("[engine] híbrido parcial: solo latente")
	case e.content.Ready():
		log.Println("[engine] híbrido parcial: solo contenido")
	default:
		log.Println("[engine] entrenamiento falló: ninguna estrategia lista")
	}
	return cfOK || e.content.Ready()
}

func (e *Engine) Ready() bool {
	return e.latent.Ready() || e.content.Ready()
}

func (e *Engine) Status() StrategyStatus {
	return StrategyStatus{
		LatentReady:  e.latent.Ready(),
		ContentReady: e.content.Ready(),
		HybridReady:  e.Ready(),
	}
}

// State recalcula el estado de readiness para una petición puntual.
func (e *Engine) State(userID string) ReadinessState {
	l, c := e.latent.Ready(), e.content.Ready()
	switch {
	case !l && !c:
		return StateDegraded
	case !e.latent.KnowsUser(userID):
		return StateColdStart
	case l && c:
		return StateHybrid
	case l:
		return StateLatentOnly
	default:
		return StateContentOnly
	}
}

// Recommend devuelve hasta nItems ids de producto rankeados para el usuario.
// Nunca entra en pánico ni propaga errores: cualquier falla interna degrada
// al fallback y, en el peor caso, a una lista vacía explícita.
func (e *Engine) Recommend(ctx context.Context, userID string, nItems int, rctx *Context) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[engine] pánico recuperado en Recommend(%s): %v", userID, r)
			out = []string{}
		}
	}()

	if nItems <= 0 {
		nItems = e.params.DefaultNItems
	}

	// 1) Candidatos de cada estrategia en paralelo (3×n cada una).
	//    Cada estrategia degrada sola si no está lista.
	var cfCands, ctCands []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if e.latent.Ready() {
			cfCands = e.latent.Recommend(userID, nItems*3, rctx)
		}
		return nil
	})
	g.Go(func() error {
		if e.content.Ready() {
			ctCands = e.content.Recommend(gctx, userID, nItems*3, rctx)
		}
		return nil
	})
	_ = g.Wait()

	// 2) Sin candidatos de ninguna estrategia → cascada de fallback.
	if len(cfCands) == 0 && len(ctCands) == 0 {
		return e.fallback(ctx, nItems, rctx)
	}

	// 3) Unión deduplicada de ambos conjuntos.
	candidates := unionDedup(cfCands, ctCands)
	if rctx != nil && rctx.CurrentProductID != "" {
		candidates = removeID(candidates, rctx.CurrentProductID)
	}
	if len(candidates) == 0 {
		return e.fallback(ctx, nItems, rctx)
	}

	// 4) Score crudo de cada estrategia para TODOS los candidatos, incluso
	//    los que solo aparecieron en la otra (se recomputa, no se asume 0).
	var cfScores, ctScores map[string]float64
	if e.latent.Ready() {
		cfScores = e.latent.Scores(userID, candidates)
	}
	if e.content.Ready() {
		ctScores = e.content.Scores(ctx, userID, candidates, rctx)
	}

	// 5) Normalización min-max independiente por estrategia.
	cfNorm := normalizeScores(cfScores)
	ctNorm := normalizeScores(ctScores)

	// 6) Score híbrido ponderado + boost de consenso cuando ambas señales
	//    independientes coinciden en que el producto es relevante.
	type scored struct {
		id     string
		score  float64
		tiePos int
	}
	ranked := make([]scored, 0, len(candidates))
	for i, pid := range candidates {
		score := e.hybridScore(cfNorm[pid], ctNorm[pid])
		tie := e.content.CatalogPosition(pid)
		if tie < 0 {
			tie = len(candidates) + i // fuera del catálogo indexado: orden de llegada
		}
		ranked = append(ranked, scored{id: pid, score: score, tiePos: tie})
	}

	// 7) Orden descendente, empates por orden de inserción del catálogo.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].tiePos < ranked[j].tiePos
	})

	ids := make([]string, len(ranked))
	for i, s := range ranked {
		ids[i] = s.id
	}

	// Reglas de negocio + diversidad sobre la lista puntuada, y truncado final.
	ids = e.rerank(ctx, userID, ids, rctx)
	if len(ids) > nItems {
		ids = ids[:nItems]
	}
	return ids
}

// hybridScore combina los scores normalizados de ambas estrategias. El boost
// de consenso solo aplica cuando las dos señales independientes coinciden en
// que el producto es relevante.
func (e *Engine) hybridScore(cf, ct float64) float64 {
	score := e.params.CFWeight*cf + e.params.ContentWeight*ct
	if cf > 0 && ct > 0 {
		score *= e.params.ConsensusBoost
	}
	return score
}

// rerank aplica las reglas de negocio con el contexto del caller enriquecido
// con las preferencias históricas del usuario. Si algo falla, devuelve la
// lista tal como vino: las reglas nunca rompen una recomendación.
func (e *Engine) rerank(ctx context.Context, userID string, ids []string, rctx *Context) []string {
	if e.rules == nil || len(ids) == 0 {
		return ids
	}

	all, err := e.products.All(ctx)
	if err != nil {
		log.Printf("[engine] reglas omitidas, catálogo no disponible: %v", err)
		return ids
	}
	products := make(map[string]Product, len(all))
	for _, p := range all {
		products[p.ID] = p
	}

	merged := e.mergedContext(ctx, userID, rctx, products)
	ids = e.rules.Apply(ids, products, merged)
	return e.rules.Diversify(ids, products)
}

// mergedContext junta el contexto explícito del request con el implícito del
// historial. El del caller gana en caso de choque.
func (e *Engine) mergedContext(ctx context.Context, userID string, rctx *Context, products map[string]Product) *Context {
	var orders []Order
	var ratings []Rating
	if e.orders != nil {
		if o, err := e.orders.ByUser(ctx, userID); err == nil {
			orders = o
		}
	}
	if e.ratings != nil {
		if r, err := e.ratings.ByUser(ctx, userID); err == nil {
			ratings = r
		}
	}

	merged := e.rules.UserContext(orders, ratings, products)
	if rctx == nil {
		return merged
	}

	merged.CurrentProductID = rctx.CurrentProductID
	merged.ViewedCategory = rctx.ViewedCategory
	if merged.ViewedCategory == "" && rctx.CurrentProductID != "" {
		if p, ok := products[rctx.CurrentProductID]; ok {
			merged.ViewedCategory = p.Category
		}
	}
	if rctx.PriceMax > 0 {
		merged.PriceMin = rctx.PriceMin
		merged.PriceMax = rctx.PriceMax
	}
	merged.FavoriteCategories = append(merged.FavoriteCategories, rctx.FavoriteCategories...)
	return merged
}

// fallback es la cascada degradada, terminal: (a) misma categoría que el
// producto del contexto, (b) popularidad de catálogo; si ni eso devuelve
// nada, el caller recibe una lista vacía explícita, no un invento.
func (e *Engine) fallback(ctx context.Context, nItems int, rctx *Context) []string {
	if rctx != nil && rctx.CurrentProductID != "" {
		p, err := e.products.FindByID(ctx, rctx.CurrentProductID)
		if err != nil {
			log.Printf("[engine] fallback: lookup del producto de contexto falló: %v", err)
		}
		if p != nil && p.Category != "" {
			sameCat, err := e.products.ByCategory(ctx, p.Category, nItems+5)
			if err == nil && len(sameCat) > 0 {
				out := make([]string, 0, nItems)
				for _, c := range sameCat {
					if c.ID == rctx.CurrentProductID {
						continue
					}
					out = append(out, c.ID)
					if len(out) >= nItems {
						break
					}
				}
				if len(out) > 0 {
					return out
				}
			}
		}
	}

	popular, err := e.products.Popular(ctx, nItems+1, e.params.MinRating)
	if err != nil {
		log.Printf("[engine] fallback: popularidad no disponible: %v", err)
		return []string{}
	}
	out := make([]string, 0, nItems)
	for _, p := range popular {
		if rctx != nil && p.ID == rctx.CurrentProductID {
			continue
		}
		out = append(out, p.ID)
		if len(out) >= nItems {
			break
		}
	}
	return out
}

// normalizeScores lleva los scores de una estrategia a [0,1] con min-max.
// Si todos los valores son iguales, los no-cero van a 1.0 y los cero a 0.0
// (evita la división por cero y conserva la señal binaria).
func normalizeScores(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	first := true
	var min, max float64
	for _, v := range scores {
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		for k, v := range scores {
			if v > 0 {
				out[k] = 1.0
			} else {
				out[k] = 0.0
			}
		}
		return out
	}

	for k, v := range scores {
		out[k] = (v - min) / (max - min)
	}
	return out
}

func unionDedup(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
