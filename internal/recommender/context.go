package recommender

// Context es el contexto opcional de una petición de recomendación:
// producto que el usuario está viendo, su categoría, banda de precios
// y categorías favoritas derivadas de su historial.
type Context struct {
	CurrentProductID   string
	ViewedCategory     string
	PriceMin, PriceMax float64 // banda activa si PriceMax > 0
	FavoriteCategories []string
}

func (c *Context) inPriceRange(price float64) bool {
	if c == nil || c.PriceMax <= 0 {
		return false
	}
	return price >= c.PriceMin && price <= c.PriceMax
}

func (c *Context) isFavoriteCategory(category string) bool {
	if c == nil {
		return false
	}
	for _, f := range c.FavoriteCategories {
		if f == category {
			return true
		}
	}
	return false
}

// ReadinessState describe qué camino del motor puede atender una petición.
// Se recalcula en cada request, nunca se persiste.
type ReadinessState string

const (
	StateColdStart   ReadinessState = "cold_start"
	StateLatentOnly  ReadinessState = "latent_only"
	StateContentOnly ReadinessState = "content_only"
	StateHybrid      ReadinessState = "hybrid"
	StateDegraded    ReadinessState = "degraded"
)

// StrategyStatus es el estado expuesto por el endpoint de status.
type StrategyStatus struct {
	LatentReady  bool
	ContentReady bool
	HybridReady  bool
}
