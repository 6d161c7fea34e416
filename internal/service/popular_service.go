package service

import (
	"context"
	"log"

	"github.com/HoaiNhu/RCM-System/internal/recommender"
	"github.com/HoaiNhu/RCM-System/internal/repository"
)

// PopularService resuelve "los más vendidos": primero dentro de la
// categoría pedida, después el catálogo completo, y si el piso de rating
// deja la lista vacía lo relaja a 0.
type PopularService struct {
	products  *repository.ProductRepository
	minRating float64
}

func NewPopularService(products *repository.ProductRepository, minRating float64) *PopularService {
	return &PopularService{products: products, minRating: minRating}
}

func (s *PopularService) Popular(ctx context.Context, categoryID string, n int) []string {
	if n <= 0 {
		n = DefaultNItems
	} else if n > MaxNItems {
		n = MaxNItems
	}

	if categoryID != "" {
		prods, err := s.products.ByCategory(ctx, categoryID, n)
		if err != nil {
			log.Printf("[popular] error consultando categoría %s: %v", categoryID, err)
		} else if len(prods) > 0 {
			return ids(prods)
		}
	}

	prods, err := s.products.Popular(ctx, n, s.minRating)
	if err != nil {
		log.Printf("[popular] error consultando populares: %v", err)
		return []string{}
	}
	if len(prods) == 0 && s.minRating > 0 {
		// catálogo chico o sin ratings todavía: soltamos el piso
		prods, err = s.products.Popular(ctx, n, 0)
		if err != nil {
			log.Printf("[popular] error consultando populares sin piso: %v", err)
			return []string{}
		}
	}
	return ids(prods)
}

func ids(prods []recommender.Product) []string {
	out := make([]string, 0, len(prods))
	for _, p := range prods {
		out = append(out, p.ID)
	}
	return out
}
