package service

import (
	"context"
	"fmt"
	"log"

	"github.com/HoaiNhu/RCM-System/internal/cache"
	"github.com/HoaiNhu/RCM-System/internal/models"
	"github.com/HoaiNhu/RCM-System/internal/recommender"
	"github.com/HoaiNhu/RCM-System/internal/repository"
)

const (
	DefaultNItems = 5
	MaxNItems     = 50 // por seguridad, no deja pedir 1000 ítems
)

// RecommendService coordina el motor híbrido con el cache Redis y la fila
// persistida por usuario. El motor nunca falla hacia afuera: lo único que
// puede devolver esta capa es una lista (posiblemente vacía).
type RecommendService struct {
	engine  *recommender.Engine
	cache   *cache.Cache
	recRepo *repository.RecommendationRepository
	ttl     int // segundos
}

func NewRecommendService(
	engine *recommender.Engine,
	c *cache.Cache,
	recRepo *repository.RecommendationRepository,
	ttlSeconds int,
) *RecommendService {
	return &RecommendService{
		engine:  engine,
		cache:   c,
		recRepo: recRepo,
		ttl:     ttlSeconds,
	}
}

type RecRequest struct {
	UserID    string
	ProductID string // producto en contexto (opcional)
	NItems    int
	Refresh   bool // si true, ignora el cache
}

func cacheKey(req RecRequest) string {
	pid := req.ProductID
	if pid == "" {
		pid = "none"
	}
	return fmt.Sprintf("hybrid_rec:%s:%s:%d", req.UserID, pid, req.NItems)
}

// Recommend devuelve la lista final y la fuente que la produjo
// (cache | hybrid | collaborative_filtering | content_based | fallback).
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) ([]string, string) {
	// defaults y límites para n
	if req.NItems <= 0 {
		req.NItems = DefaultNItems
	} else if req.NItems > MaxNItems {
		req.NItems = MaxNItems
	}

	// 1) Cache Redis (solo si refresh = false)
	if !req.Refresh {
		var cached []string
		if ok, err := s.cache.GetJSON(ctx, cacheKey(req), &cached); err == nil && ok {
			return cached, "cache"
		}
	}

	var rctx *recommender.Context
	if req.ProductID != "" {
		rctx = &recommender.Context{CurrentProductID: req.ProductID}
	}

	// 2) Motor híbrido (degrada solo, nunca lanza)
	items := s.engine.Recommend(ctx, req.UserID, req.NItems, rctx)
	source := s.sourceLabel()

	// 3) Persistir la fila por usuario (si falla no rompemos la respuesta)
	if s.recRepo != nil && len(items) > 0 {
		if err := s.recRepo.Upsert(ctx, req.UserID, items, source); err != nil {
			log.Printf("[recommend] error guardando recomendación en Mongo: %v", err)
		}
	}

	// 4) Cachear en Redis
	if len(items) > 0 {
		if err := s.cache.SetJSON(ctx, cacheKey(req), items, s.ttl); err != nil {
			log.Printf("[recommend] error cacheando en Redis: %v", err)
		}
	}

	return items, source
}

func (s *RecommendService) sourceLabel() string {
	st := s.engine.Status()
	switch {
	case st.LatentReady && st.ContentReady:
		return "hybrid"
	case st.LatentReady:
		return "collaborative_filtering"
	case st.ContentReady:
		return "content_based"
	default:
		return "fallback"
	}
}

// LastServed devuelve la última fila persistida para el usuario, o nil si
// nunca se le sirvió una recomendación.
func (s *RecommendService) LastServed(ctx context.Context, userID string) (*models.RecommendationDoc, error) {
	if s.recRepo == nil {
		return nil, nil
	}
	return s.recRepo.FindByUser(ctx, userID)
}

func (s *RecommendService) Status() recommender.StrategyStatus {
	return s.engine.Status()
}

func (s *RecommendService) State(userID string) recommender.ReadinessState {
	return s.engine.State(userID)
}

func (s *RecommendService) Evaluate(ctx context.Context) recommender.Metrics {
	return s.engine.Evaluate(ctx)
}
