package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/HoaiNhu/RCM-System/internal/config"
	"github.com/HoaiNhu/RCM-System/internal/db"
	"github.com/HoaiNhu/RCM-System/internal/recommender"
	"github.com/HoaiNhu/RCM-System/internal/repository"
)

// Entrenador offline: entrena el modelo contra Mongo, lo persiste en el
// artefacto de disco y reporta precision/recall/F1. Pensado para correr
// por cron o a mano, sin levantar el API.
func main() {
	force := flag.Bool("force", true, "reentrena aunque ya haya un modelo en disco")
	skipEval := flag.Bool("skip-eval", false, "no correr la evaluación al final")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("[trainer] no se pudo conectar a Mongo: %v", err)
	}

	productRepo := repository.NewProductRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	ratingRepo := repository.NewRatingRepository(database)
	searchRepo := repository.NewSearchHistoryRepository(database)
	metaRepo := repository.NewModelMetadataRepository(database)

	aggregator := recommender.NewAggregator(orderRepo, ratingRepo, searchRepo)
	latent := recommender.NewLatentStrategy(aggregator, metaRepo, cfg.ModelPath, cfg.NComponents, cfg.MaxIter)
	content := recommender.NewContentStrategy(productRepo, searchRepo, cfg.MaxFeatures, cfg.MinRating)
	engine := recommender.NewEngine(latent, content, productRepo, orderRepo, ratingRepo, recommender.NewRulesEngine(), recommender.Params{
		CFWeight:       cfg.CFWeight,
		ContentWeight:  cfg.ContentWeight,
		ConsensusBoost: cfg.ConsensusBoost,
		MinRating:      cfg.MinRating,
		DefaultNItems:  cfg.DefaultNItems,
		TestRatio:      cfg.TestRatio,
		EvalTopK:       cfg.EvalTopK,
	})

	start := time.Now()
	trained := engine.Train(ctx, *force)
	log.Printf("[trainer] entrenamiento terminado en %s (trained=%v, artefacto=%s)", time.Since(start), trained, cfg.ModelPath)

	if *skipEval {
		return
	}

	m := engine.Evaluate(ctx)
	log.Printf("[trainer] precision=%.4f recall=%.4f f1=%.4f", m.Precision, m.Recall, m.F1)
}
