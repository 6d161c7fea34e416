package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/HoaiNhu/RCM-System/docs" // swagger docs

	"github.com/HoaiNhu/RCM-System/internal/cache"
	"github.com/HoaiNhu/RCM-System/internal/config"
	"github.com/HoaiNhu/RCM-System/internal/db"
	"github.com/HoaiNhu/RCM-System/internal/handler"
	"github.com/HoaiNhu/RCM-System/internal/recommender"
	"github.com/HoaiNhu/RCM-System/internal/repository"
	"github.com/HoaiNhu/RCM-System/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title RCM-System Hybrid Recommender API
// @version 1.0
// @description Motor híbrido de recomendaciones (NMF + TF-IDF, Mongo, Redis)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("[main] no se pudo conectar a Mongo: %v", err)
	}
	redisCache := cache.New(cfg)

	// repos
	userRepo := repository.NewUserRepository(database)
	productRepo := repository.NewProductRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	ratingRepo := repository.NewRatingRepository(database)
	searchRepo := repository.NewSearchHistoryRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	quizRespRepo := repository.NewQuizResponseRepository(database)
	recRepo := repository.NewRecommendationRepository(database)
	metaRepo := repository.NewModelMetadataRepository(database)

	// motor híbrido
	aggregator := recommender.NewAggregator(orderRepo, ratingRepo, searchRepo)
	latent := recommender.NewLatentStrategy(aggregator, metaRepo, cfg.ModelPath, cfg.NComponents, cfg.MaxIter)
	content := recommender.NewContentStrategy(productRepo, searchRepo, cfg.MaxFeatures, cfg.MinRating)
	rules := recommender.NewRulesEngine()
	engine := recommender.NewEngine(latent, content, productRepo, orderRepo, ratingRepo, rules, recommender.Params{
		CFWeight:       cfg.CFWeight,
		ContentWeight:  cfg.ContentWeight,
		ConsensusBoost: cfg.ConsensusBoost,
		MinRating:      cfg.MinRating,
		DefaultNItems:  cfg.DefaultNItems,
		TestRatio:      cfg.TestRatio,
		EvalTopK:       cfg.EvalTopK,
	})

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	recSvc := service.NewRecommendService(engine, redisCache, recRepo, cfg.CacheTTL)
	popularSvc := service.NewPopularService(productRepo, cfg.MinRating)
	quizSvc := service.NewQuizService(productRepo, quizRepo, quizRespRepo, popularSvc, cfg.MinRating, cfg.QuizKeywordsPath)
	worker := service.NewTrainWorker(engine)

	// entrenamiento inicial en background: el API arranca enseguida y
	// sirve con fallback hasta que el modelo esté listo
	worker.TrainAsync(false)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	recH := handler.NewRecommendHandler(recSvc, popularSvc, quizSvc)
	modelH := handler.NewModelHandler(recSvc, worker)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/api/auth/register", authH.Register)
	r.Post("/api/auth/login", authH.Login)

	r.Post("/api/recommend", recH.PostRecommend)
	r.Post("/api/recommend/popular", recH.PostPopular)
	r.Post("/api/recommend/quiz", recH.PostQuiz)
	r.Get("/api/users/{id}/recommendations", recH.GetLastServed)
	r.Get("/api/users/{id}/ws/recommendations", recH.GetRecommendationsWS)

	// ===========================
	// Rutas protegidas (solo admin)
	// ===========================
	r.Group(func(r chi.Router) {
		r.Use(handler.JWTAuth(cfg.JWTSecret))
		r.Use(handler.AdminOnly())

		r.Post("/api/model/train", modelH.PostTrain)
		r.Post("/api/model/update", modelH.PostUpdate)
		r.Get("/api/model/evaluate", modelH.GetEvaluate)
		r.Get("/api/model/status", modelH.GetStatus)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
