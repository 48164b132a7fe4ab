package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/archlabs/design-arena/internal/config"
	"github.com/archlabs/design-arena/internal/database"
	"github.com/archlabs/design-arena/internal/handler"
	"github.com/archlabs/design-arena/internal/middleware"
	"github.com/archlabs/design-arena/internal/queue"
	"github.com/archlabs/design-arena/internal/repository"
	"github.com/archlabs/design-arena/internal/router"
	"github.com/archlabs/design-arena/internal/service"
)

func main() {
	// Local development reads .env; in production the variables come
	// from the environment and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single pooled handle.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	scenarios := repository.NewScenarioRepo(db)
	designs := repository.NewDesignRepo(db)
	feedback := repository.NewFeedbackRepo(db)

	designSvc := service.NewDesignService(designs, feedback, scenarios, service.NewAmqpPublisher())

	authH := handler.NewAuthHandler(cfg, users, tokens)
	scenarioH := handler.NewScenarioHandler(scenarios)
	designH := handler.NewDesignHandler(designSvc)
	feedbackH := handler.NewFeedbackHandler(designSvc)

	e := echo.New()
	e.HideBanner = true

	// Redis backs the rate limiter and the scenario response cache.
	// Both degrade to pass-throughs when the client is nil, so a dead
	// Redis never takes the API down with it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterUser(e, designH, feedbackH, scenarioH, cfg.JWTSecret, cacheMW)
	router.RegisterAdmin(e, scenarioH, feedbackH, cfg.JWTSecret)

	// Background consumer keeps its own broker connection and retries
	// forever; a missing broker only costs the review activity log.
	go func() {
		if err := queue.StartReviewConsumer(); err != nil {
			log.Printf("review consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
