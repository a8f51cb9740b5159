package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/sawirah/municipality-web/internal/auth"
	"github.com/sawirah/municipality-web/internal/config" // Internal config loader
	"github.com/sawirah/municipality-web/internal/database"
	"github.com/sawirah/municipality-web/internal/handler"
	"github.com/sawirah/municipality-web/internal/queue"
	"github.com/sawirah/municipality-web/internal/repository"
	"github.com/sawirah/municipality-web/internal/router" // Internal router setup
	"github.com/sawirah/municipality-web/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the login/refresh rate limiter. nil disables limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}

	// Background consumer that appends security events to logs/audit.log.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	sessions := auth.NewIssuer(cfg, users, tokens, service.NewAuditPublisher())

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, sessions, users), cfg, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
