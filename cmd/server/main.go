package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"tiptrack/internal/clock"
	"tiptrack/internal/config"
	"tiptrack/internal/db"
	"tiptrack/internal/domain/employer"
	"tiptrack/internal/domain/profile"
	"tiptrack/internal/domain/shift"
	"tiptrack/internal/domain/stats"
	employershandler "tiptrack/internal/transport/http/handlers/employers"
	profilehandler "tiptrack/internal/transport/http/handlers/profile"
	shiftshandler "tiptrack/internal/transport/http/handlers/shifts"
	statshandler "tiptrack/internal/transport/http/handlers/stats"
	"tiptrack/internal/transport/http/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("bad APP_TIMEZONE %q: %v", cfg.Timezone, err)
	}
	clk := clock.System{Location: location}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	employerStore := employer.NewStore(pool)
	profileStore := profile.NewStore(pool)
	shiftStore := shift.NewStore(pool)
	statsStore := stats.NewStore(pool)

	shiftService := shift.NewService(shiftStore, employerStore, profileStore, clk)
	employerService := employer.NewService(employerStore)
	statsService := stats.NewService(statsStore, profileStore, clk)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		shiftshandler.NewHandler(shiftService, profileStore).RegisterRoutes(r)
		employershandler.NewHandler(employerService).RegisterRoutes(r)
		profilehandler.NewHandler(profileStore).RegisterRoutes(r)
		statshandler.NewHandler(statsService).RegisterRoutes(r)
	})

	log.Printf("tiptrack server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
