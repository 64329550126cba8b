package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/ztrue/shutdown"

	"travelplanner/config"
	"travelplanner/handlers"
	"travelplanner/metrics"
	"travelplanner/services"
	"travelplanner/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	var gatherer prometheus.Gatherer
	if cfg.MetricsEnabled {
		gatherer = reg
	}

	services.InitPlanner(cfg, m)
	store := session.NewStore(cfg.SessionTTL, m)

	r, err := handlers.NewHandlers(services.GetPlannerClient(), store, cfg, gatherer).NewRouter()
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Travel Planner starting on port %s (planner API %s)", cfg.Port, cfg.PlannerAPIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	shutdown.AddWithParam(func(sig os.Signal) {
		log.Printf("🛑 Received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("❌ Shutdown error: %v", err)
			return
		}
		log.Println("✅ Shutdown complete")
	})
	shutdown.Listen(syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}
