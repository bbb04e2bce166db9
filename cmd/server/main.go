package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"selecionei-client/api"
	"selecionei-client/config"
	"selecionei-client/handlers"
	"selecionei-client/service"
	"selecionei-client/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize session storage
	sessionStorage, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer sessionStorage.Close()
	log.Printf("Session storage initialized (%s)", cfg.Storage.Type)

	// Initialize backend client
	client := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.APITimeout))
	checkBackend(ctx, client)

	// Initialize controller
	cues := handlers.NewViewCues()
	app := service.NewApp(
		service.WithBackend(client),
		service.WithSessionStore(service.NewSessionStore(sessionStorage)),
		service.WithOpener(cues),
		service.WithScroller(cues),
		service.WithBaseURL(cfg.BaseURL),
	)
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer app.Close()

	appHandler := handlers.NewAppHandler(app, cues)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	appHandler.Routes(r.Group("/app"))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: Server shutdown: %v", err)
	}
}

// checkBackend logs whether the analysis backend answers. The client keeps
// running when it does not; every call surfaces its own connection error.
func checkBackend(ctx context.Context, client *api.Client) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		log.Printf("Warning: Backend health check failed: %v", err)
		return
	}
	log.Println("Backend reachable")
}
