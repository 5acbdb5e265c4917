package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	webAdapter "resale-office/internal/adapters/web"
	"resale-office/internal/ai"
	"resale-office/internal/app"
	"resale-office/internal/core"
	"resale-office/internal/db"
	"resale-office/internal/marketplace"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	inventoryService := core.NewInventoryService(pool)
	salesService := core.NewSalesService(pool)
	expenseService := core.NewExpenseService(pool)
	reportingService := core.NewReportingService(pool)
	userService := core.NewUserService(pool)

	var agent ai.AgentService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		agent = ai.NewAgent(apiKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set — listing suggestions disabled")
	}

	var market marketplace.Client
	if baseURL := os.Getenv("MARKETPLACE_BASE_URL"); baseURL != "" {
		httpClient := &http.Client{Timeout: 30 * time.Second}
		tokens := marketplace.NewTokenManager(httpClient,
			os.Getenv("MARKETPLACE_TOKEN_URL"),
			os.Getenv("MARKETPLACE_CLIENT_ID"),
			os.Getenv("MARKETPLACE_CLIENT_SECRET"))
		market = marketplace.NewClient(httpClient, baseURL, tokens)
	} else {
		log.Println("Warning: MARKETPLACE_BASE_URL is not set — marketplace sync disabled")
	}

	svc := app.NewAppService(inventoryService, salesService, expenseService,
		reportingService, userService, agent, market)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
