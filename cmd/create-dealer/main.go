package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/izerwaren/dealerapi/internal/config"
	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 5 {
		fmt.Println("Usage: go run cmd/create-dealer/main.go <dealer-name> <api-key> <tier> <tier-discount-percent>")
		fmt.Println("Example: go run cmd/create-dealer/main.go \"Harbor Marine Supply\" \"harbor-api-key-12345\" gold 12.5")
		os.Exit(1)
	}

	dealerName := os.Args[1]
	apiKey := os.Args[2]
	tier := os.Args[3]

	discount, err := decimal.NewFromString(os.Args[4])
	if err != nil || discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		fmt.Fprintf(os.Stderr, "Tier discount must be a number between 0 and 100, got %q\n", os.Args[4])
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	apiKeyHash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash API key: %v\n", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(db, logger)

	dealer := &domain.Dealer{
		Name:                dealerName,
		APIKeyHash:          string(apiKeyHash),
		Tier:                tier,
		TierDiscountPercent: discount,
		IsActive:            true,
	}

	if err := repos.Dealer.Create(context.Background(), dealer); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create dealer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Dealer created\n\n")
	fmt.Printf("Dealer ID: %s\n", dealer.ID.String())
	fmt.Printf("Dealer Name: %s\n", dealer.Name)
	fmt.Printf("Tier: %s (%s%% off list)\n", dealer.Tier, dealer.TierDiscountPercent.String())
	fmt.Printf("API Key: %s\n", apiKey)
	fmt.Printf("\nIMPORTANT: store this API key securely, it cannot be shown again.\n")
	fmt.Printf("\nUse it in the Authorization header:\n")
	fmt.Printf("Authorization: Bearer %s\n", apiKey)
}
