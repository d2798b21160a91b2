package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"coin-dca/internal/data"
)

func main() {
	var (
		vsCurrency = flag.String("vs-currency", "usd", "Quote currency for the market listing")
		perPage    = flag.Int("per-page", 100, "Number of coins to fetch (by market cap)")
		outputPath = flag.String("output", "", "Output file path (default: ./data/coins.json)")
	)
	flag.Parse()

	// The public listing works without a key; a demo key raises the rate limit.
	apiKey := os.Getenv("COINGECKO_API_KEY")

	if *outputPath == "" {
		*outputPath = data.GetDefaultCoinsPath()
	}

	client := data.NewCoinGeckoClient(apiKey, "")

	fmt.Printf("Fetching top %d coins by market cap (vs %s)...\n", *perPage, *vsCurrency)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	coins, err := client.CoinsMarkets(ctx, *vsCurrency, *perPage)
	if err != nil {
		log.Fatalf("Failed to fetch coins: %v", err)
	}

	fmt.Printf("Found %d coins\n", len(coins))

	list := &data.CoinList{
		UpdatedAt: time.Now().Format(time.RFC3339),
		Coins:     coins,
	}

	if err := data.SaveCoins(list, *outputPath); err != nil {
		log.Fatalf("Failed to save coins: %v", err)
	}

	fmt.Printf("Wrote %s\n", *outputPath)
}
