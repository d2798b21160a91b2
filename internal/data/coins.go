package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Coin represents one entry of the coin catalog
type Coin struct {
	ID            string `json:"id"`     // CoinGecko coin id, e.g. "bitcoin"
	Symbol        string `json:"symbol"` // e.g. "btc"
	Name          string `json:"name"`
	MarketCapRank int    `json:"market_cap_rank,omitempty"`
}

// CoinList represents a collection of coins
type CoinList struct {
	UpdatedAt string `json:"updated_at"` // ISO 8601 timestamp
	Coins     []Coin `json:"coins"`
}

// LoadCoins loads the coin catalog from a JSON file
func LoadCoins(filePath string) (*CoinList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read coins file: %w", err)
	}

	var list CoinList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse coins file: %w", err)
	}

	return &list, nil
}

// SaveCoins saves the coin catalog to a JSON file
func SaveCoins(list *CoinList, filePath string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal coins: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write coins file: %w", err)
	}

	return nil
}

// GetDefaultCoinsPath returns the default path for the coins file
func GetDefaultCoinsPath() string {
	if path := os.Getenv("COINS_FILE"); path != "" {
		return path
	}
	return "./data/coins.json"
}

// DefaultCoins is the built-in fallback catalog used when no coins file has
// been generated yet (see cmd/update-coins).
func DefaultCoins() []Coin {
	return []Coin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", MarketCapRank: 2},
		{ID: "tether", Symbol: "usdt", Name: "Tether", MarketCapRank: 3},
		{ID: "binancecoin", Symbol: "bnb", Name: "BNB", MarketCapRank: 4},
		{ID: "solana", Symbol: "sol", Name: "Solana", MarketCapRank: 5},
		{ID: "ripple", Symbol: "xrp", Name: "XRP", MarketCapRank: 6},
		{ID: "cardano", Symbol: "ada", Name: "Cardano", MarketCapRank: 7},
		{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin", MarketCapRank: 8},
	}
}
