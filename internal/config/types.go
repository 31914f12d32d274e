package config

import "path/filepath"

// Cache key strategies
const (
	KeyStrategyCount   = "count"
	KeyStrategySymbols = "symbols"
)

// DefaultCacheDir is where cache files live unless configured otherwise.
var DefaultCacheDir = filepath.Join("data", "stock data")

// ValidKeyStrategies lists the accepted cache.key_strategy values
var ValidKeyStrategies = map[string]bool{
	KeyStrategyCount:   true,
	KeyStrategySymbols: true,
}

// ValidFeeds lists the Alpaca stock data feeds
var ValidFeeds = map[string]bool{
	"iex":   true,
	"sip":   true,
	"otc":   true,
	"boats": true,
}

// ValidPriorities lists the ntfy message priorities
var ValidPriorities = map[string]bool{
	"min":     true,
	"low":     true,
	"default": true,
	"high":    true,
	"urgent":  true,
}
