package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dgnsrekt/barcache/internal/bars"
)

// InvalidRequest represents a warm request that cannot be loaded
type InvalidRequest struct {
	Index  int
	Reason string
}

// ValidationErrors collects all validation errors
type ValidationErrors struct {
	InvalidKeyStrategy string
	InvalidFeed        string
	InvalidRequests    []InvalidRequest
}

// HasErrors returns true if any validation errors exist
func (e *ValidationErrors) HasErrors() bool {
	return e.InvalidKeyStrategy != "" || e.InvalidFeed != "" || len(e.InvalidRequests) > 0
}

// Error formats all validation errors into a clear message
func (e *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")

	if e.InvalidKeyStrategy != "" {
		sb.WriteString(fmt.Sprintf("\nInvalid cache key strategy: %s\n", e.InvalidKeyStrategy))
		sb.WriteString(fmt.Sprintf("Valid strategies: %s\n", sortedKeys(ValidKeyStrategies)))
	}

	if e.InvalidFeed != "" {
		sb.WriteString(fmt.Sprintf("\nInvalid feed: %s\n", e.InvalidFeed))
		sb.WriteString(fmt.Sprintf("Valid feeds: %s\n", sortedKeys(ValidFeeds)))
	}

	if len(e.InvalidRequests) > 0 {
		sb.WriteString("\nInvalid warm requests:\n")
		for _, r := range e.InvalidRequests {
			sb.WriteString(fmt.Sprintf("  - requests[%d]: %s\n", r.Index, r.Reason))
		}
	}

	return sb.String()
}

// ValidateSettings validates the feed, key strategy and every warm request.
// An empty feed leaves the choice to the API.
func ValidateSettings(api APIConfig, cache CacheConfig, requests []WarmRequest) error {
	errs := &ValidationErrors{}

	if api.Feed != "" && !ValidFeeds[api.Feed] {
		errs.InvalidFeed = api.Feed
	}

	if !ValidKeyStrategies[cache.KeyStrategy] {
		errs.InvalidKeyStrategy = cache.KeyStrategy
	}

	for i, r := range requests {
		if _, err := r.Request(); err != nil {
			errs.InvalidRequests = append(errs.InvalidRequests, InvalidRequest{Index: i, Reason: err.Error()})
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Request converts a configured warm entry into a bar request
func (w WarmRequest) Request() (bars.Request, error) {
	tf, err := bars.ParseTimeFrame(w.TimeFrame)
	if err != nil {
		return bars.Request{}, err
	}
	req := bars.Request{Tickers: w.Tickers, Years: w.Years, TimeFrame: tf}
	if err := req.Validate(); err != nil {
		return bars.Request{}, err
	}
	return req, nil
}

func sortedKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
