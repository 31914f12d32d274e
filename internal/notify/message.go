package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/barcache/internal/warmup"
)

const maxListedErrors = 3

func FormatSuccessMessage(result *warmup.BatchResult, duration time.Duration) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Requests: %d\n", result.Total)
	fmt.Fprintf(&sb, "Fetched: %d\n", result.Fetched)
	fmt.Fprintf(&sb, "Cached: %d\n", result.Cached)
	if result.Duplicates > 0 {
		fmt.Fprintf(&sb, "Duplicates: %d\n", result.Duplicates)
	}
	fmt.Fprintf(&sb, "Duration: %s", duration.Round(time.Second))

	return sb.String()
}

func FormatFailureMessage(result *warmup.BatchResult, duration time.Duration, err error) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Requests: %d\n", result.Total)
	fmt.Fprintf(&sb, "Fetched: %d\n", result.Fetched)
	fmt.Fprintf(&sb, "Cached: %d\n", result.Cached)
	fmt.Fprintf(&sb, "Failed: %d\n", result.Failed)
	fmt.Fprintf(&sb, "Duration: %s", duration.Round(time.Second))

	if err != nil {
		fmt.Fprintf(&sb, "\n\nError: %v", err)
	}

	if len(result.Errors) > 0 {
		sb.WriteString("\n\nErrors:\n")
		for i, e := range result.Errors {
			if i == maxListedErrors {
				fmt.Fprintf(&sb, "... and %d more", len(result.Errors)-maxListedErrors)
				break
			}
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}

	return sb.String()
}
