// Package services holds the mutation orchestrator and the
// query/projection layer. Entities are only ever created and mutated
// through these services; callers never write to the store directly.
package services

import (
	"time"
)

// Fixed-width UTC timestamp used for patch fields so every backend
// stores comparable values.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func nowISO() string {
	return time.Now().UTC().Format(timeLayout)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
