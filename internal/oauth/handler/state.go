package handler

import "github.com/google/uuid"

// generateState returns a fresh opaque nonce for one consent redirect.
func generateState() string {
	return uuid.NewString()
}

// validateState compares the stored nonce against the one a callback
// presented. Exact string equality, no normalization; an empty stored or
// presented value never matches.
func validateState(stored, presented string) bool {
	return stored != "" && presented != "" && stored == presented
}
