package domain

import "github.com/google/uuid"

// generateID returns a random identifier for history records.
func generateID() string {
	return uuid.New().String()
}
