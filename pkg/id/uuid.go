package id

import (
	"strings"

	"github.com/google/uuid"
)

/**
 * @file: uuid.go
 * @description: user ids and invitation tokens
 */

// GetUUID generates a new UUID, used as the user id
func GetUUID() string {
	return uuid.NewString()
}

// GetUUIDWithoutDashes generates a new UUID without the dashes, used for invitation tokens
func GetUUIDWithoutDashes() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
