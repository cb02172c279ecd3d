package utils

import (
	"regexp"
	"strconv"

	"github.com/mwangi/biasharabot/backend/internal/domain/errors"
)

var (
	// UUIDRegex validates UUID strings
	UUIDRegex = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)

	// ULIDRegex validates ULID strings (Crockford base32, 26 chars)
	ULIDRegex = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

	// DateRegex validates ISO 8601 date strings (YYYY-MM-DD)
	DateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidateUUID validates a UUID string
func ValidateUUID(id string) error {
	if !UUIDRegex.MatchString(id) {
		return errors.NewValidationError("invalid UUID format")
	}
	return nil
}

// ValidateISODate validates an ISO 8601 date string (YYYY-MM-DD)
func ValidateISODate(date string) error {
	if !DateRegex.MatchString(date) {
		return errors.NewValidationError("date must be in YYYY-MM-DD format")
	}
	return nil
}

// ParsePositiveInt parses a query-string integer that must be positive
func ParsePositiveInt(value string, name string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, errors.NewValidationError(name + " must be a positive integer")
	}
	return n, nil
}
