// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxFilterValueLength = 128
	MaxFileNameLength    = 255
)

var recordIDPattern = regexp.MustCompile(`^(admin|match|agent-miss|counterparty-miss)-\d+$`)

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateSessionID checks that a session id is a UUID as issued by the session store.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: session id is not a valid identifier", ErrValidationFailed)
	}
	return nil
}

// ValidateRecordID checks the shape of a paired record id, e.g. "match-12".
func ValidateRecordID(id string) error {
	if !recordIDPattern.MatchString(id) {
		return fmt.Errorf("%w: record id '%s' is not in the expected format", ErrValidationFailed, id)
	}
	return nil
}

// ValidateFileName rejects empty, overly long or path-like upload names.
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: file name cannot be empty", ErrValidationFailed)
	}
	if err := ValidateStringMaxLength(name, MaxFileNameLength, "file name"); err != nil {
		return err
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: file name must not contain path separators", ErrValidationFailed)
	}
	return nil
}
