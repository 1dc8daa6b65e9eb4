package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/browsim/internal/shared/id"
)

// Size limits
const (
	MaxInputLength = 8 * 1024  // address bar text, in runes
	MaxIDLength    = 128       // tab and history entry IDs
	MaxMessageSize = 16 * 1024 // single WebSocket frame, in bytes
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Check for null bytes (security issue)
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	if !utf8.ValidString(value) {
		return fmt.Errorf("%s is not valid UTF-8", fieldName)
	}

	return nil
}

// ValidateInput checks address bar text. Blank text is allowed; the
// coordinator treats it as a no-op.
func ValidateInput(text string) error {
	return ValidateString(text, "text", 0, MaxInputLength, false)
}

// ValidateTabID parses a tab ID from a request
func ValidateTabID(raw string) (id.TabID, error) {
	if err := validateID(raw, "tab_id", id.TabPrefix); err != nil {
		return "", err
	}
	return id.TabID(raw), nil
}

// ValidateEntryID parses a history entry ID from a request. Only the size
// and content are checked: history loaded from older stores carries
// millisecond-timestamp IDs, and an unknown ID is the store's call.
func ValidateEntryID(raw string) (id.EntryID, error) {
	if err := ValidateString(raw, "entry_id", 1, MaxIDLength, true); err != nil {
		return "", err
	}
	return id.EntryID(raw), nil
}

func validateID(raw, fieldName, prefix string) error {
	if err := ValidateString(raw, fieldName, 1, MaxIDLength, true); err != nil {
		return err
	}
	if !strings.HasPrefix(raw, prefix+"_") || !id.IsValid(raw) {
		return fmt.Errorf("%s is not a valid %s ID", fieldName, prefix)
	}
	return nil
}

// ValidateMessageSize rejects oversized WebSocket frames
func ValidateMessageSize(data []byte) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("message size %d bytes exceeds maximum %d bytes", len(data), MaxMessageSize)
	}
	return nil
}
