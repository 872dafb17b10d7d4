package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Title length bounds, in characters, after trimming surrounding whitespace.
const (
	MinTitleLen = 2
	MaxTitleLen = 30
)

// ValidateTitle checks the title length constraint.
// The title itself is submitted as typed; only its trimmed length is checked.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < MinTitleLen || n > MaxTitleLen {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must be between %d and %d characters", MinTitleLen, MaxTitleLen),
		}
	}
	return nil
}

// ValidateStatus checks that s is a known status.
func ValidateStatus(s Status) error {
	if !s.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
	}
	return nil
}

// NewTentativeID returns a provisional client-side id:
// unix milliseconds followed by a random suffix.
// The server may replace it on create.
func NewTentativeID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix[:11]
}
