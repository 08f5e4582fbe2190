package domain

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "rsu/pkg/domain-errors"
)

// RSUID is the registry's public beneficiary identifier: RSU-<year>-<8 hex>.
// Invariant: matches rsuIDPattern. Construct with NewRSUID or ParseRSUID.
type RSUID string

var rsuIDPattern = regexp.MustCompile(`^RSU-\d{4}-[0-9A-F]{8}$`)

// NewRSUID generates an identifier stamped with the registration year.
// Uniqueness is enforced by the store; callers retry on collision.
func NewRSUID(registeredAt time.Time) RSUID {
	u := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(u[:4]))
	return RSUID(fmt.Sprintf("RSU-%04d-%s", registeredAt.Year(), suffix))
}

// ParseRSUID validates an identifier from external input. Lowercase input is
// normalized to uppercase.
func ParseRSUID(s string) (RSUID, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "rsu_id is required")
	}
	if !rsuIDPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid rsu_id")
	}
	return RSUID(s), nil
}

func (r RSUID) String() string {
	return string(r)
}
