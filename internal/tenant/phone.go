// AngelaMos | 2026
// phone.go

package tenant

import (
	"fmt"
	"strings"

	"github.com/kostapp/kost-api/internal/core"
)

const (
	phoneMinDigits = 10
	phoneMaxDigits = 15
)

var phoneStripper = strings.NewReplacer(
	" ", "",
	"-", "",
	".", "",
	"(", "",
	")", "",
	"+", "",
)

// NormalizePhone strips common formatting characters and validates that
// the remainder is 10 to 15 digits. The normalized form is what gets
// stored.
func NormalizePhone(raw string) (string, error) {
	stripped := phoneStripper.Replace(strings.TrimSpace(raw))
	if stripped == "" {
		return "", fmt.Errorf("phone is required: %w", core.ErrInvalidInput)
	}

	for _, r := range stripped {
		if r < '0' || r > '9' {
			return "", fmt.Errorf(
				"phone must contain only digits: %w", core.ErrInvalidInput)
		}
	}
	if len(stripped) < phoneMinDigits || len(stripped) > phoneMaxDigits {
		return "", fmt.Errorf(
			"phone must be %d to %d digits: %w",
			phoneMinDigits, phoneMaxDigits, core.ErrInvalidInput)
	}
	return stripped, nil
}
