package validate

import (
	"regexp"
	"strings"

	"github.com/sells-group/dataquality-cli/internal/model"
)

const (
	nameMinLength = 5
	nameMaxLength = 200
)

// namePlaceholders are throwaway values that disqualify a name whether
// they appear as the whole name or as a substring.
var namePlaceholders = []string{
	"TEST", "TESTING", "DEMO", "SAMPLE", "EXAMPLE", "DUMMY", "PLACEHOLDER",
	"TEMP", "TEMPORARY", "UNKNOWN", "NA", "N/A", "NONE", "NOTAVAILABLE",
	"ADMIN", "USER", "USERNAME", "DEFAULT", "SYSTEM", "IDLE",
}

// Letters in any script, combining marks, and spaces; no digits or
// punctuation.
var allowedNameChars = regexp.MustCompile(`^[\p{L}\p{M} ]+$`)

// Name validates a customer name. Checks run in order; the first failing
// rule wins.
func Name(name string) model.FieldVerdict {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.Invalid("Name cannot be null or empty")
	}
	if name != trimmed {
		return model.Invalid("Name cannot have leading or trailing spaces")
	}

	if len([]rune(trimmed)) < nameMinLength {
		return model.Invalid("Name too short (min 5 characters)")
	}
	if len([]rune(trimmed)) > nameMaxLength {
		return model.Invalid("Name too long (max 200 characters)")
	}

	if !allowedNameChars.MatchString(trimmed) {
		return model.Invalid("Name contains special characters")
	}

	upper := strings.ToUpper(trimmed)
	for _, p := range namePlaceholders {
		if upper == p {
			return model.Invalid("Name contains common placeholder names (exact match)")
		}
	}
	for _, p := range namePlaceholders {
		if strings.Contains(upper, p) {
			return model.Invalid("Name contains common placeholder names (as substring)")
		}
	}

	if hasSequentialRun(trimmed) {
		return model.Invalid("Name contains sequential patterns")
	}

	return model.Valid()
}
