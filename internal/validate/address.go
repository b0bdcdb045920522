package validate

import (
	"strings"

	"github.com/sells-group/dataquality-cli/internal/model"
)

const (
	addressMinLength = 10
	addressMaxLength = 100
)

// addressPlaceholders disqualify an address only when a whole
// whitespace-delimited token matches.
var addressPlaceholders = map[string]bool{
	"TEST": true, "TESTING": true, "DEMO": true, "SAMPLE": true,
	"EXAMPLE": true, "DUMMY": true, "PLACEHOLDER": true, "TEMP": true,
	"TEMPORARY": true, "UNKNOWN": true, "NA": true, "N/A": true,
	"NONE": true, "NOTAVAILABLE": true, "ADMIN": true, "USER": true,
	"USERNAME": true, "DEFAULT": true, "SYSTEM": true,
}

// Address validates an address line. The city and region parameters keep
// the signature symmetric with the record pipeline; they do not currently
// affect the verdict.
func Address(address, city, region string) model.FieldVerdict {
	_ = city
	_ = region

	if strings.TrimSpace(address) == "" {
		return model.Invalid("Address cannot be empty")
	}

	trimmed := strings.ToUpper(strings.TrimSpace(address))
	length := len([]rune(trimmed))

	if length < addressMinLength {
		return model.Invalid("Address too short (minimum 10 characters)")
	}
	if length > addressMaxLength {
		return model.Invalid("Address too long (maximum 100 characters)")
	}

	if strings.ContainsAny(trimmed, "!?%") {
		return model.Invalid("Address contains invalid characters (!, ?, % are not allowed)")
	}

	for _, word := range strings.Fields(trimmed) {
		if addressPlaceholders[word] {
			return model.Invalid("Address contains placeholder word: " + word)
		}
	}

	if hasSequentialRun(trimmed) {
		return model.Invalid("Address contains sequential character patterns")
	}

	return model.Valid()
}
