package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/model"
	"github.com/sells-group/dataquality-cli/internal/refdata"
	"github.com/sells-group/dataquality-cli/internal/store"
)

const postalFallbackMaxLen = 10

var allDigits = regexp.MustCompile(`^\d+$`)

// PostalValidator checks postal codes against the per-country format
// table, consulting the reference store when the postal is absent.
type PostalValidator struct {
	Ref       store.ReferenceStore
	Countries refdata.CountryTable
	Rules     refdata.PostalRuleTable
}

// Validate classifies a postal code. The country code is normalized
// through the alias table before any lookup, so "USA" and "US" follow
// the same rule.
func (v *PostalValidator) Validate(ctx context.Context, country, region, postal string) model.FieldVerdict {
	if strings.TrimSpace(country) == "" {
		return model.Invalid("Country code cannot be empty")
	}

	canon := v.Countries.Canonical(country)
	reg := strings.ToUpper(strings.TrimSpace(region))
	code := strings.TrimSpace(postal)

	// Absent postal: the reference table decides whether one is required.
	if code == "" {
		required, err := v.Ref.PostalRequired(ctx, canon, reg)
		if err != nil {
			zap.L().Warn("postal: reference lookup failed", zap.String("country", canon), zap.Error(err))
			return model.Invalid(fmt.Sprintf("Postal lookup failure for country '%s'", canon))
		}
		if required == nil || !*required {
			return model.Valid()
		}
		reason := fmt.Sprintf("Postal code is mandatory for %s", canon)
		if reg != "" {
			reason += " - region " + reg
		}
		return model.Invalid(reason)
	}

	if rule, ok := v.Rules.Lookup(canon); ok {
		if !rule.Pattern.MatchString(code) {
			return model.Invalid(fmt.Sprintf("Invalid postal code for %s. Expected format like: %s", canon, rule.Example))
		}
		return model.Valid()
	}

	// No format on file: fall back to all-digits with a length cap.
	if !allDigits.MatchString(code) {
		return model.Invalid(fmt.Sprintf("Postal code must be numeric for %s", canon))
	}
	if len(code) > postalFallbackMaxLen {
		return model.Invalid(fmt.Sprintf("Postal code too long for %s (max 10 digits)", canon))
	}

	return model.Valid()
}
