package validate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/model"
	"github.com/sells-group/dataquality-cli/internal/store"
)

// RegionValidator checks region codes against the reference table.
type RegionValidator struct {
	Ref store.ReferenceStore
}

// Validate classifies a (country, region) pair. A reference lookup
// failure degrades to a generic reason; it never aborts the record.
func (v *RegionValidator) Validate(ctx context.Context, country, region string) model.FieldVerdict {
	ctry := strings.ToUpper(strings.TrimSpace(country))
	if ctry == "" {
		return model.Invalid("Country code cannot be null or empty")
	}
	if len(ctry) != 2 && len(ctry) != 3 {
		return model.Invalid(fmt.Sprintf("Invalid country code format '%s' (must be 2 or 3 characters)", ctry))
	}

	rows, err := v.Ref.CountryRows(ctx, ctry)
	if err != nil {
		zap.L().Warn("region: reference lookup failed", zap.String("country", ctry), zap.Error(err))
		return model.Invalid(fmt.Sprintf("Region lookup failure for country '%s'", ctry))
	}
	if len(rows) == 0 {
		return model.Invalid(fmt.Sprintf("Invalid country code '%s' (not found in reference table)", ctry))
	}

	requiresRegion := false
	for _, r := range rows {
		if r.RequiresRegion {
			requiresRegion = true
			break
		}
	}

	reg := strings.ToUpper(strings.TrimSpace(region))
	if requiresRegion && reg == "" {
		return model.Invalid(fmt.Sprintf("Region is mandatory for country '%s'", ctry))
	}

	if reg != "" {
		match := false
		for _, r := range rows {
			if r.RegionCode != "" && strings.EqualFold(r.RegionCode, reg) {
				match = true
				break
			}
		}
		if !match {
			return model.Invalid(fmt.Sprintf("Invalid region '%s' for country '%s'", reg, ctry))
		}
	}

	return model.Valid()
}
