package validate

import (
	"context"
	"strings"

	"github.com/sells-group/dataquality-cli/internal/model"
)

// Validator composes the four field validators into one record verdict.
type Validator struct {
	Region *RegionValidator
	Postal *PostalValidator
}

// Validate runs all four field validators and derives the final address
// and record-level status. Name and Postal see raw inputs; Address sees
// the final address with the validated region appended.
func (v *Validator) Validate(ctx context.Context, rec model.InputRecord) model.ValidationOutcome {
	nameV := Name(rec.Name)
	regionV := v.Region.Validate(ctx, rec.Country, rec.Region)

	final := strings.TrimSpace(rec.Address)
	if regionV.OK() && strings.TrimSpace(rec.Region) != "" {
		final = BuildFinalAddress(final, rec.Region)
	}

	var addrV model.FieldVerdict
	if final == "" {
		addrV = model.Invalid("Address cannot be empty")
	} else {
		addrV = Address(final, rec.City, rec.Region)
	}

	postalV := v.Postal.Validate(ctx, rec.Country, rec.Region, rec.Postal)

	status := model.StatusInvalid
	if nameV.OK() && addrV.OK() && regionV.OK() && postalV.OK() {
		status = model.StatusValid
	}

	var reasons []string
	if !nameV.OK() {
		reasons = append(reasons, "Name: "+nameV.Reason)
	}
	if !addrV.OK() {
		reasons = append(reasons, "Address: "+addrV.Reason)
	}
	if !regionV.OK() {
		reasons = append(reasons, "Region: "+regionV.Reason)
	}
	if !postalV.OK() {
		reasons = append(reasons, "Postal: "+postalV.Reason)
	}

	return model.ValidationOutcome{
		Name:         nameV,
		Address:      addrV,
		Region:       regionV,
		Postal:       postalV,
		FinalAddress: final,
		Status:       status,
		Remarks:      strings.Join(reasons, " | "),
	}
}

// BuildFinalAddress appends a region to an address as ", "+region unless
// the address equals the region or already ends with it, with or without
// a leading comma (case-insensitive). An empty address yields the region
// alone.
func BuildFinalAddress(address, region string) string {
	a := strings.TrimSpace(address)
	r := strings.TrimSpace(region)
	if r == "" {
		return a
	}
	if a == "" {
		return r
	}

	upperA := strings.ToUpper(a)
	upperR := strings.ToUpper(r)
	if upperA == upperR ||
		strings.HasSuffix(upperA, " "+upperR) ||
		strings.HasSuffix(upperA, ","+upperR) ||
		strings.HasSuffix(upperA, ", "+upperR) {
		return a
	}

	return a + ", " + r
}
