// Package model defines the records, verdicts, and report rows flowing
// through the data-quality pipeline.
package model

// Status classifies a field or record verdict.
type Status string

const (
	StatusValid   Status = "Valid"
	StatusInvalid Status = "Invalid"
)

// InputRecord is one customer master-data row as read from the source.
// ID is the master identifier when the record came from the database and
// zero for spreadsheet rows. ExternalID carries a business-registry
// number (DUNS) when the source provides one.
type InputRecord struct {
	ID         int    `json:"id,omitempty"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Region     string `json:"region"`
	Country    string `json:"country"`
	Postal     string `json:"postal"`
	ExternalID string `json:"external_id,omitempty"`
}

// FieldVerdict is the outcome of validating a single field.
// Reason is non-empty exactly when Status is StatusInvalid.
type FieldVerdict struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Valid returns a passing verdict.
func Valid() FieldVerdict { return FieldVerdict{Status: StatusValid} }

// Invalid returns a failing verdict with the given reason.
func Invalid(reason string) FieldVerdict {
	return FieldVerdict{Status: StatusInvalid, Reason: reason}
}

// OK reports whether the verdict passed.
func (v FieldVerdict) OK() bool { return v.Status == StatusValid }

// ValidationOutcome aggregates the four field verdicts for one record.
// Status is StatusValid iff every field verdict passed. Remarks holds the
// field-labeled failure reasons joined with " | ".
type ValidationOutcome struct {
	Name         FieldVerdict `json:"name"`
	Address      FieldVerdict `json:"address"`
	Region       FieldVerdict `json:"region"`
	Postal       FieldVerdict `json:"postal"`
	FinalAddress string       `json:"final_address"`
	Status       Status       `json:"status"`
	Remarks      string       `json:"remarks,omitempty"`
}

// Candidate is a target-store row sharing a country+postal fingerprint
// with an input record. It exists only for the duration of one record's
// matching.
type Candidate struct {
	ID         int
	ExternalID string
	Name       string
	Address    string
	City       string
}

// MatchResult reports the best fuzzy-match candidate for a record.
// MatchedID zero means no candidate cleared the per-field thresholds.
type MatchResult struct {
	MatchedID         int     `json:"matched_id,omitempty"`
	MatchedExternalID string  `json:"matched_external_id,omitempty"`
	Score             float64 `json:"score,omitempty"`
}

// Matched reports whether a candidate cleared the thresholds.
func (m MatchResult) Matched() bool { return m.MatchedID != 0 }

// UpsertAction records what the upsert decision engine did for a record.
// ActionNone signals a persistence failure that did not abort the batch.
type UpsertAction string

const (
	ActionInsert UpsertAction = "INSERT"
	ActionUpdate UpsertAction = "UPDATE"
	ActionNone   UpsertAction = "NONE"
)

// ReportRow is the denormalized projection of one unique business key,
// emitted in first-seen order.
type ReportRow struct {
	MatchedID     int    `json:"matched_id,omitempty"`
	Name          string `json:"name"`
	FinalAddress  string `json:"final_address"`
	City          string `json:"city"`
	Region        string `json:"region"`
	Country       string `json:"country"`
	Postal        string `json:"postal"`
	ExternalID    string `json:"external_id,omitempty"`
	NameStatus    Status `json:"name_status"`
	AddressStatus Status `json:"address_status"`
	RegionStatus  Status `json:"region_status"`
	PostalStatus  Status `json:"postal_status"`
	RecordStatus  Status `json:"record_status"`
	Remarks       string `json:"remarks,omitempty"`
}
