package interpreter

import "fmt"

// AssistanceType pairs a directory category name with its id, as supplied
// by the caller from the live directory.
type AssistanceType struct {
	Name string `json:"assistance"`
	ID   int    `json:"assist_id"`
}

// SearchContext carries request-time prompt enrichment. It is never
// persisted as part of the query's identity.
type SearchContext struct {
	AssistanceTypes []AssistanceType
	ZipCodes        []string
}

// TimeFilter is the tagged time-of-day variant. Type is one of
// "morning", "afternoon", "evening", "before", "after", "between".
// Time is set for before/after, Start/End for between; all 24-hour HH:MM.
type TimeFilter struct {
	Type  string `json:"type"`
	Time  string `json:"time,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// FilterCriteria is the structured output contract of the interpreter.
// Nil slices and empty strings mean "no constraint on this dimension",
// with the exception of StatusIDs which is always populated after
// validation (defaults to active-only).
type FilterCriteria struct {
	AssistanceTypes      []string    `json:"assistance_types"`
	ZipCodes             []string    `json:"zip_codes"`
	Days                 []string    `json:"days"`
	TimeFilter           *TimeFilter `json:"time_filter"`
	StatusIDs            []int       `json:"status_ids"`
	MaxMiles             *float64    `json:"max_miles"`
	RequirementsKeywords []string    `json:"requirements_keywords"`
	Neighborhood         string      `json:"neighborhood,omitempty"`
	OrganizationName     string      `json:"organization_name,omitempty"`
	County               string      `json:"county,omitempty"`
	City                 string      `json:"city,omitempty"`
	GeocodeAddress       string      `json:"geocode_address,omitempty"`
	Interpretation       string      `json:"interpretation"`
	RelatedSearches      []string    `json:"related_searches"`
}

// Result is returned to the HTTP layer on a successful interpretation.
type Result struct {
	Filters         *FilterCriteria
	Interpretation  string
	GeocodeAddress  string
	RelatedSearches []string
	Raw             string
}

// ErrKind distinguishes a genuine "could not interpret" signal from a
// response we failed to parse. Callers see the same shape for both; the
// distinction only matters for server-side diagnostics.
type ErrKind int

const (
	KindUninterpretable ErrKind = iota
	KindUnparseable
)

// InterpretError is the terminal variant mutually exclusive with Result.
type InterpretError struct {
	Kind           ErrKind
	Message        string
	Interpretation string
	Raw            string
	cause          error
}

func (e *InterpretError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("interpretation failed: %s: %v", e.Message, e.cause)
	}
	return fmt.Sprintf("interpretation failed: %s", e.Message)
}

func (e *InterpretError) Unwrap() error { return e.cause }
