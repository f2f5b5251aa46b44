package directory

// Resource is one directory record as loaded into memory by the caller.
// DistanceMiles is populated by the caller after geocoding the query's
// reference point; nil means no distance is known for this record.
type Resource struct {
	ID               string
	Organization     string
	Program          string
	AssistanceTypes  []string
	ZipCode          string
	County           string
	City             string
	Neighborhood     string
	Days             []string
	OpensAt          string // 24-hour HH:MM, empty when unknown
	ClosesAt         string
	StatusID         int
	Requirements     string
	HoursNotes       string
	DistanceMiles    *float64
}
