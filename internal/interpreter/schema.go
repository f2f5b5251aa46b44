package interpreter

// The closed vocabulary the rest of the interpreter treats as ground
// truth: day codes, status codes, time buckets, and the canonical
// assistance-type list used when the caller does not supply a live one.

var dayCodes = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

const (
	StatusActive   = 1
	StatusLimited  = 2
	StatusInactive = 3
)

const (
	TimeMorning   = "morning"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
	TimeBefore    = "before"
	TimeAfter     = "after"
	TimeBetween   = "between"
)

// fallbackAssistanceTypes mirrors the production directory categories.
// Used only when the caller omits the live list.
var fallbackAssistanceTypes = []AssistanceType{
	{Name: "Food", ID: 1},
	{Name: "Clothing", ID: 2},
	{Name: "Rent", ID: 3},
	{Name: "Utilities", ID: 4},
	{Name: "Childcare", ID: 5},
	{Name: "Transportation", ID: 6},
	{Name: "Employment", ID: 7},
	{Name: "Education", ID: 8},
	{Name: "Legal", ID: 9},
	{Name: "Immigration", ID: 10},
	{Name: "Senior Services", ID: 11},
	{Name: "Veteran Services", ID: 12},
	{Name: "Medical - Primary Care", ID: 13},
	{Name: "Medical - Dental", ID: 14},
	{Name: "Medical - Vision", ID: 15},
	{Name: "Medical - Mental Health", ID: 16},
	{Name: "Medical - Prescriptions", ID: 17},
	{Name: "Medical - Specialty Care", ID: 18},
	{Name: "Homeless - Shelter", ID: 19},
	{Name: "Homeless - Day Center", ID: 20},
	{Name: "Homeless - Other Services", ID: 21},
	{Name: "Domestic Abuse - Shelter", ID: 22},
	{Name: "Domestic Abuse - Counseling", ID: 23},
	{Name: "Domestic Abuse - Legal Aid", ID: 24},
}

// Umbrella expansions. The prompt instructs the model to expand these;
// the lists here back the prompt text and the tests that pin it.

func MedicalSubtypes() []string {
	return []string{
		"Medical - Primary Care",
		"Medical - Dental",
		"Medical - Vision",
		"Medical - Mental Health",
		"Medical - Prescriptions",
		"Medical - Specialty Care",
	}
}

func HomelessSubtypes() []string {
	return []string{
		"Homeless - Shelter",
		"Homeless - Day Center",
		"Homeless - Other Services",
	}
}

func DomesticAbuseSubtypes() []string {
	return []string{
		"Domestic Abuse - Shelter",
		"Domestic Abuse - Counseling",
		"Domestic Abuse - Legal Aid",
	}
}

// ShelterTypes covers the ambiguous bare "shelter"/"shelters" query,
// which must surface both homeless and domestic-abuse shelters.
func ShelterTypes() []string {
	return []string{"Homeless - Shelter", "Domestic Abuse - Shelter"}
}

func FallbackAssistanceTypes() []AssistanceType {
	out := make([]AssistanceType, len(fallbackAssistanceTypes))
	copy(out, fallbackAssistanceTypes)
	return out
}

func DayCodes() []string {
	out := make([]string, len(dayCodes))
	copy(out, dayCodes)
	return out
}

func ValidDayCode(code string) bool {
	for _, d := range dayCodes {
		if d == code {
			return true
		}
	}
	return false
}

func ValidStatusID(id int) bool {
	return id == StatusActive || id == StatusLimited || id == StatusInactive
}

// NormalizeAssistanceType validates a name against the supplied
// vocabulary by exact match. No fuzzy matching: the prompt instructs the
// model to copy names verbatim from the list, so anything else is
// out-of-vocabulary.
func NormalizeAssistanceType(name string, vocabulary []string) (string, bool) {
	for _, v := range vocabulary {
		if v == name {
			return v, true
		}
	}
	return "", false
}

// vocabularyNames flattens the caller context into the name list the
// validator checks against, falling back to the canonical list.
func vocabularyNames(types []AssistanceType) []string {
	if len(types) == 0 {
		types = fallbackAssistanceTypes
	}
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.Name)
	}
	return names
}
