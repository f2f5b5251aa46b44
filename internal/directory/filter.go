package directory

import (
	"strings"

	"github.com/community-resources/backend/internal/interpreter"
)

// Apply narrows the in-memory directory with interpreted criteria.
// Dimensions combine with AND; values within a set-valued dimension
// combine with OR. An absent dimension imposes no constraint. The one
// exception is status: absent status defaults to active-only, so
// inactive or limited resources are never shown unless asked for.
func Apply(resources []Resource, criteria *interpreter.FilterCriteria) []Resource {
	if criteria == nil {
		criteria = &interpreter.FilterCriteria{}
	}

	statusIDs := criteria.StatusIDs
	if len(statusIDs) == 0 {
		statusIDs = []int{interpreter.StatusActive}
	}

	matched := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if !containsInt(statusIDs, r.StatusID) {
			continue
		}
		if len(criteria.AssistanceTypes) > 0 && !anyOverlap(r.AssistanceTypes, criteria.AssistanceTypes) {
			continue
		}
		if len(criteria.ZipCodes) > 0 && !containsString(criteria.ZipCodes, r.ZipCode) {
			continue
		}
		if len(criteria.Days) > 0 && !anyOverlap(r.Days, criteria.Days) {
			continue
		}
		if criteria.TimeFilter != nil && !matchesTime(r, criteria.TimeFilter) {
			continue
		}
		if criteria.MaxMiles != nil && !withinDistance(r, *criteria.MaxMiles) {
			continue
		}
		if len(criteria.RequirementsKeywords) > 0 && !matchesKeywords(r, criteria.RequirementsKeywords) {
			continue
		}
		if criteria.County != "" && !strings.EqualFold(r.County, criteria.County) {
			continue
		}
		if criteria.City != "" && !strings.EqualFold(r.City, criteria.City) {
			continue
		}
		if criteria.Neighborhood != "" && !strings.EqualFold(r.Neighborhood, criteria.Neighborhood) {
			continue
		}
		if criteria.OrganizationName != "" && !containsFold(r.Organization, criteria.OrganizationName) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}

// matchesKeywords: ANY keyword appearing as a case-insensitive
// substring of the requirements or hours notes matches.
func matchesKeywords(r Resource, keywords []string) bool {
	req := strings.ToLower(r.Requirements)
	hours := strings.ToLower(r.HoursNotes)
	for _, kw := range keywords {
		needle := strings.ToLower(kw)
		if needle == "" {
			continue
		}
		if strings.Contains(req, needle) || strings.Contains(hours, needle) {
			return true
		}
	}
	return false
}

// withinDistance only filters records whose distance has been computed.
// Records with no known distance are kept: distance filtering is
// opt-in per record, resolved by the caller via geocoding.
func withinDistance(r Resource, maxMiles float64) bool {
	if r.DistanceMiles == nil {
		return true
	}
	return *r.DistanceMiles <= maxMiles
}

// matchesTime checks whether the record's open interval overlaps the
// requested window. Records with unknown hours are kept.
func matchesTime(r Resource, tf *interpreter.TimeFilter) bool {
	opens, ok1 := parseMinutes(r.OpensAt)
	closes, ok2 := parseMinutes(r.ClosesAt)
	if !ok1 || !ok2 {
		return true
	}

	var winStart, winEnd int
	switch tf.Type {
	case interpreter.TimeMorning:
		winStart, winEnd = 0, 12*60
	case interpreter.TimeAfternoon:
		winStart, winEnd = 12*60, 17*60
	case interpreter.TimeEvening:
		winStart, winEnd = 17*60, 24*60
	case interpreter.TimeBefore:
		t, ok := parseMinutes(tf.Time)
		if !ok {
			return true
		}
		winStart, winEnd = 0, t
	case interpreter.TimeAfter:
		t, ok := parseMinutes(tf.Time)
		if !ok {
			return true
		}
		winStart, winEnd = t, 24*60
	case interpreter.TimeBetween:
		s, ok1 := parseMinutes(tf.Start)
		e, ok2 := parseMinutes(tf.End)
		if !ok1 || !ok2 {
			return true
		}
		winStart, winEnd = s, e
	default:
		return true
	}

	return opens < winEnd && closes > winStart
}

func parseMinutes(hhmm string) (int, bool) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, false
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func anyOverlap(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
