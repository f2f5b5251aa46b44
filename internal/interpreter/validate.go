package interpreter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/community-resources/backend/pkg/logger"
)

// Structural validation of the model's output before anything
// downstream trusts it. The source of truth for field domains lives in
// the prompt; this schema enforces the same contract on the way back.
const criteriaSchema = `{
	"type": "object",
	"properties": {
		"assistance_types": {"type": ["array", "null"], "items": {"type": "string"}},
		"zip_codes": {"type": ["array", "null"], "items": {"type": "string", "pattern": "^[0-9]{5}$"}},
		"days": {"type": ["array", "null"], "items": {"type": "string", "enum": ["Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"]}},
		"time_filter": {
			"type": ["object", "null"],
			"properties": {
				"type": {"type": "string", "enum": ["morning", "afternoon", "evening", "before", "after", "between"]},
				"time": {"type": ["string", "null"], "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"},
				"start": {"type": ["string", "null"], "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"},
				"end": {"type": ["string", "null"], "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"}
			},
			"required": ["type"]
		},
		"status_ids": {"type": ["array", "null"], "items": {"type": "integer", "enum": [1, 2, 3]}},
		"max_miles": {"type": ["number", "null"], "exclusiveMinimum": 0},
		"requirements_keywords": {"type": ["array", "null"], "items": {"type": "string"}},
		"neighborhood": {"type": ["string", "null"]},
		"organization_name": {"type": ["string", "null"]},
		"county": {"type": ["string", "null"]},
		"city": {"type": ["string", "null"]},
		"geocode_address": {"type": ["string", "null"]},
		"interpretation": {"type": "string"},
		"related_searches": {"type": ["array", "null"], "items": {"type": "string"}}
	},
	"required": ["interpretation"]
}`

var zipPattern = regexp.MustCompile(`^[0-9]{5}$`)

// ValidateCriteria checks the extracted document against the filter
// schema and normalizes it into FilterCriteria. Out-of-vocabulary
// assistance types are dropped with a warning; a structurally invalid
// document is rejected outright so the caller treats it as an
// extraction failure.
func ValidateCriteria(obj *parsedObject, vocabulary []string) (*FilterCriteria, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(criteriaSchema),
		gojsonschema.NewBytesLoader(obj.doc),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, fmt.Errorf("response failed schema validation: %s", strings.Join(details, "; "))
	}

	var criteria FilterCriteria
	if err := json.Unmarshal(obj.doc, &criteria); err != nil {
		return nil, fmt.Errorf("failed to decode criteria: %w", err)
	}

	criteria.AssistanceTypes = filterVocabulary(criteria.AssistanceTypes, vocabulary)
	criteria.ZipCodes = filterZips(criteria.ZipCodes)

	// Safety default: never surface inactive or limited resources
	// unless the query explicitly asked for them.
	if len(criteria.StatusIDs) == 0 {
		criteria.StatusIDs = []int{StatusActive}
	}

	if len(criteria.RelatedSearches) > 3 {
		criteria.RelatedSearches = criteria.RelatedSearches[:3]
	}

	return &criteria, nil
}

func filterVocabulary(names, vocabulary []string) []string {
	if names == nil {
		return nil
	}
	kept := make([]string, 0, len(names))
	for _, name := range names {
		normalized, ok := NormalizeAssistanceType(name, vocabulary)
		if !ok {
			logger.Warn("Dropping out-of-vocabulary assistance type",
				zap.String("assistance_type", name),
			)
			continue
		}
		kept = append(kept, normalized)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func filterZips(zips []string) []string {
	if zips == nil {
		return nil
	}
	kept := make([]string, 0, len(zips))
	for _, z := range zips {
		if zipPattern.MatchString(z) {
			kept = append(kept, z)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
