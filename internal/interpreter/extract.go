package interpreter

import (
	"encoding/json"
	"errors"
	"strings"
)

// The completion service is instructed to return bare JSON but will
// sometimes wrap it in prose or code fences anyway. Extraction is
// two-tier: parse the whole trimmed response first, then fall back to
// the first balanced {...} span inside it.

const rephraseMessage = "Could not understand the search query. Please try rephrasing."

var errNoJSONObject = errors.New("no JSON object found in response")

// parsedObject is the raw extraction output handed to the validator.
type parsedObject struct {
	fields map[string]json.RawMessage
	doc    []byte
}

// tryParseWhole parses the entire trimmed text as a JSON object.
func tryParseWhole(raw string) (*parsedObject, error) {
	trimmed := strings.TrimSpace(raw)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return nil, err
	}
	return &parsedObject{fields: fields, doc: []byte(trimmed)}, nil
}

// tryParseBraceSpan scans for the first balanced top-level {...} span
// and parses it. A depth-tracking scanner rather than a greedy
// first-{-to-last-} match, so unrelated braces in surrounding prose
// cannot widen the span.
func tryParseBraceSpan(raw string) (*parsedObject, error) {
	span, ok := firstBraceSpan(raw)
	if !ok {
		return nil, errNoJSONObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return nil, err
	}
	return &parsedObject{fields: fields, doc: []byte(span)}, nil
}

// firstBraceSpan returns the first balanced {...} substring, honoring
// JSON string literals and escapes while tracking depth.
func firstBraceSpan(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// Extract turns the completion service's raw text into either a parsed
// object or an InterpretError. Exactly one of the two, never both, and
// it never panics past this boundary.
func Extract(raw string) (*parsedObject, *InterpretError) {
	obj, wholeErr := tryParseWhole(raw)
	if obj == nil {
		var spanErr error
		obj, spanErr = tryParseBraceSpan(raw)
		if obj == nil {
			return nil, &InterpretError{
				Kind:    KindUnparseable,
				Message: rephraseMessage,
				Raw:     raw,
				cause:   errors.Join(wholeErr, spanErr),
			}
		}
	}

	if errMsg, ok := stringField(obj.fields, "error"); ok && errMsg != "" {
		// Explicit refusal from the model. Discard everything else;
		// partial fields on an error response are never surfaced.
		interp, _ := stringField(obj.fields, "interpretation")
		return nil, &InterpretError{
			Kind:           KindUninterpretable,
			Message:        rephraseMessage,
			Interpretation: interp,
			Raw:            raw,
		}
	}

	return obj, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	rawVal, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(rawVal, &s); err != nil {
		return "", false
	}
	return s, true
}
