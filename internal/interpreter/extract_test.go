package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_WholeStringJSON(t *testing.T) {
	raw := `{"assistance_types":["Food"],"status_ids":[1],"interpretation":"Food resources."}`

	obj, ierr := Extract(raw)

	require.Nil(t, ierr)
	require.NotNil(t, obj)
	assert.Contains(t, obj.fields, "assistance_types")
}

func TestExtract_ExplicitErrorObject(t *testing.T) {
	raw := `{"error":"x","interpretation":"y"}`

	obj, ierr := Extract(raw)

	assert.Nil(t, obj, "an error response must never surface partial fields")
	require.NotNil(t, ierr)
	assert.Equal(t, KindUninterpretable, ierr.Kind)
	assert.Equal(t, "y", ierr.Interpretation)
	assert.Equal(t, rephraseMessage, ierr.Message)
}

func TestExtract_SubstringRecovery(t *testing.T) {
	raw := "Here you go:\n```json\n{\"assistance_types\":[\"Food\"],\"status_ids\":[1],\"interpretation\":\"ok\"}\n```"

	obj, ierr := Extract(raw)

	require.Nil(t, ierr)
	require.NotNil(t, obj)
	assert.Contains(t, obj.fields, "assistance_types")
	assert.Contains(t, obj.fields, "status_ids")
}

func TestExtract_GarbageInput(t *testing.T) {
	obj, ierr := Extract("no braces to be found here")

	assert.Nil(t, obj)
	require.NotNil(t, ierr)
	assert.Equal(t, KindUnparseable, ierr.Kind)
	assert.NotNil(t, ierr.Unwrap())
}

func TestExtract_MutualExclusivity(t *testing.T) {
	inputs := []string{
		`{"assistance_types":null,"interpretation":"ok"}`,
		`{"error":"nope","interpretation":"bad"}`,
		"plain prose",
		"prose then {\"interpretation\":\"ok\"} then more prose",
		"",
	}

	for _, raw := range inputs {
		obj, ierr := Extract(raw)
		assert.True(t, (obj == nil) != (ierr == nil), "exactly one of object/error for %q", raw)
	}
}

func TestExtract_BracesInsideStringsDoNotConfuseScanner(t *testing.T) {
	raw := `note: {"interpretation":"curly } inside { a string","status_ids":[1]} trailing`

	obj, ierr := Extract(raw)

	require.Nil(t, ierr)
	require.NotNil(t, obj)
	assert.Contains(t, obj.fields, "interpretation")
}

func TestFirstBraceSpan_TakesFirstBalancedSpan(t *testing.T) {
	span, ok := firstBraceSpan(`prefix {"a":{"b":1}} suffix {"c":2}`)

	require.True(t, ok)
	assert.Equal(t, `{"a":{"b":1}}`, span)
}

func TestFirstBraceSpan_UnbalancedInput(t *testing.T) {
	_, ok := firstBraceSpan(`{"a": 1`)
	assert.False(t, ok)

	_, ok = firstBraceSpan("no braces")
	assert.False(t, ok)
}
