package interpreter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt_Idempotent(t *testing.T) {
	types := []AssistanceType{
		{Name: "Food", ID: 1},
		{Name: "Rent", ID: 3},
	}
	zips := []string{"77002", "77004"}

	first := BuildSystemPrompt(types, zips)
	second := BuildSystemPrompt(types, zips)

	assert.Equal(t, first, second, "identical inputs must produce byte-identical instruction text")
}

func TestBuildSystemPrompt_InterpolatesLiveVocabulary(t *testing.T) {
	types := []AssistanceType{
		{Name: "Food", ID: 1},
		{Name: "Diaper Bank", ID: 99},
	}

	prompt := BuildSystemPrompt(types, []string{"77550"})

	assert.Contains(t, prompt, "- Diaper Bank")
	assert.Contains(t, prompt, "77550")
}

func TestBuildSystemPrompt_FallbackVocabulary(t *testing.T) {
	prompt := BuildSystemPrompt(nil, nil)

	for _, name := range MedicalSubtypes() {
		assert.Contains(t, prompt, name)
	}
	for _, name := range HomelessSubtypes() {
		assert.Contains(t, prompt, name)
	}
	for _, name := range DomesticAbuseSubtypes() {
		assert.Contains(t, prompt, name)
	}
}

func TestBuildSystemPrompt_NoPlaceholders(t *testing.T) {
	prompt := BuildSystemPrompt(nil, nil)

	assert.NotContains(t, prompt, "%s")
	assert.NotContains(t, prompt, "{{")
}

func TestBuildSystemPrompt_ContainsContractSections(t *testing.T) {
	prompt := BuildSystemPrompt(nil, nil)

	// Terminal error instruction, exactly as the extractor expects it.
	assert.Contains(t, prompt, `{"error":"Could not interpret query"`)

	// Synonym and disambiguation rules the scenarios depend on.
	assert.Contains(t, prompt, "Fort Bend")
	assert.Contains(t, prompt, "Houston, TX")
	assert.Contains(t, prompt, "status_ids")
	assert.Contains(t, prompt, "related_searches")
}

func TestBuildSystemPrompt_WorkedExampleCount(t *testing.T) {
	prompt := BuildSystemPrompt(nil, nil)

	count := strings.Count(prompt, "\nQuery: ")
	require.GreaterOrEqual(t, count, 15, "prompt must carry at least 15 worked examples")
}
