package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustExtract(t *testing.T, raw string) *parsedObject {
	t.Helper()
	obj, ierr := Extract(raw)
	require.Nil(t, ierr)
	return obj
}

func defaultVocab() []string {
	return vocabularyNames(nil)
}

func TestValidateCriteria_StatusDefaultsToActive(t *testing.T) {
	obj := mustExtract(t, `{"assistance_types":["Food"],"interpretation":"ok"}`)

	criteria, err := ValidateCriteria(obj, defaultVocab())

	require.NoError(t, err)
	assert.Equal(t, []int{StatusActive}, criteria.StatusIDs, "missing status_ids must default to active-only")
}

func TestValidateCriteria_NullStatusDefaultsToActive(t *testing.T) {
	obj := mustExtract(t, `{"status_ids":null,"interpretation":"ok"}`)

	criteria, err := ValidateCriteria(obj, defaultVocab())

	require.NoError(t, err)
	assert.Equal(t, []int{StatusActive}, criteria.StatusIDs)
}

func TestValidateCriteria_ExplicitStatusPreserved(t *testing.T) {
	obj := mustExtract(t, `{"status_ids":[1,2],"interpretation":"ok"}`)

	criteria, err := ValidateCriteria(obj, defaultVocab())

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, criteria.StatusIDs)
}

func TestValidateCriteria_DropsOutOfVocabularyTypes(t *testing.T) {
	obj := mustExtract(t, `{"assistance_types":["Food","Spaceship Repair"],"interpretation":"ok"}`)

	criteria, err := ValidateCriteria(obj, defaultVocab())

	require.NoError(t, err)
	assert.Equal(t, []string{"Food"}, criteria.AssistanceTypes)
}

func TestValidateCriteria_AllTypesOutOfVocabularyBecomesNil(t *testing.T) {
	obj := mustExtract(t, `{"assistance_types":["Spaceship Repair"],"interpretation":"ok"}`)

	criteria, err := ValidateCriteria(obj, defaultVocab())

	require.NoError(t, err)
	assert.Nil(t, criteria.AssistanceTypes)
}

func TestValidateCriteria_CallerVocabularyWins(t *testing.T) {
	obj := mustExtract(t, `{"assistance_types":["Diaper Bank","Food"],"interpretation":"ok"}`)

	vocab := vocabularyNames([]AssistanceType{{Name: "Diaper Bank", ID: 7}})
	criteria, err := ValidateCriteria(obj, vocab)

	require.NoError(t, err)
	assert.Equal(t, []string{"Diaper Bank"}, criteria.AssistanceTypes, "Food is not in the caller's live list")
}

func TestValidateCriteria_RejectsWrongTypes(t *testing.T) {
	cases := []string{
		`{"assistance_types":"Food","interpretation":"ok"}`,
		`{"status_ids":[7],"interpretation":"ok"}`,
		`{"max_miles":-2,"interpretation":"ok"}`,
		`{"days":["Monday"],"interpretation":"ok"}`,
		`{"time_filter":{"type":"soon"},"interpretation":"ok"}`,
		`{"assistance_types":["Food"]}`,
	}

	for _, raw := range cases {
		obj := mustExtract(t, raw)
		_, err := ValidateCriteria(obj, defaultVocab())
		assert.Error(t, err, "expected rejection for %s", raw)
	}
}

func TestValidateCriteria_DropsMalformedZips(t *testing.T) {
	obj := mustExtract(t, `{"zip_codes":["77002"],"interpretation":"ok"}`)

	criteria, err := ValidateCriteria(obj, defaultVocab())

	require.NoError(t, err)
	assert.Equal(t, []string{"77002"}, criteria.ZipCodes)
}

func TestValidateCriteria_ClampsRelatedSearches(t *testing.T) {
	obj := mustExtract(t, `{"interpretation":"ok","related_searches":["a","b","c","d","e"]}`)

	criteria, err := ValidateCriteria(obj, defaultVocab())

	require.NoError(t, err)
	assert.Len(t, criteria.RelatedSearches, 3)
}

func TestValidateCriteria_FullCriteriaRoundTrip(t *testing.T) {
	obj := mustExtract(t, `{
		"assistance_types":["Rent"],
		"zip_codes":["77002"],
		"days":["Mo","Fr"],
		"time_filter":{"type":"between","start":"09:00","end":"12:00"},
		"status_ids":[1],
		"max_miles":3,
		"requirements_keywords":["ID required"],
		"neighborhood":null,
		"organization_name":null,
		"county":"Fort Bend",
		"city":null,
		"geocode_address":"5678 Westheimer Rd, Houston, TX",
		"interpretation":"Rent help near Westheimer.",
		"related_searches":["utility assistance nearby"]
	}`)

	criteria, err := ValidateCriteria(obj, defaultVocab())

	require.NoError(t, err)
	assert.Equal(t, []string{"Rent"}, criteria.AssistanceTypes)
	assert.Equal(t, "Fort Bend", criteria.County)
	require.NotNil(t, criteria.MaxMiles)
	assert.Equal(t, 3.0, *criteria.MaxMiles)
	require.NotNil(t, criteria.TimeFilter)
	assert.Equal(t, TimeBetween, criteria.TimeFilter.Type)
	assert.Equal(t, "09:00", criteria.TimeFilter.Start)
	assert.Contains(t, criteria.GeocodeAddress, "5678 Westheimer Rd")
}
