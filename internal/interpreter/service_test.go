package interpreter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/community-resources/backend/internal/storage/models"
)

type fakeCompletion struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompletion) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeQueryLog struct {
	mu      sync.Mutex
	delay   time.Duration
	err     error
	entries []*models.SearchLogEntry
}

func (f *fakeQueryLog) InsertSearchLog(_ context.Context, entry *models.SearchLogEntry) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return f.err
}

func (f *fakeQueryLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

const goodResponse = `{"assistance_types":["Food"],"zip_codes":null,"days":["Mo"],"time_filter":{"type":"morning"},"status_ids":[1],"max_miles":null,"requirements_keywords":null,"neighborhood":null,"organization_name":null,"county":null,"city":null,"geocode_address":null,"interpretation":"Food resources open Monday mornings.","related_searches":["food pantry open Saturday","hot meals near downtown"]}`

func TestInterpret_Success(t *testing.T) {
	llm := &fakeCompletion{response: goodResponse}
	log := &fakeQueryLog{}
	svc := NewService(llm, log, nil)

	result, err := svc.Interpret(context.Background(), "food pantry open Monday morning", SearchContext{})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []string{"Food"}, result.Filters.AssistanceTypes)
	assert.Equal(t, []string{"Mo"}, result.Filters.Days)
	require.NotNil(t, result.Filters.TimeFilter)
	assert.Equal(t, TimeMorning, result.Filters.TimeFilter.Type)
	assert.Equal(t, []int{StatusActive}, result.Filters.StatusIDs)
	assert.Equal(t, "Food resources open Monday mornings.", result.Interpretation)
	assert.Len(t, result.RelatedSearches, 2)

	svc.Drain()
	require.Equal(t, 1, log.count(), "exactly one log entry per interpretation")
	assert.NotNil(t, log.entries[0].Filters)
	assert.Nil(t, log.entries[0].ResultCount)
}

func TestInterpret_EmptyQueryNeverReachesClient(t *testing.T) {
	llm := &fakeCompletion{response: goodResponse}
	svc := NewService(llm, &fakeQueryLog{}, nil)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Interpret(context.Background(), q, SearchContext{})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Zero(t, llm.calls)
}

func TestInterpret_NotConfigured(t *testing.T) {
	svc := NewService(nil, &fakeQueryLog{}, nil)

	_, err := svc.Interpret(context.Background(), "food", SearchContext{})

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, svc.Configured())
}

func TestInterpret_UpstreamErrorPassthrough(t *testing.T) {
	upstream := errors.New("429 rate limited")
	svc := NewService(&fakeCompletion{err: upstream}, &fakeQueryLog{}, nil)

	_, err := svc.Interpret(context.Background(), "food", SearchContext{})

	assert.ErrorIs(t, err, upstream)
}

func TestInterpret_ExplicitErrorResponse(t *testing.T) {
	llm := &fakeCompletion{response: `{"error":"Could not interpret query","interpretation":"gibberish"}`}
	log := &fakeQueryLog{}
	svc := NewService(llm, log, nil)

	result, err := svc.Interpret(context.Background(), "asdfghjkl", SearchContext{})

	assert.Nil(t, result)
	var ierr *InterpretError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, KindUninterpretable, ierr.Kind)

	svc.Drain()
	require.Equal(t, 1, log.count())
	assert.Nil(t, log.entries[0].Filters, "failed interpretations log null filters")
	assert.Equal(t, "gibberish", log.entries[0].Interpretation)
}

func TestInterpret_InvalidObjectIsExtractionFailure(t *testing.T) {
	llm := &fakeCompletion{response: `{"assistance_types":"Food","interpretation":"ok"}`}
	svc := NewService(llm, &fakeQueryLog{}, nil)

	_, err := svc.Interpret(context.Background(), "food", SearchContext{})

	var ierr *InterpretError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, KindUnparseable, ierr.Kind)
}

func TestInterpret_DropsOutOfVocabBeforeReturning(t *testing.T) {
	llm := &fakeCompletion{response: `{"assistance_types":["Food","Made Up"],"status_ids":[1],"interpretation":"ok"}`}
	svc := NewService(llm, &fakeQueryLog{}, nil)

	result, err := svc.Interpret(context.Background(), "food", SearchContext{})

	require.NoError(t, err)
	assert.Equal(t, []string{"Food"}, result.Filters.AssistanceTypes)
}

func TestInterpret_LoggingNeverBlocksResponse(t *testing.T) {
	llm := &fakeCompletion{response: goodResponse}
	log := &fakeQueryLog{delay: 300 * time.Millisecond, err: errors.New("log store down")}
	svc := NewService(llm, log, nil)

	start := time.Now()
	result, err := svc.Interpret(context.Background(), "food pantry", SearchContext{})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Less(t, elapsed, 150*time.Millisecond, "response must not wait on the log write")

	svc.Drain()
	assert.Equal(t, 1, log.count(), "log write still completes after the response")
}

func TestInterpret_LogSurvivesCallerCancellation(t *testing.T) {
	llm := &fakeCompletion{response: goodResponse}
	log := &fakeQueryLog{delay: 50 * time.Millisecond}
	svc := NewService(llm, log, nil)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Interpret(ctx, "food pantry", SearchContext{})
	require.NoError(t, err)
	cancel()

	svc.Drain()
	assert.Equal(t, 1, log.count(), "detached write survives caller disconnect")
}
