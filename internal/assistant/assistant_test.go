package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func sampleShift() *domain.ShiftData {
	return &domain.ShiftData{
		Type:      "Morning Shift (07:00 - 16:00)",
		Date:      "2024-06-01",
		AgentName: "Aishath",
		Occupancy: 88,
		Tasks: []domain.Task{
			{ID: "a", Label: "Check Float", Category: "Cashiering", IsCompleted: true},
			{ID: "b", Label: "VIP Arrivals", Category: "Arrivals"},
		},
	}
}

func TestHandoverSummary(t *testing.T) {
	gen := &fakeGenerator{text: "  All good.  "}
	a := NewAssistant(gen, nil, Options{})

	assert.Equal(t, "All good.", a.HandoverSummary(context.Background(), sampleShift()))
	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, `"Nova Maldives"`)
	assert.Contains(t, prompt, "- Task Completion: 1/2")
	assert.Contains(t, prompt, "- VIP Arrivals (Arrivals)")
	assert.NotContains(t, prompt, "- Check Float (Cashiering)")
	assert.Contains(t, prompt, "No specific agent notes provided.")
	assert.Contains(t, prompt, "- Occupancy: 88%")
}

func TestHandoverSummary_Fallbacks(t *testing.T) {
	failing := NewAssistant(&fakeGenerator{err: errors.New("quota exceeded")}, nil, Options{})
	assert.Equal(t, HandoverFallback, failing.HandoverSummary(context.Background(), sampleShift()))

	empty := NewAssistant(&fakeGenerator{text: "   "}, nil, Options{})
	assert.Equal(t, HandoverEmptyFallback, empty.HandoverSummary(context.Background(), sampleShift()))

	noKey := NewAssistant(nil, nil, Options{})
	assert.Equal(t, HandoverFallback, noKey.HandoverSummary(context.Background(), sampleShift()))
}

func TestHandoverSummary_NoRetry(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("unavailable")}
	a := NewAssistant(gen, nil, Options{})

	a.HandoverSummary(context.Background(), sampleShift())
	assert.Equal(t, 1, gen.calls)
}

func TestSmartSuggestion_Fallbacks(t *testing.T) {
	failing := NewAssistant(&fakeGenerator{err: errors.New("boom")}, nil, Options{})
	assert.Equal(t, SuggestionFallback, failing.SmartSuggestion(context.Background(), "Sunny, 29°C", "Morning"))

	empty := NewAssistant(&fakeGenerator{text: ""}, nil, Options{})
	assert.Equal(t, SuggestionEmptyFallback, empty.SmartSuggestion(context.Background(), "Sunny, 29°C", "Morning"))
}

func TestSmartSuggestion_Cache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	gen := &fakeGenerator{text: "Offer chilled coconuts at the jetty."}
	a := NewAssistant(gen, rdb, Options{SuggestionTTL: time.Hour})
	ctx := context.Background()

	first := a.SmartSuggestion(ctx, "Sunny, 29°C", "Morning Shift (07:00 - 16:00)")
	second := a.SmartSuggestion(ctx, "Sunny, 29°C", "Morning Shift (07:00 - 16:00)")

	assert.Equal(t, "Offer chilled coconuts at the jetty.", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompts[0], `"Sunny, 29°C"`)

	key := suggestionKey("Sunny, 29°C", "Morning Shift (07:00 - 16:00)")
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	// 缓存过期后重新生成
	mr.FastForward(2 * time.Hour)
	a.SmartSuggestion(ctx, "Sunny, 29°C", "Morning Shift (07:00 - 16:00)")
	assert.Equal(t, 2, gen.calls)
}

func TestSmartSuggestion_FallbackNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	a := NewAssistant(&fakeGenerator{err: errors.New("boom")}, rdb, Options{SuggestionTTL: time.Hour})
	a.SmartSuggestion(context.Background(), "Rainy, 26°C", "Night")

	assert.False(t, mr.Exists(suggestionKey("Rainy, 26°C", "Night")))
}

func TestSmartSuggestion_CacheDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	gen := &fakeGenerator{text: "Refresh welcome drinks."}
	a := NewAssistant(gen, rdb, Options{SuggestionTTL: time.Hour})

	assert.Equal(t, "Refresh welcome drinks.", a.SmartSuggestion(context.Background(), "Sunny, 29°C", "Afternoon"))
}
