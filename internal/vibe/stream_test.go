package vibe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
	"github.com/arlo-hs/lingopipe/internal/ports"
	"github.com/arlo-hs/lingopipe/internal/testutils"
)

func TestTranslateStream_CompletionOrderThenFinal(t *testing.T) {
	builder := &testutils.StubBuilder{
		Engines: map[string]ports.TranslationEngine{
			"fast":   &testutils.StubEngine{EngineName: "fast", Translation: "f", Delay: 5 * time.Millisecond},
			"medium": &testutils.StubEngine{EngineName: "medium", Translation: "m", Delay: 10 * time.Millisecond},
			"slow":   &testutils.StubEngine{EngineName: "slow", Translation: "s", Delay: 50 * time.Millisecond},
		},
		JudgeClient: &testutils.StubLLMClient{Response: `{
			"scores": [
				{"engine_id": "slow", "accuracy": 9, "fluency": 9, "style_match": 9, "terminology": 9, "comment": "best"},
				{"engine_id": "fast", "accuracy": 6, "fluency": 6, "style_match": 6, "terminology": 6, "comment": "ok"},
				{"engine_id": "medium", "accuracy": 7, "fluency": 7, "style_match": 7, "terminology": 7, "comment": "fine"}
			],
			"final": {"translation": "synth", "comment": "c", "rationale": "r", "overall": 9}
		}`},
	}
	svc := NewService(builder, nil)

	// Slot order: slow, fast, medium. Completion order differs.
	configs := []engine.Config{openaiCfg("slow"), openaiCfg("fast"), openaiCfg("medium")}
	events := svc.TranslateStream(context.Background(), vibeReq("slow", "fast", "medium"), configs, nil)

	var kinds []domain.StreamEventKind
	var partialIDs []string
	var final *domain.VibeResponse
	for ev := range events {
		kinds = append(kinds, ev.Kind)
		switch ev.Kind {
		case domain.StreamPartial:
			require.NotNil(t, ev.Partial)
			assert.Nil(t, ev.Partial.Score, "partials are never scored")
			partialIDs = append(partialIDs, ev.Partial.EngineID)
		case domain.StreamFinal:
			require.NotNil(t, ev.Final)
			final = ev.Final
		}
	}

	require.Len(t, kinds, 4)
	assert.Equal(t, domain.StreamFinal, kinds[3], "final event is strictly last")
	assert.Equal(t, []string{"fast", "medium", "slow"}, partialIDs, "partials arrive in completion order")

	require.NotNil(t, final)
	require.Len(t, final.Results, 3)
	// Final results return to slot order and carry scores.
	assert.Equal(t, "slow", final.Results[0].EngineID)
	require.NotNil(t, final.Results[0].Score)
	assert.InDelta(t, 9.0, final.Results[0].Score.Overall, 1e-9)
	assert.Equal(t, "synth", final.SynthesizedTranslation)
	require.NotNil(t, final.BestResult)
	assert.Equal(t, "judge", final.BestResult.EngineID)
}

func TestTranslateStream_CancellationStopsEmission(t *testing.T) {
	builder := &testutils.StubBuilder{
		Engines: map[string]ports.TranslationEngine{
			"fast": &testutils.StubEngine{EngineName: "fast", Translation: "f", Delay: 5 * time.Millisecond},
			"slow": &testutils.StubEngine{EngineName: "slow", Translation: "s", Delay: 500 * time.Millisecond},
		},
		JudgeClient: &testutils.StubLLMClient{Response: sampleVerdict},
	}
	svc := NewService(builder, nil)

	ctx, cancel := context.WithCancel(context.Background())
	configs := []engine.Config{openaiCfg("fast"), openaiCfg("slow")}
	events := svc.TranslateStream(ctx, vibeReq("fast", "slow"), configs, nil)

	// Take the first partial, then walk away.
	first, ok := <-events
	require.True(t, ok)
	assert.Equal(t, domain.StreamPartial, first.Kind)
	cancel()

	var after []domain.StreamEvent
	for ev := range events {
		after = append(after, ev)
	}
	for _, ev := range after {
		assert.NotEqual(t, domain.StreamFinal, ev.Kind, "no final event after cancellation")
	}
}

func TestTranslateStream_EmptyFanOut(t *testing.T) {
	svc := NewService(&testutils.StubBuilder{}, nil)
	events := svc.TranslateStream(context.Background(), vibeReq(), nil, nil)

	var got []domain.StreamEvent
	for ev := range events {
		got = append(got, ev)
	}
	require.Len(t, got, 1, "only the final event for an empty fan-out")
	assert.Equal(t, domain.StreamFinal, got[0].Kind)
	assert.Empty(t, got[0].Final.Results)
}
