package vibe

import (
	"context"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
)

// TranslateStream runs the vibe pipeline in streaming mode. Each engine's
// result is emitted as a partial event the moment it settles, in completion
// order; once every slot has settled the judge runs and a single final event
// carries the assembled response. The channel is closed after the final
// event, or as soon as ctx is canceled, in which case in-flight work is
// abandoned and nothing further is emitted.
//
// Partial events carry unscored results; scores appear only on the copies
// inside the final event. Partials are never revised.
func (s *Service) TranslateStream(
	ctx context.Context,
	req domain.VibeRequest,
	configs []engine.Config,
	judgeCfg *engine.Config,
) <-chan domain.StreamEvent {
	events := make(chan domain.StreamEvent)

	go func() {
		defer close(events)

		settled := make(chan domain.ScoredEngineResult)
		done := make(chan []domain.ScoredEngineResult, 1)

		go func() {
			results := s.dispatcher.Dispatch(ctx, req, configs, func(r domain.ScoredEngineResult) {
				select {
				case settled <- r:
				case <-ctx.Done():
				}
			})
			done <- results
		}()

		// Drain partials until every slot has reported, then take the
		// slot-ordered results for the final event.
		var results []domain.ScoredEngineResult
	partials:
		for {
			select {
			case r := <-settled:
				partial := r
				select {
				case events <- domain.StreamEvent{Kind: domain.StreamPartial, Partial: &partial}:
				case <-ctx.Done():
					return
				}
			case results = <-done:
				break partials
			case <-ctx.Done():
				return
			}
		}

		resp := s.assemble(ctx, req, configs, judgeCfg, results)
		if ctx.Err() != nil {
			return
		}

		select {
		case events <- domain.StreamEvent{Kind: domain.StreamFinal, Final: &resp}:
		case <-ctx.Done():
		}
	}()

	return events
}
