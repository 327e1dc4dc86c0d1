package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arlo-hs/lingopipe/internal/domain"
)

// sseWriter frames server-sent events over a flushable response writer.
// Clients read the stream with fetch; EventSource cannot POST.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// newSSEWriter prepares the response for event streaming and sends the
// headers. It fails before any byte is written when the underlying writer
// cannot flush.
func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, domain.NewAPIError(http.StatusInternalServerError,
			domain.CodeInternalError, "streaming unsupported by connection", nil)
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &sseWriter{w: w, flusher: flusher}, nil
}

// Send writes one named event with a JSON payload and flushes it.
func (s *sseWriter) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("write %s event: %w", event, err)
	}
	s.flusher.Flush()
	return nil
}
