package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/langcode"
)

func (s *Server) handleEasy(w http.ResponseWriter, r *http.Request) {
	cfg, err := engineConfigFromHeader(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req domain.EasyRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.SourceLang, req.TargetLang = langcode.NormalizePair(req.SourceLang, req.TargetLang)

	resp, err := s.easy.Translate(r.Context(), req, cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVibe(w http.ResponseWriter, r *http.Request) {
	configs, err := engineConfigsFromHeader(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	judgeCfg, err := judgeConfigFromHeader(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req domain.VibeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.SourceLang, req.TargetLang = langcode.NormalizePair(req.SourceLang, req.TargetLang)

	resp, err := s.vibe.Translate(r.Context(), req, configs, judgeCfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVibeStream(w http.ResponseWriter, r *http.Request) {
	configs, err := engineConfigsFromHeader(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	judgeCfg, err := judgeConfigFromHeader(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req domain.VibeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.SourceLang, req.TargetLang = langcode.NormalizePair(req.SourceLang, req.TargetLang)

	sse, err := newSSEWriter(w)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Headers are sent; any failure from here on can only truncate the
	// stream, never change the status code.
	for event := range s.vibe.TranslateStream(r.Context(), req, configs, judgeCfg) {
		var writeErr error
		switch event.Kind {
		case domain.StreamPartial:
			writeErr = sse.Send("partial", event.Partial)
		case domain.StreamFinal:
			writeErr = sse.Send("final", event.Final)
		}
		if writeErr != nil {
			s.logger.Debug("stream write failed, client likely disconnected", zap.Error(writeErr))
			return
		}
	}

	if r.Context().Err() != nil {
		return
	}
	if err := sse.Send("done", map[string]bool{"ok": true}); err != nil {
		s.logger.Debug("stream done marker write failed", zap.Error(err))
	}
}

func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	cfg, err := engineConfigFromHeader(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req domain.SpecRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.SourceLang, req.TargetLang = langcode.NormalizePair(req.SourceLang, req.TargetLang)

	resp, err := s.spec.Translate(r.Context(), req, cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEngines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"engines": s.registry.List()})
}

func (s *Server) handleGetEngine(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	info, ok := s.registry.Get(id)
	if !ok {
		s.writeError(w, r, domain.NewAPIError(http.StatusNotFound,
			domain.CodeNotFound, "engine not found: "+id, nil))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
