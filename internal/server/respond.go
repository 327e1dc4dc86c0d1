package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arlo-hs/lingopipe/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// errorEnvelope is the wire shape of every error response.
type errorEnvelope struct {
	Error *domain.APIError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps an error onto the envelope. Classified APIErrors keep
// their status and code; anything else becomes a 500 whose details are
// exposed only in debug mode.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apiErr, ok := domain.AsAPIError(err); ok {
		writeJSON(w, apiErr.Status, errorEnvelope{Error: apiErr})
		return
	}

	s.logger.Error("unhandled error",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	apiErr := domain.NewAPIError(http.StatusInternalServerError,
		domain.CodeInternalError, "internal server error", nil)
	if s.settings.Debug {
		apiErr.Details = map[string]string{"message": err.Error()}
	}
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{Error: apiErr})
}

// decodeBody parses and validates a JSON request body. A malformed body maps
// to a 400; a body that parses but fails struct validation maps to a 422.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.BadRequest(domain.CodeInvalidJSON,
			fmt.Sprintf("request body is not valid JSON: %v", err), nil)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]map[string]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, map[string]string{
					"field": fe.Field(),
					"rule":  fe.Tag(),
				})
			}
			return domain.NewAPIError(http.StatusUnprocessableEntity,
				domain.CodeValidationError, "request validation failed", details)
		}
		return err
	}
	return nil
}
