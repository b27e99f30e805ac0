package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/clubpool/clubpool/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeValidationError(w http.ResponseWriter, v *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": v.Fields})
}

// writeInternalError logs the real cause and hands the caller an
// opaque failure.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected server fault")
	http.Error(w, domain.ErrInternal.Error(), http.StatusInternalServerError)
}

func isValidationError(err error) (*domain.ValidationError, bool) {
	var v *domain.ValidationError
	ok := errors.As(err, &v)
	return v, ok
}
