package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ganot/nossoday/internal/domain/checkout"
	"github.com/ganot/nossoday/internal/domain/couple"
)

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// errorStatus maps domain errors to an HTTP status and client message.
// Unknown errors are reported as 500 without detail.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, couple.ErrInvalidID):
		return http.StatusBadRequest, "ID inválido"
	case errors.Is(err, couple.ErrCoupleNotFound):
		return http.StatusNotFound, "Casal não encontrado"
	case errors.Is(err, couple.ErrInvalidPlan), errors.Is(err, checkout.ErrPlanNotPriced):
		return http.StatusBadRequest, "Plano inválido"
	case errors.Is(err, couple.ErrInvalidInput),
		errors.Is(err, couple.ErrTooManyPhotos),
		errors.Is(err, checkout.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Erro interno do servidor"
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed", "path", r.URL.Path, "status", status, "error", err)
	writeError(w, status, message)
}
