package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/azizrestaurant/restaurant-platform/pkg/errors"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
)

// ApiResponse is the envelope on every JSON response. ErrorID is set only on
// 500-class failures, for support correlation.
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	ErrorID string      `json:"errorId,omitempty"`
}

// Health is the health check response
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.respondWithError(w, http.StatusServiceUnavailable, "Database unreachable")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data: Health{
			Status:    "ok",
			Version:   "1.0.0",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// decodeAndValidate parses the JSON body into dst and runs struct validation.
// A false return means the response has already been written.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			s.respondWithError(w, http.StatusBadRequest,
				"Validation failed on field '"+verrs[0].Field()+"' ("+verrs[0].Tag()+")")
			return false
		}
		s.respondWithError(w, http.StatusBadRequest, "Validation failed")
		return false
	}
	return true
}

// respondWithServiceError maps a service-layer error onto the response
// envelope. Unclassified and internal errors become opaque 500s carrying a
// generated error id; detail is included only in development mode.
func (s *Server) respondWithServiceError(w http.ResponseWriter, err error) {
	code := apperrors.StatusCode(err)
	if code < http.StatusInternalServerError {
		s.respondWithError(w, code, err.Error())
		return
	}

	errorID := models.GenerateID("err")
	s.logger.Error("Request failed", "error", err, "errorId", errorID)

	message := "Internal server error"
	if s.config.IsDevelopment() {
		message = err.Error()
	}
	s.respondWithJSON(w, code, ApiResponse{
		Success: false,
		Message: message,
		ErrorID: errorID,
	})
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, ApiResponse{
		Success: false,
		Message: message,
	})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
