package api

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (s *Server) pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

func (s *Server) adminListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := s.pagination(r)
	orders, err := s.orderService.GetAll(r.Context(), limit, offset)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: orders})
}

func (s *Server) adminListReservationsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := s.pagination(r)
	reservations, err := s.reservationService.GetAll(r.Context(), limit, offset)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: reservations})
}

// adminOpsHandler reports operational state: realtime connections, the email
// circuit breaker, and rate limiter occupancy.
func (s *Server) adminOpsHandler(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data: map[string]interface{}{
			"realtime": map[string]interface{}{
				"connected_clients": s.hub.ClientCount(),
			},
			"email_circuit_breaker": s.emailBreaker.Metrics(),
			"rate_limiter":          s.rateLimiter.Metrics(),
		},
	})
}
