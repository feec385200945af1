package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func (s *Server) getStatusHistoryHandler(w http.ResponseWriter, r *http.Request) {
	history, err := s.trackingService.GetHistory(r.Context(), mux.Vars(r)["orderId"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: history})
}

func (s *Server) getCurrentStatusHandler(w http.ResponseWriter, r *http.Request) {
	current, err := s.trackingService.GetCurrentStatus(r.Context(), mux.Vars(r)["orderId"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: current})
}

// trackingUpdateStatusHandler is the tracking-facing status update; it
// rejects unrecognized status values before the transition runs.
func (s *Server) trackingUpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	order, err := s.trackingService.UpdateStatus(r.Context(), mux.Vars(r)["orderId"], req.Status, req.UpdatedBy, req.Notes)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

func (s *Server) getStatusEstimateHandler(w http.ResponseWriter, r *http.Request) {
	targetStatus := r.URL.Query().Get("status")
	if targetStatus == "" {
		s.respondWithError(w, http.StatusBadRequest, "Missing status")
		return
	}

	estimate, err := s.trackingService.EstimateTimeForStatus(r.Context(), mux.Vars(r)["orderId"], targetStatus)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data: map[string]string{
			"status":        targetStatus,
			"estimatedTime": estimate.Format(time.RFC3339),
		},
	})
}
