package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/azizrestaurant/restaurant-platform/internal/service"
)

func (s *Server) createReservationHandler(w http.ResponseWriter, r *http.Request) {
	var input service.CreateReservationInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	reservation, err := s.reservationService.Create(r.Context(), &input)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: reservation})
}

func (s *Server) getReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservation, err := s.reservationService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: reservation})
}

func (s *Server) getReservationsByCustomerHandler(w http.ResponseWriter, r *http.Request) {
	reservations, err := s.reservationService.GetByCustomerID(r.Context(), mux.Vars(r)["customerId"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: reservations})
}

func (s *Server) updateReservationHandler(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateReservationInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	reservation, err := s.reservationService.Update(r.Context(), mux.Vars(r)["id"], &input)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: reservation})
}

func (s *Server) cancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservation, err := s.reservationService.Cancel(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: reservation})
}

// availabilityQuery parses the shared date/partySize query parameters. A
// false return means the response has already been written.
func (s *Server) availabilityQuery(w http.ResponseWriter, r *http.Request) (time.Time, int, bool) {
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid or missing date, expected YYYY-MM-DD")
		return time.Time{}, 0, false
	}

	partySize, err := strconv.Atoi(r.URL.Query().Get("partySize"))
	if err != nil || partySize < 1 {
		s.respondWithError(w, http.StatusBadRequest, "Invalid or missing partySize")
		return time.Time{}, 0, false
	}

	return date, partySize, true
}

func (s *Server) checkAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	date, partySize, ok := s.availabilityQuery(w, r)
	if !ok {
		return
	}

	timeOfDay := r.URL.Query().Get("time")
	if timeOfDay == "" {
		s.respondWithError(w, http.StatusBadRequest, "Missing time")
		return
	}

	available, err := s.reservationService.CheckAvailability(r.Context(), date, timeOfDay, partySize)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    map[string]bool{"available": available},
	})
}

func (s *Server) availableSlotsHandler(w http.ResponseWriter, r *http.Request) {
	date, partySize, ok := s.availabilityQuery(w, r)
	if !ok {
		return
	}

	slots, err := s.reservationService.GetAvailableTimeSlots(r.Context(), date, partySize)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    map[string][]string{"slots": slots},
	})
}
