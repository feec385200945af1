package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/azizrestaurant/restaurant-platform/internal/service"
)

// updateStatusRequest is the body for both status update entry points
type updateStatusRequest struct {
	Status    string `json:"status" validate:"required"`
	UpdatedBy string `json:"updatedBy"`
	Notes     string `json:"notes"`
}

func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrderInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	order, err := s.orderService.Create(r.Context(), &input)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: order})
}

func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := s.orderService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

func (s *Server) getOrderByTrackingHandler(w http.ResponseWriter, r *http.Request) {
	order, err := s.orderService.GetByTrackingID(r.Context(), mux.Vars(r)["trackingId"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

func (s *Server) getOrdersByCustomerHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orderService.GetByCustomerID(r.Context(), mux.Vars(r)["customerId"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: orders})
}

func (s *Server) updateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateOrderInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	order, err := s.orderService.Update(r.Context(), mux.Vars(r)["id"], &input)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	order, err := s.orderService.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status, req.UpdatedBy, req.Notes)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

func (s *Server) addOrderItemHandler(w http.ResponseWriter, r *http.Request) {
	var input service.OrderItemInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	order, err := s.orderService.AddItem(r.Context(), mux.Vars(r)["id"], &input)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

func (s *Server) removeOrderItemHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	order, err := s.orderService.RemoveItem(r.Context(), vars["id"], vars["itemId"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}
