package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/azizrestaurant/restaurant-platform/internal/service"
)

func (s *Server) getMenuHandler(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		items, err := s.menuService.GetByCategory(r.Context(), category)
		if err != nil {
			s.respondWithServiceError(w, err)
			return
		}
		s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: items})
		return
	}

	items, err := s.menuService.GetVisibleItems(r.Context())
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: items})
}

func (s *Server) getFeaturedMenuHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.menuService.GetFeatured(r.Context())
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: items})
}

func (s *Server) getMenuCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.menuService.GetCategories(r.Context())
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: categories})
}

func (s *Server) getMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	item, err := s.menuService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: item})
}

func (s *Server) createMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	var input service.MenuItemInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	item, err := s.menuService.Create(r.Context(), &input)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: item})
}

func (s *Server) updateMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	var input service.MenuItemInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	item, err := s.menuService.Update(r.Context(), mux.Vars(r)["id"], &input)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: item})
}

func (s *Server) deleteMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.menuService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Menu item deleted"})
}

type setAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

func (s *Server) setMenuAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var req setAvailabilityRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if err := s.menuService.SetAvailability(r.Context(), mux.Vars(r)["id"], *req.Available); err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Availability updated"})
}
