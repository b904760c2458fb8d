package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ashishpal07/qp-assessment/internal/store"
)

var minPrice = decimal.NewFromInt(1)

type createGroceryRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
}

func (req createGroceryRequest) validate() error {
	if len(req.Name) < 3 {
		return errors.New("name should be minimum 3 characters.")
	}
	if len(req.Description) < 3 {
		return errors.New("description should be minimum 3 characters.")
	}
	if req.Price == nil || req.Price.LessThan(minPrice) {
		return errors.New("price should be minimum 1.")
	}
	if req.Stock != nil && *req.Stock < 1 {
		return errors.New("stock should be minimum 1.")
	}
	return nil
}

type updateGroceryRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
}

func (req updateGroceryRequest) validate() error {
	if req.Name != nil && len(*req.Name) < 3 {
		return errors.New("name should be minimum 3 characters.")
	}
	if req.Description != nil && len(*req.Description) < 3 {
		return errors.New("description should be minimum 3 characters.")
	}
	if req.Price != nil && req.Price.LessThan(minPrice) {
		return errors.New("price should be minimum 1.")
	}
	if req.Stock != nil && *req.Stock < 1 {
		return errors.New("stock should be minimum 1.")
	}
	return nil
}

func groceryIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("groceryId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("Invalid or missing grocery ID.")
	}
	return id, nil
}

func (s *Server) handleCreateGrocery(w http.ResponseWriter, r *http.Request) {
	var req createGroceryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	stock := s.cfg.Catalog.DefaultStock
	if req.Stock != nil {
		stock = *req.Stock
	}

	grocery, err := store.CreateGrocery(r.Context(), s.db, req.Name, req.Description, *req.Price, stock)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while creating grocery.")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Grocery created successfully.",
		"grocery": grocery,
	})
}

func (s *Server) handleUpdateGrocery(w http.ResponseWriter, r *http.Request) {
	id, err := groceryIDFromPath(r)
	if err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateGroceryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	grocery, err := store.UpdateGrocery(r.Context(), s.db, id, store.GroceryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while updating grocery.")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Grocery updated successfully.",
		"grocery": grocery,
	})
}

func (s *Server) handleDeleteGrocery(w http.ResponseWriter, r *http.Request) {
	id, err := groceryIDFromPath(r)
	if err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	grocery, err := store.DeleteGrocery(r.Context(), s.db, id)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while deleting grocery.")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Grocery deleted successfully.",
		"grocery": grocery,
	})
}

func (s *Server) handleGetGrocery(w http.ResponseWriter, r *http.Request) {
	id, err := groceryIDFromPath(r)
	if err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	grocery, err := store.GetGrocery(r.Context(), s.db, id)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while fetching grocery.")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"grocery": grocery})
}

func (s *Server) handleListGroceries(w http.ResponseWriter, r *http.Request) {
	groceries, err := store.ListGroceries(r.Context(), s.db)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while fetching groceries.")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"groceries": groceries})
}
