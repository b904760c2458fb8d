package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ashishpal07/qp-assessment/internal/auth"
	"github.com/ashishpal07/qp-assessment/internal/database"
	"github.com/ashishpal07/qp-assessment/internal/store"
)

type createOrderRequest struct {
	OrderItems []orderItemPayload `json:"orderItems"`
}

type orderItemPayload struct {
	GroceryID int64 `json:"groceryId"`
	Quantity  int   `json:"quantity"`
}

// validate enforces the input contract: a non-empty item list, positive
// quantities, and unique grocery ids. Callers must pre-aggregate quantities
// per grocery; duplicates are rejected before the store is touched.
func (req createOrderRequest) validate() error {
	if len(req.OrderItems) == 0 {
		return errors.New("At least one order item is required.")
	}

	seen := make(map[int64]struct{}, len(req.OrderItems))
	for _, item := range req.OrderItems {
		if item.GroceryID <= 0 {
			return errors.New("groceryId should be a positive number.")
		}
		if item.Quantity < 1 {
			return errors.New("quantity should be minimum 1.")
		}
		if _, dup := seen[item.GroceryID]; dup {
			return errors.New("groceryId should be unique.")
		}
		seen[item.GroceryID] = struct{}{}
	}

	return nil
}

func orderIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("Invalid or missing orderId.")
	}
	return id, nil
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		s.respondMessage(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]store.OrderItemRequest, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		items = append(items, store.OrderItemRequest{
			GroceryID: item.GroceryID,
			Quantity:  item.Quantity,
		})
	}

	order, err := store.CreateOrder(r.Context(), s.db, store.CreateOrderRequest{
		UserID: identity.UserID,
		Items:  items,
	})
	if err != nil {
		if errors.Is(err, database.ErrGroceryNotFound) {
			s.respondMessage(w, http.StatusNotFound, "Some groceries not found.")
			return
		}
		s.respondStoreError(w, err, "Internal server error while creating order.")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order created successfully.",
		"order":   order,
	})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		s.respondMessage(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	orderID, err := orderIDFromPath(r)
	if err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := store.CancelOrder(r.Context(), s.db, orderID, identity.UserID)
	if err != nil {
		if errors.Is(err, database.ErrOrderNotPending) {
			s.respondMessage(w, http.StatusBadRequest, "Only pending orders can be canceled.")
			return
		}
		s.respondStoreError(w, err, "Internal server error while canceling order.")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order canceled successfully.",
		"order":   order,
	})
}

func (s *Server) handleDeliverOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromPath(r)
	if err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := store.DeliverOrder(r.Context(), s.db, orderID)
	if err != nil {
		if errors.Is(err, database.ErrOrderNotPending) {
			s.respondMessage(w, http.StatusBadRequest, "Only pending orders can be delivered.")
			return
		}
		s.respondStoreError(w, err, "Internal server error while delivering order.")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order delivered successfully.",
		"order":   order,
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		s.respondMessage(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	orderID, err := orderIDFromPath(r)
	if err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := store.GetOrder(r.Context(), s.db, orderID)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while fetching order.")
		return
	}

	if order.UserID != identity.UserID && !identity.IsAdmin() {
		s.respondMessage(w, http.StatusForbidden, "You can only view your own orders.")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		s.respondMessage(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	page, err := store.ListOrdersCursor(r.Context(), s.db, identity.UserID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while fetching orders.")
		return
	}

	s.respondJSON(w, http.StatusOK, page)
}
