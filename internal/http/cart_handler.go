package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/catalog"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/repository"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/service"
)

// CartAPI is the slice of the cart service the HTTP layer consumes.
type CartAPI interface {
	AddItem(ctx context.Context, in service.AddItemInput) (*domain.CartView, error)
	GetCart(ctx context.Context, userID string) (*domain.CartView, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartView, error)
	DeleteItem(ctx context.Context, userID, itemID string) (*domain.CartView, error)
	CountItems(ctx context.Context, userID string) (int64, error)
	EmptyCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	service CartAPI
}

func NewCartHandler(svc CartAPI) *CartHandler {
	return &CartHandler{service: svc}
}

type AddItemRequestDTO struct {
	ProductID        string   `json:"productId"`
	Quantity         int      `json:"quantity"`
	Height           *float64 `json:"height,omitempty"`
	Width            *float64 `json:"width,omitempty"`
	Length           *float64 `json:"length,omitempty"`
	SelectedMaterial *string  `json:"selectedMaterial,omitempty"`
	MaterialPrice    *float64 `json:"materialPrice,omitempty"`
	ProductType      string   `json:"productType,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	view, err := h.service.AddItem(r.Context(), service.AddItemInput{
		UserID:           userID,
		ProductID:        req.ProductID,
		Quantity:         req.Quantity,
		Height:           req.Height,
		Width:            req.Width,
		Length:           req.Length,
		SelectedMaterial: req.SelectedMaterial,
		MaterialPrice:    req.MaterialPrice,
		ProductType:      req.ProductType,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	view, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	view, err := h.service.UpdateQuantity(r.Context(), userID, itemID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	view, err := h.service.DeleteItem(r.Context(), userID, itemID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) CountItems(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	count, err := h.service.CountItems(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"itemCount": count})
}

func (h *CartHandler) EmptyCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.service.EmptyCart(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "cart emptied"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the service error taxonomy onto HTTP status
// codes. Anything outside the taxonomy is a storage failure and
// surfaces as a 500 without being masked as a business error.
func handleServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, "invalid_argument", verr.Error())
	case errors.Is(err, repository.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "cart_not_found", "cart not found")
	case errors.Is(err, repository.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", "item not found in cart")
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, service.ErrConflict):
		respondError(w, http.StatusConflict, "conflict", "cart was modified concurrently, retry the request")
	default:
		log.Printf("cart request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
