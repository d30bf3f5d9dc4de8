package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/go-coder/storefront/model"
	"github.com/go-coder/storefront/service"
	"github.com/go-coder/storefront/store"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc    service.ServiceInterface
	logger *zap.Logger
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: s, logger: logger}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ping", h.Ping).Methods("GET")

	// Products
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products/list", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")

	// Cart
	r.HandleFunc("/cart/add", h.AddToCart).Methods("POST")
	r.HandleFunc("/cart/remove", h.RemoveFromCart).Methods("POST")
	r.HandleFunc("/cart/list", h.ListCart).Methods("GET")

	// Wishlist
	r.HandleFunc("/wishlist/add", h.AddToWishlist).Methods("POST")
	r.HandleFunc("/wishlist/remove", h.RemoveFromWishlist).Methods("POST")
	r.HandleFunc("/wishlist/list", h.ListWishlist).Methods("GET")
}

// --- request / response shapes ---
type cartLineReq struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"` // optional for remove
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type wishlistReq struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeSvcErr maps service and store sentinels to status codes.
func (h *Handler) writeSvcErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidVariant),
		errors.Is(err, model.ErrInvalidItem):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

// --- Handler ---

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.CatalogItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ListProducts handles GET /products/list
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// AddToCart handles POST /cart/add
// body: { "user_id": "...", "product_id": "X123", "quantity": 2, "size": "M", "color": "red" }
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartLineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Quantity <= 0 {
		writeErr(w, http.StatusBadRequest, "quantity must be > 0")
		return
	}
	line := service.CartLineInput{ProductID: req.ProductID, Quantity: req.Quantity, Size: req.Size, Color: req.Color}
	if err := h.svc.AddToCart(r.Context(), req.UserID, line); err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveFromCart handles POST /cart/remove
// body: { "user_id": "...", "product_id": "X123", "size": "M", "color": "red" }
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req cartLineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	line := service.CartLineInput{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
	if err := h.svc.RemoveFromCart(r.Context(), req.UserID, line); err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ListCart handles GET /cart/list?user_id=...
func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeErr(w, http.StatusBadRequest, "user_id required")
		return
	}
	cart, err := h.svc.GetCart(r.Context(), userID)
	if err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddToWishlist handles POST /wishlist/add
// body: { "user_id": "...", "product_id": "X123" }
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		writeErr(w, http.StatusBadRequest, "user_id and product_id are required")
		return
	}
	if err := h.svc.AddToWishlist(r.Context(), req.UserID, req.ProductID); err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveFromWishlist handles POST /wishlist/remove
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := h.svc.RemoveFromWishlist(r.Context(), req.UserID, req.ProductID); err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ListWishlist handles GET /wishlist/list?user_id=...
func (h *Handler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeErr(w, http.StatusBadRequest, "user_id required")
		return
	}
	wl, err := h.svc.GetWishlist(r.Context(), userID)
	if err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}
