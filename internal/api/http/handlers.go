package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"savoria/internal/auth"
	"savoria/internal/cart"
	"savoria/internal/catalog"
	"savoria/internal/checkout"
	"savoria/internal/domain"
	"savoria/internal/session"

	"github.com/gorilla/mux"
)

// SessionTokenHeader carries the opaque session token. Cart and checkout
// routes lazily create a guest session and echo the token back in the
// response when the request carries none.
const SessionTokenHeader = "X-Session-Token"

type Handler struct {
	Auth      auth.AuthServiceInterface
	Menu      catalog.MenuServiceInterface
	Checkout  checkout.CheckoutServiceInterface
	Sessions  *session.Manager
	Gate      *auth.Gate
	UploadDir string
}

func NewHandler(authSvc auth.AuthServiceInterface, menuSvc catalog.MenuServiceInterface, checkoutSvc checkout.CheckoutServiceInterface, sessions *session.Manager, gate *auth.Gate, uploadDir string) *Handler {
	return &Handler{
		Auth:      authSvc,
		Menu:      menuSvc,
		Checkout:  checkoutSvc,
		Sessions:  sessions,
		Gate:      gate,
		UploadDir: uploadDir,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/signup", h.signUp).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/auth/pin", h.verifyPIN).Methods("POST")
	r.HandleFunc("/api/auth/pin", h.cancelPIN).Methods("DELETE")

	r.HandleFunc("/api/menu", h.browseMenu).Methods("GET")
	r.HandleFunc("/api/menu", h.createDish).Methods("POST")
	r.HandleFunc("/api/menu/{id}", h.getDish).Methods("GET")
	r.HandleFunc("/api/menu/{id}", h.updateDish).Methods("PUT")
	r.HandleFunc("/api/menu/{id}", h.deleteDish).Methods("DELETE")
	r.HandleFunc("/api/menu/{id}/image", h.uploadDishImage).Methods("POST")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{id}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{id}", h.removeCartItem).Methods("DELETE")

	r.HandleFunc("/api/checkout", h.submitOrder).Methods("POST")

	r.HandleFunc("/api/orders", h.orderHistory).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "savoria",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// --- session plumbing ---

func (h *Handler) currentSession(r *http.Request) *session.Session {
	token := r.Header.Get(SessionTokenHeader)
	if token == "" {
		return nil
	}
	s, ok := h.Sessions.Get(token)
	if !ok {
		return nil
	}
	return s
}

// ensureSession resolves the caller's session, creating a guest one when
// the token is missing or stale.
func (h *Handler) ensureSession(w http.ResponseWriter, r *http.Request) *session.Session {
	if s := h.currentSession(r); s != nil {
		return s
	}
	s := h.Sessions.Create(nil)
	w.Header().Set(SessionTokenHeader, s.Token)
	return s
}

// requireOwner gates the management dashboard: a signed-in owner session
// that has also passed the PIN challenge.
func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request) *session.Session {
	s := h.currentSession(r)
	if s == nil || s.Identity == nil || s.Identity.Role != domain.RoleOwner {
		writeError(w, http.StatusForbidden, "owner access required")
		return nil
	}
	if !s.IsElevated() {
		writeError(w, http.StatusForbidden, "PIN verification required")
		return nil
	}
	return s
}

// --- auth ---

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type sessionResponse struct {
	Token    string           `json:"token"`
	Identity *domain.Identity `json:"identity"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	identity, err := h.Auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName, req.Role)
	switch {
	case errors.Is(err, auth.ErrInvalidRole), errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		log.Printf("[auth] signup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "please try again")
		return
	}

	s := h.Sessions.Create(identity)
	writeJSON(w, http.StatusCreated, sessionResponse{Token: s.Token, Identity: identity})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	identity, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		log.Printf("[auth] login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "please try again")
		return
	}

	s := h.Sessions.Create(identity)
	writeJSON(w, http.StatusOK, sessionResponse{Token: s.Token, Identity: identity})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if token := r.Header.Get(SessionTokenHeader); token != "" {
		h.Sessions.Destroy(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) verifyPIN(w http.ResponseWriter, r *http.Request) {
	s := h.currentSession(r)
	if s == nil || s.Identity == nil || s.Identity.Role != domain.RoleOwner {
		writeError(w, http.StatusForbidden, "owner access required")
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	// A wrong PIN only re-prompts; the session stays signed in.
	if err := h.Gate.Verify(req.PIN); err != nil {
		writeError(w, http.StatusForbidden, "incorrect PIN")
		return
	}

	s.Elevate()
	writeJSON(w, http.StatusOK, map[string]bool{"elevated": true})
}

// cancelPIN abandons the challenge. Per the session rules this signs the
// identity out entirely rather than leaving a half-authenticated session.
func (h *Handler) cancelPIN(w http.ResponseWriter, r *http.Request) {
	if token := r.Header.Get(SessionTokenHeader); token != "" {
		h.Sessions.Destroy(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- menu ---

func parseCriteria(r *http.Request) catalog.Criteria {
	q := r.URL.Query()
	criteria := catalog.Criteria{
		Search:  q.Get("search"),
		Dietary: q.Get("dietary"),
	}
	if raw := q.Get("cuisine"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				criteria.Cuisines = append(criteria.Cuisines, c)
			}
		}
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		criteria.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		criteria.MaxPrice = v
	}
	return criteria
}

func (h *Handler) browseMenu(w http.ResponseWriter, r *http.Request) {
	var identity *domain.Identity
	if s := h.currentSession(r); s != nil {
		identity = s.Identity
	}

	dishes, err := h.Menu.Browse(r.Context(), parseCriteria(r), identity)
	if err != nil {
		log.Printf("[catalog] browse failed: %v", err)
		writeError(w, http.StatusInternalServerError, "please try again")
		return
	}
	// an empty result is a valid empty state, not an error
	writeJSON(w, http.StatusOK, dishes)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	dish, err := h.Menu.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "dish not found")
		return
	}

	if !dish.Available {
		s := h.currentSession(r)
		if s == nil || s.Identity == nil || s.Identity.Role != domain.RoleOwner || s.Identity.ID != dish.OwnerID {
			writeError(w, http.StatusNotFound, "dish not found")
			return
		}
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	s := h.requireOwner(w, r)
	if s == nil {
		return
	}

	var dish domain.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.Menu.Create(r.Context(), &dish, s.Identity.ID); err != nil {
		h.writeMenuError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dish)
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	s := h.requireOwner(w, r)
	if s == nil {
		return
	}

	var dish domain.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	dish.ID = mux.Vars(r)["id"]

	if err := h.Menu.Update(r.Context(), &dish, s.Identity.ID); err != nil {
		h.writeMenuError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	s := h.requireOwner(w, r)
	if s == nil {
		return
	}

	if err := h.Menu.Delete(r.Context(), mux.Vars(r)["id"], s.Identity.ID); err != nil {
		h.writeMenuError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeMenuError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidDish):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrDishNotFound):
		writeError(w, http.StatusNotFound, "dish not found")
	case errors.Is(err, catalog.ErrNotOwner):
		writeError(w, http.StatusForbidden, "dish belongs to another owner")
	default:
		log.Printf("[catalog] menu write failed: %v", err)
		writeError(w, http.StatusInternalServerError, "please try again")
	}
}

// --- cart ---

type cartResponse struct {
	Items        []domain.CartLine `json:"items"`
	ItemCount    int               `json:"item_count"`
	Subtotal     float64           `json:"subtotal"`
	Tax          float64           `json:"tax"`
	Total        float64           `json:"total"`
	DisplayTotal string            `json:"display_total"`
}

func cartView(c *cart.Cart) cartResponse {
	return cartResponse{
		Items:        c.Lines(),
		ItemCount:    c.ItemCount(),
		Subtotal:     c.Subtotal(),
		Tax:          c.Tax(),
		Total:        c.Total(),
		DisplayTotal: fmt.Sprintf("%.2f", cart.Round2(c.Total())),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	s := h.ensureSession(w, r)
	s.Lock()
	view := cartView(s.Cart)
	s.Unlock()
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	s := h.ensureSession(w, r)

	var req struct {
		DishID string `json:"dish_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DishID == "" {
		writeError(w, http.StatusBadRequest, "dish_id is required")
		return
	}

	dish, err := h.Menu.Get(r.Context(), req.DishID)
	if err != nil {
		writeError(w, http.StatusNotFound, "dish not found")
		return
	}
	if !dish.Available {
		writeError(w, http.StatusConflict, "dish is not available")
		return
	}

	s.Lock()
	s.Cart.AddItem(*dish)
	view := cartView(s.Cart)
	s.Unlock()
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	s := h.ensureSession(w, r)

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "quantity must be an integer")
		return
	}

	s.Lock()
	s.Cart.SetQuantity(mux.Vars(r)["id"], req.Quantity)
	view := cartView(s.Cart)
	s.Unlock()
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	s := h.ensureSession(w, r)

	s.Lock()
	s.Cart.RemoveItem(mux.Vars(r)["id"])
	view := cartView(s.Cart)
	s.Unlock()
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	s := h.ensureSession(w, r)

	s.Lock()
	s.Cart.Clear()
	s.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// --- checkout & orders ---

type orderConfirmation struct {
	OrderID          string  `json:"order_id"`
	ConfirmationCode string  `json:"confirmation_code"`
	Subtotal         float64 `json:"subtotal"`
	Tax              float64 `json:"tax"`
	Total            float64 `json:"total"`
	DisplayTotal     string  `json:"display_total"`
	Status           string  `json:"status"`
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	s := h.ensureSession(w, r)

	// one submission per checkout session at a time
	if !s.BeginCheckout() {
		writeError(w, http.StatusConflict, "order submission already in progress")
		return
	}
	defer s.EndCheckout()

	var form domain.DeliveryForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	s.Lock()
	defer s.Unlock()

	order, err := h.Checkout.Submit(r.Context(), s.Cart, form, s.Identity)
	if err != nil {
		var valErr checkout.ValidationError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "cart is empty")
		case errors.As(err, &valErr):
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": valErr.Message,
				"field": valErr.Field,
			})
		default:
			log.Printf("[checkout] order submission failed: %v", err)
			writeError(w, http.StatusInternalServerError, "please try again")
		}
		return
	}

	writeJSON(w, http.StatusCreated, orderConfirmation{
		OrderID:          order.ID,
		ConfirmationCode: checkout.ConfirmationCode(order.ID),
		Subtotal:         order.Subtotal,
		Tax:              order.Tax,
		Total:            order.Total,
		DisplayTotal:     fmt.Sprintf("%.2f", cart.Round2(order.Total)),
		Status:           order.Status,
	})
}

func (h *Handler) orderHistory(w http.ResponseWriter, r *http.Request) {
	s := h.currentSession(r)
	if s == nil || s.Identity == nil {
		writeError(w, http.StatusUnauthorized, "sign in to view order history")
		return
	}

	orders, err := h.Checkout.History(r.Context(), s.Identity.ID)
	if err != nil {
		log.Printf("[orders] history lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "please try again")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Checkout.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qr, err := h.Checkout.GetQRCode(r.Context(), mux.Vars(r)["id"])
	if err != nil || len(qr) == 0 {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
