package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)

// Order status values. "pending" is set at submission; later transitions
// arrive from kitchen-side processes over the event stream.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Nutrition is an optional per-dish facts block. A nil *Nutrition on a
// Dish means the owner never provided facts, which is not the same as a
// block of zeroes.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Sugar    float64 `json:"sugar"`
}

type Dish struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	ImageURL    string     `json:"image_url"`
	GalleryURLs []string   `json:"gallery_urls,omitempty"`
	Available   bool       `json:"available"`
	DietaryType string     `json:"dietary_type,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Ingredients []string   `json:"ingredients,omitempty"`
	Nutrition   *Nutrition `json:"nutrition,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CartLine is one row of a cart: price and image are copied from the dish
// at add time and never re-read from the live menu.
type CartLine struct {
	DishID    string  `json:"dish_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}

type DeliveryForm struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Notes    string `json:"notes,omitempty"`
}

// Order is an immutable checkout snapshot. Only Status changes after
// creation, and only via the status event consumer.
type Order struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id,omitempty"`
	IsGuest   bool         `json:"is_guest"`
	Items     []CartLine   `json:"items"`
	Customer  DeliveryForm `json:"customer"`
	Subtotal  float64      `json:"subtotal"`
	Tax       float64      `json:"tax"`
	Total     float64      `json:"total"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// User is the stored form of an Identity. The hash is never serialised.
type User struct {
	Identity
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id,omitempty"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

type StatusEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
