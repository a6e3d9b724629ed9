package domain

import "time"

type UserRole int

const (
	RoleCustomer UserRole = 0
	RoleAdmin    UserRole = 1
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus maps a path/body value onto a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderPending, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(raw), true
	default:
		return "", false
	}
}

// orderTransitions is the allowed status machine. Delivered and Cancelled
// are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Photo        string    `json:"photo,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Writer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Biography string    `json:"biography,omitempty"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Publication struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BookID    string    `json:"bookId"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type Book struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Photo         string       `json:"photo,omitempty"`
	Price         float64      `json:"price"`
	Discount      float64      `json:"discount"`
	Stock         int          `json:"stock"`
	AuthorID      string       `json:"authorId"`
	CategoryID    string       `json:"categoryId,omitempty"`
	PublicationID string       `json:"publicationId,omitempty"`
	Author        *Writer      `json:"author,omitempty"`
	Category      *Category    `json:"category,omitempty"`
	Publication   *Publication `json:"publication,omitempty"`
	Reviews       []Review     `json:"reviews,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// OrderItem is one line item: a book reference plus quantity. The same book
// may appear in multiple line items of one order.
type OrderItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
	Book     *Book  `json:"book,omitempty"`
}

type Order struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	User         *User          `json:"user,omitempty"`
	Items        []OrderItem    `json:"items"`
	OrderDetails map[string]any `json:"orderDetails"`
	Status       OrderStatus    `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// PasswordResetToken is the single live reset secret for a user. The raw
// secret is mailed to the user; only its SHA-256 hash is stored.
type PasswordResetToken struct {
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}
