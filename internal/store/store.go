package store

import (
	"context"
	"errors"

	"bookshop/pkg/domain"
)

// ErrDuplicate reports a write rejected by a uniqueness constraint
// (user email, reference-entity name).
var ErrDuplicate = errors.New("duplicate value")

// Store defines persistence for users, the catalog, and orders. Listing
// operations that return a count compute rows and total against the same
// filter predicate.
type Store interface {
	// users
	SaveUser(ctx context.Context, u domain.User) error
	UpdateUser(ctx context.Context, u domain.User) error
	GetUserByEmail(ctx context.Context, email string) (domain.User, bool, error)
	GetUserByID(ctx context.Context, id string) (domain.User, bool, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsersByRole(ctx context.Context, role domain.UserRole, page Page, search string) ([]domain.User, int64, error)

	// password reset tokens: at most one live token per user
	ReplaceResetToken(ctx context.Context, t domain.PasswordResetToken) error
	GetResetToken(ctx context.Context, tokenHash string) (domain.PasswordResetToken, bool, error)
	DeleteResetToken(ctx context.Context, userID string) error

	// writers
	SaveWriter(ctx context.Context, w domain.Writer) error
	UpdateWriter(ctx context.Context, w domain.Writer) error
	GetWriterByID(ctx context.Context, id string) (domain.Writer, bool, error)
	GetWriterByName(ctx context.Context, name string) (domain.Writer, bool, error)
	DeleteWriter(ctx context.Context, id string) error
	ListWriters(ctx context.Context, page Page, search string) ([]domain.Writer, int64, error)

	// categories
	SaveCategory(ctx context.Context, c domain.Category) error
	UpdateCategory(ctx context.Context, c domain.Category) error
	GetCategoryByID(ctx context.Context, id string) (domain.Category, bool, error)
	GetCategoryByName(ctx context.Context, name string) (domain.Category, bool, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context, page Page, search string) ([]domain.Category, int64, error)

	// publications
	SavePublication(ctx context.Context, p domain.Publication) error
	UpdatePublication(ctx context.Context, p domain.Publication) error
	GetPublicationByID(ctx context.Context, id string) (domain.Publication, bool, error)
	GetPublicationByName(ctx context.Context, name string) (domain.Publication, bool, error)
	DeletePublication(ctx context.Context, id string) error
	ListPublications(ctx context.Context, page Page, search string) ([]domain.Publication, int64, error)

	// books (rows joined with author/category/publication)
	SaveBook(ctx context.Context, b domain.Book) error
	UpdateBook(ctx context.Context, b domain.Book) error
	GetBookByID(ctx context.Context, id string) (domain.Book, bool, error)
	DeleteBook(ctx context.Context, id string) error
	ListBooks(ctx context.Context, page Page, search string) ([]domain.Book, int64, error)
	BooksByCategoryID(ctx context.Context, categoryID string) ([]domain.Book, error)
	BooksByPublicationID(ctx context.Context, publicationID string) ([]domain.Book, error)
	BooksByAuthorID(ctx context.Context, authorID string, page Page) ([]domain.Book, int64, error)
	SearchBooksByTitle(ctx context.Context, title string) ([]domain.Book, error)
	RelatedBooks(ctx context.Context, categoryID, excludeBookID string, limit int) ([]domain.Book, error)
	FilterBooks(ctx context.Context, f BookFilter) ([]domain.Book, int64, error)

	// orders (rows joined with user and item books)
	CreateOrder(ctx context.Context, o domain.Order) error
	GetOrderByID(ctx context.Context, id string) (domain.Order, bool, error)
	SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByStatus(ctx context.Context, q OrderListQuery) ([]domain.Order, int64, error)
	OrdersCreatedBetween(ctx context.Context, w DayWindow) ([]domain.Order, error)
	OrdersTouchedBetween(ctx context.Context, w DayWindow) ([]domain.Order, error)
	DeliveredOrdersBetween(ctx context.Context, w DayWindow) ([]domain.Order, error)
}
