package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bookshop/pkg/domain"
)

// MemoryStore is an in-process Store used by tests and local development.
// It mirrors the GORM store's filter and join semantics.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]domain.User
	writers      map[string]domain.Writer
	categories   map[string]domain.Category
	publications map[string]domain.Publication
	books        map[string]domain.Book
	orders       map[string]domain.Order
	resetTokens  map[string]domain.PasswordResetToken // keyed by user ID
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]domain.User),
		writers:      make(map[string]domain.Writer),
		categories:   make(map[string]domain.Category),
		publications: make(map[string]domain.Publication),
		books:        make(map[string]domain.Book),
		orders:       make(map[string]domain.Order),
		resetTokens:  make(map[string]domain.PasswordResetToken),
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](items []T, page Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// SaveUser inserts a user, rejecting duplicate emails.
func (m *MemoryStore) SaveUser(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	m.users[u.ID] = u
	return nil
}

// UpdateUser overwrites a user record.
func (m *MemoryStore) UpdateUser(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	delete(m.resetTokens, id)
	return nil
}

func (m *MemoryStore) ListUsersByRole(_ context.Context, role domain.UserRole, page Page, search string) ([]domain.User, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term, hasTerm := SearchTerm(search)
	matched := make([]domain.User, 0)
	for _, u := range m.users {
		if u.Role != role {
			continue
		}
		if hasTerm && !containsFold(u.Name, term) && !containsFold(u.Email, term) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return paginate(matched, page), int64(len(matched)), nil
}

// ReplaceResetToken keeps at most one live token per user.
func (m *MemoryStore) ReplaceResetToken(_ context.Context, t domain.PasswordResetToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[t.UserID] = t
	return nil
}

func (m *MemoryStore) GetResetToken(_ context.Context, tokenHash string) (domain.PasswordResetToken, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now().UTC()
	for _, t := range m.resetTokens {
		if t.TokenHash == tokenHash && t.ExpiresAt.After(now) {
			return t, true, nil
		}
	}
	return domain.PasswordResetToken{}, false, nil
}

func (m *MemoryStore) DeleteResetToken(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resetTokens, userID)
	return nil
}

// SaveWriter inserts a writer, rejecting duplicate names.
func (m *MemoryStore) SaveWriter(_ context.Context, w domain.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.writers {
		if strings.EqualFold(existing.Name, w.Name) {
			return ErrDuplicate
		}
	}
	m.writers[w.ID] = w
	return nil
}

func (m *MemoryStore) UpdateWriter(_ context.Context, w domain.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.writers {
		if id != w.ID && strings.EqualFold(existing.Name, w.Name) {
			return ErrDuplicate
		}
	}
	m.writers[w.ID] = w
	return nil
}

func (m *MemoryStore) GetWriterByID(_ context.Context, id string) (domain.Writer, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.writers[id]
	return w, ok, nil
}

func (m *MemoryStore) GetWriterByName(_ context.Context, name string) (domain.Writer, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.writers {
		if containsFold(w.Name, name) {
			return w, true, nil
		}
	}
	return domain.Writer{}, false, nil
}

func (m *MemoryStore) DeleteWriter(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.writers, id)
	return nil
}

func (m *MemoryStore) ListWriters(_ context.Context, page Page, search string) ([]domain.Writer, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term, hasTerm := SearchTerm(search)
	matched := make([]domain.Writer, 0)
	for _, w := range m.writers {
		if hasTerm && !containsFold(w.Name, term) {
			continue
		}
		matched = append(matched, w)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return paginate(matched, page), int64(len(matched)), nil
}

// SaveCategory inserts a category, rejecting duplicate names.
func (m *MemoryStore) SaveCategory(_ context.Context, c domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return ErrDuplicate
		}
	}
	m.categories[c.ID] = c
	return nil
}

func (m *MemoryStore) UpdateCategory(_ context.Context, c domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.categories {
		if id != c.ID && strings.EqualFold(existing.Name, c.Name) {
			return ErrDuplicate
		}
	}
	m.categories[c.ID] = c
	return nil
}

func (m *MemoryStore) GetCategoryByID(_ context.Context, id string) (domain.Category, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	return c, ok, nil
}

func (m *MemoryStore) GetCategoryByName(_ context.Context, name string) (domain.Category, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.categories {
		if containsFold(c.Name, name) {
			return c, true, nil
		}
	}
	return domain.Category{}, false, nil
}

func (m *MemoryStore) DeleteCategory(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, id)
	return nil
}

func (m *MemoryStore) ListCategories(_ context.Context, page Page, search string) ([]domain.Category, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term, hasTerm := SearchTerm(search)
	matched := make([]domain.Category, 0)
	for _, c := range m.categories {
		if hasTerm && !containsFold(c.Name, term) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return paginate(matched, page), int64(len(matched)), nil
}

// SavePublication inserts a publication, rejecting duplicate names.
func (m *MemoryStore) SavePublication(_ context.Context, p domain.Publication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.publications {
		if strings.EqualFold(existing.Name, p.Name) {
			return ErrDuplicate
		}
	}
	m.publications[p.ID] = p
	return nil
}

func (m *MemoryStore) UpdatePublication(_ context.Context, p domain.Publication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.publications {
		if id != p.ID && strings.EqualFold(existing.Name, p.Name) {
			return ErrDuplicate
		}
	}
	m.publications[p.ID] = p
	return nil
}

func (m *MemoryStore) GetPublicationByID(_ context.Context, id string) (domain.Publication, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.publications[id]
	return p, ok, nil
}

func (m *MemoryStore) GetPublicationByName(_ context.Context, name string) (domain.Publication, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.publications {
		if containsFold(p.Name, name) {
			return p, true, nil
		}
	}
	return domain.Publication{}, false, nil
}

func (m *MemoryStore) DeletePublication(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.publications, id)
	return nil
}

func (m *MemoryStore) ListPublications(_ context.Context, page Page, search string) ([]domain.Publication, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term, hasTerm := SearchTerm(search)
	matched := make([]domain.Publication, 0)
	for _, p := range m.publications {
		if hasTerm && !containsFold(p.Name, term) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return paginate(matched, page), int64(len(matched)), nil
}

// joinBook resolves the book's references into embedded copies.
// Callers must hold at least a read lock.
func (m *MemoryStore) joinBook(b domain.Book) domain.Book {
	if author, ok := m.writers[b.AuthorID]; ok {
		a := author
		b.Author = &a
	}
	if category, ok := m.categories[b.CategoryID]; ok {
		c := category
		b.Category = &c
	}
	if publication, ok := m.publications[b.PublicationID]; ok {
		p := publication
		b.Publication = &p
	}
	return b
}

func (m *MemoryStore) SaveBook(_ context.Context, b domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.Author, b.Category, b.Publication = nil, nil, nil
	m.books[b.ID] = b
	return nil
}

func (m *MemoryStore) UpdateBook(_ context.Context, b domain.Book) error {
	return m.SaveBook(context.Background(), b)
}

func (m *MemoryStore) GetBookByID(_ context.Context, id string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	if !ok {
		return domain.Book{}, false, nil
	}
	return m.joinBook(b), true, nil
}

func (m *MemoryStore) DeleteBook(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	return nil
}

func (m *MemoryStore) booksNewestFirst(filter func(domain.Book) bool) []domain.Book {
	matched := make([]domain.Book, 0)
	for _, b := range m.books {
		if filter != nil && !filter(b) {
			continue
		}
		matched = append(matched, m.joinBook(b))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (m *MemoryStore) ListBooks(_ context.Context, page Page, search string) ([]domain.Book, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term, hasTerm := SearchTerm(search)
	matched := m.booksNewestFirst(func(b domain.Book) bool {
		if !hasTerm {
			return true
		}
		joined := m.joinBook(b)
		if containsFold(joined.Title, term) {
			return true
		}
		if joined.Author != nil && containsFold(joined.Author.Name, term) {
			return true
		}
		if joined.Category != nil && containsFold(joined.Category.Name, term) {
			return true
		}
		if joined.Publication != nil && containsFold(joined.Publication.Name, term) {
			return true
		}
		return false
	})
	return paginate(matched, page), int64(len(matched)), nil
}

func (m *MemoryStore) BooksByCategoryID(_ context.Context, categoryID string) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.booksNewestFirst(func(b domain.Book) bool {
		return b.CategoryID == categoryID
	}), nil
}

func (m *MemoryStore) BooksByPublicationID(_ context.Context, publicationID string) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.booksNewestFirst(func(b domain.Book) bool {
		return b.PublicationID == publicationID
	}), nil
}

func (m *MemoryStore) BooksByAuthorID(_ context.Context, authorID string, page Page) ([]domain.Book, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := m.booksNewestFirst(func(b domain.Book) bool {
		return b.AuthorID == authorID
	})
	return paginate(matched, page), int64(len(matched)), nil
}

func (m *MemoryStore) SearchBooksByTitle(_ context.Context, title string) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.booksNewestFirst(func(b domain.Book) bool {
		return containsFold(b.Title, title)
	}), nil
}

func (m *MemoryStore) RelatedBooks(_ context.Context, categoryID, excludeBookID string, limit int) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := m.booksNewestFirst(func(b domain.Book) bool {
		return b.CategoryID == categoryID && b.ID != excludeBookID
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MemoryStore) FilterBooks(_ context.Context, f BookFilter) ([]domain.Book, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var categoryID, publicationID, authorID string
	if f.Category != "" {
		for _, c := range m.categories {
			if containsFold(c.Name, f.Category) {
				categoryID = c.ID
				break
			}
		}
	}
	if f.Publication != "" {
		for _, p := range m.publications {
			if containsFold(p.Name, f.Publication) {
				publicationID = p.ID
				break
			}
		}
	}
	if f.Author != "" {
		for _, w := range m.writers {
			if containsFold(w.Name, f.Author) {
				authorID = w.ID
				break
			}
		}
	}
	matched := m.booksNewestFirst(func(b domain.Book) bool {
		if categoryID != "" && b.CategoryID != categoryID {
			return false
		}
		if publicationID != "" && b.PublicationID != publicationID {
			return false
		}
		if authorID != "" && b.AuthorID != authorID {
			return false
		}
		if f.MinPrice != nil && b.Price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && b.Price > *f.MaxPrice {
			return false
		}
		return true
	})
	switch f.Sort {
	case "atoz":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	case "ztoa":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Title > matched[j].Title })
	}
	return paginate(matched, f.Page), int64(len(matched)), nil
}

// joinOrder resolves user and item-book references into embedded copies.
// Callers must hold at least a read lock.
func (m *MemoryStore) joinOrder(o domain.Order) domain.Order {
	if user, ok := m.users[o.UserID]; ok {
		u := user
		o.User = &u
	}
	items := make([]domain.OrderItem, len(o.Items))
	copy(items, o.Items)
	for i, item := range items {
		if book, ok := m.books[item.BookID]; ok {
			joined := m.joinBook(book)
			items[i].Book = &joined
		}
	}
	o.Items = items
	return o
}

func (m *MemoryStore) CreateOrder(_ context.Context, o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.User = nil
	for i := range o.Items {
		o.Items[i].Book = nil
	}
	m.orders[o.ID] = o
	return nil
}

func (m *MemoryStore) GetOrderByID(_ context.Context, id string) (domain.Order, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, false, nil
	}
	return m.joinOrder(o), true, nil
}

func (m *MemoryStore) SetOrderStatus(_ context.Context, id string, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	m.orders[id] = o
	return nil
}

func (m *MemoryStore) ordersFiltered(filter func(domain.Order) bool, newestFirst bool) []domain.Order {
	matched := make([]domain.Order, 0)
	for _, o := range m.orders {
		if filter != nil && !filter(o) {
			continue
		}
		matched = append(matched, m.joinOrder(o))
	}
	sort.Slice(matched, func(i, j int) bool {
		if newestFirst {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched
}

func (m *MemoryStore) ListAllOrders(_ context.Context) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ordersFiltered(nil, true), nil
}

func (m *MemoryStore) ListOrdersByStatus(_ context.Context, q OrderListQuery) ([]domain.Order, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	searchID, hasID := q.SearchID()
	matched := m.ordersFiltered(func(o domain.Order) bool {
		if o.Status != q.Status {
			return false
		}
		if !q.HasSearch() {
			return true
		}
		if hasID && o.ID == searchID {
			return true
		}
		if user, ok := m.users[o.UserID]; ok {
			if containsFold(user.Name, q.Search) || containsFold(user.Email, q.Search) {
				return true
			}
		}
		return false
	}, true)
	return paginate(matched, q.Page), int64(len(matched)), nil
}

func (m *MemoryStore) OrdersCreatedBetween(_ context.Context, w DayWindow) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ordersFiltered(func(o domain.Order) bool {
		return w.Contains(o.CreatedAt)
	}, false), nil
}

func (m *MemoryStore) OrdersTouchedBetween(_ context.Context, w DayWindow) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ordersFiltered(func(o domain.Order) bool {
		return w.Contains(o.CreatedAt) || w.Contains(o.UpdatedAt)
	}, false), nil
}

func (m *MemoryStore) DeliveredOrdersBetween(_ context.Context, w DayWindow) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ordersFiltered(func(o domain.Order) bool {
		return o.Status == domain.OrderDelivered && w.Contains(o.CreatedAt)
	}, false), nil
}
