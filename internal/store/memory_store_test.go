package store

import (
	"context"
	"testing"
	"time"

	"bookshop/pkg/domain"
)

func seedCatalog(t *testing.T, m *MemoryStore) (domain.Writer, domain.Category, domain.Publication) {
	t.Helper()
	ctx := context.Background()
	w := domain.Writer{ID: "w1", Name: "Jane Doe", CreatedAt: time.Now().UTC()}
	c := domain.Category{ID: "c1", Name: "Fiction", CreatedAt: time.Now().UTC()}
	p := domain.Publication{ID: "p1", Name: "Acme Press", CreatedAt: time.Now().UTC()}
	if err := m.SaveWriter(ctx, w); err != nil {
		t.Fatalf("save writer: %v", err)
	}
	if err := m.SaveCategory(ctx, c); err != nil {
		t.Fatalf("save category: %v", err)
	}
	if err := m.SavePublication(ctx, p); err != nil {
		t.Fatalf("save publication: %v", err)
	}
	return w, c, p
}

func seedBook(t *testing.T, m *MemoryStore, id, title string, price float64, createdAt time.Time) domain.Book {
	t.Helper()
	b := domain.Book{
		ID:            id,
		Title:         title,
		Price:         price,
		AuthorID:      "w1",
		CategoryID:    "c1",
		PublicationID: "p1",
		CreatedAt:     createdAt,
	}
	if err := m.SaveBook(context.Background(), b); err != nil {
		t.Fatalf("save book %s: %v", id, err)
	}
	return b
}

func TestMemoryStoreDuplicateEmail(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	u := domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	if err := m.SaveUser(ctx, u); err != nil {
		t.Fatalf("save user: %v", err)
	}
	dup := domain.User{ID: "u2", Name: "Other", Email: "Alice@Example.com"}
	if err := m.SaveUser(ctx, dup); err != ErrDuplicate {
		t.Errorf("duplicate email: got %v, want ErrDuplicate", err)
	}
}

func TestMemoryStoreDuplicateCategoryName(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	if err := m.SaveCategory(ctx, domain.Category{ID: "c1", Name: "Fiction"}); err != nil {
		t.Fatalf("save category: %v", err)
	}
	if err := m.SaveCategory(ctx, domain.Category{ID: "c2", Name: "fiction"}); err != ErrDuplicate {
		t.Errorf("duplicate name: got %v, want ErrDuplicate", err)
	}
}

func TestMemoryStoreListBooksFacet(t *testing.T) {
	m := NewMemoryStore()
	seedCatalog(t, m)
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedBook(t, m, "b"+string(rune('1'+i)), "Book "+string(rune('A'+i)), 100, base.Add(time.Duration(i)*time.Hour))
	}

	rows, total, err := m.ListBooks(context.Background(), Page{Number: 1, Size: 2}, SearchSentinel)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(rows) != 2 {
		t.Fatalf("page size = %d, want 2", len(rows))
	}
	// Newest first.
	if rows[0].Title != "Book E" || rows[1].Title != "Book D" {
		t.Errorf("page order = %q, %q, want Book E, Book D", rows[0].Title, rows[1].Title)
	}
	if rows[0].Author == nil || rows[0].Author.Name != "Jane Doe" {
		t.Error("listed book must embed its joined author")
	}

	// Search by category name reaches across the join.
	rows, total, err = m.ListBooks(context.Background(), Page{Number: 1, Size: 10}, "fict")
	if err != nil {
		t.Fatalf("list books with search: %v", err)
	}
	if total != 5 || len(rows) != 5 {
		t.Errorf("category search matched %d/%d, want 5/5", len(rows), total)
	}

	// Count and rows share the filter.
	rows, total, err = m.ListBooks(context.Background(), Page{Number: 1, Size: 2}, "Book A")
	if err != nil {
		t.Fatalf("list books with search: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Errorf("title search matched %d/%d, want 1/1", len(rows), total)
	}
}

func TestMemoryStoreFilterBooks(t *testing.T) {
	m := NewMemoryStore()
	seedCatalog(t, m)
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	seedBook(t, m, "b1", "Zebra", 300, base)
	seedBook(t, m, "b2", "Apple", 100, base.Add(time.Hour))
	seedBook(t, m, "b3", "Mango", 200, base.Add(2*time.Hour))

	min, max := 150.0, 400.0
	rows, total, err := m.FilterBooks(context.Background(), BookFilter{
		Page:     Page{Number: 1, Size: 10},
		Sort:     "atoz",
		Category: "Fiction",
		MinPrice: &min,
		MaxPrice: &max,
	})
	if err != nil {
		t.Fatalf("filter books: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("matched %d/%d, want 2/2", len(rows), total)
	}
	if rows[0].Title != "Mango" || rows[1].Title != "Zebra" {
		t.Errorf("atoz order = %q, %q, want Mango, Zebra", rows[0].Title, rows[1].Title)
	}

	rows, _, err = m.FilterBooks(context.Background(), BookFilter{
		Page: Page{Number: 1, Size: 10},
		Sort: "ztoa",
	})
	if err != nil {
		t.Fatalf("filter books: %v", err)
	}
	if rows[0].Title != "Zebra" {
		t.Errorf("ztoa first = %q, want Zebra", rows[0].Title)
	}
}

func TestMemoryStoreRelatedBooks(t *testing.T) {
	m := NewMemoryStore()
	seedCatalog(t, m)
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		seedBook(t, m, "b"+string(rune('1'+i)), "Book "+string(rune('A'+i)), 100, base.Add(time.Duration(i)*time.Hour))
	}

	related, err := m.RelatedBooks(context.Background(), "c1", "b6", 4)
	if err != nil {
		t.Fatalf("related books: %v", err)
	}
	if len(related) != 4 {
		t.Fatalf("got %d related, want 4", len(related))
	}
	for _, b := range related {
		if b.ID == "b6" {
			t.Error("related books must exclude the book itself")
		}
	}
	// Newest of the remaining first.
	if related[0].Title != "Book E" {
		t.Errorf("first related = %q, want Book E", related[0].Title)
	}
}

func TestMemoryStoreOrderWindows(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	seedCatalog(t, m)
	now := time.Now().UTC()
	seedBook(t, m, "b1", "Book A", 500, now)

	mkOrder := func(id string, status domain.OrderStatus, createdAt time.Time) {
		t.Helper()
		err := m.CreateOrder(ctx, domain.Order{
			ID:        id,
			UserID:    "u1",
			Items:     []domain.OrderItem{{BookID: "b1", Quantity: 1}},
			Status:    status,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
		if err != nil {
			t.Fatalf("create order %s: %v", id, err)
		}
	}

	mkOrder("o1", domain.OrderDelivered, now)
	mkOrder("o2", domain.OrderPending, now)
	mkOrder("o3", domain.OrderDelivered, now.AddDate(0, 0, -3))

	today := Today(now)
	created, err := m.OrdersCreatedBetween(ctx, today)
	if err != nil {
		t.Fatalf("created between: %v", err)
	}
	if len(created) != 2 {
		t.Errorf("created today = %d, want 2", len(created))
	}

	delivered, err := m.DeliveredOrdersBetween(ctx, today)
	if err != nil {
		t.Fatalf("delivered between: %v", err)
	}
	if len(delivered) != 1 || delivered[0].ID != "o1" {
		t.Errorf("delivered today = %+v, want just o1", delivered)
	}
	if delivered[0].Items[0].Book == nil {
		t.Error("window queries must join item books for revenue computation")
	}

	// An old order updated today counts as touched today.
	if err := m.SetOrderStatus(ctx, "o3", domain.OrderShipped); err != nil {
		t.Fatalf("set status: %v", err)
	}
	touched, err := m.OrdersTouchedBetween(ctx, today)
	if err != nil {
		t.Fatalf("touched between: %v", err)
	}
	if len(touched) != 3 {
		t.Errorf("touched today = %d, want 3", len(touched))
	}
}

func TestMemoryStoreListOrdersByStatus(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	seedCatalog(t, m)
	now := time.Now().UTC()
	seedBook(t, m, "b1", "Book A", 100, now)

	alice := domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	bob := domain.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}
	if err := m.SaveUser(ctx, alice); err != nil {
		t.Fatalf("save user: %v", err)
	}
	if err := m.SaveUser(ctx, bob); err != nil {
		t.Fatalf("save user: %v", err)
	}

	const aliceOrderID = "2dcb74e5-6f3a-4b53-8e44-6c5a1f2b9d70"
	orders := []domain.Order{
		{ID: aliceOrderID, UserID: "u1", Status: domain.OrderPending, CreatedAt: now},
		{ID: "o2", UserID: "u2", Status: domain.OrderPending, CreatedAt: now.Add(time.Minute)},
		{ID: "o3", UserID: "u1", Status: domain.OrderShipped, CreatedAt: now.Add(2 * time.Minute)},
	}
	for _, o := range orders {
		o.Items = []domain.OrderItem{{BookID: "b1", Quantity: 1}}
		if err := m.CreateOrder(ctx, o); err != nil {
			t.Fatalf("create order %s: %v", o.ID, err)
		}
	}

	// Status filter only.
	rows, total, err := m.ListOrdersByStatus(ctx, NewOrderListQuery(domain.OrderPending, "1", "3", SearchSentinel))
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("pending = %d/%d, want 2/2", len(rows), total)
	}
	if rows[0].User == nil || rows[0].Items[0].Book == nil {
		t.Error("listed orders must join user and item books")
	}

	// Search by user name restricts within the status.
	rows, total, err = m.ListOrdersByStatus(ctx, NewOrderListQuery(domain.OrderPending, "1", "3", "alice"))
	if err != nil {
		t.Fatalf("list orders with search: %v", err)
	}
	if total != 1 || rows[0].ID != aliceOrderID {
		t.Errorf("name search = %d rows, first %q, want 1 row %q", total, rows[0].ID, aliceOrderID)
	}

	// Search by order ID.
	rows, total, err = m.ListOrdersByStatus(ctx, NewOrderListQuery(domain.OrderPending, "1", "3", aliceOrderID))
	if err != nil {
		t.Fatalf("list orders with id search: %v", err)
	}
	if total != 1 || rows[0].ID != aliceOrderID {
		t.Errorf("id search matched %d, want the order itself", total)
	}

	// Out-of-range page yields an empty page with the full count.
	rows, total, err = m.ListOrdersByStatus(ctx, NewOrderListQuery(domain.OrderPending, "9", "3", SearchSentinel))
	if err != nil {
		t.Fatalf("list orders far page: %v", err)
	}
	if total != 2 || len(rows) != 0 {
		t.Errorf("far page = %d rows total %d, want 0 rows total 2", len(rows), total)
	}
}

func TestMemoryStoreResetTokens(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	first := domain.PasswordResetToken{UserID: "u1", TokenHash: "hash-1", CreatedAt: now, ExpiresAt: now.Add(30 * time.Minute)}
	if err := m.ReplaceResetToken(ctx, first); err != nil {
		t.Fatalf("replace token: %v", err)
	}
	second := domain.PasswordResetToken{UserID: "u1", TokenHash: "hash-2", CreatedAt: now, ExpiresAt: now.Add(30 * time.Minute)}
	if err := m.ReplaceResetToken(ctx, second); err != nil {
		t.Fatalf("replace token: %v", err)
	}

	if _, ok, _ := m.GetResetToken(ctx, "hash-1"); ok {
		t.Error("replaced token must no longer resolve")
	}
	got, ok, err := m.GetResetToken(ctx, "hash-2")
	if err != nil || !ok || got.UserID != "u1" {
		t.Fatalf("live token lookup = (%+v, %v, %v)", got, ok, err)
	}

	expired := domain.PasswordResetToken{UserID: "u2", TokenHash: "hash-old", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(-time.Minute)}
	if err := m.ReplaceResetToken(ctx, expired); err != nil {
		t.Fatalf("replace token: %v", err)
	}
	if _, ok, _ := m.GetResetToken(ctx, "hash-old"); ok {
		t.Error("expired token must not resolve")
	}

	if err := m.DeleteResetToken(ctx, "u1"); err != nil {
		t.Fatalf("delete token: %v", err)
	}
	if _, ok, _ := m.GetResetToken(ctx, "hash-2"); ok {
		t.Error("deleted token must not resolve")
	}
}
