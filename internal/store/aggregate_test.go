package store

import (
	"testing"
	"time"

	"bookshop/pkg/domain"
)

func orderWithItems(items ...domain.OrderItem) domain.Order {
	return domain.Order{ID: "order-1", Items: items}
}

func item(bookID string, price float64, qty int) domain.OrderItem {
	return domain.OrderItem{
		BookID:   bookID,
		Quantity: qty,
		Book:     &domain.Book{ID: bookID, Price: price},
	}
}

func TestMergeOrderBooks(t *testing.T) {
	o := orderWithItems(
		item("b1", 100, 2),
		item("b2", 50, 1),
		item("b1", 100, 3),
	)
	merged := MergeOrderBooks(o)
	if len(merged) != 2 {
		t.Fatalf("merged %d books, want 2", len(merged))
	}
	if merged[0].Book.ID != "b1" || merged[0].Quantity != 5 {
		t.Errorf("first = %s x%d, want b1 x5", merged[0].Book.ID, merged[0].Quantity)
	}
	if merged[1].Book.ID != "b2" || merged[1].Quantity != 1 {
		t.Errorf("second = %s x%d, want b2 x1", merged[1].Book.ID, merged[1].Quantity)
	}
}

func TestMergeOrderBooksSkipsUnjoined(t *testing.T) {
	o := orderWithItems(
		item("b1", 10, 1),
		domain.OrderItem{BookID: "gone", Quantity: 4},
	)
	merged := MergeOrderBooks(o)
	if len(merged) != 1 {
		t.Fatalf("merged %d books, want 1", len(merged))
	}
	if merged[0].Book.ID != "b1" {
		t.Errorf("kept %s, want b1", merged[0].Book.ID)
	}
}

func TestOrderRevenue(t *testing.T) {
	o := orderWithItems(
		item("b1", 200, 2), // 400
		item("b2", 100, 1), // 100
		item("b1", 200, 3), // +600 via merge
	)
	if got := OrderRevenue(o); got != 1100 {
		t.Errorf("OrderRevenue = %v, want 1100", got)
	}
	if got := OrderRevenue(domain.Order{}); got != 0 {
		t.Errorf("empty order revenue = %v, want 0", got)
	}
}

func TestCountOrdersPerWeekday(t *testing.T) {
	sunday := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	monday := sunday.AddDate(0, 0, 1)
	orders := []domain.Order{
		{CreatedAt: sunday},
		{CreatedAt: sunday},
		{CreatedAt: monday},
	}
	got := CountOrdersPerWeekday(orders)
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2 (zero buckets omitted)", len(got))
	}
	if got[0].Day != 1 || got[0].Name != "Sunday" || got[0].Count != 2 {
		t.Errorf("first bucket = %+v, want Sunday(1) x2", got[0])
	}
	if got[1].Day != 2 || got[1].Name != "Monday" || got[1].Count != 1 {
		t.Errorf("second bucket = %+v, want Monday(2) x1", got[1])
	}
	if buckets := CountOrdersPerWeekday(nil); len(buckets) != 0 {
		t.Errorf("no orders should produce no buckets, got %d", len(buckets))
	}
}

func TestCountOrdersByStatus(t *testing.T) {
	orders := []domain.Order{
		{Status: domain.OrderDelivered},
		{Status: domain.OrderPending},
		{Status: domain.OrderPending},
	}
	got := CountOrdersByStatus(orders)
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	// Enum order, not input order.
	if got[0].Status != domain.OrderPending || got[0].Count != 2 {
		t.Errorf("first bucket = %+v, want Pending x2", got[0])
	}
	if got[1].Status != domain.OrderDelivered || got[1].Count != 1 {
		t.Errorf("second bucket = %+v, want Delivered x1", got[1])
	}
}

func TestRevenueByDay(t *testing.T) {
	day := time.Date(2024, time.March, 5, 14, 0, 0, 0, time.UTC)
	o1 := orderWithItems(item("b1", 500, 2)) // 1000
	o1.CreatedAt = day
	o2 := orderWithItems(item("b2", 250, 2)) // 500
	o2.CreatedAt = day.Add(3 * time.Hour)

	got := RevenueByDay([]domain.Order{o1, o2})
	if len(got) != 1 {
		t.Fatalf("got %d buckets, want 1", len(got))
	}
	if got[0].Day != "05-03-2024" || got[0].TotalAmount != 1500 {
		t.Errorf("bucket = %+v, want 05-03-2024 / 1500", got[0])
	}
}

func TestTotalRevenue(t *testing.T) {
	o1 := orderWithItems(item("b1", 100, 3))
	o2 := orderWithItems(item("b2", 50, 4))
	if got := TotalRevenue([]domain.Order{o1, o2}); got != 500 {
		t.Errorf("TotalRevenue = %v, want 500", got)
	}
	if got := TotalRevenue(nil); got != 0 {
		t.Errorf("TotalRevenue(nil) = %v, want 0", got)
	}
}
