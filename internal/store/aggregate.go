package store

import (
	"bookshop/pkg/domain"
)

// MergedBook is one distinct book of an order with quantities summed across
// every line item referencing it.
type MergedBook struct {
	Book     domain.Book `json:"book"`
	Quantity int         `json:"quantity"`
}

// MergeOrderBooks collapses an order's line items per distinct book ID,
// summing quantities. Books keep first-appearance order. Line items without
// a joined book are skipped.
func MergeOrderBooks(o domain.Order) []MergedBook {
	index := make(map[string]int, len(o.Items))
	merged := make([]MergedBook, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Book == nil {
			continue
		}
		if i, ok := index[item.BookID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.BookID] = len(merged)
		merged = append(merged, MergedBook{Book: *item.Book, Quantity: item.Quantity})
	}
	return merged
}

// OrderRevenue is the sum of price x merged quantity over the order's
// distinct books.
func OrderRevenue(o domain.Order) float64 {
	var total float64
	for _, mb := range MergeOrderBooks(o) {
		total += mb.Book.Price * float64(mb.Quantity)
	}
	return total
}

// WeekdayCount is one orders-per-weekday bucket.
type WeekdayCount struct {
	Day   int    `json:"dayOfWeek"`
	Name  string `json:"day"`
	Count int    `json:"count"`
}

// CountOrdersPerWeekday buckets orders by creation weekday (Sunday=1 ..
// Saturday=7). Buckets with zero orders are omitted, not zero-filled.
func CountOrdersPerWeekday(orders []domain.Order) []WeekdayCount {
	counts := make(map[int]WeekdayCount, 7)
	for _, o := range orders {
		day := o.CreatedAt.Weekday()
		n := WeekdayNumber(day)
		bucket, ok := counts[n]
		if !ok {
			bucket = WeekdayCount{Day: n, Name: WeekdayName(day)}
		}
		bucket.Count++
		counts[n] = bucket
	}
	out := make([]WeekdayCount, 0, len(counts))
	for n := 1; n <= 7; n++ {
		if bucket, ok := counts[n]; ok {
			out = append(out, bucket)
		}
	}
	return out
}

// StatusCount is one status-breakdown bucket.
type StatusCount struct {
	Status domain.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

// CountOrdersByStatus groups orders by status. Only statuses with matches
// appear, in the fixed enum order.
func CountOrdersByStatus(orders []domain.Order) []StatusCount {
	counts := make(map[domain.OrderStatus]int, 4)
	for _, o := range orders {
		counts[o.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for _, status := range []domain.OrderStatus{
		domain.OrderPending,
		domain.OrderShipped,
		domain.OrderDelivered,
		domain.OrderCancelled,
	} {
		if c := counts[status]; c > 0 {
			out = append(out, StatusCount{Status: status, Count: c})
		}
	}
	return out
}

// DailyRevenue is one revenue-per-day bucket, keyed dd-mm-yyyy.
type DailyRevenue struct {
	Day         string  `json:"day"`
	TotalAmount float64 `json:"totalAmount"`
}

// RevenueByDay groups order revenue by creation date. Callers pass orders
// already filtered to Delivered status inside the window, so a single-day
// window yields at most one bucket.
func RevenueByDay(orders []domain.Order) []DailyRevenue {
	totals := make(map[string]float64)
	days := make([]string, 0, 1)
	for _, o := range orders {
		label := DayLabel(o.CreatedAt)
		if _, ok := totals[label]; !ok {
			days = append(days, label)
		}
		totals[label] += OrderRevenue(o)
	}
	out := make([]DailyRevenue, 0, len(days))
	for _, day := range days {
		out = append(out, DailyRevenue{Day: day, TotalAmount: totals[day]})
	}
	return out
}

// TotalRevenue sums revenue across orders (Delivered filtering is the
// caller's responsibility). Returns 0 for an empty slice.
func TotalRevenue(orders []domain.Order) float64 {
	var total float64
	for _, o := range orders {
		total += OrderRevenue(o)
	}
	return total
}
