package app

import (
	"context"
	"fmt"
	"strconv"

	"bookshop/internal/store"
	"bookshop/internal/util"
	"bookshop/pkg/domain"
)

// NoRevenueDay labels the placeholder bucket returned when a revenue day has
// no delivered orders.
const NoRevenueDay = "no data available with this day"

// OrderItemInput is one requested line item. The same book may appear more
// than once; listings merge quantities per distinct book.
type OrderItemInput struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// CreateOrderInput carries the checkout payload.
type CreateOrderInput struct {
	Items        []OrderItemInput `json:"items"`
	OrderDetails map[string]any   `json:"orderDetails"`
}

// CreateOrder places a Pending order for the user after validating every
// referenced book.
func (a *App) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (domain.Order, error) {
	if len(in.Items) == 0 {
		return domain.Order{}, invalidf("an order needs at least one item")
	}
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return domain.Order{}, invalidf("item quantity must be at least 1")
		}
		if _, err := a.GetBook(ctx, item.BookID); err != nil {
			return domain.Order{}, err
		}
		items = append(items, domain.OrderItem{BookID: item.BookID, Quantity: item.Quantity})
	}
	now := a.now()
	order := domain.Order{
		ID:           util.NewID(),
		UserID:       userID,
		Items:        items,
		OrderDetails: in.OrderDetails,
		Status:       domain.OrderPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.CreateOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	return a.GetOrder(ctx, order.ID)
}

// GetOrder returns an order joined with its user and item books.
func (a *App) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	o, ok, err := a.store.GetOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("look up order: %w", err)
	}
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return o, nil
}

// UpdateOrderStatus moves an order along the allowed status machine. Illegal
// moves are conflicts, unknown statuses validation errors.
func (a *App) UpdateOrderStatus(ctx context.Context, id, rawStatus string) (domain.Order, error) {
	next, ok := domain.ParseOrderStatus(rawStatus)
	if !ok {
		return domain.Order{}, invalidf("unknown order status %q", rawStatus)
	}
	order, err := a.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.Status.CanTransitionTo(next) {
		return domain.Order{}, fmt.Errorf("order %s cannot move from %s to %s: %w",
			id, order.Status, next, ErrConflict)
	}
	if err := a.store.SetOrderStatus(ctx, id, next); err != nil {
		return domain.Order{}, fmt.Errorf("set order status: %w", err)
	}
	return a.GetOrder(ctx, id)
}

// ListAllOrders returns every order, newest first.
func (a *App) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return a.store.ListAllOrders(ctx)
}

// OrdersByStatus returns one page of status-filtered orders plus the total
// count under the same filter.
func (a *App) OrdersByStatus(ctx context.Context, rawStatus, pageNo, pageSize, search string) ([]domain.Order, int64, error) {
	status, ok := domain.ParseOrderStatus(rawStatus)
	if !ok {
		return nil, 0, invalidf("unknown order status %q", rawStatus)
	}
	q := store.NewOrderListQuery(status, pageNo, pageSize, search)
	return a.store.ListOrdersByStatus(ctx, q)
}

// MergedOrder is the enriched listing projection: one row per order with
// line items collapsed per distinct book.
type MergedOrder struct {
	ID           string             `json:"id"`
	OrderDetails map[string]any     `json:"orderDetails"`
	UserName     string             `json:"userName"`
	UserEmail    string             `json:"userEmail"`
	Status       domain.OrderStatus `json:"status"`
	Books        []store.MergedBook `json:"books"`
}

// MergedOrdersByStatus applies the same filter as OrdersByStatus and merges
// each order's quantities per distinct book.
func (a *App) MergedOrdersByStatus(ctx context.Context, rawStatus, pageNo, pageSize, search string) ([]MergedOrder, int64, error) {
	orders, total, err := a.OrdersByStatus(ctx, rawStatus, pageNo, pageSize, search)
	if err != nil {
		return nil, 0, err
	}
	merged := make([]MergedOrder, 0, len(orders))
	for _, o := range orders {
		row := MergedOrder{
			ID:           o.ID,
			OrderDetails: o.OrderDetails,
			Status:       o.Status,
			Books:        store.MergeOrderBooks(o),
		}
		if o.User != nil {
			row.UserName = o.User.Name
			row.UserEmail = o.User.Email
		}
		merged = append(merged, row)
	}
	return merged, total, nil
}

// OrdersPerWeekday buckets the last seven days of orders by creation
// weekday, Sunday=1 through Saturday=7.
func (a *App) OrdersPerWeekday(ctx context.Context) ([]store.WeekdayCount, error) {
	orders, err := a.store.OrdersCreatedBetween(ctx, store.LastSevenDays(a.now()))
	if err != nil {
		return nil, fmt.Errorf("load orders for weekday counts: %w", err)
	}
	return store.CountOrdersPerWeekday(orders), nil
}

// StatusBreakdownToday counts today's orders per status. An order created
// earlier but updated today counts toward today.
func (a *App) StatusBreakdownToday(ctx context.Context) ([]store.StatusCount, error) {
	orders, err := a.store.OrdersTouchedBetween(ctx, store.Today(a.now()))
	if err != nil {
		return nil, fmt.Errorf("load orders for status breakdown: %w", err)
	}
	return store.CountOrdersByStatus(orders), nil
}

// RevenueToday sums price x merged quantity across today's Delivered orders.
func (a *App) RevenueToday(ctx context.Context) (float64, error) {
	orders, err := a.store.DeliveredOrdersBetween(ctx, store.Today(a.now()))
	if err != nil {
		return 0, fmt.Errorf("load delivered orders: %w", err)
	}
	return store.TotalRevenue(orders), nil
}

// RevenueForDay reports delivered revenue for the calendar day daysAgo days
// back, grouped by dd-mm-yyyy. A day without delivered orders yields the
// documented placeholder bucket.
func (a *App) RevenueForDay(ctx context.Context, rawDaysAgo string) ([]store.DailyRevenue, error) {
	daysAgo := 0
	if rawDaysAgo != "" {
		n, err := strconv.Atoi(rawDaysAgo)
		if err != nil || n < 0 {
			return nil, invalidf("daysAgo must be a non-negative integer")
		}
		daysAgo = n
	}
	orders, err := a.store.DeliveredOrdersBetween(ctx, store.DaysAgo(a.now(), daysAgo))
	if err != nil {
		return nil, fmt.Errorf("load delivered orders: %w", err)
	}
	buckets := store.RevenueByDay(orders)
	if len(buckets) == 0 {
		return []store.DailyRevenue{{Day: NoRevenueDay, TotalAmount: 0}}, nil
	}
	return buckets, nil
}
