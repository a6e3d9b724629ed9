package store

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"bookshop/pkg/domain"
)

func withOrderJoins(tx *gorm.DB) *gorm.DB {
	return tx.Preload("User").Preload("Items.Book")
}

// CreateOrder inserts an order with its line items.
func (s *GormStore) CreateOrder(ctx context.Context, o domain.Order) error {
	model := orderToModel(o)
	return s.db.WithContext(ctx).Create(&model).Error
}

// GetOrderByID returns an order joined with its user and item books.
func (s *GormStore) GetOrderByID(ctx context.Context, id string) (domain.Order, bool, error) {
	var model OrderModel
	err := withOrderJoins(s.db.WithContext(ctx)).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, false, nil
		}
		return domain.Order{}, false, err
	}
	return orderFromModel(model), true, nil
}

// SetOrderStatus updates the status and touch timestamp of an order.
func (s *GormStore) SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return s.db.WithContext(ctx).Model(&OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}).Error
}

// ListAllOrders returns every order joined with user and item books, newest
// first.
func (s *GormStore) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	var models []OrderModel
	err := withOrderJoins(s.db.WithContext(ctx)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, orderFromModel(m))
	}
	return orders, nil
}

// ListOrdersByStatus returns one page of status-filtered orders plus the
// total count under the same filter. A search term matches the order ID
// (when it is a legal identifier) or the user's name/email.
func (s *GormStore) ListOrdersByStatus(ctx context.Context, q OrderListQuery) ([]domain.Order, int64, error) {
	base := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&OrderModel{}).
			Where("order_models.status = ?", string(q.Status))
		if q.HasSearch() {
			tx = tx.Joins("LEFT JOIN user_models ON user_models.id = order_models.user_id")
			pattern := likePattern(q.Search)
			if id, ok := q.SearchID(); ok {
				tx = tx.Where(
					"order_models.id = ? OR user_models.name ILIKE ? OR user_models.email ILIKE ?",
					id, pattern, pattern,
				)
			} else {
				tx = tx.Where(
					"user_models.name ILIKE ? OR user_models.email ILIKE ?",
					pattern, pattern,
				)
			}
		}
		return tx
	}
	var (
		total  int64
		models []OrderModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base().WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		return withOrderJoins(base().WithContext(gctx)).
			Select("order_models.*").
			Order("order_models.created_at DESC").
			Offset(q.Page.Offset()).
			Limit(q.Page.Limit()).
			Find(&models).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	orders := make([]domain.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, orderFromModel(m))
	}
	return orders, total, nil
}

func (s *GormStore) listOrdersWhere(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	var models []OrderModel
	err := withOrderJoins(s.db.WithContext(ctx)).
		Where(query, args...).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, orderFromModel(m))
	}
	return orders, nil
}

// OrdersCreatedBetween returns orders created inside the inclusive window.
func (s *GormStore) OrdersCreatedBetween(ctx context.Context, w DayWindow) ([]domain.Order, error) {
	return s.listOrdersWhere(ctx, "created_at BETWEEN ? AND ?", w.Start, w.End)
}

// OrdersTouchedBetween returns orders created or last updated inside the
// window; an order updated today counts toward today even if created earlier.
func (s *GormStore) OrdersTouchedBetween(ctx context.Context, w DayWindow) ([]domain.Order, error) {
	return s.listOrdersWhere(ctx,
		"(created_at BETWEEN ? AND ?) OR (updated_at BETWEEN ? AND ?)",
		w.Start, w.End, w.Start, w.End,
	)
}

// DeliveredOrdersBetween returns Delivered orders created inside the window,
// joined with item books for revenue computation.
func (s *GormStore) DeliveredOrdersBetween(ctx context.Context, w DayWindow) ([]domain.Order, error) {
	return s.listOrdersWhere(ctx,
		"status = ? AND created_at BETWEEN ? AND ?",
		string(domain.OrderDelivered), w.Start, w.End,
	)
}
