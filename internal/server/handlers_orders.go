package server

import (
	"net/http"

	"bookshop/internal/app"
	"bookshop/pkg/domain"
)

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	var in app.CreateOrderInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	order, err := s.app.CreateOrder(ctx, user.ID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"order": order})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	order, err := s.app.GetOrder(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Customers may only read their own orders.
	if user.Role != domain.RoleAdmin && order.UserID != user.ID {
		s.writeError(w, r, app.ErrForbidden)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (s *Server) handleAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	orders, err := s.app.ListAllOrders(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	order, err := s.app.UpdateOrderStatus(ctx, r.PathValue("id"), in.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (s *Server) handleOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	orders, total, err := s.app.OrdersByStatus(ctx,
		r.PathValue("status"), r.PathValue("page"), r.PathValue("pageSize"), r.PathValue("search"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"data":       orders,
		"totalCount": total,
	})
}

func (s *Server) handleMergedOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	orders, total, err := s.app.MergedOrdersByStatus(ctx,
		r.PathValue("status"), r.PathValue("page"), r.PathValue("pageSize"), r.PathValue("search"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"data":       orders,
		"totalCount": total,
	})
}

func (s *Server) handleOrdersPerWeekday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	counts, err := s.app.OrdersPerWeekday(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": counts})
}

func (s *Server) handleStatusBreakdownToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	counts, err := s.app.StatusBreakdownToday(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": counts})
}

func (s *Server) handleRevenueToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	total, err := s.app.RevenueToday(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"totalAmount": total})
}

func (s *Server) handleRevenuePerDay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	buckets, err := s.app.RevenueForDay(ctx, r.PathValue("value"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": buckets})
}
