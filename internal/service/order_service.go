package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// OrderService serves the admin order views.
type OrderService struct {
	orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// List returns one page of orders, newest first, and the total count.
func (s *OrderService) List(ctx context.Context, page, limit int) ([]models.Order, int, error) {
	return s.orders.ListPaged(ctx, page, limit)
}

// Get returns an order with its items.
func (s *OrderService) Get(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.orders.GetByNumber(ctx, orderNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrOrderNotFound
	}
	return order, err
}
