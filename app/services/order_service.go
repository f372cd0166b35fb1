package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderService implements order history and admin status updates. Order
// creation lives in ProductService.Capture, since orders only come into
// existence through payment capture.
type OrderService struct {
	orders OrderStore
	users  UserStore
}

func NewOrderService(orders OrderStore, users UserStore) *OrderService {
	return &OrderService{orders: orders, users: users}
}

// populate attaches buyer names to orders. Buyers are deduplicated so the
// all-orders listing does one user read per distinct buyer.
func (s *OrderService) populate(ctx context.Context, orders []models.Order) ([]models.OrderView, error) {
	names := make(map[primitive.ObjectID]string)

	views := make([]models.OrderView, len(orders))
	for i, o := range orders {
		name, ok := names[o.Buyer]
		if !ok {
			user, err := s.users.FindByID(ctx, o.Buyer)
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				name = "" // buyer record gone; keep the order visible
			case err != nil:
				return nil, fmt.Errorf("populate buyer: %w", err)
			default:
				name = user.Name
			}
			names[o.Buyer] = name
		}

		views[i] = models.OrderView{
			ID:        o.ID,
			Products:  o.Products,
			Payment:   o.Payment,
			Buyer:     models.OrderBuyer{ID: o.Buyer, Name: name},
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
		}
	}
	return views, nil
}

// HistoryFor returns the buyer's orders, newest first, buyer name
// populated.
func (s *OrderService) HistoryFor(ctx context.Context, buyer primitive.ObjectID) ([]models.OrderView, error) {
	orders, err := s.orders.ByBuyer(ctx, buyer)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, orders)
}

// History returns every order, newest first.
func (s *OrderService) History(ctx context.Context) ([]models.OrderView, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, orders)
}

// UpdateStatus overwrites an order's status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string) error {
	return s.orders.UpdateStatus(ctx, orderID, status)
}
