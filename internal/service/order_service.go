package service

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/pedidos/orders-api/internal/models"
	"github.com/pedidos/orders-api/internal/repository"
	"github.com/pedidos/orders-api/internal/transform"
)

// OrderService handles order business logic
type OrderService struct {
	repo     repository.OrderRepository
	validate *validator.Validate
}

// NewOrderService creates a new order service
func NewOrderService(repo repository.OrderRepository) *OrderService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	return &OrderService{
		repo:     repo,
		validate: v,
	}
}

// CreateOrder validates, transforms and persists a new order.
// A new order needs at least one item.
func (s *OrderService) CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, &ValidationError{Message: `field "items" must be an array with at least one item`}
	}

	order, err := s.prepare(payload)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			return nil, &ConflictError{OrderID: order.OrderID}
		}
		return nil, &StorageError{Op: "create order", Err: err}
	}

	return order, nil
}

// GetOrder returns the order with the given business id.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, &NotFoundError{OrderID: orderID}
		}
		return nil, &StorageError{Op: "get order", Err: err}
	}
	return order, nil
}

// ListOrders returns all orders, most recent first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// UpdateOrder replaces an existing order and its full item set.
// The payload must resolve to the same order id as the path.
// An empty items array clears the item set.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID string, payload models.OrderPayload) (*models.Order, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}

	order, err := s.prepare(payload)
	if err != nil {
		return nil, err
	}

	if order.OrderID != orderID {
		return nil, &ValidationError{Message: "order ID in URL does not match the order ID in the payload"}
	}

	if err := s.repo.Replace(ctx, order); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, &NotFoundError{OrderID: orderID}
		}
		return nil, &StorageError{Op: "update order", Err: err}
	}

	return order, nil
}

// DeleteOrder removes an order together with its items.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	if err := s.repo.Delete(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return &NotFoundError{OrderID: orderID}
		}
		return &StorageError{Op: "delete order", Err: err}
	}
	return nil
}

// CountOrders returns the number of stored orders.
func (s *OrderService) CountOrders(ctx context.Context) (int64, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, &StorageError{Op: "count orders", Err: err}
	}
	return total, nil
}

// prepare transforms a validated payload and checks the resulting items.
func (s *OrderService) prepare(payload models.OrderPayload) (*models.Order, error) {
	order, err := transform.Order(payload)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(order); err != nil {
		return nil, fieldErrors("invalid order items", err)
	}

	return order, nil
}

func (s *OrderService) validatePayload(payload models.OrderPayload) error {
	if err := s.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &ValidationError{Message: err.Error()}
		}

		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			missing = append(missing, fe.Field())
		}
		return &ValidationError{Message: "missing required fields", Missing: missing}
	}

	return nil
}

func fieldErrors(message string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Message: message}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		// drop the struct name prefix: "Order.items[0].quantity" -> "items[0].quantity"
		_, name, _ := strings.Cut(fe.Namespace(), ".")
		fields[name] = fe.Tag() + paramSuffix(fe.Param())
	}
	return &ValidationError{Message: message, Fields: fields}
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return "=" + param
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
