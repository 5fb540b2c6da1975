package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidos/orders-api/internal/models"
	"github.com/pedidos/orders-api/internal/repository"
	"github.com/pedidos/orders-api/internal/transform"
)

var _ repository.OrderRepository = (*mockOrderRepository)(nil)

type mockOrderRepository struct {
	CreateFunc       func(ctx context.Context, order *models.Order) error
	GetByOrderIDFunc func(ctx context.Context, orderID string) (*models.Order, error)
	ListFunc         func(ctx context.Context) ([]models.Order, error)
	ReplaceFunc      func(ctx context.Context, order *models.Order) error
	DeleteFunc       func(ctx context.Context, orderID string) error
	CountFunc        func(ctx context.Context) (int64, error)
}

func (m *mockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	order.ID = 1
	return nil
}

func (m *mockOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []models.Order{}, nil
}

func (m *mockOrderRepository) Replace(ctx context.Context, order *models.Order) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, order)
	}
	return nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, orderID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, orderID)
	}
	return nil
}

func (m *mockOrderRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func validPayload() models.OrderPayload {
	return models.OrderPayload{
		NumeroPedido: "v100-01",
		ValorTotal:   "50.5",
		DataCriacao:  "2025-01-01",
		Items: []models.ItemPayload{
			{IDItem: "7", QuantidadeItem: "2", ValorItem: "10.25"},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	var stored *models.Order
	svc := NewOrderService(&mockOrderRepository{
		CreateFunc: func(_ context.Context, order *models.Order) error {
			order.ID = 42
			stored = order
			return nil
		},
	})

	order, err := svc.CreateOrder(context.Background(), validPayload())
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, uint(42), order.ID)
	assert.Equal(t, "v100", order.OrderID)
	assert.Equal(t, "2025-01-01T00:00:00.000Z", order.CreationDate)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(7), order.Items[0].ProductID)
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *models.OrderPayload)
		missing []string
	}{
		{
			name:    "missing items",
			mutate:  func(p *models.OrderPayload) { p.Items = nil },
			missing: []string{"items"},
		},
		{
			name: "missing number and date",
			mutate: func(p *models.OrderPayload) {
				p.NumeroPedido = ""
				p.DataCriacao = ""
			},
			missing: []string{"numeroPedido", "dataCriacao"},
		},
		{
			name:    "missing total",
			mutate:  func(p *models.OrderPayload) { p.ValorTotal = "" },
			missing: []string{"valorTotal"},
		},
		{
			name:   "empty items",
			mutate: func(p *models.OrderPayload) { p.Items = []models.ItemPayload{} },
		},
		{
			name:   "zero quantity",
			mutate: func(p *models.OrderPayload) { p.Items[0].QuantidadeItem = "0" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := NewOrderService(&mockOrderRepository{
				CreateFunc: func(context.Context, *models.Order) error {
					called = true
					return nil
				},
			})

			p := validPayload()
			tt.mutate(&p)

			_, err := svc.CreateOrder(context.Background(), p)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.missing, verr.Missing)
			assert.False(t, called)
		})
	}
}

func TestCreateOrder_ZeroTotalAccepted(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{})

	p := validPayload()
	p.ValorTotal = "0"

	order, err := svc.CreateOrder(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, order.Value.IsZero())
}

func TestCreateOrder_InvalidQuantityReportsField(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{})

	p := validPayload()
	p.Items[0].QuantidadeItem = "-1"

	_, err := svc.CreateOrder(context.Background(), p)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"items[0].quantity": "gte=1"}, verr.Fields)
}

func TestCreateOrder_TransformationError(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{})

	p := validPayload()
	p.DataCriacao = "not a date"

	_, err := svc.CreateOrder(context.Background(), p)

	var terr *transform.TransformationError
	assert.True(t, errors.As(err, &terr))

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestCreateOrder_Conflict(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{
		CreateFunc: func(context.Context, *models.Order) error {
			return repository.ErrDuplicateOrder
		},
	})

	_, err := svc.CreateOrder(context.Background(), validPayload())

	var cerr *ConflictError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "v100", cerr.OrderID)
}

func TestCreateOrder_StorageError(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewOrderService(&mockOrderRepository{
		CreateFunc: func(context.Context, *models.Order) error { return boom },
	})

	_, err := svc.CreateOrder(context.Background(), validPayload())

	var serr *StorageError
	require.True(t, errors.As(err, &serr))
	assert.ErrorIs(t, err, boom)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{})

	_, err := svc.GetOrder(context.Background(), "v404")

	var nerr *NotFoundError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "v404", nerr.OrderID)
}

func TestUpdateOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepository{})

		order, err := svc.UpdateOrder(context.Background(), "v100", validPayload())
		require.NoError(t, err)
		assert.Equal(t, "v100", order.OrderID)
	})

	t.Run("Success with empty items", func(t *testing.T) {
		var replaced *models.Order
		svc := NewOrderService(&mockOrderRepository{
			ReplaceFunc: func(_ context.Context, order *models.Order) error {
				replaced = order
				return nil
			},
		})

		p := validPayload()
		p.Items = []models.ItemPayload{}

		order, err := svc.UpdateOrder(context.Background(), "v100", p)
		require.NoError(t, err)
		require.NotNil(t, replaced)
		assert.NotNil(t, order.Items)
		assert.Empty(t, replaced.Items)
	})

	t.Run("Fail on id mismatch", func(t *testing.T) {
		called := false
		svc := NewOrderService(&mockOrderRepository{
			ReplaceFunc: func(context.Context, *models.Order) error {
				called = true
				return nil
			},
		})

		_, err := svc.UpdateOrder(context.Background(), "v200", validPayload())

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.False(t, called)
	})

	t.Run("Fail on missing order", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepository{
			ReplaceFunc: func(context.Context, *models.Order) error {
				return repository.ErrOrderNotFound
			},
		})

		_, err := svc.UpdateOrder(context.Background(), "v100", validPayload())

		var nerr *NotFoundError
		assert.True(t, errors.As(err, &nerr))
	})
}

func TestDeleteOrder(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{
		DeleteFunc: func(_ context.Context, orderID string) error {
			if orderID == "v1" {
				return nil
			}
			return repository.ErrOrderNotFound
		},
	})

	assert.NoError(t, svc.DeleteOrder(context.Background(), "v1"))

	var nerr *NotFoundError
	assert.True(t, errors.As(svc.DeleteOrder(context.Background(), "v2"), &nerr))
}

func TestCountOrders_StorageError(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{
		CountFunc: func(context.Context) (int64, error) { return 0, errors.New("locked") },
	})

	_, err := svc.CountOrders(context.Background())

	var serr *StorageError
	assert.True(t, errors.As(err, &serr))
}
