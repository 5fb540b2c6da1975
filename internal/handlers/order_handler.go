package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pedidos/orders-api/internal/models"
	"github.com/pedidos/orders-api/internal/service"
	"github.com/pedidos/orders-api/internal/transform"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *zap.Logger
	// exposeErrors adds the underlying error text to 5xx responses.
	exposeErrors bool
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *zap.Logger, exposeErrors bool) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
		exposeErrors: exposeErrors,
	}
}

type orderEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type listEnvelope struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Data    []models.Order `json:"data"`
}

type deleteEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

// createdOrder adds the storage id to the order representation.
type createdOrder struct {
	ID uint `json:"id"`
	*models.Order
}

// CreateOrder handles POST /order
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), payload)
	if err != nil {
		h.writeServiceError(w, err, zap.String("numeroPedido", payload.NumeroPedido))
		return
	}

	h.log.Info("order created", zap.String("order_id", order.OrderID), zap.Int("items_count", len(order.Items)))
	WriteJSON(w, http.StatusCreated, orderEnvelope{
		Success: true,
		Message: "Order created successfully",
		Data:    createdOrder{ID: order.ID, Order: order},
	}, h.log)
}

// GetOrder handles GET /order/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err, zap.String("order_id", orderID))
		return
	}

	WriteJSON(w, http.StatusOK, orderEnvelope{Success: true, Data: order}, h.log)
}

// ListOrders handles GET /order/list
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, listEnvelope{Success: true, Count: len(orders), Data: orders}, h.log)
}

// UpdateOrder handles PUT /order/{orderId}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.UpdateOrder(r.Context(), orderID, payload)
	if err != nil {
		h.writeServiceError(w, err, zap.String("order_id", orderID))
		return
	}

	h.log.Info("order updated", zap.String("order_id", orderID), zap.Int("items_count", len(order.Items)))
	WriteJSON(w, http.StatusOK, orderEnvelope{
		Success: true,
		Message: "Order updated successfully",
		Data:    order,
	}, h.log)
}

// DeleteOrder handles DELETE /order/{orderId}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	if err := h.orderService.DeleteOrder(r.Context(), orderID); err != nil {
		h.writeServiceError(w, err, zap.String("order_id", orderID))
		return
	}

	h.log.Info("order deleted", zap.String("order_id", orderID))
	WriteJSON(w, http.StatusOK, deleteEnvelope{
		Success: true,
		Message: "Order deleted successfully",
		OrderID: orderID,
	}, h.log)
}

func (h *OrderHandler) decodePayload(w http.ResponseWriter, r *http.Request) (models.OrderPayload, bool) {
	var payload models.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Warn("failed to decode order request", zap.Error(err))
		body := ErrorResponse{Error: "Invalid request body", Required: service.RequiredFields}
		if h.exposeErrors {
			body.Details = err.Error()
		}
		WriteError(w, http.StatusBadRequest, body, h.log)
		return payload, false
	}
	return payload, true
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func (h *OrderHandler) writeServiceError(w http.ResponseWriter, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))

	var (
		verr *service.ValidationError
		cerr *service.ConflictError
		nerr *service.NotFoundError
		terr *transform.TransformationError
	)

	switch {
	case errors.As(err, &verr):
		h.log.Warn("invalid order request", fields...)
		body := ErrorResponse{Error: verr.Message, Fields: verr.Fields}
		if len(verr.Missing) > 0 {
			body.Required = service.RequiredFields
			body.Missing = verr.Missing
		}
		WriteError(w, http.StatusBadRequest, body, h.log)
	case errors.As(err, &cerr):
		h.log.Warn("order conflict", fields...)
		WriteError(w, http.StatusConflict, ErrorResponse{Error: cerr.Error()}, h.log)
	case errors.As(err, &nerr):
		h.log.Info("order not found", fields...)
		WriteError(w, http.StatusNotFound, ErrorResponse{Error: nerr.Error()}, h.log)
	case errors.As(err, &terr):
		h.log.Error("failed to transform order payload", fields...)
		WriteError(w, http.StatusInternalServerError, h.internalError("Error processing request", err), h.log)
	default:
		h.log.Error("order request failed", fields...)
		WriteError(w, http.StatusInternalServerError, h.internalError("Internal server error", err), h.log)
	}
}

func (h *OrderHandler) internalError(message string, err error) ErrorResponse {
	body := ErrorResponse{Error: message}
	if h.exposeErrors {
		body.Details = err.Error()
	}
	return body
}
