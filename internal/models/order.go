package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Totals and prices go out as JSON numbers, the way clients send them.
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderPayload is the external order representation accepted by POST and PUT /order.
// Field names follow the upstream integration contract.
type OrderPayload struct {
	NumeroPedido string        `json:"numeroPedido" validate:"required"`
	// Zero is a valid total; only an absent or empty value is rejected.
	ValorTotal   json.Number   `json:"valorTotal" validate:"required"`
	DataCriacao  string        `json:"dataCriacao" validate:"required"`
	Items        []ItemPayload `json:"items" validate:"required"`
}

// ItemPayload is a single line of an external order.
// idItem arrives either as a number or as a numeric string.
type ItemPayload struct {
	IDItem         json.Number `json:"idItem"`
	QuantidadeItem json.Number `json:"quantidadeItem"`
	ValorItem      json.Number `json:"valorItem"`
}

// Order is the internal order record, persisted in the orders table
type Order struct {
	ID           uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID      string          `json:"orderId" gorm:"type:varchar(128);not null;uniqueIndex:ux_orders_order_id" validate:"required"`
	Value        decimal.Decimal `json:"value" gorm:"type:numeric;not null"`
	CreationDate string          `json:"creationDate" gorm:"type:text;not null" validate:"required"`
	CreatedAt    time.Time       `json:"-" gorm:"not null;index"`

	Items []Item `json:"items" gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:CASCADE" validate:"dive"`
}

func (Order) TableName() string { return "orders" }

// Item is an order line, persisted in the items table.
// Items have no identity of their own outside their order.
type Item struct {
	ID        uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string          `json:"-" gorm:"type:varchar(128);not null;index:ix_items_order_id"`
	ProductID int64           `json:"productId" gorm:"not null" validate:"gte=0"`
	Quantity  int64           `json:"quantity" gorm:"not null" validate:"gte=1"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric;not null"`
}

func (Item) TableName() string { return "items" }
