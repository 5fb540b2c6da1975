// Package transform maps the external order payload onto the internal order schema.
package transform

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/pedidos/orders-api/internal/models"
)

// ISO8601 is the canonical creationDate layout: UTC with millisecond precision.
const ISO8601 = "2006-01-02T15:04:05.000Z"

// orderNumberSeparator splits the order number from its suffix ("v10089015vdb-01").
const orderNumberSeparator = "-"

// Layouts accepted for dataCriacao. Inputs without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// TransformationError reports a payload that passed presence validation
// but could not be mapped onto the internal schema.
type TransformationError struct {
	Field string
	Err   error
}

func (e *TransformationError) Error() string {
	return "transform " + e.Field + ": " + e.Err.Error()
}

func (e *TransformationError) Unwrap() error { return e.Err }

func fail(field string, err error) error {
	return &TransformationError{Field: field, Err: err}
}

// Order converts an external payload into an internal order.
// It has no side effects.
func Order(p models.OrderPayload) (*models.Order, error) {
	orderID, err := OrderID(p.NumeroPedido)
	if err != nil {
		return nil, fail("numeroPedido", err)
	}

	value, err := decimalFrom(p.ValorTotal)
	if err != nil {
		return nil, fail("valorTotal", err)
	}

	creationDate, err := CreationDate(p.DataCriacao)
	if err != nil {
		return nil, fail("dataCriacao", err)
	}

	items := make([]models.Item, 0, len(p.Items))
	for i, in := range p.Items {
		item, err := itemFrom(orderID, in)
		if err != nil {
			var terr *TransformationError
			if errors.As(err, &terr) {
				terr.Field = "items[" + strconv.Itoa(i) + "]." + terr.Field
			}
			return nil, err
		}
		items = append(items, item)
	}

	return &models.Order{
		OrderID:      orderID,
		Value:        value,
		CreationDate: creationDate,
		Items:        items,
	}, nil
}

// OrderID strips the suffix after the first separator from an order number.
func OrderID(numeroPedido string) (string, error) {
	id, _, _ := strings.Cut(strings.TrimSpace(numeroPedido), orderNumberSeparator)
	if id == "" {
		return "", errors.Errorf("order number %q has an empty id", numeroPedido)
	}
	return id, nil
}

// CreationDate parses a date string and re-emits it in the canonical layout.
func CreationDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(ISO8601), nil
		}
	}
	return "", errors.Errorf("unparseable date %q", raw)
}

func itemFrom(orderID string, in models.ItemPayload) (models.Item, error) {
	productID, err := integerFrom(in.IDItem)
	if err != nil {
		return models.Item{}, fail("idItem", err)
	}

	quantity, err := integerFrom(in.QuantidadeItem)
	if err != nil {
		return models.Item{}, fail("quantidadeItem", err)
	}

	price, err := decimalFrom(in.ValorItem)
	if err != nil {
		return models.Item{}, fail("valorItem", err)
	}

	return models.Item{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
	}, nil
}

// integerFrom accepts integral values only; "7" and 7.0 both yield 7.
func integerFrom(n json.Number) (int64, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return 0, errors.New("value is missing")
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %q", s)
	}
	if !d.IsInteger() {
		return 0, errors.Errorf("%q is not an integer", s)
	}
	return d.IntPart(), nil
}

func decimalFrom(n json.Number) (decimal.Decimal, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return decimal.Zero, errors.New("value is missing")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse %q", s)
	}
	return d, nil
}
