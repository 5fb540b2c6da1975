package service

import (
	"fmt"
	"strings"
)

// RequiredFields lists the top-level fields every order payload must carry.
var RequiredFields = []string{"numeroPedido", "valorTotal", "dataCriacao", "items"}

// ValidationError reports malformed or missing client input.
type ValidationError struct {
	Message string
	// Missing holds the absent required fields, if that is the cause.
	Missing []string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Missing, ", "))
	}
	return e.Message
}

// ConflictError reports an order id that is already taken.
type ConflictError struct {
	OrderID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order with ID %s already exists", e.OrderID)
}

// NotFoundError reports a referenced order that does not exist.
type NotFoundError struct {
	OrderID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order with ID %s not found", e.OrderID)
}

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
