package service

import (
	"errors"

	"github.com/google/uuid"

	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/apperror"
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
}

func (a Actor) summary() map[string]interface{} {
	return map[string]interface{}{"id": a.ID, "name": a.Name, "email": a.Email}
}

// Notifier receives change events after a successful write.
type Notifier interface {
	Publish(e ws.Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(ws.Event) {}

var (
	ErrProductNotFound   = apperror.New(apperror.NotFound, "Product not found")
	ErrInsufficientStock = apperror.New(apperror.InvalidOperation, "Insufficient stock")
	ErrInvalidOperation  = apperror.New(apperror.InvalidOperation, `Invalid operation. Use "add" or "subtract"`)
	ErrInvalidQuantity   = apperror.New(apperror.InvalidOperation, "Quantity must be a positive integer")
	ErrDuplicateSKU      = apperror.New(apperror.ConstraintViolation, "SKU already exists")
	ErrStoreUnavailable  = apperror.New(apperror.UpstreamUnavailable, "Inventory store unavailable")
)

// storeErr classifies a repository failure for the API boundary.
func storeErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, repository.ErrDuplicateSKU):
		return ErrDuplicateSKU
	case errors.Is(err, repository.ErrInsufficientStock):
		return ErrInsufficientStock
	}
	return apperror.Wrap(ErrStoreUnavailable.Kind, ErrStoreUnavailable.Message, err)
}
