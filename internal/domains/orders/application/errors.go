package application

import (
	"errors"
	"fmt"

	"github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var duplicate domain.DuplicateProductError
	if errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidUserID) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.As(err, &duplicate) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
