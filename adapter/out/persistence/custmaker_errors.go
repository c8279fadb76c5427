package persistence

import (
	"errors"
	"fmt"

	"custmaker/core/domain"
)

// Common persistence errors
var (
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", domain.ErrInvalidReference)
	ErrUnknownField    = errors.New("unknown customer field")
	ErrInvalidInput    = domain.ErrInvalidReference
)
