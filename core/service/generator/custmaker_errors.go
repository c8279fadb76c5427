package generator

import "errors"

var (
	ErrInvalidDistribution = errors.New("invalid distribution")
	ErrInvalidCount        = errors.New("invalid count")
	ErrInvalidDate         = errors.New("invalid date")
)
