package match

import "errors"

var (
	ErrInvalidParam    = errors.New("the param is invalid")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrInvalidPrice    = errors.New("price must be a finite number")
	ErrUnknownCommand  = errors.New("unknown command")
)
