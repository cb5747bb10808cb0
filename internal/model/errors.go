package model

import "errors"

// Business-rule failure kinds. Every operation aborts with one of these
// (or a storage error) and leaves no partial effects; callers match with
// errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrProductInactive     = errors.New("product is inactive")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrNegativeStockResult = errors.New("adjustment would result in negative stock")
	ErrDuplicateBarcode    = errors.New("barcode already exists")
	ErrEmptyOrder          = errors.New("order has no line items")
	ErrProductReferenced   = errors.New("product is referenced by a pending transaction")
	ErrInvalidPeriod       = errors.New("invalid report period")
)
