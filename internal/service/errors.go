package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable classification clients branch on.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindAlreadyFinalized  ErrorKind = "ALREADY_FINALIZED"
	KindTableOccupied     ErrorKind = "TABLE_OCCUPIED"
	KindNoChange          ErrorKind = "NO_CHANGE"
	KindAuditWriteFailed  ErrorKind = "AUDIT_WRITE_FAILED"
	KindStoreUnavailable  ErrorKind = "STORE_UNAVAILABLE"
	KindValidation        ErrorKind = "VALIDATION"
)

// Errors returned by the dine-in services. Match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyFinalized  = errors.New("order already finalized")
	ErrTableOccupied     = errors.New("table is occupied by another order")
	ErrNoChange          = errors.New("order is already at this table")
	ErrAuditWriteFailed  = errors.New("audit write failed")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrValidation        = errors.New("validation failed")
)

// Validation errors.
var (
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	ErrProductNotFound  = fmt.Errorf("%w: product not found in restaurant", ErrValidation)
	ErrVariantNotFound  = fmt.Errorf("%w: variant not found", ErrValidation)
	ErrVariantMismatch  = fmt.Errorf("%w: variant does not belong to product", ErrValidation)
	ErrTableNotFound    = fmt.Errorf("%w: table not found", ErrValidation)
	ErrRoomMismatch     = fmt.Errorf("%w: table does not belong to room", ErrValidation)
	ErrInvalidActor     = fmt.Errorf("%w: actor is required", ErrValidation)
	ErrEmptyOrderIDs    = fmt.Errorf("%w: order ids are required", ErrValidation)
	ErrEmptyItems       = fmt.Errorf("%w: items are required", ErrValidation)
	ErrInvalidTableSpec = fmt.Errorf("%w: table_number must be > 0", ErrValidation)
	ErrEmptyName        = fmt.Errorf("%w: name is required", ErrValidation)
	ErrTableNumberTaken = fmt.Errorf("%w: table number already in use", ErrValidation)
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrValidation, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrAlreadyFinalized, KindAlreadyFinalized},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrTableOccupied, KindTableOccupied},
	{ErrNoChange, KindNoChange},
	{ErrAuditWriteFailed, KindAuditWriteFailed},
	{ErrStoreUnavailable, KindStoreUnavailable},
}

// KindOf classifies err. Anything unrecognised came from infrastructure and
// is reported as STORE_UNAVAILABLE. A nil error has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindStoreUnavailable
}

// storeErr marks a failed store call so KindOf reports it as unavailable
// while keeping the driver error in the chain.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
