// Package domain holds identifier types shared across features.
//
// IDs are distinct named types so the compiler rejects mixing a browsing
// session with an order. Construct them via the Parse functions at trust
// boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "botilleria/pkg/domain-errors"
)

// SessionID identifies one browsing session. Age verification records are
// scoped to it.
type SessionID uuid.UUID

// OrderID identifies one checkout attempt.
type OrderID uuid.UUID

// ProductID identifies a catalog product. The catalog owns the format; here
// it is an opaque non-empty string.
type ProductID string

// NewSessionID generates a fresh session identifier.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// NewOrderID generates a fresh order identifier.
func NewOrderID() OrderID { return OrderID(uuid.New()) }

// ParseSessionID constructs a SessionID from external input.
// Errors: CodeInvalidInput when empty, malformed, or the nil UUID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session id")
	if err != nil {
		return SessionID{}, err
	}
	return SessionID(u), nil
}

// ParseOrderID constructs an OrderID from external input.
// Errors: CodeInvalidInput when empty, malformed, or the nil UUID.
func ParseOrderID(s string) (OrderID, error) {
	u, err := parseUUID(s, "order id")
	if err != nil {
		return OrderID{}, err
	}
	return OrderID(u), nil
}

// ParseProductID constructs a ProductID from external input.
// Errors: CodeInvalidInput when empty.
func ParseProductID(s string) (ProductID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "product id cannot be empty")
	}
	return ProductID(s), nil
}

func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id SessionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id OrderID) String() string { return uuid.UUID(id).String() }
func (id OrderID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ProductID) String() string { return string(id) }

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", what)
	}
	return u, nil
}
