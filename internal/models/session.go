package models

// SessionID identifies an anonymous shopper's cart. It is passed explicitly into every
// cart and order operation.
type SessionID string

func (s SessionID) String() string {
	return string(s)
}

// Valid reports whether the identifier is usable as a cart key.
func (s SessionID) Valid() bool {
	return s != "" && len(s) <= 64
}
