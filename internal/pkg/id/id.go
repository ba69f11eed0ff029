// Package id owns the issue identifier format.
//
// Issue identifiers are the document store's generated keys: 24 hex
// characters (an ObjectID rendered as hex). Client-supplied identifiers
// are accepted as-is on create, but update and delete refuse anything
// that does not match the generated-key format before touching the store.
package id

import (
	"encoding/hex"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Length is the length of a generated issue identifier in hex characters
const Length = 24

// New generates a new issue identifier
func New() string {
	return primitive.NewObjectID().Hex()
}

// IsValid reports whether s matches the store's key format.
// It performs no I/O and is not an existence check.
func IsValid(s string) bool {
	if len(s) != Length {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
