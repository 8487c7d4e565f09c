// Package naming derives storage identifiers from user-facing names.
//
// Category names become product collection names and tenant identities become
// database names. Both admin and storefront code paths must go through this
// package so that the same category always lands in the same collection.
package naming

import (
	"strings"
	"unicode"

	"basket-backend/pkg/errs"
)

// reserved are the shared collections living next to the product collections
// in the catalog database.
var reserved = map[string]bool{
	"categories": true,
	"banners":    true,
	"users":      true,
	"favorites":  true,
}

// CollectionName lower-cases raw and removes every whitespace character.
// Any other character is kept as is.
func CollectionName(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, raw)
}

// TenantDatabaseName returns the database name owned by a user. The username
// is used verbatim.
func TenantDatabaseName(username, phone string) string {
	return username + "_" + phone
}

// ValidateCollectionName rejects identifiers that cannot safely be used as a
// product collection.
func ValidateCollectionName(id string) error {
	switch {
	case id == "":
		return errs.ErrInvalidIdentifier
	case strings.HasPrefix(id, "system."):
		return errs.ErrInvalidIdentifier
	case strings.ContainsAny(id, "$\x00"):
		return errs.ErrInvalidIdentifier
	case reserved[id]:
		return errs.ErrInvalidIdentifier
	}
	return nil
}

// IsReservedCollection reports whether name belongs to the catalog itself
// rather than to a category.
func IsReservedCollection(name string) bool {
	return reserved[name] || strings.HasPrefix(name, "system.")
}
