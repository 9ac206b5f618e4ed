package models

import (
	"errors"
	"strings"
)

// CartEntry represents an item in a client's cart
type CartEntry struct {
	ItemID   int `bson:"item_id" json:"item_id"`
	Quantity int `bson:"quantity" json:"quantity"`
}

var (
	// ErrEntryNotFound is returned when a cart mutation targets an item id
	// that has no entry in the cart.
	ErrEntryNotFound = errors.New("cart entry not found")
	// ErrBadQuantity is returned when a quantity update is not positive.
	ErrBadQuantity = errors.New("quantity must be positive")
	// ErrStaleEntry is returned by Total under StaleReject when an entry
	// references an item that no longer exists.
	ErrStaleEntry = errors.New("cart entry references a deleted item")
)

// AddEntry increments the quantity of the entry matching itemID, or appends
// a new entry with quantity 1. Item ids stay unique within the sequence.
func AddEntry(entries []CartEntry, itemID int) []CartEntry {
	for i := range entries {
		if entries[i].ItemID == itemID {
			entries[i].Quantity++
			return entries
		}
	}
	return append(entries, CartEntry{ItemID: itemID, Quantity: 1})
}

// SetQuantity replaces the quantity of the entry matching itemID. Quantities
// must be positive and the entry must exist; on error no entry is mutated.
func SetQuantity(entries []CartEntry, itemID, quantity int) ([]CartEntry, error) {
	if quantity <= 0 {
		return nil, ErrBadQuantity
	}
	for i := range entries {
		if entries[i].ItemID == itemID {
			entries[i].Quantity = quantity
			return entries, nil
		}
	}
	return nil, ErrEntryNotFound
}

// RemoveEntry filters out the entry matching itemID. Removing an id that is
// not in the cart is a no-op.
func RemoveEntry(entries []CartEntry, itemID int) []CartEntry {
	filtered := make([]CartEntry, 0, len(entries))
	for _, e := range entries {
		if e.ItemID != itemID {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// StalePolicy decides what Total does with an entry whose item has been
// deleted since it was added to the cart.
type StalePolicy int

const (
	// StaleReject fails the computation with ErrStaleEntry.
	StaleReject StalePolicy = iota
	// StaleSkip leaves stale entries out of the sum.
	StaleSkip
	// StaleZero keeps stale entries but prices them at zero.
	StaleZero
)

// ParseStalePolicy maps a configuration string onto a policy, defaulting to
// StaleReject.
func ParseStalePolicy(s string) StalePolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skip":
		return StaleSkip
	case "zero":
		return StaleZero
	default:
		return StaleReject
	}
}

// Total sums quantity times current price across the cart. Each item is
// re-resolved through lookup at computation time, so price changes since
// add-to-cart are reflected. lookup reports whether the item still exists;
// stale entries are handled per the policy.
func Total(entries []CartEntry, lookup func(itemID int) (Item, bool, error), policy StalePolicy) (int, error) {
	total := 0
	for _, e := range entries {
		item, ok, err := lookup(e.ItemID)
		if err != nil {
			return 0, err
		}
		if !ok {
			if policy == StaleReject {
				return 0, ErrStaleEntry
			}
			// StaleSkip and StaleZero both contribute nothing to the sum.
			continue
		}
		total += e.Quantity * item.Price
	}
	return total, nil
}
