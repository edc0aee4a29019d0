// Package item holds the in-memory model for SimpleDB-style items
// (attribute name → set of string values), the put/delete action records
// exchanged between the session engine and the journal, and the pure
// simulation of those actions on an item.
package item

// Item maps attribute names to value sets. An attribute bound to an
// empty set is equivalent to an absent attribute.
type Item map[string]*ValueSet

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := make(Item, len(it))
	for name, values := range it {
		out[name] = values.Clone()
	}
	return out
}

// Equal reports whether both items hold the same attributes with the
// same value sets. Attributes bound to empty sets are treated as absent.
func (it Item) Equal(other Item) bool {
	for name, values := range it {
		if values.Len() == 0 {
			continue
		}
		if !values.Equal(other[name]) {
			return false
		}
	}
	for name, values := range other {
		if values.Len() == 0 {
			continue
		}
		if it[name].Len() == 0 {
			return false
		}
	}
	return true
}
