package item

// SimulatePut applies a put payload to an item the way SimpleDB would
// and returns the outcome. Neither input is mutated.
//
// For each attribute: replace assigns the payload's values; otherwise
// the payload's values union into the current set (absent reads as
// empty).
func SimulatePut(it Item, attrs PutAttrs) Item {
	out := it.Clone()
	for name, attr := range attrs {
		if attr.Replace {
			out[name] = attr.Values.Clone()
			continue
		}
		out[name] = out[name].Union(attr.Values)
	}
	return out
}

// SimulateDelete applies a delete payload to an item the way SimpleDB
// would and returns the outcome. Neither input is mutated.
//
// An empty payload deletes the whole item. An attribute bound to an
// empty set is removed entirely; an attribute bound to values has those
// values subtracted. Attributes left with no values are dropped, so the
// result never carries empty sets.
func SimulateDelete(it Item, attrs DeleteAttrs) Item {
	if len(attrs) == 0 {
		return Item{}
	}

	out := make(Item, len(it))
	for name, values := range it {
		toDelete, mentioned := attrs[name]
		if mentioned && toDelete.Len() == 0 {
			continue // whole-attribute delete
		}
		remaining := values.Difference(toDelete)
		if remaining.Len() == 0 {
			continue
		}
		out[name] = remaining
	}
	return out
}

// Simulate dispatches an action to SimulatePut or SimulateDelete.
func Simulate(it Item, act Action) Item {
	switch act.Kind {
	case KindPut:
		return SimulatePut(it, act.Put)
	case KindDelete:
		return SimulateDelete(it, act.Delete)
	}
	return it.Clone()
}
