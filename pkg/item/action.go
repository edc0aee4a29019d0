package item

import (
	"encoding/json"
	"fmt"
)

// PutAttr describes one attribute of a put: the values to write and
// whether they replace the attribute's current set or union into it.
type PutAttr struct {
	Values  *ValueSet `json:"values"`
	Replace bool      `json:"replace"`
}

// PutAttrs is the per-item payload of a put action.
type PutAttrs map[string]PutAttr

// DeleteAttrs is the per-item payload of a delete action. Three shapes:
//
//   - nil or empty map: delete the whole item;
//   - attribute → empty set: delete the attribute entirely;
//   - attribute → values: delete those specific values.
type DeleteAttrs map[string]*ValueSet

// Clone returns a deep copy of the put payload.
func (p PutAttrs) Clone() PutAttrs {
	out := make(PutAttrs, len(p))
	for name, attr := range p {
		out[name] = PutAttr{Values: attr.Values.Clone(), Replace: attr.Replace}
	}
	return out
}

// Clone returns a deep copy of the delete payload.
func (d DeleteAttrs) Clone() DeleteAttrs {
	out := make(DeleteAttrs, len(d))
	for name, values := range d {
		out[name] = values.Clone()
	}
	return out
}

// Kind discriminates the action variants.
type Kind string

const (
	KindPut    Kind = "put"
	KindDelete Kind = "delete"
)

// Action is the unit of the journal: a put or a delete performed on one
// item, exactly one of Put/Delete populated according to Kind.
type Action struct {
	Kind   Kind
	Put    PutAttrs
	Delete DeleteAttrs
}

// PutAction wraps a put payload as an Action.
func PutAction(attrs PutAttrs) Action { return Action{Kind: KindPut, Put: attrs} }

// DeleteAction wraps a delete payload as an Action.
func DeleteAction(attrs DeleteAttrs) Action { return Action{Kind: KindDelete, Delete: attrs} }

// actionDoc is the serialized journal form. The envelope is
// self-describing so stale entries from an older build decode or fail
// cleanly rather than corrupting a replay.
type actionDoc struct {
	Action     Kind            `json:"action"`
	Attributes json.RawMessage `json:"attributes"`
}

// MarshalJSON encodes the action as {"action": ..., "attributes": ...}.
func (a Action) MarshalJSON() ([]byte, error) {
	var (
		attrs []byte
		err   error
	)
	switch a.Kind {
	case KindPut:
		attrs, err = json.Marshal(a.Put)
	case KindDelete:
		attrs, err = json.Marshal(a.Delete)
	default:
		return nil, fmt.Errorf("unknown action kind %q", a.Kind)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(actionDoc{Action: a.Kind, Attributes: attrs})
}

// UnmarshalJSON decodes the journal form back into an Action.
func (a *Action) UnmarshalJSON(data []byte) error {
	var doc actionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	switch doc.Action {
	case KindPut:
		var attrs PutAttrs
		if len(doc.Attributes) > 0 {
			if err := json.Unmarshal(doc.Attributes, &attrs); err != nil {
				return err
			}
		}
		*a = PutAction(attrs)
	case KindDelete:
		var attrs DeleteAttrs
		if len(doc.Attributes) > 0 {
			if err := json.Unmarshal(doc.Attributes, &attrs); err != nil {
				return err
			}
		}
		*a = DeleteAction(attrs)
	default:
		return fmt.Errorf("unknown action kind %q", doc.Action)
	}
	return nil
}
