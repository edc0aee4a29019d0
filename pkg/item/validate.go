package item

import (
	"fmt"
	"strings"
)

// ReservedAttrPrefix marks attribute names owned by the session layer.
// The engine writes `last_changed::<server_id>` markers under it; caller
// payloads and projections must never name such attributes.
const ReservedAttrPrefix = "last_changed::"

// MalformedActionError reports a caller payload that cannot be accepted.
// It is returned before any remote call is made.
type MalformedActionError struct {
	Attr   string
	Reason string
}

func (e *MalformedActionError) Error() string {
	if e.Attr == "" {
		return "malformed action: " + e.Reason
	}
	return fmt.Sprintf("malformed action: attribute %q: %s", e.Attr, e.Reason)
}

// Validate checks a put payload: at least one attribute, non-empty
// attribute names outside the reserved namespace, and at least one value
// per attribute (SimpleDB cannot store an attribute without values).
func (p PutAttrs) Validate() error {
	if len(p) == 0 {
		return &MalformedActionError{Reason: "put requires at least one attribute"}
	}
	for name, attr := range p {
		if err := validateAttrName(name); err != nil {
			return err
		}
		if attr.Values.Len() == 0 {
			return &MalformedActionError{Attr: name, Reason: "put requires at least one value"}
		}
	}
	return nil
}

// Validate checks a delete payload. An empty payload is a whole-item
// delete and is valid; named attributes must be non-empty and outside
// the reserved namespace.
func (d DeleteAttrs) Validate() error {
	for name := range d {
		if err := validateAttrName(name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProjection checks a get/select attribute projection.
func ValidateProjection(attrs []string) error {
	for _, name := range attrs {
		if err := validateAttrName(name); err != nil {
			return err
		}
	}
	return nil
}

func validateAttrName(name string) error {
	if name == "" {
		return &MalformedActionError{Reason: "empty attribute name"}
	}
	if strings.HasPrefix(name, ReservedAttrPrefix) {
		return &MalformedActionError{Attr: name, Reason: "reserved attribute namespace"}
	}
	return nil
}
