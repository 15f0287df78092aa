package hwpx

import (
	"errors"
	"fmt"
)

var (
	// ErrContainer reports an archive that cannot be opened or read.
	ErrContainer = errors.New("hwpx: container error")

	// ErrMissingAttribute reports a tbl or img element without a usable structural attribute.
	ErrMissingAttribute = errors.New("hwpx: missing attribute")

	// ErrNestedTextSpan reports a text span opened inside another one.
	ErrNestedTextSpan = errors.New("hwpx: nested text span")

	// ErrUnexpectedEvent reports markup inside a text span under strict reduction.
	ErrUnexpectedEvent = errors.New("hwpx: unexpected event")

	// ErrImageDecode reports image bytes the codec rejected.
	ErrImageDecode = errors.New("hwpx: image decode error")
)

// AttributeError describes a required attribute that was absent or unparseable.
type AttributeError struct {
	Element   string
	Attribute string
	Value     string // raw value; empty when the attribute is absent
	Present   bool
}

func (e *AttributeError) Error() string {
	if !e.Present {
		return fmt.Sprintf("%s: <%s> has no %s attribute", ErrMissingAttribute, e.Element, e.Attribute)
	}
	return fmt.Sprintf("%s: <%s> has invalid %s=%q", ErrMissingAttribute, e.Element, e.Attribute, e.Value)
}

func (e *AttributeError) Unwrap() error { return ErrMissingAttribute }

// containerError wraps err so that errors.Is(err, ErrContainer) holds.
func containerError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrContainer, op, err)
}
