// Package customid encodes message component ids as "action_reference".
//
// The action names what the click does and selects the handler; the
// reference points at the state or catalog entry the click is about.
package customid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Delimiter = "_"
	// MaxLength is Discord's limit for a component custom_id.
	MaxLength = 100
)

var ErrMalformed = errors.New("malformed component id")

// ID is a parsed component id.
type ID struct {
	Action    string
	Reference string
}

// New builds an ID. Use Validate before sending it to Discord.
func New(action, reference string) ID {
	return ID{Action: action, Reference: reference}
}

// String formats the id as action_reference.
func (id ID) String() string {
	return id.Action + Delimiter + id.Reference
}

// Validate checks that the id survives a Parse round trip and fits Discord's limit.
func (id ID) Validate() error {
	switch {
	case id.Action == "":
		return fmt.Errorf("%w: empty action", ErrMalformed)
	case strings.Contains(id.Action, Delimiter):
		return fmt.Errorf("%w: action %q contains %q", ErrMalformed, id.Action, Delimiter)
	case id.Reference == "":
		return fmt.Errorf("%w: empty reference", ErrMalformed)
	case len(id.String()) > MaxLength:
		return fmt.Errorf("%w: longer than %d characters", ErrMalformed, MaxLength)
	}
	return nil
}

// Parse splits s on the first delimiter. The reference may itself contain delimiters.
func Parse(s string) (ID, error) {
	action, reference, ok := strings.Cut(s, Delimiter)
	if !ok {
		return ID{}, fmt.Errorf("%w: %q has no %q", ErrMalformed, s, Delimiter)
	}
	id := ID{Action: action, Reference: reference}
	if err := id.Validate(); err != nil {
		return ID{}, err
	}
	return id, nil
}
