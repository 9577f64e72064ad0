package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const PrefixObject = "obj"

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewObjectID() string { return New(PrefixObject) }

// Validate reports whether id is a well-formed typeid carrying expectedPrefix.
// Ids read from older project files are plain numbers and never pass; callers
// only validate ids they minted themselves.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
