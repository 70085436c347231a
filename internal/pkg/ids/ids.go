// Package ids generates record names: an entity prefix followed by a ULID,
// so names sort by creation time in both stores.
package ids

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	PrefixCustomer = "CUST"
	PrefixContact  = "CONT"
	PrefixAddress  = "ADDR"
	PrefixOrder    = "SO"
	PrefixLead     = "LEAD"
	PrefixToDo     = "TODO"
)

// New returns "<prefix>-<ulid>".
func New(prefix string) string {
	return prefix + "-" + ulid.Make().String()
}

// HasPrefix reports whether name was generated for prefix.
func HasPrefix(name, prefix string) bool {
	return strings.HasPrefix(name, prefix+"-")
}
