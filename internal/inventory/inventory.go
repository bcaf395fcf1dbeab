// Package inventory reads and writes Sphinx object inventories
// (objects.inv), the index a Sphinx documentation build publishes of every
// documented object.
package inventory

import (
	"errors"
	"strings"
)

// Filename is the conventional name of an inventory file.
const Filename = "objects.inv"

var (
	ErrUnsupportedVersion = errors.New("unsupported inventory version")
	ErrMalformedLine      = errors.New("malformed inventory line")
	ErrMissingHeader      = errors.New("missing inventory header")
	ErrFetchStatus        = errors.New("unexpected status fetching inventory")
	ErrUnsupportedScheme  = errors.New("unsupported inventory location")
	ErrTooLarge           = errors.New("inventory too large")
)

// Inventory is a decoded objects.inv.
type Inventory struct {
	Project string
	Version string
	Objects []Object
}

// Object is one documented object.
type Object struct {
	Name        string
	Domain      string // e.g. "py"
	Role        string // e.g. "function"
	Priority    int
	URI         string // relative, "$" stands for Name
	DisplayName string // "-" when equal to Name
}

// Link returns the object URI with the "$" shorthand expanded.
func (o Object) Link() string {
	return strings.ReplaceAll(o.URI, "$", o.Name)
}

// Label returns the human readable name of the object.
func (o Object) Label() string {
	if o.DisplayName == "" || o.DisplayName == "-" {
		return o.Name
	}

	return o.DisplayName
}

// Type returns "domain:role".
func (o Object) Type() string {
	return o.Domain + ":" + o.Role
}
