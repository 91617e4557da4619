// Package catalog owns the list of properties offered by /properties.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed houses.yaml
var defaultHouses []byte

var ErrUnknownProperty = errors.New("unknown property")

// House is one property.
type House struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Catalog is an ordered, read-only set of houses.
type Catalog struct {
	houses []House
	byID   map[string]House
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultHouses)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded houses.yaml: %v", err))
	}
	return c
}

// Parse reads a catalog document. Ids must be unique and non-empty.
func Parse(doc []byte) (*Catalog, error) {
	var raw struct {
		Houses []House `yaml:"houses"`
	}
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(raw.Houses...)
}

// New builds a catalog from houses, keeping their order.
func New(houses ...House) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]House, len(houses))}
	for i, h := range houses {
		if h.ID == "" || h.Name == "" {
			return nil, fmt.Errorf("house %d: id and name are required", i)
		}
		if _, dup := c.byID[h.ID]; dup {
			return nil, fmt.Errorf("house %d: duplicate id %q", i, h.ID)
		}
		c.byID[h.ID] = h
		c.houses = append(c.houses, h)
	}
	return c, nil
}

// Houses returns the houses in catalog order.
func (c *Catalog) Houses() []House {
	return append([]House(nil), c.houses...)
}

// Lookup finds a house by id.
func (c *Catalog) Lookup(id string) (House, error) {
	h, ok := c.byID[id]
	if !ok {
		return House{}, fmt.Errorf("%w: %s", ErrUnknownProperty, id)
	}
	return h, nil
}

// Len is the number of houses.
func (c *Catalog) Len() int { return len(c.houses) }
