// Package catalog holds the fabrication price list: each design offers a
// fixed set of variants, and each variant has a per-unit rate.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownDesign  = errors.New("unknown design selection")
	ErrUnknownVariant = errors.New("variant not offered for design")
)

type Variant struct {
	Name string `json:"name"`
	Rate int    `json:"rate"`
}

type Design struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Variants []Variant `json:"variants"`
}

var designs = []Design{
	{Key: "regular-design", Variants: []Variant{
		{"2 shutters 5x7", 380},
		{"3 shutters 5x7", 410},
		{"3 shutters 6x7", 390},
		{"4 shutters 7x7", 390},
		{"4 shutters 8x7", 390},
	}},
	{Key: "vertical-horizontal", Variants: []Variant{
		{"2 shutters 5x7", 380},
		{"3 shutters 5x7", 420},
		{"3 shutters 6x7", 410},
		{"4 shutters 7x7", 410},
		{"4 shutters 8x7", 410},
	}},
	{Key: "square-tube-design-with-centre-plate", Variants: []Variant{
		{"2 shutters 5x7", 380},
		{"3 shutters 5x7", 420},
		{"3 shutters 6x7", 410},
		{"4 shutters 7x7", 410},
		{"4 shutters 8x7", 410},
	}},
	{Key: "square-tube-design-without-centre-plate", Variants: []Variant{
		{"2 shutters 5x7", 390},
		{"3 shutters 5x7", 430},
		{"3 shutters 6x7", 420},
		{"4 shutters 7x7", 420},
		{"4 shutters 8x7", 420},
	}},
	{Key: "safety-door", Variants: []Variant{
		{"Single shutter 2.5x7", 400},
		{"Single shutter 3x7", 400},
		{"2 shutters 4x7", 380},
	}},
	{Key: "openable-window", Variants: []Variant{
		{"Openable window", 450},
	}},
}

// Designs returns the price list in display order.
func Designs() []Design {
	out := make([]Design, len(designs))
	for i, d := range designs {
		d.Label = Label(d.Key)
		d.Variants = append([]Variant(nil), d.Variants...)
		out[i] = d
	}
	return out
}

func Lookup(design string) (Design, bool) {
	for _, d := range designs {
		if d.Key == design {
			return d, true
		}
	}
	return Design{}, false
}

// Rate is the only source of a measurement's design rate.
func Rate(design, variant string) (int, error) {
	d, ok := Lookup(design)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDesign, design)
	}
	for _, v := range d.Variants {
		if v.Name == variant {
			return v.Rate, nil
		}
	}
	return 0, fmt.Errorf("%w: %q for %q", ErrUnknownVariant, variant, design)
}

// Label turns a dashed key into a sentence-case label:
// "regular-design" becomes "Regular design".
func Label(key string) string {
	s := strings.Join(strings.Split(key, "-"), " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
