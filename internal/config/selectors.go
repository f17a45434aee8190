package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/navigator"
	"github.com/kuitang/screening-ui/internal/slots"
)

// Selectors is the CSS selector catalogue for the three widget kinds.
type Selectors struct {
	Flat         navigator.FlatSelectors         `toml:"flat"`
	Hierarchical navigator.HierarchicalSelectors `toml:"hierarchical"`
	Slots        slots.Selectors                 `toml:"slots"`
}

// DefaultSelectors matches the markup of the reference widgets.
func DefaultSelectors() Selectors {
	return Selectors{
		Flat: navigator.FlatSelectors{
			Header:    "#flat .header",
			PrevYear:  "#flat .prev-year",
			NextYear:  "#flat .next-year",
			PrevMonth: "#flat .prev-month",
			NextMonth: "#flat .next-month",
			Today:     "#flat .today",
			Days:      "#flat td.day",
		},
		Hierarchical: navigator.HierarchicalSelectors{
			Switch: "#hier .switch",
			Cells:  "#hier td.cell",
			Days:   "#hier td.day",
		},
		Slots: slots.Selectors{
			Header:    "#slots .month-title",
			PrevMonth: "#slots .prev",
			NextMonth: "#slots .next",
			Cells:     "#slots td.slot",
		},
	}
}

// LoadSelectors reads a TOML catalogue from path over the defaults. Keys the
// file omits keep their default value.
func LoadSelectors(path string) (Selectors, error) {
	sel := DefaultSelectors()
	data, err := os.ReadFile(path)
	if err != nil {
		return sel, errs.Wrap(errs.InvalidArgument, fmt.Sprintf("read selector file %s", path), err)
	}
	if err := ParseSelectors(data, &sel); err != nil {
		return sel, errs.Wrap(errs.InvalidArgument, fmt.Sprintf("parse selector file %s", path), err)
	}
	return sel, nil
}

// ParseSelectors decodes TOML into sel, rejecting unknown keys so a typo in
// a selector name cannot silently fall back to a default.
func ParseSelectors(data []byte, sel *Selectors) error {
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(sel)
}

// problems lists empty selectors.
func (s Selectors) problems() []string {
	var out []string
	check := func(name, v string) {
		if v == "" {
			out = append(out, fmt.Sprintf("selector %s must not be empty", name))
		}
	}
	check("flat.header", s.Flat.Header)
	check("flat.prev_year", s.Flat.PrevYear)
	check("flat.next_year", s.Flat.NextYear)
	check("flat.prev_month", s.Flat.PrevMonth)
	check("flat.next_month", s.Flat.NextMonth)
	check("flat.today", s.Flat.Today)
	check("flat.days", s.Flat.Days)
	check("hierarchical.switch", s.Hierarchical.Switch)
	check("hierarchical.cells", s.Hierarchical.Cells)
	check("hierarchical.days", s.Hierarchical.Days)
	check("slots.header", s.Slots.Header)
	check("slots.prev_month", s.Slots.PrevMonth)
	check("slots.next_month", s.Slots.NextMonth)
	check("slots.cells", s.Slots.Cells)
	return out
}
