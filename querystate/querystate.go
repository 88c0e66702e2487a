// Package querystate derives a bounded list-query descriptor from an
// untrusted URL parameter set and computes the parameter sets produced
// by filter, sort and pagination changes. Malformed or out-of-range
// input never raises; every parameter degrades to a known-good default
// so list views always operate on a valid descriptor.
package querystate

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	paramPage      = "page"
	paramPerPage   = "per_page"
	paramSortBy    = "sort_by"
	paramSortOrder = "sort_order"

	defaultSortBy  = "created_at"
	defaultPerPage = 10

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Schema describes one list view: which per-page sizes it accepts and
// which filter parameters it recognizes. Unknown parameters are ignored
// on read.
type Schema struct {
	PerPages []int
	Filters  []string
}

// Projects is the schema for the project list.
func Projects() Schema {
	return Schema{
		PerPages: []int{10, 25, 50},
		Filters:  []string{"search", "status"},
	}
}

// Tasks is the schema for the task list.
func Tasks() Schema {
	return Schema{
		PerPages: []int{10, 25, 50, 100},
		Filters:  []string{"search", "project_id", "status", "priority", "responsible", "deadline_from", "deadline_to"},
	}
}

// Descriptor is the canonical query state of one list view. It is
// rebuilt from the parameter source on every read and never mutated in
// place; mutation methods return a fresh descriptor.
type Descriptor struct {
	Page      int
	PerPage   int
	Filters   map[string]string
	SortBy    string
	SortOrder string
}

// Parse derives a descriptor from an external parameter set, applying
// the fallback rules per parameter:
//
//	page:       integer, >= 1; otherwise 1
//	per_page:   member of the schema's allowed set; otherwise 10
//	sort_by:    opaque string; "created_at" when absent
//	sort_order: "asc" (case-insensitive); anything else is "desc"
//	filters:    verbatim; absent or empty means not applied
func Parse(values url.Values, schema Schema) Descriptor {
	d := Descriptor{
		Page:      positiveIntOr(values.Get(paramPage), 1),
		PerPage:   memberOr(values.Get(paramPerPage), schema.PerPages, defaultPerPage),
		Filters:   map[string]string{},
		SortBy:    stringOr(values.Get(paramSortBy), defaultSortBy),
		SortOrder: orderOr(values.Get(paramSortOrder)),
	}
	for _, name := range schema.Filters {
		if v := values.Get(name); v != "" {
			d.Filters[name] = v
		}
	}
	return d
}

// SetFilter sets or, when value is empty, clears the named filter.
// Changing a filter always returns to the first page.
func (d Descriptor) SetFilter(name, value string) Descriptor {
	next := d.clone()
	if value == "" {
		delete(next.Filters, name)
	} else {
		next.Filters[name] = value
	}
	next.Page = 1
	return next
}

// SetSort selects the sort field and order and returns to the first page.
func (d Descriptor) SetSort(field, order string) Descriptor {
	next := d.clone()
	next.SortBy = field
	next.SortOrder = orderOr(order)
	next.Page = 1
	return next
}

// ToggleSort applies the sort-header click rule: the active field flips
// from ascending to descending, any other click selects the field
// ascending.
func (d Descriptor) ToggleSort(field string) Descriptor {
	order := OrderAsc
	if d.SortBy == field && d.SortOrder == OrderAsc {
		order = OrderDesc
	}
	return d.SetSort(field, order)
}

// SetPage moves to page n without touching any other parameter.
func (d Descriptor) SetPage(n int) Descriptor {
	next := d.clone()
	if n < 1 {
		n = 1
	}
	next.Page = n
	return next
}

// SetPerPage changes the page size and returns to the first page.
func (d Descriptor) SetPerPage(n int) Descriptor {
	next := d.clone()
	next.PerPage = n
	next.Page = 1
	return next
}

// Values encodes the descriptor as the next parameter set for the
// external sink. Page, size and sort are always written so a pushed URL
// round-trips through Parse to the same descriptor; filters are written
// only when applied.
func (d Descriptor) Values() url.Values {
	values := url.Values{}
	values.Set(paramPage, strconv.Itoa(d.Page))
	values.Set(paramPerPage, strconv.Itoa(d.PerPage))
	values.Set(paramSortBy, d.SortBy)
	values.Set(paramSortOrder, d.SortOrder)
	for name, v := range d.Filters {
		if v != "" {
			values.Set(name, v)
		}
	}
	return values
}

func (d Descriptor) clone() Descriptor {
	next := d
	next.Filters = make(map[string]string, len(d.Filters))
	for k, v := range d.Filters {
		next.Filters[k] = v
	}
	return next
}

// TotalPages returns ceil(total/perPage); zero when total is zero.
// Total comes from the API's response metadata.
func TotalPages(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Parse-or-default helpers. Each one is the single place its fallback
// rule lives.

func positiveIntOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func memberOr(raw string, allowed []int, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	for _, a := range allowed {
		if n == a {
			return n
		}
	}
	return fallback
}

func stringOr(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	return raw
}

func orderOr(raw string) string {
	if strings.ToLower(raw) == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}
