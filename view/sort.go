package view

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/s0up4200/filmdesk/sakila"
)

// SortKey is a sortable customer column
type SortKey string

const (
	SortByID     SortKey = "id"
	SortByName   SortKey = "name"
	SortByEmail  SortKey = "email"
	SortByStatus SortKey = "status"
)

// SortDirection is the direction of a sorted column
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// SortState is the column and direction the customer table is sorted by.
// The zero value keeps server order.
type SortState struct {
	Key       SortKey
	Direction SortDirection
}

// ParseSortKey validates a column name
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByID, SortByName, SortByEmail, SortByStatus:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort column %q (want id, name, email or status)", s)
	}
}

// Toggle returns the state after the header of key is clicked. The same
// column cycles asc, desc, none; another column starts at asc.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key != key || s.Direction == SortNone {
		return SortState{Key: key, Direction: SortAsc}
	}
	if s.Direction == SortAsc {
		return SortState{Key: key, Direction: SortDesc}
	}
	return SortState{}
}

func customerLess(key SortKey) func(a, b *sakila.Customer) bool {
	switch key {
	case SortByName:
		return func(a, b *sakila.Customer) bool {
			return strings.ToLower(a.FullName()) < strings.ToLower(b.FullName())
		}
	case SortByEmail:
		return func(a, b *sakila.Customer) bool {
			return strings.ToLower(a.Email) < strings.ToLower(b.Email)
		}
	case SortByStatus:
		return func(a, b *sakila.Customer) bool {
			return !bool(a.Active) && bool(b.Active)
		}
	default:
		return func(a, b *sakila.Customer) bool {
			return a.ID < b.ID
		}
	}
}

// SortCustomers returns a sorted copy of rows. Ascending order is stable and
// descending order is its exact reverse.
func SortCustomers(rows []sakila.Customer, s SortState) []sakila.Customer {
	out := slices.Clone(rows)
	if s.Direction == SortNone || s.Key == "" {
		return out
	}

	less := customerLess(s.Key)
	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	if s.Direction == SortDesc {
		slices.Reverse(out)
	}
	return out
}
