package models

import (
	"sort"

	"github.com/facette/natsort"
)

const (
	SortCreated = "created"
	SortName    = "name"
)

const DefaultSortOrder = SortCreated

// IsValidSortOrder checks if a string is a valid list sort order
func IsValidSortOrder(order string) bool {
	switch order {
	case SortCreated, SortName:
		return true
	default:
		return false
	}
}

// SortPersons orders people in place. SortCreated keeps the order the API returned.
func SortPersons(people []Person, order string) {
	if order != SortName {
		return
	}
	sort.SliceStable(people, func(i, j int) bool {
		return natsort.Compare(people[i].DisplayName(), people[j].DisplayName())
	})
}

// ListState is the part of the list page kept between requests of one browser session.
// Per-row delete markers are not part of it; they only live while a request is in flight.
type ListState struct {
	SearchText string   `json:"search_text"`
	SortOrder  string   `json:"sort_order"`
	Loaded     bool     `json:"loaded"`
	Persons    []Person `json:"persons"`
	Error      string   `json:"error,omitempty"`
}

// WithoutPerson returns a copy of people with every entry for id removed.
func WithoutPerson(people []Person, id PersonID) []Person {
	kept := make([]Person, 0, len(people))
	for _, p := range people {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}

// Without drops id from the stored collection. A state that was never loaded has no
// collection to prune and is returned unchanged.
func (s ListState) Without(id PersonID) ListState {
	if !s.Loaded {
		return s
	}
	s.Persons = WithoutPerson(s.Persons, id)
	return s
}
