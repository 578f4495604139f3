package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// PartyList is a named, ordered collection of contacts. No two members
// share a handle, and insertion order determines send order.
type PartyList struct {
	Name    string
	Members []Contact
}

func NewPartyList(name string) *PartyList {
	return &PartyList{Name: name}
}

// AddMembers appends candidates in the order given, silently dropping any
// whose handle is already present. It returns the contacts actually added,
// so callers can report them. Duplicate handles within the candidates
// themselves are also collapsed to the first occurrence.
func (l *PartyList) AddMembers(candidates ...Contact) []Contact {
	var added []Contact
	for _, c := range candidates {
		if l.Contains(c.Handle) {
			continue
		}
		l.Members = append(l.Members, c)
		added = append(added, c)
	}
	return added
}

// Contains reports whether a member with the given handle is present.
func (l *PartyList) Contains(handle string) bool {
	return lo.ContainsBy(l.Members, func(m Contact) bool {
		return m.Handle == handle
	})
}

// RemoveAt removes and returns the member at the 1-based position i.
func (l *PartyList) RemoveAt(i int) (Contact, error) {
	if i < 1 || i > len(l.Members) {
		return Contact{}, fmt.Errorf("no member at position %d", i)
	}
	removed := l.Members[i-1]
	l.Members = append(l.Members[:i-1], l.Members[i:]...)
	return removed, nil
}

func (l *PartyList) Len() int {
	return len(l.Members)
}
