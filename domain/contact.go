// Package domain contains the core concepts of the party planner:
// contacts, party lists, message templates and contact matching.
package domain

import "strings"

// Contact is one person from the host address book.
// Identity is the Handle (phone number or messaging ID), case-sensitive.
// Contacts are immutable once fetched from the source.
type Contact struct {
	Name   string
	Handle string
}

// FirstName returns the first whitespace-separated token of the display
// name. An empty or blank name yields "".
func (c Contact) FirstName() string {
	fields := strings.Fields(c.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
