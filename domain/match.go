package domain

import "strings"

// Search matches the query against contact display names, case-insensitively.
// Prefix matches rank ahead of interior substring matches; within each rank
// the snapshot order is preserved, so the numbered candidates a user picks
// from are deterministic. A blank query yields nothing rather than the whole
// directory.
func Search(query string, snapshot []Contact) []Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var prefix, interior []Contact
	for _, c := range snapshot {
		switch idx := strings.Index(strings.ToLower(c.Name), q); {
		case idx == 0:
			prefix = append(prefix, c)
		case idx > 0:
			interior = append(interior, c)
		}
	}
	return append(prefix, interior...)
}
