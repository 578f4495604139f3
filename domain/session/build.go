// Package session holds the two interactive state machines: building a
// party list from directory searches, and walking it for sending. Both are
// driven by inputs fed from the caller, so tests can script entire runs
// without a terminal.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"party-planner/domain"
	"party-planner/errors"
)

type BuildState int

const (
	// Searching accepts a free-text query or one of the commands
	// list, sync, done.
	Searching BuildState = iota
	// Reviewing shows the last candidates and accepts a selection:
	// 1-based indices, "all", or an empty line to search again.
	Reviewing
	// Done is terminal; the caller persists the list.
	Done
)

// RefreshFunc replaces the cached snapshot from the contact source and
// returns the new snapshot. On failure the session keeps the old one.
type RefreshFunc func() ([]domain.Contact, error)

// BuildReply tells the caller what to show after an input. The session
// itself never prints.
type BuildReply struct {
	Candidates  []domain.Contact // populated when entering Reviewing
	Added       []domain.Contact // members appended by the last selection
	Selected    int              // in-range candidates picked, before dedup
	OutOfRange  []int            // selection indices reported and ignored
	Members     []domain.Contact // populated by the list command
	ShowMembers bool
	Synced      bool
	Notice      string
}

// BuildSession grows a party list through repeated searches against the
// cached snapshot.
type BuildSession struct {
	snapshot []domain.Contact
	list     *domain.PartyList
	refresh  RefreshFunc
	hits     []domain.Contact
	state    BuildState
}

func NewBuildSession(snapshot []domain.Contact, list *domain.PartyList, refresh RefreshFunc) *BuildSession {
	return &BuildSession{snapshot: snapshot, list: list, refresh: refresh}
}

func (s *BuildSession) State() BuildState {
	return s.state
}

// Submit feeds one line of user input into the state machine. A returned
// error is always recoverable: the state is left unchanged and the caller
// re-prompts.
func (s *BuildSession) Submit(input string) (BuildReply, error) {
	in := strings.TrimSpace(input)
	switch s.state {
	case Reviewing:
		return s.review(in)
	case Done:
		return BuildReply{}, fmt.Errorf("build session already finished")
	default:
		return s.search(in)
	}
}

func (s *BuildSession) search(in string) (BuildReply, error) {
	switch strings.ToLower(in) {
	case "done":
		s.state = Done
		return BuildReply{}, nil
	case "list":
		return BuildReply{ShowMembers: true, Members: s.list.Members}, nil
	case "sync":
		snapshot, err := s.refresh()
		if err != nil {
			// Old snapshot stays active.
			return BuildReply{}, err
		}
		s.snapshot = snapshot
		return BuildReply{Synced: true}, nil
	case "":
		return BuildReply{}, nil
	}

	if isSelectionExpr(in) {
		return BuildReply{Notice: "enter a search term first, then select by number"}, nil
	}

	hits := domain.Search(in, s.snapshot)
	if len(hits) == 0 {
		return BuildReply{Notice: fmt.Sprintf("no contacts match %q", in)}, nil
	}
	s.hits = hits
	s.state = Reviewing
	return BuildReply{Candidates: hits}, nil
}

func (s *BuildSession) review(in string) (BuildReply, error) {
	if in == "" {
		s.state = Searching
		s.hits = nil
		return BuildReply{}, nil
	}

	var picked []domain.Contact
	var outOfRange []int
	switch strings.ToLower(in) {
	case "all", "a":
		picked = s.hits
	default:
		for _, part := range strings.Split(in, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return BuildReply{}, fmt.Errorf("%w: %q", errors.ErrInvalidSelection, part)
			}
			// Out-of-range indices are dropped individually, the
			// rest of the selection still applies.
			if n < 1 || n > len(s.hits) {
				outOfRange = append(outOfRange, n)
				continue
			}
			picked = append(picked, s.hits[n-1])
		}
		if len(picked) == 0 && len(outOfRange) == 0 {
			return BuildReply{}, errors.ErrInvalidSelection
		}
	}

	added := s.list.AddMembers(picked...)
	s.state = Searching
	s.hits = nil
	return BuildReply{Added: added, Selected: len(picked), OutOfRange: outOfRange}, nil
}

// isSelectionExpr reports whether the input looks like a numeric selection
// typed while no candidate list is on screen.
func isSelectionExpr(in string) bool {
	stripped := strings.NewReplacer(",", "", " ", "").Replace(in)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
