package session

import (
	"context"
	"fmt"
	"strings"

	"party-planner/contract"
	"party-planner/domain"
	"party-planner/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Outcome is the final status of one member within a send session.
type Outcome int

const (
	NotReached Outcome = iota
	Sent
	Skipped
	// Failed marks a confirmed member whose transport call did not
	// deliver. The session still advances; only quit aborts it.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Sent:
		return "sent"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "not-reached"
	}
}

// Summary aggregates outcomes once the session ends.
type Summary struct {
	Sent       int
	Skipped    int
	Failed     int
	NotReached int
}

// SendSession walks a party list in order, one member at a time. The cursor
// only moves forward; a member confirmed or skipped is never revisited, and
// quitting aborts the whole session. Sessions are transient: nothing here is
// persisted, and a new session always starts at the first member.
type SendSession struct {
	ID       uuid.UUID
	list     domain.PartyList
	template domain.Template
	cursor   int
	override string
	outcomes map[string]Outcome
	aborted  bool
}

func NewSendSession(list domain.PartyList, template domain.Template) *SendSession {
	outcomes := make(map[string]Outcome, list.Len())
	for _, m := range list.Members {
		outcomes[m.Handle] = NotReached
	}
	return &SendSession{
		ID:       uuid.New(),
		list:     list,
		template: template,
		outcomes: outcomes,
	}
}

// Active reports whether a member is still waiting for a decision.
func (s *SendSession) Active() bool {
	return !s.aborted && s.cursor < s.list.Len()
}

// Position returns the 1-based cursor and the list size.
func (s *SendSession) Position() (int, int) {
	return s.cursor + 1, s.list.Len()
}

// Current returns the member under the cursor. Only valid while Active.
func (s *SendSession) Current() domain.Contact {
	return s.list.Members[s.cursor]
}

// Message is the text that would be sent to the current member: the
// rendered template, unless an override was typed for this member.
func (s *SendSession) Message() string {
	if s.override != "" {
		return s.override
	}
	return s.template.Render(s.Current())
}

// Override replaces the message for the current member only. A blank text
// keeps the present message.
func (s *SendSession) Override(text string) {
	if t := strings.TrimSpace(text); t != "" {
		s.override = t
	}
}

// Confirm delivers the current message through the transport and advances.
// A transport failure marks the member failed and is returned for
// reporting, but the session moves on to the next member.
func (s *SendSession) Confirm(ctx context.Context, transport contract.Transport) error {
	contact := s.Current()
	err := transport.Send(ctx, contact.Handle, s.Message())
	if err != nil {
		s.outcomes[contact.Handle] = Failed
		s.advance()
		return fmt.Errorf("%w: %s: %v", errors.ErrTransportFailure, contact.Name, err)
	}
	s.outcomes[contact.Handle] = Sent
	s.advance()
	return nil
}

// Skip advances past the current member without a transport call.
func (s *SendSession) Skip() {
	s.outcomes[s.Current().Handle] = Skipped
	s.advance()
}

// Quit aborts the session; every remaining member stays not-reached.
func (s *SendSession) Quit() {
	s.aborted = true
}

func (s *SendSession) advance() {
	s.override = ""
	s.cursor++
}

func (s *SendSession) Outcome(handle string) Outcome {
	return s.outcomes[handle]
}

func (s *SendSession) Summary() Summary {
	counts := lo.CountValues(lo.Values(s.outcomes))
	return Summary{
		Sent:       counts[Sent],
		Skipped:    counts[Skipped],
		Failed:     counts[Failed],
		NotReached: counts[NotReached],
	}
}
