// Package source fetches the address book from the macOS Contacts app.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"party-planner/domain"
	apperrors "party-planner/errors"
)

// jxaDirectory dumps every contact with at least one phone number as
// "name|phone" lines. JavaScript for Automation is used instead of plain
// AppleScript because enumerating a large address book is much faster.
const jxaDirectory = `
const app = Application("Contacts");
const people = app.people();
const results = [];
for (let i = 0; i < people.length; i++) {
    try {
        const p = people[i];
        const name = p.name();
        const phones = p.phones();
        if (phones.length > 0) {
            results.push(name + "|" + phones[0].value());
        }
    } catch (e) {}
}
results.join("\n");
`

// MacContacts reads the host address book through osascript. Fetching can
// take a while on big directories and fails when the Contacts permission
// is denied, which surfaces as ErrSourceUnavailable.
type MacContacts struct {
	log     *slog.Logger
	timeout time.Duration
}

func NewMacContacts(log *slog.Logger, timeout time.Duration) *MacContacts {
	return &MacContacts{log: log, timeout: timeout}
}

func (m *MacContacts) Fetch(ctx context.Context) ([]domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.log.Debug("fetching contacts from the Contacts app")
	cmd := exec.CommandContext(ctx, "osascript", "-l", "JavaScript", "-e", jxaDirectory)
	out, err := cmd.Output()
	if err != nil {
		detail := err.Error()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSourceUnavailable, detail)
	}

	contacts := ParseDirectory(string(out))
	m.log.Debug("contacts fetched", "count", len(contacts))
	return contacts, nil
}

// ParseDirectory decodes the "name|phone" lines produced by the JXA dump.
// Lines without a separator are ignored; only the first separator counts,
// so names containing '|' would truncate rather than corrupt the handle.
func ParseDirectory(out string) []domain.Contact {
	var contacts []domain.Contact
	for _, line := range strings.Split(out, "\n") {
		name, phone, found := strings.Cut(line, "|")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		phone = strings.TrimSpace(phone)
		if name == "" || phone == "" {
			continue
		}
		contacts = append(contacts, domain.Contact{Name: name, Handle: phone})
	}
	return contacts
}
