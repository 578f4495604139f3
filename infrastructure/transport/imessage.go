// Package transport delivers messages through the macOS Messages app.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	apperrors "party-planner/errors"
)

const sendScript = `
tell application "Messages"
    set targetService to 1st account whose service type = iMessage
    set targetBuddy to participant "%s" of targetService
    send "%s" to targetBuddy
end tell
`

// IMessage sends one text to one handle via osascript. Delivery is fire
// and forget: a nil return only means the Messages app accepted the send.
type IMessage struct {
	log     *slog.Logger
	timeout time.Duration
}

func NewIMessage(log *slog.Logger, timeout time.Duration) *IMessage {
	return &IMessage{log: log, timeout: timeout}
}

func (t *IMessage) Send(ctx context.Context, handle, text string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	script := fmt.Sprintf(sendScript, EscapeAppleScript(handle), EscapeAppleScript(text))
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%w: %s", apperrors.ErrTransportFailure, detail)
	}
	t.log.Debug("message handed to the Messages app", "handle", handle)
	return nil
}

// EscapeAppleScript makes a value safe inside a double-quoted AppleScript
// string literal. Backslashes must be doubled before quotes are escaped.
func EscapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
