package domain

import "strings"

// DefaultTemplate is offered when the user does not want to type their own.
const DefaultTemplate Template = "Hey {name}! Party at my place Friday at 8, you in?"

// Template is a message with optional placeholder tokens. {name} and
// {first_name} substitute the contact's first name token, {phone} the
// handle. Rendering never fails: a template without tokens is returned
// unchanged, and every occurrence of a token is substituted.
type Template string

func (t Template) Render(c Contact) string {
	first := c.FirstName()
	return strings.NewReplacer(
		"{name}", first,
		"{first_name}", first,
		"{phone}", c.Handle,
	).Replace(string(t))
}
