// Package contract defines the boundaries the planner core depends on.
// Implementations live under infrastructure; tests substitute fakes.
package contract

import (
	"context"

	"party-planner/domain"
)

// ContactSource returns the full current address-book snapshot. It has no
// incremental diff support; a fetch either yields everything or fails with
// errors.ErrSourceUnavailable.
type ContactSource interface {
	Fetch(ctx context.Context) ([]domain.Contact, error)
}

// Transport delivers one message to one handle, fire and forget. There is
// no delivery receipt beyond the returned error.
type Transport interface {
	Send(ctx context.Context, handle, text string) error
}
