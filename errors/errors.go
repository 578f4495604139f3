package errors

import "fmt"

var (
	ErrSourceUnavailable = fmt.Errorf("contact source unavailable")
	ErrDuplicateList     = fmt.Errorf("a list with that name already exists")
	ErrListNotFound      = fmt.Errorf("list not found")
	ErrCorruptList       = fmt.Errorf("list file is corrupt")
	ErrTransportFailure  = fmt.Errorf("message transport failure")
	ErrInvalidSelection  = fmt.Errorf("invalid selection")
)
