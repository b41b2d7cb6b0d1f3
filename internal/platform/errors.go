package platform

import (
	"errors"
)

var (
	// ErrSyncInProgress is an error returned when sync can't be started because previous run is not finished yet.
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrNotFound is returned by storage when requested record does not exist.
	ErrNotFound = errors.New("record not found")
)
