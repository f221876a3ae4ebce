package monitor

import "errors"

// Sentinel errors for the monitoring service.
var (
	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("monitor: service already started")

	// ErrFetchFailed indicates the readings source returned an error.
	ErrFetchFailed = errors.New("monitor: fetching readings failed")
)
