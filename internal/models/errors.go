package models

import "errors"

var (
	// ErrStorageUnavailable indicates the fact graph store could not be
	// reached or a query against it failed. Fatal to the current run;
	// never partially applied.
	ErrStorageUnavailable = errors.New("fact graph storage unavailable")

	// ErrMissingCredential indicates a required external credential is
	// not configured. Surfaced to the caller instead of being degraded.
	ErrMissingCredential = errors.New("required provider credential is not configured")
)
