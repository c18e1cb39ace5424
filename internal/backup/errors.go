package backup

import "errors"

// Domain errors for the backup package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, backup.ErrMalformedBackup) {
//	    // surface "file is not a usable backup"
//	}
var (
	// ErrEmptyBackup is returned for empty or whitespace-only input.
	// The store is left untouched.
	ErrEmptyBackup = errors.New("backup: empty payload")

	// ErrMalformedBackup is returned when the payload is unparseable
	// after every repair attempt.
	ErrMalformedBackup = errors.New("backup: malformed payload")

	// ErrUnsupportedFormat is returned when the parsed payload has an
	// unexpected top-level shape.
	ErrUnsupportedFormat = errors.New("backup: unsupported format")

	// ErrRestoreFailed is returned when no key could be written during
	// the restore.
	ErrRestoreFailed = errors.New("backup: restore failed")
)
