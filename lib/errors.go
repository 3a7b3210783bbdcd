package lib

import "errors"

var (
	// ErrConfigNotFound is returned when no config file can be found.
	ErrConfigNotFound = errors.New("config not found")
	// ErrInvalidLibrarySpec is returned for a missing `lib` list or an unsupported format/target.
	ErrInvalidLibrarySpec = errors.New("invalid library spec")
	// ErrEntryNotFound is returned when an entry glob matches no files.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidEntry is returned when an entry is neither a string nor an array of strings.
	ErrInvalidEntry = errors.New("entry can only be a string or array of strings")
	// ErrEntryCollision is returned when two source files map to the same entry name.
	ErrEntryCollision = errors.New("entry name collision")
)
