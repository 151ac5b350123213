package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// SomethingWentWrong is returned when an unexpected error occurred.
	SomethingWentWrong = ErrorKind("Something went wrong")

	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when the caller supplied a malformed value.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unsupported is returned when a feature or setting is not supported.
	Unsupported = ErrorKind("Unsupported")

	// Unauthorized is returned when the caller could not prove who it acts for.
	Unauthorized = ErrorKind("Unauthorized")

	// Conflict is returned when a write collides with existing state.
	Conflict = ErrorKind("Conflict")

	// ConflictSetting is returned when persisted state disagrees with the configuration.
	ConflictSetting = ErrorKind("Conflict Setting")

	OverflowUint64  = ErrorKind("overflow uint64")
	OverflowUint128 = ErrorKind("overflow uint128")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
