package nvm

import "log/slog"

// Options controls what Finalize does after checking the stored signature.
type Options struct {
	// StoreIfInvalid writes all items and the signature when the stored
	// signature does not match the layout.
	StoreIfInvalid bool
	// StoreAlways writes all items regardless of the stored signature.
	StoreAlways bool
	// WipeUnusedAreas sets every byte after the signature to 0xFF after a
	// store. Bytes already at 0xFF are not rewritten.
	WipeUnusedAreas bool
	// RetrieveIfValid loads all items from the store when the signature
	// matches and no store was requested.
	RetrieveIfValid bool
}

// DefaultOptions returns the usual start-up behaviour: keep stored values
// when they are valid, write defaults otherwise.
func DefaultOptions() Options {
	return Options{
		StoreIfInvalid:  true,
		RetrieveIfValid: true,
	}
}

// Config holds Manager dependencies.
type Config struct {
	// Logger receives diagnostics. Default: the process-wide logger.
	Logger *slog.Logger
}
