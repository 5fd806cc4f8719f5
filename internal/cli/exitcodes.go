package cli

// Exit codes for mdtree.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitUndefinedRefs indicates the parse completed but found
	// undefined references (with --check-refs).
	ExitUndefinedRefs = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)
