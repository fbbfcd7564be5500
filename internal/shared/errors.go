package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Validation errors
	ErrMissingField = fmt.Errorf("missing required field")

	// Catalog errors
	ErrDuplicateKey = fmt.Errorf("track already exists")
	ErrNotFound     = fmt.Errorf("track not found")

	// Search errors
	ErrEmptyQuery     = fmt.Errorf("empty search query")
	ErrInvalidPattern = fmt.Errorf("invalid pattern")

	// Import/export errors
	ErrEmptyInput        = fmt.Errorf("input is empty")
	ErrParse             = fmt.Errorf("failed to parse input")
	ErrUnsupportedFormat = fmt.Errorf("unsupported file format")

	// Storage errors
	ErrIO           = fmt.Errorf("storage I/O failed")
	ErrNoMigrations = fmt.Errorf("no applied migrations")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
