package csvsource

import "errors"

// Sentinel kinds for data source errors.
var (
	// ErrDataSource means the file could not be opened, read or decoded.
	// Callers surface it as a failed request.
	ErrDataSource = errors.New("data source error")
	// ErrRowSkipped marks a single malformed row. It never aborts a read.
	ErrRowSkipped = errors.New("row skipped")
)
