package service

import "errors"

// ErrTagNotFound is returned by Rank when the tag never appears in the data.
var ErrTagNotFound = errors.New("tag not found")
