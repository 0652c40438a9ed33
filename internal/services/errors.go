package services

import "errors"

// Report service errors
var (
	// errEvicted is returned when an upload leaves the memo while in use
	errEvicted = errors.New("upload evicted from cache")

	ErrWrongUploadKind = errors.New("upload is of another kind")
	ErrEmptyUpload     = errors.New("empty upload")
	ErrUnknownMetric   = errors.New("unknown metric")
)
