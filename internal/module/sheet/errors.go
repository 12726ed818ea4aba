package sheet

import "errors"

// Module errors.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrTitleRequired    = errors.New("title is required")
	ErrSnapshotDisabled = errors.New("snapshot storage not configured")
)
