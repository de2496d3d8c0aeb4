// Package ocr wraps the optical character recognition engine behind a small
// interface. The engine is an external collaborator: the rest of the system
// only ever sees raw multi-line text.
package ocr

import "context"

// Engine converts a receipt image into raw text.
//
// Implementations are not required to be safe for concurrent use; callers
// must serialize access (see the recognize package).
type Engine interface {
	// Recognize reads the image at path and returns the recognized text,
	// newline-separated.
	Recognize(ctx context.Context, path string) (string, error)

	// Close releases engine resources.
	Close() error
}
