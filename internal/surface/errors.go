package surface

import (
	"errors"
	"fmt"
)

var (
	// ErrSurfaceDisposed is returned (or, in strict mode, panicked) when a
	// disposed surface is used.
	ErrSurfaceDisposed = errors.New("surface already disposed")

	// ErrWrongSource is returned when a surface is given a source it cannot show.
	ErrWrongSource = errors.New("source does not match surface kind")

	// ErrNothingLoaded is returned when exporting before anything was loaded.
	ErrNothingLoaded = errors.New("surface has no content to export")

	// ErrPrintUnsupported is returned when the host cannot print itself.
	ErrPrintUnsupported = errors.New("host cannot export PDF")

	// ErrSlotOccupied is returned when mounting into a slot that holds a surface.
	ErrSlotOccupied = errors.New("host slot already has a mounted surface")
)

// ExportIOError reports a PDF that could not be written.
type ExportIOError struct {
	Path string
	Err  error
}

func (e *ExportIOError) Error() string {
	return fmt.Sprintf("export PDF to %s: %v", e.Path, e.Err)
}

func (e *ExportIOError) Unwrap() error {
	return e.Err
}
