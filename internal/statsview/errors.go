package statsview

import (
	"errors"
	"fmt"

	"github.com/ramonehamilton/deckstats/internal/surface"
)

var (
	// ErrInvalidTransition is returned for operations the current view kind
	// does not allow, such as changing deck while a single card is shown.
	ErrInvalidTransition = errors.New("invalid view transition")

	// ErrExportUnsupported is returned when no legacy surface is mounted.
	ErrExportUnsupported = errors.New("export requires the legacy view")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("stats view closed")

	// ErrNotInitialized is returned by operations before Initialize.
	ErrNotInitialized = errors.New("stats view not initialized")

	// ErrAlreadyInitialized is returned by a second Initialize.
	ErrAlreadyInitialized = errors.New("stats view already initialized")

	// ErrSurfaceDisposed is returned by surfaces used after disposal.
	ErrSurfaceDisposed = surface.ErrSurfaceDisposed
)

// ExportIOError reports a PDF that could not be written.
type ExportIOError = surface.ExportIOError

// PersistenceError reports that the current deck could not be saved. The
// selection has been reverted.
type PersistenceError struct {
	Message string
	DeckID  int64
	Err     error
}

func newPersistenceError(deckID int64, err error) *PersistenceError {
	return &PersistenceError{
		Message: fmt.Sprintf("Could not switch to deck %d", deckID),
		DeckID:  deckID,
		Err:     err,
	}
}

func (e *PersistenceError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ReportGenerationError reports that a report could not be built. The
// previously shown view stays.
type ReportGenerationError struct {
	Message string
	CardID  int64 // Zero for aggregate reports
	Err     error
}

func newReportError(cardID int64, err error) *ReportGenerationError {
	msg := "Could not build the statistics report"
	if cardID != 0 {
		msg = fmt.Sprintf("Could not build the report for card %d", cardID)
	}
	return &ReportGenerationError{Message: msg, CardID: cardID, Err: err}
}

func (e *ReportGenerationError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *ReportGenerationError) Unwrap() error {
	return e.Err
}
