package surface

import (
	"fmt"

	"github.com/ramonehamilton/deckstats/internal/async"
)

// Legacy shows caller-built markup inside a standard document shell.
type Legacy struct {
	base
	printer  Printer
	document string
}

// NewLegacy creates an unmounted legacy surface. printer may be nil when the
// host prints its own content.
func NewLegacy(host Host, loop *async.Loop, parent *async.Token, printer Printer, opts Options) *Legacy {
	return &Legacy{
		base:    newBase(KindLegacy, host, loop, parent, opts),
		printer: printer,
	}
}

func (l *Legacy) Load(src Source) error {
	if err := l.check("load"); err != nil {
		return err
	}
	if src.IsPage() {
		return fmt.Errorf("legacy surface: %w", ErrWrongSource)
	}
	if l.showing(src) {
		return nil
	}

	doc := Document(src)
	if err := l.host.SetHTML(doc); err != nil {
		return fmt.Errorf("set legacy document: %w", err)
	}
	l.document = doc
	l.remember(src)
	return nil
}

// Document returns the full document currently shown.
func (l *Legacy) Document() string {
	return l.document
}

func (l *Legacy) ExportToPDF(path string) *async.Future[struct{}] {
	if err := l.check("exportToPdf"); err != nil {
		return async.Rejected[struct{}](l.loop, l.token, err)
	}
	if !l.loaded {
		return async.Rejected[struct{}](l.loop, l.token, ErrNothingLoaded)
	}
	if host, ok := l.host.(PDFHost); ok {
		return l.printViaHost(host, path)
	}
	if l.printer == nil {
		return async.Rejected[struct{}](l.loop, l.token, ErrPrintUnsupported)
	}

	doc := l.document
	printer := l.printer
	return async.Go(l.loop, l.token, func() (struct{}, error) {
		if err := printer.PrintHTML(doc, path); err != nil {
			return struct{}{}, &ExportIOError{Path: path, Err: err}
		}
		return struct{}{}, nil
	})
}
